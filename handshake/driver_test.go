package handshake

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/evolvablehardware/PUFFS/codec"
	"github.com/evolvablehardware/PUFFS/signal"
	"github.com/evolvablehardware/PUFFS/stimulus"
)

// script is a generator that replays a fixed sequence of presences and
// values and then produces nothing.
type script struct {
	steps []step
	calls int
}

type step struct {
	value   codec.Value
	present bool
}

func (s *script) Next(force bool) (codec.Value, bool) {
	s.calls++

	if len(s.steps) == 0 {
		return codec.Empty, force
	}

	st := s.steps[0]
	s.steps = s.steps[1:]

	return st.value, st.present || force
}

func values(vs ...int64) *script {
	s := &script{}
	for _, v := range vs {
		s.steps = append(s.steps, step{value: codec.IntValue(v), present: true})
	}

	return s
}

func readiness(bs ...bool) *script {
	s := &script{}
	for _, b := range bs {
		s.steps = append(s.steps, step{present: b})
	}

	return s
}

// tally is a Logger that keeps everything it is told.
type tally struct {
	infos  []string
	errors []string
}

func (t *tally) Info(msg string) {
	t.infos = append(t.infos, msg)
}

func (t *tally) Error(msg string) {
	t.errors = append(t.errors, msg)
}

func (t *tally) Check(cond bool, msg string) {
	if !cond {
		t.Error(msg)
	}
}

var _ = Describe("Source and Sink", func() {
	var (
		board *signal.Board
		valid *signal.Wire
		ready *signal.Wire
		data  *signal.Wire
		ch    *Channel
		log   *tally
	)

	BeforeEach(func() {
		board = signal.NewBoard()
		valid = board.Wire("Valid", 1)
		ready = board.Wire("Ready", 1)
		data = board.Wire("Data", 8)
		ch = MakeChannelBuilder().
			WithValid(valid).
			WithReady(ready).
			WithData(data).
			Build("A")
		log = &tally{}
	})

	It("should transfer one token per cycle when always ready", func() {
		src := NewSource(ch, values(1, 2, 3, 4, 5), log)
		snk := NewSink(ch, stimulus.NewDataless(stimulus.NewRand(1)), log)
		board.Edge()

		for i := 0; i < 5; i++ {
			src.Cycle()
			snk.Cycle()
			board.Edge()
		}

		Expect(ch.Tokens()).To(HaveLen(5))
		Expect(snk.Captured()).To(HaveLen(4))

		snk.Cycle()
		board.Edge()

		Expect(snk.Captured()).To(Equal([]codec.Value{
			codec.IntValue(1), codec.IntValue(2), codec.IntValue(3),
			codec.IntValue(4), codec.IntValue(5),
		}))
		Expect(ch.Pending()).To(Equal(0))
		Expect(log.errors).To(BeEmpty())
		Expect(log.infos).To(ContainElements("A!1", "A!5", "A?1", "A?5"))
	})

	It("should hold the offer while ready is deasserted", func() {
		src := NewSource(ch, values(10), log)
		snk := NewSink(ch, readiness(false, false, false, true, true, true), log)
		board.Edge()

		for i := 0; i < 4; i++ {
			src.Cycle()
			snk.Cycle()
			board.Edge()

			Expect(src.State()).To(Equal(SourceOffering))
			Expect(valid.BitString()).To(Equal("1"))
			Expect(data.BitString()).To(Equal("00001010"))
			Expect(snk.Captured()).To(BeEmpty())
		}

		Expect(ready.BitString()).To(Equal("1"))

		src.Cycle()
		snk.Cycle()
		board.Edge()

		Expect(src.State()).To(Equal(SourceIdle))
		Expect(valid.BitString()).To(Equal("0"))
		Expect(snk.Captured()).To(Equal([]codec.Value{codec.IntValue(10)}))

		src.Cycle()
		snk.Cycle()
		board.Edge()

		Expect(snk.Captured()).To(HaveLen(1))
		Expect(ch.Tokens()).To(HaveLen(1))
		Expect(log.errors).To(BeEmpty())
	})

	It("should not accept in the cycle after ready drops", func() {
		src := NewSource(ch, values(1, 2, 3), log)
		snk := NewSink(ch, readiness(true, false, true, true, true), log)
		board.Edge()

		captured := func() int {
			src.Cycle()
			snk.Cycle()
			board.Edge()

			return len(snk.Captured())
		}

		Expect(captured()).To(Equal(0))
		Expect(captured()).To(Equal(1))
		Expect(captured()).To(Equal(1))
		Expect(captured()).To(Equal(2))
		Expect(captured()).To(Equal(3))
		Expect(log.errors).To(BeEmpty())
	})

	It("should keep order under random stalls", func() {
		src := NewSource(ch,
			stimulus.NewRandomInt(stimulus.NewRand(11), 0, 256).WithRate(0.7), log)
		snk := NewSink(ch,
			stimulus.NewDataless(stimulus.NewRand(12)).WithRate(0.4), log)
		board.Edge()

		for i := 0; i < 500; i++ {
			src.Cycle()
			snk.Cycle()
			board.Edge()
		}

		captured := snk.Captured()
		Expect(len(captured)).To(BeNumerically(">", 50))
		Expect(ch.Tokens()[:len(captured)]).To(Equal(captured))
		Expect(ch.Pending()).To(BeNumerically("<=", 1))
		Expect(log.errors).To(BeEmpty())
	})

	It("should draw readiness once per cycle when precomputed", func() {
		gen := readiness(true, true, true)
		snk := NewSink(ch, gen, log)
		board.Edge()

		snk.PrecomputeReady()
		Expect(snk.Ready()).To(BeTrue())
		snk.Cycle()

		Expect(gen.calls).To(Equal(1))
	})

	It("should always be ready without a ready signal", func() {
		ch = MakeChannelBuilder().WithValid(valid).WithData(data).Build("B")
		gen := readiness(false)
		snk := NewSink(ch, gen, log)

		ch.Send(codec.IntValue(6))
		valid.Force("1")
		data.Force("00000110")

		snk.Cycle()

		Expect(snk.Captured()).To(Equal([]codec.Value{codec.IntValue(6)}))
		Expect(gen.calls).To(Equal(0))
		Expect(snk.Ready()).To(BeTrue())
	})

	It("should produce every cycle without a valid signal", func() {
		ch = MakeChannelBuilder().WithData(data).Build("C")
		src := NewSource(ch, stimulus.NewRandomInt(stimulus.NewRand(3), 0, 8).WithRate(0), log)

		for i := 0; i < 3; i++ {
			src.Cycle()
			board.Edge()
		}

		Expect(ch.Tokens()).To(HaveLen(3))
	})

	It("should report an unresolved ready", func() {
		src := NewSource(ch, values(1, 2), log)
		board.Edge()

		src.Cycle()
		board.Edge()
		src.Cycle()

		Expect(src.State()).To(Equal(SourceOffering))
		v, _ := src.Offered()
		Expect(v).To(Equal(codec.IntValue(1)))
		Expect(log.errors).To(HaveLen(1))
		Expect(log.errors[0]).To(ContainSubstring("cannot sample ready of A"))
	})
})

var _ = Describe("Sink checks", func() {
	var (
		mockCtrl *gomock.Controller
		log      *MockLogger
		board    *signal.Board
		valid    *signal.Wire
		data     *signal.Wire
		ch       *Channel
		snk      *Sink
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		log = NewMockLogger(mockCtrl)
		board = signal.NewBoard()
		valid = board.Wire("Valid", 1)
		data = board.Wire("Data", 8)
		ch = MakeChannelBuilder().
			WithValid(valid).
			WithData(data).
			Build("Out")
		snk = NewSink(ch, stimulus.NewDataless(stimulus.NewRand(1)), log)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should report a value mismatch", func() {
		ch.Send(codec.IntValue(7))
		valid.Force("1")
		data.Force("00001000")

		gomock.InOrder(
			log.EXPECT().Info("Out?8"),
			log.EXPECT().Check(true, "did not expect valid token in this cycle for Out"),
			log.EXPECT().Check(false, "expected 7 found 8 for Out"),
		)

		snk.Cycle()
	})

	It("should report an unexpected token", func() {
		valid.Force("1")
		data.Force("00000011")

		log.EXPECT().Info("Out?3")
		log.EXPECT().Check(false, "did not expect valid token in this cycle for Out")

		snk.Cycle()
	})

	It("should not accept while valid is low", func() {
		ch.Send(codec.IntValue(7))
		valid.Force("0")

		snk.Cycle()

		Expect(ch.Pending()).To(Equal(1))
	})

	It("should report unresolved data", func() {
		ch.Send(codec.IntValue(7))
		valid.Force("1")

		log.EXPECT().Error(gomock.Any()).Do(func(msg string) {
			Expect(msg).To(ContainSubstring("cannot sample data of Out"))
		})

		snk.Cycle()

		Expect(ch.Pending()).To(Equal(0))
	})

	It("should log popped tokens of dataless channels", func() {
		ch = MakeChannelBuilder().WithValid(valid).Build("Done")
		snk = NewSink(ch, stimulus.NewDataless(stimulus.NewRand(1)), log)
		ch.Send(codec.Empty)
		valid.Force("1")

		gomock.InOrder(
			log.EXPECT().Info("Done?-"),
			log.EXPECT().Check(true, "did not expect valid token in this cycle for Done"),
		)

		snk.Cycle()
	})

	It("should report an unexpected token on dataless channels", func() {
		ch = MakeChannelBuilder().WithValid(valid).Build("Done")
		snk = NewSink(ch, stimulus.NewDataless(stimulus.NewRand(1)), log)
		valid.Force("1")

		gomock.InOrder(
			log.EXPECT().Info("Done?-"),
			log.EXPECT().Check(false, "did not expect valid token in this cycle for Done"),
		)

		snk.Cycle()
	})
})
