package handshake

import (
	"fmt"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/evolvablehardware/PUFFS/codec"
	"github.com/evolvablehardware/PUFFS/signal"
	"github.com/evolvablehardware/PUFFS/sim"
)

type bigIntMatcher struct {
	want int64
}

func isBigInt(v int64) gomock.Matcher {
	return bigIntMatcher{want: v}
}

func (m bigIntMatcher) Matches(x any) bool {
	v, ok := x.(*big.Int)
	return ok && v.IsInt64() && v.Int64() == m.want
}

func (m bigIntMatcher) String() string {
	return fmt.Sprintf("is big integer %d", m.want)
}

var _ = Describe("Channel", func() {
	var (
		mockCtrl *gomock.Controller
		ch       *Channel
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ch = MakeChannelBuilder().Build("In")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should be virtual without signals", func() {
		Expect(ch.Virtual()).To(BeTrue())
		Expect(ch.Name()).To(Equal("In"))
		Expect(ch.Codec().Kind()).To(Equal(codec.KindInt))
	})

	It("should panic on invalid names", func() {
		Expect(func() { MakeChannelBuilder().Build("in") }).To(Panic())
		Expect(func() { MakeChannelBuilder().Build("My_Chan") }).To(Panic())
	})

	It("should deliver tokens in order", func() {
		ch.Send(codec.IntValue(1))
		ch.Send(codec.IntValue(2))

		Expect(ch.IsValid()).To(BeTrue())
		Expect(ch.Pending()).To(Equal(2))

		v, ok := ch.Probe()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(codec.IntValue(1)))
		Expect(ch.Pending()).To(Equal(2))

		v, _ = ch.Recv()
		Expect(v).To(Equal(codec.IntValue(1)))
		v, _ = ch.Recv()
		Expect(v).To(Equal(codec.IntValue(2)))

		_, ok = ch.Recv()
		Expect(ok).To(BeFalse())
		_, ok = ch.Probe()
		Expect(ok).To(BeFalse())
		Expect(ch.IsValid()).To(BeFalse())
		Expect(ch.Tokens()).To(HaveLen(2))
	})

	It("should not expose its history", func() {
		ch.Send(codec.IntValue(1))

		tokens := ch.Tokens()
		tokens[0] = codec.IntValue(9)

		v, _ := ch.Probe()
		Expect(v).To(Equal(codec.IntValue(1)))
	})

	It("should invoke hooks on send and receive", func() {
		var positions []*sim.HookPos
		var items []any
		ch.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			Expect(ctx.Domain).To(BeIdenticalTo(ch))
			positions = append(positions, ctx.Pos)
			items = append(items, ctx.Item)
		}))

		ch.Send(codec.IntValue(4))
		ch.Recv()
		ch.Recv()

		Expect(positions).To(Equal([]*sim.HookPos{HookPosChanSend, HookPosChanRecv}))
		Expect(items).To(Equal([]any{codec.IntValue(4), codec.IntValue(4)}))
	})

	It("should treat unbound handshake signals as asserted", func() {
		valid, err := ch.ReadValid()
		Expect(err).ToNot(HaveOccurred())
		Expect(valid).To(BeTrue())

		ready, err := ch.ReadReady()
		Expect(err).ToNot(HaveOccurred())
		Expect(ready).To(BeTrue())

		ch.DriveValid(true)
		ch.DriveReady(false)
		ch.WriteData(codec.IntValue(3))

		v, err := ch.ReadData()
		Expect(err).ToNot(HaveOccurred())
		Expect(v.IsEmpty()).To(BeTrue())
	})

	It("should drive and read bound signals", func() {
		valid := NewMockSignal(mockCtrl)
		ready := NewMockSignal(mockCtrl)
		ch = MakeChannelBuilder().
			WithValid(valid).
			WithReady(ready).
			Build("Out")

		valid.EXPECT().SetInteger(isBigInt(1))
		ready.EXPECT().SetInteger(isBigInt(0))
		ch.DriveValid(true)
		ch.DriveReady(false)

		valid.EXPECT().Integer().Return(big.NewInt(1), nil)
		b, err := ch.ReadValid()
		Expect(err).ToNot(HaveOccurred())
		Expect(b).To(BeTrue())

		ready.EXPECT().Integer().Return(nil, signal.ErrUnresolved)
		ready.EXPECT().Name().Return("Ready")
		_, err = ch.ReadReady()
		Expect(err).To(MatchError(signal.ErrUnresolved))
		Expect(err.Error()).To(ContainSubstring("read Ready"))
	})

	It("should write data through the codec", func() {
		data := NewMockSignal(mockCtrl)
		ch = MakeChannelBuilder().
			WithCodec(codec.NewFixed(8, 4)).
			WithData(data).
			Build("Out")

		data.EXPECT().SetInteger(isBigInt(51))
		ch.WriteData(codec.RealValue(3.2))

		data.EXPECT().Integer().Return(big.NewInt(51), nil)
		v, err := ch.ReadData()
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(codec.RealValue(3.1875)))
	})

	It("should split arrays over several data signals", func() {
		b := signal.NewBoard()
		x := b.Wire("X", 4)
		y := b.Wire("Y", 4)
		ch = MakeChannelBuilder().WithData(x, y).Build("Pair")

		ch.WriteData(codec.IntArray(3, 12))
		b.Edge()

		Expect(x.BitString()).To(Equal("0011"))
		Expect(y.BitString()).To(Equal("1100"))

		v, err := ch.ReadData()
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(codec.IntArray(3, 12)))
	})
})
