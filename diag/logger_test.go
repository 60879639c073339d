package diag

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/evolvablehardware/PUFFS/codec"
	"github.com/evolvablehardware/PUFFS/datarecording"
	"github.com/evolvablehardware/PUFFS/handshake"
	"github.com/evolvablehardware/PUFFS/sim"
)

var _ = Describe("Logger", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		out        *bytes.Buffer
		logger     *Logger
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		out = new(bytes.Buffer)

		var err error
		logger, err = MakeBuilder().
			WithTimeTeller(timeTeller).
			WithWriter(out).
			Build("Bench")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write timestamped lines", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(12e-9))
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(13.5e-9))
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(14e-9))

		logger.Info("A!3")
		logger.Warnf("slow %s", "B")
		logger.Error("boom")

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(Equal([]string{
			"12.000 INF A!3",
			"13.500 WRN slow B",
			"14.000 ERR boom",
		}))
	})

	It("should pass without errors", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(0)).AnyTimes()

		logger.Info("hello")
		logger.Warn("careful")
		logger.Check(true, "never")

		Expect(logger.Errors()).To(Equal(0))
		Expect(logger.Done()).To(Succeed())
	})

	It("should count failed checks and fail at the end", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(0)).AnyTimes()

		logger.Check(false, "first")
		logger.Checkf(false, "expected %d found %d for %s", 1, 2, "Out")
		logger.Checkf(true, "unused %d", 3)

		Expect(logger.Errors()).To(Equal(2))

		err := logger.Done()
		Expect(errors.Is(err, ErrTestFailed)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("test failed with 2 errors"))

		Expect(logger.Done()).To(BeIdenticalTo(err))

		records := logger.Records()
		Expect(records).To(HaveLen(2))
		Expect(records[1].Severity).To(Equal(SeverityError))
		Expect(records[1].Msg).To(Equal("expected 1 found 2 for Out"))
	})

	It("should panic when used after done", func() {
		Expect(logger.Done()).To(Succeed())
		Expect(func() { logger.Info("late") }).To(Panic())
	})

	It("should name markers after errors only", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(5e-9))
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(7e-9))
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(9e-9))

		logger.Error("one")
		logger.Info("skip")
		logger.Error("two")

		Expect(logger.Markers()).To(Equal([]Marker{
			{Name: 'A', Step: 5, Msg: "one"},
			{Name: 'B', Step: 9, Msg: "two"},
		}))
	})

	It("should cap the number of markers", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(0)).AnyTimes()

		for i := 0; i < 30; i++ {
			logger.Error("e")
		}

		markers := logger.Markers()
		Expect(markers).To(HaveLen(MaxMarkers))
		Expect(markers[MaxMarkers-1].Name).To(Equal(byte('Z')))
		Expect(logger.Errors()).To(Equal(30))
	})
})

var _ = Describe("Logger files", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		dir        string
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		dir = GinkgoT().TempDir()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write the log and the marker file", func() {
		logPath := filepath.Join(dir, "test.log")
		markerPath := filepath.Join(dir, "dump.gtkw")

		logger, err := MakeBuilder().
			WithTimeTeller(timeTeller).
			WithLogPath(logPath).
			WithMarkerPath(markerPath).
			WithTimescale(1e-12).
			Build("Bench")
		Expect(err).ToNot(HaveOccurred())

		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(3e-9))
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(4e-9))
		logger.Error("expected 7 found 8 for Out")
		logger.Error("did not expect valid token in this cycle for Out")

		Expect(errors.Is(logger.Done(), ErrTestFailed)).To(BeTrue())

		gtkw, err := os.ReadFile(markerPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(gtkw)).To(Equal(
			"[dumpfile] \"dump.vcd\"\n" +
				"[savefile] \"dump.gtkw\"\n" +
				"*1.0 0 3000 4000\n" +
				"[markername] A expected 7 found 8 for Out\n" +
				"[markername] B did not expect valid token in this cycle for Out\n"))

		log, err := os.ReadFile(logPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(log)).To(ContainSubstring("3.000 ERR expected 7 found 8 for Out"))
	})

	It("should tell output failures apart from the verdict", func() {
		logger, err := MakeBuilder().
			WithMarkerPath(filepath.Join(dir, "missing", "dump.gtkw")).
			Build("Bench")
		Expect(err).ToNot(HaveOccurred())

		err = logger.Done()
		Expect(errors.Is(err, ErrOutput)).To(BeTrue())
		Expect(errors.Is(err, ErrTestFailed)).To(BeFalse())
	})

	It("should report both a failed test and an output failure", func() {
		logger, err := MakeBuilder().
			WithMarkerPath(filepath.Join(dir, "missing", "dump.gtkw")).
			Build("Bench")
		Expect(err).ToNot(HaveOccurred())

		logger.Error("boom")

		err = logger.Done()
		Expect(errors.Is(err, ErrTestFailed)).To(BeTrue())
		Expect(errors.Is(err, ErrOutput)).To(BeTrue())
	})

	It("should fail to build with an unwritable log", func() {
		_, err := MakeBuilder().
			WithLogPath(filepath.Join(dir, "missing", "test.log")).
			Build("Bench")
		Expect(err).To(HaveOccurred())
	})

	It("should record diagnostics and tokens", func() {
		path := filepath.Join(dir, "run.sqlite3")
		rec, err := datarecording.New(path)
		Expect(err).ToNot(HaveOccurred())

		clock := sim.NewClock(1 * sim.GHz)

		logger, err := MakeBuilder().
			WithTimeTeller(clock).
			WithRecorder(rec).
			Build("Bench")
		Expect(err).ToNot(HaveOccurred())

		ch := handshake.MakeChannelBuilder().Build("A")
		ch.AcceptHook(NewTokenTracer(rec, clock))

		ch.Send(codec.IntValue(4))
		clock.Tick()
		ch.Recv()
		logger.Warn("late")

		Expect(logger.Done()).To(Succeed())
		Expect(rec.Close()).To(Succeed())

		reader, err := datarecording.NewReader(path)
		Expect(err).ToNot(HaveOccurred())
		defer reader.Close()

		reader.MapTable(TokensTable, TokenRow{})
		reader.MapTable(DiagnosticsTable, DiagnosticRow{})

		tokens, _, err := reader.Query(context.Background(), TokensTable,
			datarecording.QueryParams{OrderBy: "Cycle"})
		Expect(err).ToNot(HaveOccurred())
		Expect(tokens).To(Equal([]any{
			&TokenRow{Channel: "A", Direction: "send", Cycle: 0, Time: 0, Value: "4"},
			&TokenRow{Channel: "A", Direction: "recv", Cycle: 1, Time: 1e-9, Value: "4"},
		}))

		diags, _, err := reader.Query(context.Background(), DiagnosticsTable,
			datarecording.QueryParams{})
		Expect(err).ToNot(HaveOccurred())
		Expect(diags).To(ConsistOf(&DiagnosticRow{
			Seq: 0, Run: "Bench", Severity: "warning", Time: 1e-9, Msg: "late",
		}))
	})
})
