package sim

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should panic on a frequency that is not positive", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
		Expect(func() { Freq(-1).Period() }).To(Panic())
		Expect(func() { Freq(math.NaN()).Period() }).To(Panic())
	})

	It("should convert between cycles and time", func() {
		var f = 100 * MHz
		Expect(f.CycleTime(3)).To(BeNumerically("~", 30e-9, 1e-15))
		Expect(f.Cycle(f.CycleTime(42))).To(Equal(uint64(42)))
	})

	It("should round to the closest edge", func() {
		var f = 1 * GHz
		Expect(f.Cycle(2.6e-9)).To(Equal(uint64(3)))
		Expect(f.Cycle(2.4e-9)).To(Equal(uint64(2)))
	})

	It("should print with a unit", func() {
		Expect((100 * MHz).String()).To(Equal("100MHz"))
		Expect((1.5 * GHz).String()).To(Equal("1.5GHz"))
		Expect((2 * KHz).String()).To(Equal("2kHz"))
		Expect(Freq(10).String()).To(Equal("10Hz"))
	})
})
