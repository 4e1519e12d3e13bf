package api_test

import (
	"bytes"
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfasm/api"
	"github.com/sarchlab/bfasm/config"
	"github.com/sarchlab/bfasm/core"
	"github.com/sarchlab/bfasm/program"
	"github.com/sarchlab/bfasm/samples"
	"github.com/sarchlab/bfasm/verify"
)

var _ = Describe("Driver", func() {
	var (
		in     *bytes.Buffer
		out    *bytes.Buffer
		driver api.Driver
	)

	BeforeEach(func() {
		in = &bytes.Buffer{}
		out = &bytes.Buffer{}
		driver = api.DriverBuilder{}.
			WithEngine(sim.NewSerialEngine()).
			WithFreq(2 * sim.GHz).
			WithTapeSize(3000).
			WithInput(in).
			WithOutput(out).
			Build("Driver")
	})

	It("should interpret programs on a cleared tape", func() {
		p := program.MustParse(samples.Hello)

		Expect(driver.Interpret(context.Background(), p)).To(Succeed())
		Expect(driver.Interpret(context.Background(), p)).To(Succeed())

		Expect(out.String()).To(Equal(strings.Repeat("Hello World!\n", 2)))
	})

	It("should feed the input to the program", func() {
		in.WriteString("Gur dhvpx oebja sbk")

		err := driver.Interpret(context.Background(), program.MustParse(samples.ROT13))

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("The quick brown fox"))
	})

	It("should report bounds errors", func() {
		err := driver.Interpret(context.Background(), program.MustParse(">>+<<<"))

		var boundsErr *core.BoundsError
		Expect(err).To(BeAssignableToTypeOf(boundsErr))
		Expect(err).To(MatchError(core.ErrPointerUnderflow))
		Expect(driver.Machine().Ptr).To(Equal(2))
	})

	It("should stop when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := driver.Interpret(ctx, program.MustParse("+[]"))

		Expect(err).To(MatchError(context.Canceled))
	})

	It("should time programs with the same effects", func() {
		stats, err := driver.Time(program.MustParse(samples.Hello))

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("Hello World!\n"))
		Expect(stats.Cycles).To(BeNumerically(">", stats.Steps))
		// two cycles per nanosecond
		Expect(stats.TimeNS).To(BeNumerically("~", float64(stats.Cycles)/2, 1))
	})

	It("should compile with the configured tape size", func() {
		var asm bytes.Buffer

		Expect(driver.Compile(program.MustParse("+."), &asm)).To(Succeed())

		Expect(asm.String()).To(ContainSubstring(".lcomm memory, 3000"))
		Expect(asm.String()).To(ContainSubstring("syscall3 SYS_write, STDOUT, X1, #1"))
	})

	It("should lint with the configured tape size", func() {
		issues := driver.Lint(program.MustParse("+-[-]"))

		Expect(issues).To(HaveLen(2))
		Expect(issues[0].Type).To(Equal(verify.IssueNoop))
		Expect(issues[1].Type).To(Equal(verify.IssueDeadLoop))
	})

	It("should verify without touching the machine", func() {
		r := driver.Verify("rot13", program.MustParse(samples.ROT13), []byte("abc"))

		Expect(r.OK()).To(BeTrue())
		Expect(string(r.Check.Output)).To(Equal("nop"))
		Expect(out.Len()).To(BeZero())
	})

	It("should dump the tape", func() {
		Expect(driver.Interpret(context.Background(), program.MustParse("++>+++"))).
			To(Succeed())

		var buf bytes.Buffer
		driver.DumpState(&buf, 2)

		Expect(buf.String()).To(ContainSubstring("cursor at 1"))
	})
})

var _ = Describe("DriverBuilder", func() {
	It("should apply a configuration", func() {
		cfg := config.Default()
		cfg.TapeSize = 4
		cfg.EOF = "zero"
		cfg.Timing.MaxCycles = 50

		out := &bytes.Buffer{}
		driver := api.DriverBuilder{}.
			WithConfig(cfg).
			WithOutput(out).
			Build("Driver")

		Expect(driver.Machine().Tape).To(HaveLen(4))

		Expect(driver.Interpret(context.Background(), program.MustParse("+,."))).
			To(Succeed())
		Expect(out.Bytes()).To(Equal([]byte{0}))

		_, err := driver.Time(program.MustParse("+[]"))
		Expect(err).To(MatchError(core.ErrCycleLimit))
	})

	It("should keep the current EOF policy for an invalid setting", func() {
		cfg := config.Default()
		cfg.EOF = "minus-one"
		Expect(cfg.Validate()).To(HaveOccurred())

		out := &bytes.Buffer{}
		var driver api.Driver
		Expect(func() {
			driver = api.DriverBuilder{}.
				WithEOFPolicy(core.EOFZero).
				WithConfig(cfg).
				WithOutput(out).
				Build("Driver")
		}).NotTo(Panic())

		Expect(driver.Interpret(context.Background(), program.MustParse("+,."))).
			To(Succeed())
		Expect(out.Bytes()).To(Equal([]byte{0}))
	})
})
