package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfasm/program"
	"github.com/sarchlab/bfasm/samples"
)

var _ = Describe("Machine", func() {
	var (
		mockCtrl *gomock.Controller
		input    *MockInput
		output   *MockOutput
		m        *Machine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		input = NewMockInput(mockCtrl)
		output = NewMockOutput(mockCtrl)

		m = MachineBuilder{}.
			WithTapeSize(16).
			WithInput(input).
			WithOutput(output).
			Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should read once and write twice", func() {
		input.EXPECT().ReadByte().Return(byte(1), nil)
		gomock.InOrder(
			output.EXPECT().WriteByte(byte(2)),
			output.EXPECT().WriteByte(byte(2)),
		)

		err := m.Run(program.MustParse(",+.."))

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Tape[0]).To(Equal(byte(2)))
	})

	It("should wrap cell values in both directions", func() {
		err := m.Run(program.Program{
			program.ValueShiftBy(-1),
			program.PointerShiftBy(1),
			program.ValueShiftBy(257),
			program.PointerShiftBy(1),
			program.ValueShiftBy(-259),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Tape[:3]).To(Equal([]byte{255, 1, 253}))
		Expect(m.Ptr).To(Equal(2))
	})

	It("should keep the cell on end of input by default", func() {
		m.Tape[0] = 42
		input.EXPECT().ReadByte().Return(byte(0), io.EOF)

		Expect(m.Run(program.Program{program.Input()})).To(Succeed())
		Expect(m.Tape[0]).To(Equal(byte(42)))
	})

	It("should zero the cell on end of input when asked to", func() {
		m = MachineBuilder{}.
			WithTapeSize(4).
			WithInput(input).
			WithEOFPolicy(EOFZero).
			Build()
		m.Tape[0] = 42
		input.EXPECT().ReadByte().Return(byte(0), io.EOF)

		Expect(m.Run(program.Program{program.Input()})).To(Succeed())
		Expect(m.Tape[0]).To(Equal(byte(0)))
	})

	It("should propagate input errors", func() {
		broken := errors.New("broken pipe")
		input.EXPECT().ReadByte().Return(byte(0), broken)

		err := m.Run(program.MustParse(",."))

		Expect(err).To(MatchError(broken))
	})

	It("should propagate output errors and stop", func() {
		full := errors.New("disk full")
		output.EXPECT().WriteByte(byte(0)).Return(full)

		err := m.Run(program.MustParse(".+."))

		Expect(err).To(MatchError(full))
		Expect(m.Tape[0]).To(Equal(byte(0)))
	})

	It("should fail when moving left of cell 0", func() {
		err := m.Run(program.MustParse(">+<<"))

		Expect(errors.Is(err, ErrPointerUnderflow)).To(BeTrue())

		var bounds *BoundsError
		Expect(errors.As(err, &bounds)).To(BeTrue())
		Expect(bounds.Ptr).To(Equal(1))
		Expect(bounds.Shift).To(Equal(-2))
		Expect(m.Ptr).To(Equal(1))
	})

	It("should fail when moving past the tape", func() {
		err := m.Run(program.MustParse(strings.Repeat(">", 16)))

		Expect(errors.Is(err, ErrPointerOverflow)).To(BeTrue())
		Expect(m.Ptr).To(Equal(0))
	})

	It("should reach the last cell", func() {
		err := m.Run(program.MustParse(strings.Repeat(">", 15) + "+"))

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Tape[15]).To(Equal(byte(1)))
	})

	It("should skip a loop on a zero cell", func() {
		err := m.Run(program.MustParse("[.]"))

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Steps()).To(Equal(uint64(1)))
	})

	It("should test the loop condition only at the top of the body", func() {
		output.EXPECT().WriteByte(byte(0))

		err := m.Run(program.MustParse("+[-.]"))

		Expect(err).NotTo(HaveOccurred())
	})

	It("should stop on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := m.RunContext(ctx, program.MustParse("+[]"))

		Expect(err).To(MatchError(context.Canceled))
	})

	It("should reset tape and cursor", func() {
		Expect(m.Run(program.MustParse("+>+"))).To(Succeed())

		m.Reset()

		Expect(m.Ptr).To(Equal(0))
		Expect(m.Tape).To(Equal(make([]byte, 16)))
		Expect(m.Steps()).To(BeZero())
	})
})

var _ = Describe("Interpret", func() {
	run := func(src string, in []byte) []byte {
		var out bytes.Buffer
		tape := make([]byte, DefaultTapeSize)
		ptr := 0

		reader := bytes.NewReader(in)
		err := Interpret(program.MustParse(src), tape, &ptr, reader, &out, EOFUnchanged)

		Expect(err).NotTo(HaveOccurred())
		Expect(reader.Len()).To(BeZero())

		return out.Bytes()
	}

	It("should print hello world", func() {
		Expect(run(samples.Hello, nil)).To(Equal([]byte("Hello World!\n")))
	})

	It("should print fibonacci numbers", func() {
		Expect(string(run(samples.Fibonacci, nil))).
			To(Equal("1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89"))
	})

	It("should rotate the alphabet", func() {
		in := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
		want := []byte("NOPQRSTUVWXYZABCDEFGHIJKLMnopqrstuvwxyzabcdefghijklm")

		Expect(run(samples.ROT13, in)).To(Equal(want))
	})

	It("should update the caller's cursor", func() {
		tape := make([]byte, 8)
		ptr := 2

		err := Interpret(program.MustParse(">>+"), tape, &ptr, nil, nil, EOFUnchanged)

		Expect(err).NotTo(HaveOccurred())
		Expect(ptr).To(Equal(4))
		Expect(tape[4]).To(Equal(byte(1)))
	})

	It("should apply the EOF policy it is given", func() {
		for policy, want := range map[EOFPolicy]byte{EOFUnchanged: 1, EOFZero: 0} {
			var out bytes.Buffer
			tape := make([]byte, 4)
			ptr := 0

			err := Interpret(program.MustParse("+,."), tape, &ptr, bytes.NewReader(nil), &out, policy)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Bytes()).To(Equal([]byte{want}))
		}
	})

	It("should reject a cursor outside the tape", func() {
		tape := make([]byte, 8)
		ptr := 8

		err := Interpret(program.Program{}, tape, &ptr, nil, nil, EOFUnchanged)

		Expect(errors.Is(err, ErrPointerOverflow)).To(BeTrue())
	})
})

var _ = Describe("EOFPolicy", func() {
	It("should parse policy names", func() {
		p, err := ParseEOFPolicy("Zero")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(EOFZero))

		p, err = ParseEOFPolicy("")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(EOFUnchanged))

		_, err = ParseEOFPolicy("minus-one")
		Expect(err).To(HaveOccurred())
	})

	It("should adapt functions", func() {
		var got []byte
		out := OutputFunc(func(c byte) error {
			got = append(got, c)
			return nil
		})
		in := InputFunc(func() (byte, error) { return 'x', nil })

		m := MachineBuilder{}.WithTapeSize(1).WithInput(in).WithOutput(out).Build()

		Expect(m.Run(program.MustParse(",.+."))).To(Succeed())
		Expect(got).To(Equal([]byte("xy")))
	})
})
