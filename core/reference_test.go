package core

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfasm/program"
	valgen "github.com/sarchlab/bfasm/util"
)

var errBudget = errors.New("step budget exhausted")

// simulate runs src one character at a time without any folding.
func simulate(src string, size int, budget int) ([]byte, int, []byte, error) {
	jump := make(map[int]int)
	var stack []int
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '[':
			stack = append(stack, i)
		case ']':
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jump[open] = i
			jump[i] = open
		}
	}

	tape := make([]byte, size)
	ptr := 0
	var out []byte

	for pc, steps := 0, 0; pc < len(src); pc, steps = pc+1, steps+1 {
		if steps > budget {
			return nil, 0, nil, errBudget
		}

		switch src[pc] {
		case '>':
			if ptr+1 >= size {
				return nil, 0, nil, ErrPointerOverflow
			}
			ptr++
		case '<':
			if ptr == 0 {
				return nil, 0, nil, ErrPointerUnderflow
			}
			ptr--
		case '+':
			tape[ptr]++
		case '-':
			tape[ptr]--
		case '.':
			out = append(out, tape[ptr])
		case '[':
			if tape[ptr] == 0 {
				pc = jump[pc]
			}
		case ']':
			if tape[ptr] != 0 {
				pc = jump[pc]
			}
		}
	}

	return tape, ptr, out, nil
}

var _ = Describe("Machine against a character simulator", func() {
	It("should produce the same tape, cursor and output", func() {
		gen := valgen.MakeSourceGen(7, "+++--->>><.[", 5, 44, 0.25)
		compared := 0

		for i := 0; i < 2000; i++ {
			src := gen()

			wantTape, wantPtr, wantOut, err := simulate(src, 64, 20000)
			if err != nil {
				continue
			}

			var out bytes.Buffer
			m := MachineBuilder{}.WithTapeSize(64).WithOutput(&out).Build()

			Expect(m.Run(program.MustParse(src))).To(Succeed(), src)
			Expect(m.Tape).To(Equal(wantTape), src)
			Expect(m.Ptr).To(Equal(wantPtr), src)
			Expect(out.Bytes()).To(Equal(wantOut), src)

			compared++
		}

		Expect(compared).To(BeNumerically(">", 50))
	})
})
