package core

import (
	"errors"
	"io"

	"github.com/sarchlab/bfasm/program"
)

// exec runs one non-loop instruction.
func (m *Machine) exec(inst *program.Instruction) error {
	m.steps++

	switch inst.Op {
	case program.OpPointerShift:
		return m.shiftPointer(inst.N)
	case program.OpValueShift:
		m.Tape[m.Ptr] += byte(inst.N)
	case program.OpOutput:
		return m.output.WriteByte(m.Tape[m.Ptr])
	case program.OpInput:
		return m.readInput()
	default:
		panic("core: cannot exec " + inst.Op.String())
	}

	return nil
}

func (m *Machine) shiftPointer(n int) error {
	next := m.Ptr + n
	if err := m.checkBounds(next, n); err != nil {
		return err
	}

	m.Ptr = next

	return nil
}

func (m *Machine) checkBounds(next, n int) error {
	switch {
	case next < 0:
		return &BoundsError{Ptr: m.Ptr, Shift: n, Size: len(m.Tape), Err: ErrPointerUnderflow}
	case next >= len(m.Tape):
		return &BoundsError{Ptr: m.Ptr, Shift: n, Size: len(m.Tape), Err: ErrPointerOverflow}
	}

	return nil
}

func (m *Machine) readInput() error {
	c, err := m.input.ReadByte()

	switch {
	case err == nil:
		m.Tape[m.Ptr] = c
	case errors.Is(err, io.EOF):
		if m.eof == EOFZero {
			m.Tape[m.Ptr] = 0
		}
	default:
		return err
	}

	return nil
}
