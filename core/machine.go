// Package core executes program trees against a byte tape.
//
// Machine is the functional interpreter: a recursive walk over the tree.
// Core wraps a Machine into an akita ticking component that charges each
// instruction the cycles of its generated assembly template, so that the
// cost of a program can be estimated without assembling it.
package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarchlab/bfasm/program"
)

var (
	// ErrPointerUnderflow is reported when the cursor would move below cell 0.
	ErrPointerUnderflow = errors.New("pointer underflow")
	// ErrPointerOverflow is reported when the cursor would move past the tape.
	ErrPointerOverflow = errors.New("pointer overflow")
)

// BoundsError describes a cursor move that left the tape. The cursor keeps
// its old position.
type BoundsError struct {
	Ptr   int
	Shift int
	Size  int
	Err   error
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%v: cursor %d shifted by %d on a tape of %d cells",
		e.Err, e.Ptr, e.Shift, e.Size)
}

func (e *BoundsError) Unwrap() error {
	return e.Err
}

// Machine holds the tape, the cursor and the I/O of one run.
type Machine struct {
	Tape []byte
	Ptr  int

	input  Input
	output Output
	eof    EOFPolicy

	steps uint64
}

// Steps returns how many instructions have executed, loop tests included.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// Cell returns the byte under the cursor.
func (m *Machine) Cell() byte {
	return m.Tape[m.Ptr]
}

// Reset zeroes the tape and moves the cursor back to cell 0.
func (m *Machine) Reset() {
	clear(m.Tape)
	m.Ptr = 0
	m.steps = 0
}

// Run executes p until it finishes or fails.
func (m *Machine) Run(p program.Program) error {
	return m.RunContext(context.Background(), p)
}

// RunContext is like Run but gives up with ctx.Err() once ctx is done. The
// context is checked before every loop test.
func (m *Machine) RunContext(ctx context.Context, p program.Program) error {
	Trace("MachineRun",
		"Instructions", len(p),
		"TapeSize", len(m.Tape),
		"Ptr", m.Ptr,
	)

	if err := m.checkBounds(m.Ptr, 0); err != nil {
		return err
	}

	err := m.run(ctx, p)
	if err != nil {
		Trace("MachineAbort", "Ptr", m.Ptr, "Steps", m.steps, "Error", err)
	}

	return err
}

func (m *Machine) run(ctx context.Context, p program.Program) error {
	for i := range p {
		inst := &p[i]

		if inst.Op != program.OpLoop {
			if err := m.exec(inst); err != nil {
				return err
			}

			continue
		}

		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			m.steps++
			if m.Tape[m.Ptr] == 0 {
				break
			}

			if err := m.run(ctx, inst.Body); err != nil {
				return err
			}
		}
	}

	return nil
}

// Interpret runs p on a caller-owned tape and cursor. The cursor is updated
// in place, also when the run fails.
func Interpret(
	p program.Program,
	tape []byte,
	ptr *int,
	in Input,
	out Output,
	eof EOFPolicy,
) error {
	m := MachineBuilder{}.
		WithInput(in).
		WithOutput(out).
		WithEOFPolicy(eof).
		Build()
	m.Tape = tape
	m.Ptr = *ptr

	err := m.Run(p)
	*ptr = m.Ptr

	return err
}
