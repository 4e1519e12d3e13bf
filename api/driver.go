// Package api defines the driver API used to run, time and compile programs.
package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfasm/codegen"
	"github.com/sarchlab/bfasm/core"
	"github.com/sarchlab/bfasm/program"
	"github.com/sarchlab/bfasm/verify"
)

// Driver provides the interface to execute and translate programs.
type Driver interface {
	// Interpret runs the program on a cleared tape, reading and writing
	// through the configured input and output.
	Interpret(ctx context.Context, p program.Program) error

	// Time runs the program on a cleared tape on the cycle-counting core.
	// Its effects are those of Interpret.
	Time(p program.Program) (core.Stats, error)

	// Compile writes the assembly text of the program to w.
	Compile(p program.Program, w io.Writer) error

	// Lint returns the static issues found in the program.
	Lint(p program.Program) []verify.Issue

	// Verify lints the program and cross checks the interpreter against the
	// core, feeding input to both. It does not touch the driver's machine.
	Verify(name string, p program.Program, input []byte) *verify.VerificationReport

	// DumpState writes the cells within window of the cursor.
	DumpState(w io.Writer, window int)

	// Machine returns the machine that holds the tape of the last run.
	Machine() *core.Machine
}

type driverImpl struct {
	machine *core.Machine
	core    *core.Core

	tapeSize  int
	eof       core.EOFPolicy
	freq      sim.Freq
	maxCycles uint64
}

func (d *driverImpl) Interpret(ctx context.Context, p program.Program) error {
	d.machine.Reset()

	err := d.machine.RunContext(ctx, p)
	core.LogState(d.machine)

	return err
}

func (d *driverImpl) Time(p program.Program) (core.Stats, error) {
	d.machine.Reset()

	stats, err := d.core.Run(p)
	core.LogState(d.machine)

	slog.Debug("TimedRun",
		"Cycles", stats.Cycles,
		"Steps", stats.Steps,
		"TimeNS", stats.TimeNS,
	)

	return stats, err
}

func (d *driverImpl) Compile(p program.Program, w io.Writer) error {
	g := codegen.NewGenerator(d.tapeSize)
	g.Emit(p)

	_, err := g.WriteTo(w)

	return err
}

func (d *driverImpl) Lint(p program.Program) []verify.Issue {
	return verify.RunLint(p, d.tapeSize)
}

func (d *driverImpl) Verify(
	name string,
	p program.Program,
	input []byte,
) *verify.VerificationReport {
	return verify.GenerateReport(name, p, verify.CheckConfig{
		TapeSize:  d.tapeSize,
		Input:     input,
		EOF:       d.eof,
		MaxCycles: d.maxCycles,
		Freq:      d.freq,
	})
}

func (d *driverImpl) DumpState(w io.Writer, window int) {
	core.DumpTape(w, d.machine.Tape, d.machine.Ptr, window)
}

func (d *driverImpl) Machine() *core.Machine {
	return d.machine
}
