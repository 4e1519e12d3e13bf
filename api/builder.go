package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfasm/config"
	"github.com/sarchlab/bfasm/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine    sim.Engine
	freq      sim.Freq
	tapeSize  int
	eof       core.EOFPolicy
	input     core.Input
	output    core.Output
	maxCycles uint64
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the timed core.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithTapeSize sets the number of cells of the tape.
func (b DriverBuilder) WithTapeSize(n int) DriverBuilder {
	b.tapeSize = n
	return b
}

// WithEOFPolicy sets what ',' stores once the input is exhausted.
func (b DriverBuilder) WithEOFPolicy(p core.EOFPolicy) DriverBuilder {
	b.eof = p
	return b
}

// WithInput sets where programs read from.
func (b DriverBuilder) WithInput(in core.Input) DriverBuilder {
	b.input = in
	return b
}

// WithOutput sets where programs write to.
func (b DriverBuilder) WithOutput(out core.Output) DriverBuilder {
	b.output = out
	return b
}

// WithMaxCycles bounds timed runs and cross checks.
func (b DriverBuilder) WithMaxCycles(n uint64) DriverBuilder {
	b.maxCycles = n
	return b
}

// WithConfig applies the tape, EOF and timing settings of cfg. Run
// cfg.Validate first to surface errors; an unknown EOF setting keeps the
// policy the builder already has.
func (b DriverBuilder) WithConfig(cfg config.Config) DriverBuilder {
	if eof, err := cfg.EOFPolicy(); err == nil {
		b.eof = eof
	}

	b.tapeSize = cfg.TapeSize
	b.freq = sim.Freq(cfg.Timing.FreqGHz) * sim.GHz
	b.maxCycles = cfg.Timing.MaxCycles

	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.tapeSize <= 0 {
		b.tapeSize = core.DefaultTapeSize
	}

	d := &driverImpl{
		tapeSize:  b.tapeSize,
		eof:       b.eof,
		freq:      b.freq,
		maxCycles: b.maxCycles,
	}

	d.machine = core.MachineBuilder{}.
		WithTapeSize(b.tapeSize).
		WithInput(b.input).
		WithOutput(b.output).
		WithEOFPolicy(b.eof).
		Build()

	d.core = core.Builder{}.
		WithEngine(b.engine).
		WithFreq(b.freq).
		WithMachine(d.machine).
		WithMaxCycles(b.maxCycles).
		Build(name + ".Core")

	return d
}
