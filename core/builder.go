package core

import (
	"github.com/sarchlab/akita/v4/sim"
)

// DefaultTapeSize is the number of cells used when no size is configured.
const DefaultTapeSize = 3000

// MachineBuilder can create new machines.
type MachineBuilder struct {
	tapeSize int
	input    Input
	output   Output
	eof      EOFPolicy
}

// WithTapeSize sets the number of cells on the tape.
func (b MachineBuilder) WithTapeSize(n int) MachineBuilder {
	b.tapeSize = n
	return b
}

// WithInput sets where ',' reads from.
func (b MachineBuilder) WithInput(in Input) MachineBuilder {
	b.input = in
	return b
}

// WithOutput sets where '.' writes to.
func (b MachineBuilder) WithOutput(out Output) MachineBuilder {
	b.output = out
	return b
}

// WithEOFPolicy sets what ',' stores once the input is exhausted.
func (b MachineBuilder) WithEOFPolicy(p EOFPolicy) MachineBuilder {
	b.eof = p
	return b
}

// Build creates a machine with a zeroed tape and the cursor on cell 0.
func (b MachineBuilder) Build() *Machine {
	size := b.tapeSize
	if size <= 0 {
		size = DefaultTapeSize
	}

	m := &Machine{
		Tape:   make([]byte, size),
		input:  b.input,
		output: b.output,
		eof:    b.eof,
	}

	if m.input == nil {
		m.input = noInput{}
	}

	if m.output == nil {
		m.output = discardOutput{}
	}

	return m
}

// Builder can create new timed cores.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	machine   *Machine
	maxCycles uint64
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMachine sets the machine whose tape and I/O the core drives.
func (b Builder) WithMachine(m *Machine) Builder {
	b.machine = m
	return b
}

// WithMaxCycles stops runs that take longer than n cycles. Zero means no
// limit.
func (b Builder) WithMaxCycles(n uint64) Builder {
	b.maxCycles = n
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.engine == nil {
		b.engine = sim.NewSerialEngine()
	}

	if b.freq == 0 {
		b.freq = 1 * sim.GHz
	}

	if b.machine == nil {
		b.machine = MachineBuilder{}.Build()
	}

	c := &Core{machine: b.machine, maxCycles: b.maxCycles}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}
