package core

import (
	"errors"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfasm/program"
)

// Cycle costs of the assembly templates emitted by package codegen.
const (
	CyclesPointerShift = 1 // add
	CyclesValueShift   = 3 // ldrb, add, strb
	CyclesIO           = 6 // mov X1 plus the syscall3 macro
	CyclesLoopTest     = 3 // ldrb, cmp, b.eq
	CyclesBackBranch   = 1 // b
)

// ErrCycleLimit is reported when a timed run exceeds its cycle budget.
var ErrCycleLimit = errors.New("cycle limit exceeded")

// Stats summarizes a timed run.
type Stats struct {
	Cycles uint64
	Steps  uint64
	TimeNS float64
}

type frame struct {
	body program.Program
	pc   int
}

// Core executes a program one template step at a time on an akita engine.
// Tape, cursor and I/O belong to the wrapped Machine, so a timed run has
// exactly the effects of Machine.Run.
type Core struct {
	*sim.TickingComponent

	machine   *Machine
	maxCycles uint64

	frames []frame
	stall  int
	cycles uint64
	done   bool
	err    error
}

// Machine returns the machine the core drives.
func (c *Core) Machine() *Machine {
	return c.machine
}

// SetMaxCycles bounds the next runs. Zero means unbounded.
func (c *Core) SetMaxCycles(n uint64) {
	c.maxCycles = n
}

// Run executes p to completion on the core's engine.
func (c *Core) Run(p program.Program) (Stats, error) {
	if err := c.machine.checkBounds(c.machine.Ptr, 0); err != nil {
		return Stats{}, err
	}

	c.frames = []frame{{body: p}}
	c.stall = 0
	c.cycles = 0
	c.done = false
	c.err = nil

	startSteps := c.machine.steps
	start := float64(c.Engine.CurrentTime() * 1e9)

	c.TickNow()
	if err := c.Engine.Run(); err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Cycles: c.cycles,
		Steps:  c.machine.steps - startSteps,
		TimeNS: float64(c.Engine.CurrentTime()*1e9) - start,
	}

	Trace("CoreRun",
		"Name", c.Name(),
		"Cycles", stats.Cycles,
		"Steps", stats.Steps,
		"TimeNS", stats.TimeNS,
		"Error", c.err,
	)

	return stats, c.err
}

// Tick runs the core for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.done {
		return false
	}

	if c.maxCycles > 0 && c.cycles >= c.maxCycles {
		c.finish(ErrCycleLimit)
		return false
	}

	if c.stall > 0 {
		c.stall--
		c.cycles++

		return true
	}

	cost, err := c.step()
	if err != nil || cost == 0 {
		c.finish(err)
		return false
	}

	c.cycles++
	c.stall = cost - 1

	return true
}

func (c *Core) finish(err error) {
	c.done = true
	c.err = err
}

// step starts the next template and returns its cost, or 0 when the
// program has finished.
func (c *Core) step() (int, error) {
	if len(c.frames) == 0 {
		return 0, nil
	}

	f := &c.frames[len(c.frames)-1]

	if f.pc >= len(f.body) {
		c.frames = c.frames[:len(c.frames)-1]
		if len(c.frames) == 0 {
			return 0, nil
		}

		// The parent still points at its loop, which is tested again next.
		return CyclesBackBranch, nil
	}

	inst := &f.body[f.pc]

	if inst.Op == program.OpLoop {
		c.machine.steps++
		if c.machine.Cell() == 0 {
			f.pc++
		} else {
			c.frames = append(c.frames, frame{body: inst.Body})
		}

		return CyclesLoopTest, nil
	}

	if err := c.machine.exec(inst); err != nil {
		return 0, err
	}

	f.pc++

	return templateCycles(inst.Op), nil
}

func templateCycles(op program.Opcode) int {
	switch op {
	case program.OpPointerShift:
		return CyclesPointerShift
	case program.OpValueShift:
		return CyclesValueShift
	default:
		return CyclesIO
	}
}
