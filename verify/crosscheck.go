package verify

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfasm/core"
	"github.com/sarchlab/bfasm/program"
)

// DefaultMaxCycles bounds cross checks that do not set their own limit.
const DefaultMaxCycles = 100_000_000

// ErrMismatch is reported when the two executors disagree.
var ErrMismatch = errors.New("executors disagree")

// CheckConfig describes one cross check run.
type CheckConfig struct {
	TapeSize  int
	Input     []byte
	EOF       core.EOFPolicy
	MaxCycles uint64
	Freq      sim.Freq
}

// CrossCheckResult holds what both executors agreed on.
type CrossCheckResult struct {
	Output []byte
	Tape   []byte
	Ptr    int
	Stats  core.Stats
	Err    error
}

// CrossCheck runs p on the timed core first and, unless the core hit its
// cycle limit, again on a fresh functional machine. Tape, cursor, output and
// the kind of failure must match. A run that exceeds the cycle limit is
// reported with core.ErrCycleLimit and is not repeated on the machine, which
// has no limit of its own.
func CrossCheck(p program.Program, cfg CheckConfig) *CrossCheckResult {
	if cfg.MaxCycles == 0 {
		cfg.MaxCycles = DefaultMaxCycles
	}

	var timedOut bytes.Buffer
	timed := core.MachineBuilder{}.
		WithTapeSize(cfg.TapeSize).
		WithInput(bytes.NewReader(cfg.Input)).
		WithOutput(&timedOut).
		WithEOFPolicy(cfg.EOF).
		Build()

	c := core.Builder{}.
		WithFreq(cfg.Freq).
		WithMachine(timed).
		WithMaxCycles(cfg.MaxCycles).
		Build("CrossCheck")

	stats, timedErr := c.Run(p)

	res := &CrossCheckResult{
		Output: timedOut.Bytes(),
		Tape:   timed.Tape,
		Ptr:    timed.Ptr,
		Stats:  stats,
		Err:    timedErr,
	}

	if errors.Is(timedErr, core.ErrCycleLimit) {
		return res
	}

	var refOut bytes.Buffer
	ref := core.MachineBuilder{}.
		WithTapeSize(cfg.TapeSize).
		WithInput(bytes.NewReader(cfg.Input)).
		WithOutput(&refOut).
		WithEOFPolicy(cfg.EOF).
		Build()

	refErr := ref.Run(p)

	if msg := compare(timed, ref, timedOut.Bytes(), refOut.Bytes(), timedErr, refErr); msg != "" {
		res.Err = fmt.Errorf("%w: %s", ErrMismatch, msg)
	}

	return res
}

func compare(
	timed, ref *core.Machine,
	timedOut, refOut []byte,
	timedErr, refErr error,
) string {
	switch {
	case errorKind(timedErr) != errorKind(refErr):
		return fmt.Sprintf("core failed with %v, machine with %v", timedErr, refErr)
	case timed.Ptr != ref.Ptr:
		return fmt.Sprintf("cursor %d on the core, %d on the machine", timed.Ptr, ref.Ptr)
	case !bytes.Equal(timedOut, refOut):
		return fmt.Sprintf("core wrote %d bytes, machine wrote %d", len(timedOut), len(refOut))
	case timed.Steps() != ref.Steps():
		return fmt.Sprintf("core took %d steps, machine took %d", timed.Steps(), ref.Steps())
	}

	for i := range timed.Tape {
		if timed.Tape[i] != ref.Tape[i] {
			return fmt.Sprintf("cell %d is %d on the core, %d on the machine",
				i, timed.Tape[i], ref.Tape[i])
		}
	}

	return ""
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrPointerUnderflow):
		return "underflow"
	case errors.Is(err, core.ErrPointerOverflow):
		return "overflow"
	default:
		return err.Error()
	}
}
