package verify

import (
	"fmt"

	"github.com/sarchlab/bfasm/program"
)

// RunLint performs static lint checks on a program.
// It tracks what is known about the current cell and the cursor while
// walking the tree in execution order. Cursor tracking stops at the first
// loop whose body moves the cursor by a non-zero or unknown net amount. A
// tapeSize of zero disables the overflow check. Findings inside loops that
// may never run are marked Conditional.
// Returns a list of issues found, or empty list if no issues.
func RunLint(p program.Program, tapeSize int) []Issue {
	l := &linter{tapeSize: tapeSize}
	l.sequence(p, nil, lintState{
		known:   true,
		clean:   true,
		tracked: true,
		entered: true,
	})

	return l.issues
}

type linter struct {
	tapeSize int
	issues   []Issue
}

type lintState struct {
	known   bool // value holds the current cell on every execution
	value   byte
	clean   bool // no cell has been written yet
	tracked bool // offset is exact
	offset  int
	entered bool // the instructions run at least once
}

func (s lintState) knownZero() bool {
	return s.known && s.value == 0
}

func (l *linter) report(
	t IssueType,
	path []int,
	conditional bool,
	details map[string]interface{},
	format string,
	args ...any,
) {
	l.issues = append(l.issues, Issue{
		Type:        t,
		Path:        path,
		Conditional: conditional,
		Message:     fmt.Sprintf(format, args...),
		Details:     details,
	})
}

func (l *linter) sequence(p program.Program, path []int, st lintState) lintState {
	for i := range p {
		inst := &p[i]
		here := append(append([]int(nil), path...), i)

		switch inst.Op {
		case program.OpPointerShift:
			st = l.pointerShift(inst, here, st)
		case program.OpValueShift:
			if byte(inst.N) == 0 {
				l.report(IssueNoop, here, !st.entered,
					map[string]interface{}{"shift": inst.N},
					"value shift by %d has no effect", inst.N)
			} else {
				st.value += byte(inst.N)
				st.clean = false
			}
		case program.OpInput:
			st.known = false
			st.clean = false
		case program.OpOutput:
		case program.OpLoop:
			st = l.loop(inst, here, st)
		}
	}

	return st
}

func (l *linter) pointerShift(inst *program.Instruction, path []int, st lintState) lintState {
	if inst.N == 0 {
		l.report(IssueNoop, path, !st.entered,
			map[string]interface{}{"shift": 0},
			"pointer shift folds to zero")
	}

	st.known = st.clean
	st.value = 0

	if !st.tracked {
		return st
	}

	next := st.offset + inst.N
	if next < 0 || (l.tapeSize > 0 && next >= l.tapeSize) {
		details := map[string]interface{}{
			"from":     st.offset,
			"to":       next,
			"tapeSize": l.tapeSize,
		}

		if st.entered {
			l.report(IssueBounds, path, false, details,
				"cursor moves from cell %d to cell %d, outside the tape", st.offset, next)
		} else {
			l.report(IssueBounds, path, true, details,
				"cursor would move from cell %d to cell %d, outside the tape, if this runs",
				st.offset, next)
		}

		st.tracked = false

		return st
	}

	st.offset = next

	return st
}

func (l *linter) loop(inst *program.Instruction, path []int, st lintState) lintState {
	if st.knownZero() {
		l.report(IssueDeadLoop, path, !st.entered,
			map[string]interface{}{"body": len(inst.Body)},
			"loop is always entered on a zero cell, its body never runs")

		return st
	}

	// The cell is nonzero here when it is known at all.
	runs := st.entered && st.known

	if spins(inst.Body) {
		l.report(IssueSpin, path, !runs,
			map[string]interface{}{"body": len(inst.Body)},
			"loop body cannot change the cell it tests, it never ends once entered")
	}

	// Offsets inside the body are exact on every pass only when each pass
	// starts where the previous one did.
	st.tracked = st.tracked && balanced(inst.Body)

	l.sequence(inst.Body, path, lintState{
		tracked: st.tracked,
		offset:  st.offset,
		entered: runs,
	})

	// A loop only exits on a zero cell.
	st.known = true
	st.value = 0
	st.clean = false

	return st
}

func spins(body program.Program) bool {
	for _, inst := range body {
		switch inst.Op {
		case program.OpPointerShift:
			if inst.N != 0 {
				return false
			}
		case program.OpValueShift:
			if byte(inst.N) != 0 {
				return false
			}
		case program.OpInput, program.OpLoop:
			return false
		}
	}

	return true
}

// balanced reports whether every pass through body leaves the cursor where
// it started.
func balanced(body program.Program) bool {
	net := 0

	for _, inst := range body {
		switch inst.Op {
		case program.OpPointerShift:
			net += inst.N
		case program.OpLoop:
			if !balanced(inst.Body) {
				return false
			}
		}
	}

	return net == 0
}
