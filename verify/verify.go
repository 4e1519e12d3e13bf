// Package verify provides static and dynamic checks for programs.
//
// This package implements two complementary stages:
//
// 1. Static Lint (lint.go): structural checks on the folded tree
//   - NOOP: a folded shift that nets to zero
//   - DEADLOOP: a loop entered on a cell that is known to be zero
//   - SPIN: a loop whose body cannot change the loop condition
//   - BOUNDS: a cursor move that leaves the tape whenever it runs
//
// Issues inside loops that may never run are marked Conditional and are
// never severe.
//
// 2. Cross Check (crosscheck.go): runs the recursive core.Machine and the
// cycle-counting core.Core on the same input and compares tape, cursor and
// output. It also yields the cycle estimate shown in the report.
//
// # Usage Example
//
//	prog := program.MustParse(src)
//	for _, issue := range verify.RunLint(prog, 3000) {
//	    log.Printf("[%s] %s: %s", issue.Type, issue.Location(), issue.Message)
//	}
//
//	res := verify.CrossCheck(prog, verify.CheckConfig{TapeSize: 3000})
//	if res.Err != nil {
//	    panic(res.Err)
//	}
package verify

import (
	"fmt"
	"strings"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueNoop     IssueType = "NOOP"     // shift folded to zero
	IssueDeadLoop IssueType = "DEADLOOP" // loop body can never run
	IssueSpin     IssueType = "SPIN"     // loop never terminates once entered
	IssueBounds   IssueType = "BOUNDS"   // cursor leaves the tape
)

// Severe reports whether issues of this type make the program misbehave, as
// opposed to merely carrying dead code.
func (t IssueType) Severe() bool {
	return t == IssueSpin || t == IssueBounds
}

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // NOOP, DEADLOOP, SPIN or BOUNDS
	Path    []int                  // index of the instruction at each nesting level
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data

	// Conditional is set when the instruction sits in a loop that may
	// never run.
	Conditional bool
}

// Severe reports whether the issue certainly makes the program misbehave.
func (i Issue) Severe() bool {
	return i.Type.Severe() && !i.Conditional
}

// Location formats the path as "3/0/2"; the top-level index comes first.
func (i Issue) Location() string {
	parts := make([]string, len(i.Path))
	for k, idx := range i.Path {
		parts[k] = fmt.Sprint(idx)
	}

	return strings.Join(parts, "/")
}

// Depth returns how many loops enclose the instruction.
func (i Issue) Depth() int {
	return len(i.Path) - 1
}
