package core

import (
	"fmt"
	"io"
	"strings"
)

// Input produces the bytes consumed by the ',' instruction. Returning io.EOF
// signals that no more input is available. bufio.Reader and bytes.Buffer
// satisfy it.
type Input interface {
	ReadByte() (byte, error)
}

// Output consumes the bytes produced by the '.' instruction. bufio.Writer
// and bytes.Buffer satisfy it.
type Output interface {
	WriteByte(c byte) error
}

// InputFunc adapts a function to the Input interface.
type InputFunc func() (byte, error)

// ReadByte calls f.
func (f InputFunc) ReadByte() (byte, error) {
	return f()
}

// OutputFunc adapts a function to the Output interface.
type OutputFunc func(c byte) error

// WriteByte calls f.
func (f OutputFunc) WriteByte(c byte) error {
	return f(c)
}

// EOFPolicy decides what ',' stores when the input is exhausted.
type EOFPolicy int

const (
	// EOFUnchanged leaves the current cell as it was.
	EOFUnchanged EOFPolicy = iota
	// EOFZero stores 0 into the current cell.
	EOFZero
)

func (p EOFPolicy) String() string {
	switch p {
	case EOFUnchanged:
		return "unchanged"
	case EOFZero:
		return "zero"
	default:
		return fmt.Sprintf("EOFPolicy(%d)", int(p))
	}
}

// ParseEOFPolicy converts a policy name as printed by String.
func ParseEOFPolicy(name string) (EOFPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unchanged":
		return EOFUnchanged, nil
	case "zero":
		return EOFZero, nil
	default:
		return EOFUnchanged, fmt.Errorf("unknown EOF policy %q", name)
	}
}

type noInput struct{}

func (noInput) ReadByte() (byte, error) { return 0, io.EOF }

type discardOutput struct{}

func (discardOutput) WriteByte(byte) error { return nil }
