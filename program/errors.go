package program

import "fmt"

// ErrorKind tells which bracket is missing.
type ErrorKind int

const (
	// MissingOpeningBracket is reported for a ']' that closes nothing.
	MissingOpeningBracket ErrorKind = iota
	// MissingClosingBracket is reported when input ends inside a loop.
	MissingClosingBracket
)

func (k ErrorKind) String() string {
	switch k {
	case MissingOpeningBracket:
		return "missing opening bracket"
	case MissingClosingBracket:
		return "missing closing bracket"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError describes a bracket mismatch. Offset is the byte offset of the
// unmatched ']' or of the innermost unclosed '['.
type ParseError struct {
	Kind   ErrorKind
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
}

// Is matches any ParseError of the same kind, so the sentinels below work
// with errors.Is.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

var (
	ErrMissingOpeningBracket = &ParseError{Kind: MissingOpeningBracket, Offset: -1}
	ErrMissingClosingBracket = &ParseError{Kind: MissingClosingBracket, Offset: -1}
)

// Position converts a byte offset into src to a 1-based line and column.
func Position(src string, offset int) (line, col int) {
	line, col = 1, 1

	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}
