package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelDebug - 4
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// DumpTape prints a heading line and the cells within window of the cursor
// as a table. The cursor column is marked with '^'.
func DumpTape(w io.Writer, tape []byte, ptr int, window int) {
	lo := max(ptr-window, 0)
	hi := min(ptr+window+1, len(tape))

	fmt.Fprintf(w, "Tape (%d cells, cursor at %d)\n", len(tape), ptr)

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{""}
	values := table.Row{"value"}
	chars := table.Row{"char"}
	marks := table.Row{""}

	for i := lo; i < hi; i++ {
		header = append(header, i)
		values = append(values, tape[i])
		chars = append(chars, printable(tape[i]))

		if i == ptr {
			marks = append(marks, "^")
		} else {
			marks = append(marks, "")
		}
	}

	t.AppendHeader(header)
	t.AppendRow(values)
	t.AppendRow(chars)
	t.AppendFooter(marks)
	t.Render()
}

func printable(c byte) string {
	if c >= 0x20 && c < 0x7f {
		return string(rune(c))
	}

	return "."
}

// LogState writes the machine position at debug level.
func LogState(m *Machine) {
	slog.Debug("StateCheckpoint",
		"Ptr", m.Ptr,
		"Cell", m.Tape[m.Ptr],
		"Steps", m.steps,
	)
}
