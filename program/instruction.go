// Package program defines the instruction tree shared by the interpreter
// and the code generator, and the parser that builds it from source text.
package program

import (
	"fmt"
	"strings"
)

// Opcode represents the operation code for an instruction.
type Opcode uint8

const (
	OpPointerShift Opcode = iota // move the cursor by N cells
	OpValueShift                 // add N to the cell under the cursor, mod 256
	OpOutput                     // emit the cell under the cursor
	OpInput                      // read one byte into the cell under the cursor
	OpLoop                       // run Body while the cell under the cursor is nonzero
)

func (op Opcode) String() string {
	switch op {
	case OpPointerShift:
		return "PointerShift"
	case OpValueShift:
		return "ValueShift"
	case OpOutput:
		return "Output"
	case OpInput:
		return "Input"
	case OpLoop:
		return "Loop"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(op))
	}
}

// Instruction is one node of the program tree. N is only meaningful for
// the two shift opcodes and Body only for OpLoop.
type Instruction struct {
	Op   Opcode
	N    int
	Body Program
}

// Program is an ordered sequence of instructions. Loop bodies are owned by
// their loop; programs never share nodes.
type Program []Instruction

// PointerShiftBy creates an instruction that moves the cursor by n cells.
func PointerShiftBy(n int) Instruction {
	return Instruction{Op: OpPointerShift, N: n}
}

// ValueShiftBy creates an instruction that adds n to the current cell.
func ValueShiftBy(n int) Instruction {
	return Instruction{Op: OpValueShift, N: n}
}

// Output creates an instruction that emits the current cell.
func Output() Instruction {
	return Instruction{Op: OpOutput}
}

// Input creates an instruction that reads one byte into the current cell.
func Input() Instruction {
	return Instruction{Op: OpInput}
}

// Loop creates a loop around the given body.
func Loop(body ...Instruction) Instruction {
	if body == nil {
		body = []Instruction{}
	}

	return Instruction{Op: OpLoop, Body: Program(body)}
}

func (inst Instruction) String() string {
	switch inst.Op {
	case OpPointerShift, OpValueShift:
		return fmt.Sprintf("%s(%d)", inst.Op, inst.N)
	case OpLoop:
		return fmt.Sprintf("Loop%v", []Instruction(inst.Body))
	default:
		return inst.Op.String()
	}
}

// Stats summarizes the shape of a program tree.
type Stats struct {
	Instructions int
	PointerShift int
	ValueShift   int
	Output       int
	Input        int
	Loops        int
	MaxDepth     int
}

// Stats walks the tree and counts its nodes.
func (p Program) Stats() Stats {
	var s Stats
	p.collect(&s, 0)
	return s
}

func (p Program) collect(s *Stats, depth int) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}

	for _, inst := range p {
		s.Instructions++
		switch inst.Op {
		case OpPointerShift:
			s.PointerShift++
		case OpValueShift:
			s.ValueShift++
		case OpOutput:
			s.Output++
		case OpInput:
			s.Input++
		case OpLoop:
			s.Loops++
			inst.Body.collect(s, depth+1)
		}
	}
}

// String renders the program back as minimal source text. Shifts that
// folded to zero render as nothing.
func (p Program) String() string {
	var sb strings.Builder
	p.render(&sb)
	return sb.String()
}

func (p Program) render(sb *strings.Builder) {
	for _, inst := range p {
		switch inst.Op {
		case OpPointerShift:
			writeRun(sb, inst.N, '>', '<')
		case OpValueShift:
			writeRun(sb, inst.N, '+', '-')
		case OpOutput:
			sb.WriteByte('.')
		case OpInput:
			sb.WriteByte(',')
		case OpLoop:
			sb.WriteByte('[')
			inst.Body.render(sb)
			sb.WriteByte(']')
		}
	}
}

func writeRun(sb *strings.Builder, n int, up, down byte) {
	c := up
	if n < 0 {
		c = down
		n = -n
	}

	for i := 0; i < n; i++ {
		sb.WriteByte(c)
	}
}
