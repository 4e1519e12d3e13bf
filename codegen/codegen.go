// Package codegen lowers program trees into AArch64 assembly for the Darwin
// system call ABI.
//
// The tape pointer lives in X6 and W7 is the scratch register for cell
// values. Every instruction lowers to a fixed template. Loops use the GNU
// numeric local labels 2d+1 and 2d+2, where d is the nesting depth; they are
// referenced as "Nf" and "Nb", so loops that share a depth never clash.
//
// The output assembles and links with:
//
//	as -arch arm64 -o prog.o prog.s
//	ld -o prog prog.o -lSystem -syslibroot "$(xcrun -sdk macosx --show-sdk-path)" -e _start -arch arm64
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/bfasm/program"
)

// maxImmediate is the largest unshifted immediate accepted by add and sub.
const maxImmediate = 4095

const preamble = `.macro syscall1 syscall X0
    mov     X0, \X0
    mov     X16, \syscall
    svc     #0x80
.endm

.macro syscall3 syscall X0 X1 X2
    mov     X0, \X0
    mov     X1, \X1
    mov     X2, \X2
    mov     X16, \syscall
    svc     #0x80
.endm

.set SYS_exit,  1
.set SYS_read,  3
.set SYS_write, 4

.set STDIN,     0
.set STDOUT,    1

.bss
    .lcomm memory, %d

.text
.align 2
.global _start
_start:
    adrp    X6, memory@PAGE
    add     X6, X6, memory@PAGEOFF

; Program:

`

const epilogue = `
    syscall1 SYS_exit, #0
`

// Generator emits the assembly for one program.
type Generator struct {
	tapeSize int
	out      strings.Builder
}

// NewGenerator creates a generator that reserves tapeSize bytes of tape.
func NewGenerator(tapeSize int) *Generator {
	return &Generator{tapeSize: tapeSize}
}

// Generate returns the complete assembly text of p.
func Generate(p program.Program, tapeSize int) string {
	g := NewGenerator(tapeSize)
	g.Emit(p)

	return g.String()
}

// Emit lowers p, wrapped in the preamble and the exit epilogue.
func (g *Generator) Emit(p program.Program) {
	fmt.Fprintf(&g.out, preamble, g.tapeSize)
	g.block(p, 0)
	g.out.WriteString(epilogue)
}

// String returns everything emitted so far.
func (g *Generator) String() string {
	return g.out.String()
}

// WriteTo writes the emitted text to w.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, g.out.String())
	return int64(n), err
}

func (g *Generator) line(format string, args ...any) {
	fmt.Fprintf(&g.out, format+"\n", args...)
}

func (g *Generator) comment(format string, args ...any) {
	g.line("    ; "+format, args...)
}

func (g *Generator) block(p program.Program, depth int) {
	for i := range p {
		g.instruction(&p[i], depth)
	}
}

func (g *Generator) instruction(inst *program.Instruction, depth int) {
	switch inst.Op {
	case program.OpPointerShift:
		g.comment("POINTER SHIFT")
		g.pointerShift(inst.N)
	case program.OpValueShift:
		g.comment("VALUE SHIFT")
		g.line("    ldrb    W7, [X6]")
		g.line("    add     W7, W7, #%d", wrapByte(inst.N))
		g.line("    strb    W7, [X6]")
	case program.OpOutput:
		g.comment("VALUE OUTPUT")
		g.line("    mov     X1, X6")
		g.line("    syscall3 SYS_write, STDOUT, X1, #1")
	case program.OpInput:
		g.comment("VALUE INPUT")
		g.line("    mov     X1, X6")
		g.line("    syscall3 SYS_read, STDIN, X1, #1")
	case program.OpLoop:
		top, bottom := LoopLabels(depth)

		g.comment("LOOP")
		g.line("%d:", top)
		g.line("    ldrb    W7, [X6]")
		g.line("    cmp     W7, #0")
		g.line("    b.eq    %df", bottom)
		g.line("")
		g.block(inst.Body, depth+1)
		g.line("    b       %db", top)
		g.line("%d:", bottom)
	}

	g.line("")
}

func (g *Generator) pointerShift(n int) {
	op, abs := "add", n
	if n < 0 {
		op, abs = "sub", -n
	}

	if abs <= maxImmediate {
		g.line("    %-7s X6, X6, #%d", op, abs)
		return
	}

	g.line("    ldr     X9, =%d", abs)
	g.line("    %-7s X6, X6, X9", op)
}

// LoopLabels returns the numeric labels of a loop at the given depth.
func LoopLabels(depth int) (top, bottom int) {
	return 2*depth + 1, 2*depth + 2
}

// wrapByte reduces n to the byte value with the same effect on a cell.
func wrapByte(n int) int {
	return int(byte(n))
}
