package program

// parser holds the scan state of one Parse call.
type parser struct {
	src   string
	pos   int
	depth int

	// offsets of the currently open '[' bytes, innermost last
	opens []int
}

// Parse builds a program tree from source text. Bytes other than the eight
// instruction characters are comments. Adjacent shifts of the same kind are
// folded into one instruction, even when the result is zero.
func Parse(src string) (Program, error) {
	p := &parser{src: src}
	return p.parseSequence()
}

// MustParse is like Parse but panics on malformed input.
func MustParse(src string) Program {
	prog, err := Parse(src)
	if err != nil {
		panic(err)
	}

	return prog
}

// parseSequence consumes instructions until the end of the input or the
// ']' that closes the current level.
func (p *parser) parseSequence() (Program, error) {
	prog := Program{}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++

		switch c {
		case '>':
			prog = fold(prog, OpPointerShift, 1)
		case '<':
			prog = fold(prog, OpPointerShift, -1)
		case '+':
			prog = fold(prog, OpValueShift, 1)
		case '-':
			prog = fold(prog, OpValueShift, -1)
		case '.':
			prog = append(prog, Output())
		case ',':
			prog = append(prog, Input())
		case '[':
			p.depth++
			p.opens = append(p.opens, p.pos-1)

			body, err := p.parseSequence()
			if err != nil {
				return nil, err
			}

			prog = append(prog, Loop(body...))
		case ']':
			if p.depth == 0 {
				return nil, &ParseError{Kind: MissingOpeningBracket, Offset: p.pos - 1}
			}

			p.depth--
			p.opens = p.opens[:len(p.opens)-1]

			return prog, nil
		}
	}

	if p.depth != 0 {
		return nil, &ParseError{
			Kind:   MissingClosingBracket,
			Offset: p.opens[len(p.opens)-1],
		}
	}

	return prog, nil
}

// fold merges delta into the last instruction when it has the same shift
// opcode, or appends a fresh shift otherwise.
func fold(prog Program, op Opcode, delta int) Program {
	if n := len(prog); n > 0 && prog[n-1].Op == op {
		prog[n-1].N += delta
		return prog
	}

	return append(prog, Instruction{Op: op, N: delta})
}
