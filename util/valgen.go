// Some helpers using closures to generate random program sources
package valgen

import (
	"math/rand"
	"strings"
)

// MakeSourceGen returns a generator of balanced sources whose length before
// closing the open loops lies in [minLen, maxLen]. Characters are drawn from
// alphabet; '[' in the alphabet opens a loop and each open loop is closed
// with probability closeOdds at every position. A ']' drawn with no loop open
// is dropped, so such alphabets may yield shorter sources.
func MakeSourceGen(
	seed int64,
	alphabet string,
	minLen, maxLen int,
	closeOdds float64,
) func() string {
	r := rand.New(rand.NewSource(seed))

	return func() string {
		var sb strings.Builder
		open := 0

		length := minLen + r.Intn(maxLen-minLen+1)
		for i := 0; i < length; i++ {
			c := alphabet[r.Intn(len(alphabet))]
			if open > 0 && r.Float64() < closeOdds {
				c = ']'
			}

			switch c {
			case '[':
				open++
			case ']':
				if open == 0 {
					continue
				}
				open--
			}

			sb.WriteByte(c)
		}

		sb.WriteString(strings.Repeat("]", open))

		return sb.String()
	}
}

// MakeNestingGen returns a generator of sources of the given length that
// nest loops up to maxDepth deep.
func MakeNestingGen(seed int64, length, maxDepth int) func() string {
	r := rand.New(rand.NewSource(seed))

	return func() string {
		var sb strings.Builder
		depth := 0

		for j := 0; j < length; j++ {
			switch c := r.Intn(5); {
			case c == 0 && depth < maxDepth:
				sb.WriteByte('[')
				depth++
			case c == 1 && depth > 0:
				sb.WriteByte(']')
				depth--
			default:
				sb.WriteByte("+-<>.,"[r.Intn(6)])
			}
		}

		sb.WriteString(strings.Repeat("]", depth))

		return sb.String()
	}
}
