package automaton

import "github.com/mewkiz/wtm/internal/packed"

// Word is a 32-bit packed machine word: either 32 literal bits or 32 bits
// of one automaton state plane.
type Word = packed.Word

// WordBits is the bit width of a Word.
const WordBits = packed.WordBits

// EncodeLiteral packs a sample's binary features into a literal vector
// (spec section 4.3): bit i holds feature i, bit F+i holds its negation.
// The returned slice is zero-filled before any bit is set, so the tail
// beyond index 2F-1 of the final word is always zero.
func EncodeLiteral(features []byte) []Word {
	dst := make([]Word, LiteralWords(len(features)))
	EncodeLiteralInto(features, dst)
	return dst
}

// EncodeLiteralInto packs features into dst, which must have length
// LiteralWords(len(features)). It is the allocation-free counterpart of
// EncodeLiteral, used when encoding many samples into a shared buffer.
func EncodeLiteralInto(features []byte, dst []Word) {
	for i := range dst {
		dst[i] = 0
	}
	f := len(features)
	for i, v := range features {
		if v != 0 {
			dst[i/WordBits] |= 1 << uint(i%WordBits)
		} else {
			neg := f + i
			dst[neg/WordBits] |= 1 << uint(neg%WordBits)
		}
	}
}
