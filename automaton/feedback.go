package automaton

import "github.com/mewkiz/wtm/internal/prng"

// feedbackMask fills mask (length LiteralWords(features)) with an
// unbiased sample of a length-2F bit vector where each literal position is
// independently 1 with probability p (spec section 4.5). Bits at or beyond
// index 2F are always left clear, regardless of which way the majority
// fill went, via tail.
func feedbackMask(rng *prng.State, p float64, features int, tail Word, mask []Word) {
	n := 2 * features
	flips := rng.Binomial(p, n)
	target := flips <= features
	if !target {
		flips = n - flips
	}

	// Fill with the complement of target: the loop below flips exactly
	// flips bits over to target, so starting there means every remaining
	// bit already sits at the majority value.
	var fill Word
	if !target {
		fill = ^Word(0)
	}
	for i := range mask {
		mask[i] = fill
	}

	for flips > 0 {
		l := rng.UniformBelow(uint32(n))
		w, b := l/WordBits, l%WordBits
		bitSet := (mask[w]>>b)&1 != 0
		if bitSet == target {
			continue // already flipped to the target value: rejection sample again.
		}
		mask[w] ^= 1 << b
		flips--
	}

	if len(mask) > 0 {
		last := len(mask) - 1
		mask[last] &= tail
	}
}
