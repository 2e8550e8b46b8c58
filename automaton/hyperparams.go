package automaton

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/wtm/internal/wtmerr"
)

// DefaultStateBits is the automaton state-bit width used when a caller
// doesn't have an opinion (spec default S=8).
const DefaultStateBits = 8

// Hyperparameters are a binary machine's immutable construction parameters
// (spec section 3).
type Hyperparameters struct {
	// Features is the number of binary input features, F.
	Features int
	// Clauses is the clause count, C. Must be even.
	Clauses int
	// P is the setter feedback probability, in (0, 1).
	P float64
	// Gamma is the weight learning rate, > 0.
	Gamma float64
	// Threshold is the voting threshold T, > 0.
	Threshold int
	// StateBits is the automaton state-bit width S, >= 2.
	StateBits int
}

// Validate checks every hyperparameter against its documented domain (spec
// section 7). It returns an error wrapping wtmerr.ErrInvalidHyperparameter
// describing the first violation found.
func (hp Hyperparameters) Validate() error {
	switch {
	case hp.Features <= 0:
		return errors.Wrapf(wtmerr.ErrInvalidHyperparameter, "features must be positive, got %d", hp.Features)
	case hp.Clauses <= 0 || hp.Clauses%2 != 0:
		return errors.Wrapf(wtmerr.ErrInvalidHyperparameter, "clauses must be even and positive, got %d", hp.Clauses)
	case hp.P <= 0 || hp.P >= 1:
		return errors.Wrapf(wtmerr.ErrInvalidHyperparameter, "p must be in (0, 1), got %v", hp.P)
	case hp.Gamma <= 0:
		return errors.Wrapf(wtmerr.ErrInvalidHyperparameter, "gamma must be positive, got %v", hp.Gamma)
	case hp.Threshold <= 0:
		return errors.Wrapf(wtmerr.ErrInvalidHyperparameter, "threshold must be positive, got %d", hp.Threshold)
	case hp.StateBits < 2:
		return errors.Wrapf(wtmerr.ErrInvalidHyperparameter, "state bits must be >= 2, got %d", hp.StateBits)
	}
	return nil
}

// LiteralWords returns L, the number of words needed to hold 2*features
// packed literal bits: ceil(2F / WordBits).
func LiteralWords(features int) int {
	return (2*features + WordBits - 1) / WordBits
}

// tailMask returns a word with the low (2F mod WordBits) bits set and the
// rest clear -- an all-ones word when 2F is a multiple of WordBits, since
// then there is no tail. ANDing the final literal word of any bit-plane
// with this mask clears every bit beyond index 2F-1.
func tailMask(features int) Word {
	rem := uint((2 * features) % WordBits)
	if rem == 0 {
		return ^Word(0)
	}
	return ^(^Word(0) << rem)
}
