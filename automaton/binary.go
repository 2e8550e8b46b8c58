// Package automaton implements the binary Weighted Tsetlin Machine: one
// class-versus-background classifier built from a bank of clauses, each
// clause's literal-inclusion decisions held as finite automata packed
// vertically across machine words (spec sections 3-4, 6-8 non-driver
// parts).
package automaton

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/wtm/internal/packed"
	"github.com/mewkiz/wtm/internal/prng"
)

// BinaryMachine is a single class-versus-background Tsetlin machine: C
// clauses, each owning 2F automata (one per literal) plus a signed weight.
type BinaryMachine struct {
	hp       Hyperparameters
	literals int  // L = LiteralWords(Features)
	tail     Word // mask clearing bits >= 2F in the final literal word

	state       *packed.Buffer3D // [clause][literal][plane], one word per plane
	weight      []float64
	clauseValue []bool

	mask *packed.Buffer1D // scratch feedback mask, length L; lifetime = one setter call
	rng  *prng.State       // shared with sibling machines of the same multi-class model
}

// New constructs a binary machine with freshly initialized automaton
// state (spec invariant I5: every counter starts at 2^(S-1)-1, one below
// the include threshold) and sign-initialized weights (I4: +1 for even
// clauses, -1 for odd).
func New(hp Hyperparameters, rng *prng.State) (*BinaryMachine, error) {
	if err := hp.Validate(); err != nil {
		return nil, errors.Wrap(err, "automaton.New")
	}
	m := &BinaryMachine{
		hp:          hp,
		literals:    LiteralWords(hp.Features),
		tail:        tailMask(hp.Features),
		weight:      make([]float64, hp.Clauses),
		clauseValue: make([]bool, hp.Clauses),
		rng:         rng,
	}
	m.state = packed.NewBuffer3D(hp.Clauses, m.literals, hp.StateBits)
	m.mask = packed.NewBuffer1D(m.literals)
	m.resetState()
	return m, nil
}

func (m *BinaryMachine) resetState() {
	S := m.hp.StateBits
	for c := 0; c < m.hp.Clauses; c++ {
		if c%2 == 1 {
			m.weight[c] = -1
		} else {
			m.weight[c] = 1
		}
		for l := 0; l < m.literals; l++ {
			row := m.state.Row(c, l)
			for b := 0; b < S-1; b++ {
				row[b] = ^Word(0)
			}
			row[S-1] = 0
		}
		// Clear the tail of every plane in the final literal word up front:
		// I5 sets the lower planes to all-ones, which would otherwise leave
		// the non-existent literals beyond 2F looking "included".
		lastRow := m.state.Row(c, m.literals-1)
		for b := range lastRow {
			lastRow[b] &= m.tail
		}
	}
}

// literalWord masks out bits beyond 2F when l is the final literal word;
// every other word passes through unchanged. Used wherever a computed
// addend/subtrahend could otherwise leak a set bit into the tail (the
// clearer feedback's ^action term in particular: inverting an
// all-tail-zero action plane sets the tail bits of the complement).
func (m *BinaryMachine) literalWord(l int, v Word) Word {
	if l == m.literals-1 {
		return v & m.tail
	}
	return v
}

// Value evaluates clause c against literal vector x (spec section 4.6),
// latching and returning the result. Empty clauses (no included literals)
// evaluate to false during inference but true during training -- keeping
// that branch visible here rather than folding it away is deliberate,
// since it is the one place a trivially-unconditioned clause could
// silently inflate predictions.
func (m *BinaryMachine) Value(c int, x []Word, training bool) bool {
	S := m.hp.StateBits
	// Re-mask the tail of the final literal word's action plane (and, for
	// the tail-bit invariant, every plane of that word) before reading it.
	lastRow := m.state.Row(c, m.literals-1)
	for b := range lastRow {
		lastRow[b] &= m.tail
	}

	var active Word
	for l := 0; l < m.literals; l++ {
		s := m.state.At(c, l, S-1)
		if s&x[l] != s {
			m.clauseValue[c] = false
			return false
		}
		active |= s
	}
	result := training || active != 0
	m.clauseValue[c] = result
	return result
}

// Infer returns the weighted sum of every clause whose Value is true (spec
// section 4.7).
func (m *BinaryMachine) Infer(x []Word, training bool) float64 {
	var sum float64
	for c := 0; c < m.hp.Clauses; c++ {
		if m.Value(c, x, training) {
			sum += m.weight[c]
		}
	}
	return sum
}

// Predict reports whether Infer(x, false) >= 0.
func (m *BinaryMachine) Predict(x []Word) bool {
	return m.Infer(x, false) >= 0
}

// Evaluate returns the fraction of samples whose Predict matches the
// corresponding 0/1 label.
func (m *BinaryMachine) Evaluate(samples [][]Word, labels []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for i, x := range samples {
		predicted := 0
		if m.Predict(x) {
			predicted = 1
		}
		if predicted == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

// Train runs one step of feedback (spec section 4.8) against target label
// y in {0, 1}.
func (m *BinaryMachine) Train(x []Word, y int) {
	v := m.Infer(x, true)
	d := 0.5 + (0.5-float64(y))*v/float64(m.hp.Threshold)
	for c := 0; c < m.hp.Clauses; c++ {
		if m.rng.Uniform() >= d {
			continue
		}
		if y != c%2 {
			m.setter(c, x)
		} else {
			m.clearer(c, x)
		}
	}
}

// setter is Type I feedback: strengthens literals present in x, and
// stochastically relaxes literals the feedback mask selects.
func (m *BinaryMachine) setter(c int, x []Word) {
	mask := m.mask.Raw()
	feedbackMask(m.rng, m.hp.P, m.hp.Features, m.tail, mask)

	if m.clauseValue[c] {
		m.weight[c] *= 1 + m.hp.Gamma
		for l := 0; l < m.literals; l++ {
			row := m.state.Row(c, l)
			addPlane(row, m.literalWord(l, x[l]))
			subtractPlane(row, m.literalWord(l, mask[l]&^x[l]))
		}
	} else {
		for l := 0; l < m.literals; l++ {
			row := m.state.Row(c, l)
			subtractPlane(row, m.literalWord(l, mask[l]))
		}
	}
}

// clearer is Type II feedback: deterministically pushes currently-excluded
// literals absent from x just above the include threshold.
func (m *BinaryMachine) clearer(c int, x []Word) {
	if !m.clauseValue[c] {
		return
	}
	m.weight[c] /= 1 + m.hp.Gamma
	S := m.hp.StateBits
	for l := 0; l < m.literals; l++ {
		row := m.state.Row(c, l)
		action := row[S-1]
		addend := m.literalWord(l, (^action)&(^x[l]))
		addPlane(row, addend)
	}
}

// Hyperparameters returns the machine's construction parameters.
func (m *BinaryMachine) Hyperparameters() Hyperparameters { return m.hp }

// Literals returns L, the number of words per literal vector.
func (m *BinaryMachine) Literals() int { return m.literals }

// Weights returns the per-clause weight slice, shared with the machine --
// callers (checkpoint) must not retain it past the machine's lifetime.
func (m *BinaryMachine) Weights() []float64 { return m.weight }

// SetWeights overwrites every clause weight. Used only by checkpoint
// deserialization.
func (m *BinaryMachine) SetWeights(w []float64) {
	copy(m.weight, w)
}

// StateRow returns the bit-plane slice for (clause, literal), shared with
// the machine.
func (m *BinaryMachine) StateRow(c, l int) []Word { return m.state.Row(c, l) }

// SetStateRow overwrites the bit-plane slice for (clause, literal). Used
// only by checkpoint deserialization.
func (m *BinaryMachine) SetStateRow(c, l int, row []Word) {
	copy(m.state.Row(c, l), row)
}

// RNG returns the PRNG stream this machine draws from.
func (m *BinaryMachine) RNG() *prng.State { return m.rng }

// SetRNG rebinds the machine to a different PRNG stream. Used when
// deserializing a multi-class model, whose binary machines must all share
// one stream rather than the independent ones they were built with.
func (m *BinaryMachine) SetRNG(rng *prng.State) { m.rng = rng }
