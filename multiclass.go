package wtm

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/wtm/automaton"
	"github.com/mewkiz/wtm/internal/packed"
	"github.com/mewkiz/wtm/internal/prng"
)

// Word is the packed literal/state storage unit: the same type as
// automaton.Word, re-exported so callers never need to import it directly.
type Word = packed.Word

// MultiClassMachine holds one binary machine per class and trains them by
// one-vs-rest contrast with a randomly sampled negative class per sample
// (spec section 4.9).
type MultiClassMachine struct {
	machines []*automaton.BinaryMachine
	rng      *prng.State
	epoch    int
}

// New builds a K-class machine, each class sharing one PRNG stream seeded
// from seed.
func New(hp automaton.Hyperparameters, classes int, seed uint64) (*MultiClassMachine, error) {
	if classes < 2 {
		return nil, errors.Errorf("wtm.New: classes must be >= 2, got %d", classes)
	}
	rng := prng.New(seed)
	machines := make([]*automaton.BinaryMachine, classes)
	for k := range machines {
		m, err := automaton.New(hp, rng)
		if err != nil {
			return nil, errors.Wrapf(err, "wtm.New: class %d", k)
		}
		machines[k] = m
	}
	return &MultiClassMachine{machines: machines, rng: rng}, nil
}

// FromMachines wraps already-constructed binary machines (e.g. restored
// from a checkpoint) into a multi-class model sharing rng, at the given
// epoch count. Every machine is rebound to rng so they draw from one
// stream regardless of how they were built.
func FromMachines(machines []*automaton.BinaryMachine, rng *prng.State, epoch int) *MultiClassMachine {
	for _, m := range machines {
		m.SetRNG(rng)
	}
	return &MultiClassMachine{machines: machines, rng: rng, epoch: epoch}
}

// Classes returns K.
func (mc *MultiClassMachine) Classes() int { return len(mc.machines) }

// Epoch returns the number of completed training epochs.
func (mc *MultiClassMachine) Epoch() int { return mc.epoch }

// SetEpoch overwrites the epoch counter. Used by checkpoint restore.
func (mc *MultiClassMachine) SetEpoch(epoch int) { mc.epoch = epoch }

// Machine returns the binary machine for class k.
func (mc *MultiClassMachine) Machine(k int) *automaton.BinaryMachine { return mc.machines[k] }

// RNG returns the PRNG stream shared by every class machine.
func (mc *MultiClassMachine) RNG() *prng.State { return mc.rng }

// negativeClass draws a class other than y, uniformly over the remaining
// K-1 classes (spec section 4.9, property P9).
func (mc *MultiClassMachine) negativeClass(y int) int {
	z := mc.rng.UniformBelow(uint32(len(mc.machines) - 1))
	neg := int(z)
	if neg >= y {
		neg++
	}
	return neg
}

// TrainSample runs one training step: the sampled negative class machine is
// trained toward 0, the target class machine toward 1.
func (mc *MultiClassMachine) TrainSample(x []Word, y int) {
	neg := mc.negativeClass(y)
	mc.machines[neg].Train(x, 0)
	mc.machines[y].Train(x, 1)
}

// TrainEpoch runs one pass over samples/labels, optionally visiting them in
// a freshly shuffled order, and increments the epoch counter at the end
// (spec section 4.9).
func (mc *MultiClassMachine) TrainEpoch(samples [][]Word, labels []int, shuffle bool) {
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	if shuffle {
		mc.rng.Shuffle(order)
	}
	for _, i := range order {
		mc.TrainSample(samples[i], labels[i])
	}
	mc.epoch++
}

// Predict returns argmax_m infer_m(x), ties broken by lowest index.
func (mc *MultiClassMachine) Predict(x []Word) int {
	best := 0
	bestScore := mc.machines[0].Infer(x, false)
	for m := 1; m < len(mc.machines); m++ {
		score := mc.machines[m].Infer(x, false)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}

// Accuracy returns the fraction of samples whose Predict matches the
// corresponding label.
func (mc *MultiClassMachine) Accuracy(samples [][]Word, labels []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for i, x := range samples {
		if mc.Predict(x) == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}
