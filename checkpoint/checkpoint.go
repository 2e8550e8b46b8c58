// Package checkpoint saves and restores a multi-class machine's exact
// state -- automaton planes, weights, epoch counter and PRNG stream -- to
// the fixed binary layout described by the training driver (spec
// section 6).
package checkpoint

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mewkiz/wtm"
	"github.com/mewkiz/wtm/automaton"
	"github.com/mewkiz/wtm/internal/prng"
	"github.com/mewkiz/wtm/internal/wtmerr"
)

// Path returns the canonical checkpoint path for an experiment run at the
// given hyperparameters: results/<experiment>-c<CCCC>-p<PPPP>-g<GGGG>-t<TTTT>.machine.
func Path(experiment string, hp automaton.Hyperparameters) string {
	name := fmt.Sprintf("%s-c%04d-p%04d-g%04d-t%04d.machine",
		experiment,
		hp.Clauses/10,
		int(math.Round(hp.P*10000)),
		int(math.Round(hp.Gamma*10000)),
		hp.Threshold,
	)
	return filepath.Join("results", name)
}

// Save writes mc's complete state to w: a header of (epoch, classes)
// followed by one per-class machine section, in class order.
func Save(w io.Writer, mc *wtm.MultiClassMachine) error {
	if err := binary.Write(w, binary.LittleEndian, int32(mc.Epoch())); err != nil {
		return errors.Wrap(err, "checkpoint.Save: epoch")
	}
	if err := binary.Write(w, binary.LittleEndian, int32(mc.Classes())); err != nil {
		return errors.Wrap(err, "checkpoint.Save: classes")
	}
	for k := 0; k < mc.Classes(); k++ {
		if err := writeMachine(w, mc.Machine(k)); err != nil {
			return errors.Wrapf(err, "checkpoint.Save: class %d", k)
		}
	}
	return nil
}

// writeMachine writes one per-class machine section: the header fields
// (features, clauses, p, gamma, threshold, state_bits, prng_state), then
// every clause's packed state planes in clause-major, literal-minor,
// plane-innermost order, then the weight vector.
//
// The PRNG state is the one shared stream every class machine of the
// model draws from; it is written redundantly once per class, matching
// the reference layout exactly.
func writeMachine(w io.Writer, m *automaton.BinaryMachine) error {
	hp := m.Hyperparameters()
	header := []interface{}{
		int32(hp.Features),
		int32(hp.Clauses),
		hp.P,
		hp.Gamma,
		int32(hp.Threshold),
		int32(hp.StateBits),
		m.RNG().Raw(),
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return errors.Wrap(err, "header")
		}
	}
	for c := 0; c < hp.Clauses; c++ {
		for l := 0; l < m.Literals(); l++ {
			if err := binary.Write(w, binary.LittleEndian, m.StateRow(c, l)); err != nil {
				return errors.Wrapf(err, "clause %d literal %d state", c, l)
			}
		}
	}
	if err := binary.Write(w, binary.LittleEndian, m.Weights()); err != nil {
		return errors.Wrap(err, "weights")
	}
	return nil
}

// Load reads a checkpoint produced by Save and rebuilds the multi-class
// machine it describes, including the shared PRNG stream and epoch
// counter.
func Load(r io.Reader) (*wtm.MultiClassMachine, error) {
	var epoch, classes int32
	if err := binary.Read(r, binary.LittleEndian, &epoch); err != nil {
		return nil, errors.Wrap(err, "checkpoint.Load: epoch")
	}
	if err := binary.Read(r, binary.LittleEndian, &classes); err != nil {
		return nil, errors.Wrap(err, "checkpoint.Load: classes")
	}
	if classes < 2 {
		return nil, errors.Wrapf(wtmerr.ErrIncompatibleCheckpoint, "classes = %d", classes)
	}

	machines := make([]*automaton.BinaryMachine, classes)
	var rng *prng.State
	for k := range machines {
		m, raw, err := readMachine(r)
		if err != nil {
			return nil, errors.Wrapf(err, "checkpoint.Load: class %d", k)
		}
		machines[k] = m
		// Every class section carries the same shared stream; take the
		// last one read, which is exactly as valid as any other.
		rng = prng.FromRaw(raw)
	}
	return wtm.FromMachines(machines, rng, int(epoch)), nil
}

// readMachine reads one per-class machine section and reconstructs its
// binary machine, returning the raw PRNG state word recorded in its
// header alongside it.
func readMachine(r io.Reader) (*automaton.BinaryMachine, uint64, error) {
	var features, clauses, threshold, stateBits int32
	var p, gamma float64
	var rawState uint64

	fields := []struct {
		name string
		dst  interface{}
	}{
		{"features", &features},
		{"clauses", &clauses},
		{"p", &p},
		{"gamma", &gamma},
		{"threshold", &threshold},
		{"state_bits", &stateBits},
		{"prng_state", &rawState},
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f.dst); err != nil {
			return nil, 0, errors.Wrapf(err, "header field %s", f.name)
		}
	}

	hp := automaton.Hyperparameters{
		Features:  int(features),
		Clauses:   int(clauses),
		P:         p,
		Gamma:     gamma,
		Threshold: int(threshold),
		StateBits: int(stateBits),
	}
	m, err := automaton.New(hp, prng.FromRaw(rawState))
	if err != nil {
		return nil, 0, errors.Wrap(err, "reconstructed hyperparameters")
	}

	for c := 0; c < hp.Clauses; c++ {
		for l := 0; l < m.Literals(); l++ {
			row := make([]automaton.Word, hp.StateBits)
			if err := binary.Read(r, binary.LittleEndian, row); err != nil {
				return nil, 0, errors.Wrapf(err, "clause %d literal %d state", c, l)
			}
			m.SetStateRow(c, l, row)
		}
	}

	weights := make([]float64, hp.Clauses)
	if err := binary.Read(r, binary.LittleEndian, weights); err != nil {
		return nil, 0, errors.Wrap(err, "weights")
	}
	m.SetWeights(weights)

	return m, rawState, nil
}

// CheckCompatible reports whether a loaded machine's shape matches a
// dataset's (spec section 7, IncompatibleCheckpoint).
func CheckCompatible(mc *wtm.MultiClassMachine, features, classes int) error {
	if mc.Classes() != classes {
		return errors.Wrapf(wtmerr.ErrIncompatibleCheckpoint, "checkpoint has %d classes, dataset has %d", mc.Classes(), classes)
	}
	if got := mc.Machine(0).Hyperparameters().Features; got != features {
		return errors.Wrapf(wtmerr.ErrIncompatibleCheckpoint, "checkpoint has %d features, dataset has %d", got, features)
	}
	return nil
}
