// Package dataset loads whitespace-delimited sample files and encodes
// them into the packed literal vectors the automaton package operates on
// (spec section 6 "Dataset file format" and section 4.10 driver support).
package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mewkiz/pkg/osutil"
	"github.com/pkg/errors"

	"github.com/mewkiz/wtm/automaton"
	"github.com/mewkiz/wtm/internal/prng"
	"github.com/mewkiz/wtm/internal/wtmerr"
)

// Word is the packed literal storage unit.
type Word = automaton.Word

// Raw is a dataset still in 0/1-feature-byte form, as read from disk:
// exactly the bits the original text encodes, before literal packing.
type Raw struct {
	Features int
	X        [][]byte
	Y        []int
}

// Set is a dataset in its machine-ready packed literal form.
type Set struct {
	Features int
	X        []Word2D
	Y        []int
}

// Word2D is one sample's packed literal vector.
type Word2D = []Word

// Load reads one whitespace-delimited sample file: each line is F binary
// feature tokens followed by an integer class label, F inferred from the
// first line. Every line must carry exactly F+1 tokens.
func Load(path string) (*Raw, error) {
	exists, err := osutil.Exists(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset.Load: %s", path)
	}
	if !exists {
		return nil, errors.Wrapf(wtmerr.ErrMissingDataset, "%s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset.Load: %s", path)
	}
	defer f.Close()

	raw := &Raw{}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if raw.Features == 0 {
			raw.Features = len(tokens) - 1
		}
		if len(tokens) != raw.Features+1 {
			return nil, errors.Wrapf(wtmerr.ErrMalformedSample,
				"%s: line %d has %d tokens, want %d", path, lineNum, len(tokens), raw.Features+1)
		}

		features := make([]byte, raw.Features)
		for i := 0; i < raw.Features; i++ {
			v, err := strconv.Atoi(tokens[i])
			if err != nil {
				return nil, errors.Wrapf(wtmerr.ErrMalformedSample, "%s: line %d: feature %d: %v", path, lineNum, i, err)
			}
			if v != 0 {
				features[i] = 1
			}
		}
		label, err := strconv.Atoi(tokens[raw.Features])
		if err != nil {
			return nil, errors.Wrapf(wtmerr.ErrMalformedSample, "%s: line %d: label: %v", path, lineNum, err)
		}

		raw.X = append(raw.X, features)
		raw.Y = append(raw.Y, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "dataset.Load: %s", path)
	}
	return raw, nil
}

// Encode packs every sample's feature bytes into a literal vector.
func (raw *Raw) Encode() *Set {
	set := &Set{
		Features: raw.Features,
		X:        make([]Word2D, len(raw.X)),
		Y:        raw.Y,
	}
	for i, features := range raw.X {
		set.X[i] = automaton.EncodeLiteral(features)
	}
	return set
}

// LoadExperiment loads data/<experiment>-train.data and
// data/<experiment>-test.data; each returned set carries the feature count
// inferred from its own file's first line (the two counts are not compared),
// and the class count is one more than the maximum label across both files
// (spec section 6).
func LoadExperiment(experiment string) (train, test *Set, classes int, err error) {
	rawTrain, err := Load(fmt.Sprintf("data/%s-train.data", experiment))
	if err != nil {
		return nil, nil, 0, err
	}
	rawTest, err := Load(fmt.Sprintf("data/%s-test.data", experiment))
	if err != nil {
		return nil, nil, 0, err
	}

	classes = maxLabel(rawTrain.Y)
	if m := maxLabel(rawTest.Y); m > classes {
		classes = m
	}
	classes++

	return rawTrain.Encode(), rawTest.Encode(), classes, nil
}

func maxLabel(y []int) int {
	max := 0
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

// ReservoirSplit draws a subsample of the given size from set via partial
// Fisher-Yates (spec section 4.10): the first `size` positions of a
// shuffled index permutation, without materializing the full
// permutation. Samples are referenced, not copied.
func ReservoirSplit(set *Set, size int, rng *prng.State) *Set {
	idx := make([]int, len(set.X))
	for i := range idx {
		idx[i] = i
	}
	out := &Set{
		Features: set.Features,
		X:        make([]Word2D, size),
		Y:        make([]int, size),
	}
	for i := 0; i < size; i++ {
		j := i + int(rng.UniformBelow(uint32(len(idx)-i)))
		idx[i], idx[j] = idx[j], idx[i]
		out.X[i] = set.X[idx[i]]
		out.Y[i] = set.Y[idx[i]]
	}
	return out
}
