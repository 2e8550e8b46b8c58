package dataset

import (
	"encoding/binary"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// WriteLiteralCache writes raw's feature bytes and labels to w in a
// bit-packed form: one bit per feature rather than one text token,
// letting a repeated run over the same experiment skip re-parsing the
// text dataset. This is not part of the on-disk checkpoint format (spec
// section 6); it is a side cache, and the caller chooses where it is
// stored.
func WriteLiteralCache(w io.Writer, raw *Raw) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(raw.X))); err != nil {
		return errors.Wrap(err, "dataset.WriteLiteralCache: sample count")
	}
	if err := binary.Write(w, binary.LittleEndian, int32(raw.Features)); err != nil {
		return errors.Wrap(err, "dataset.WriteLiteralCache: feature count")
	}

	bw := bitio.NewWriter(w)
	for i, features := range raw.X {
		for _, f := range features {
			if err := bw.WriteBits(uint64(f), 1); err != nil {
				return errors.Wrapf(err, "dataset.WriteLiteralCache: sample %d", i)
			}
		}
		if err := bw.WriteBits(uint64(int32(raw.Y[i])), 32); err != nil {
			return errors.Wrapf(err, "dataset.WriteLiteralCache: sample %d label", i)
		}
	}
	if _, err := bw.Align(); err != nil {
		return errors.Wrap(err, "dataset.WriteLiteralCache: align")
	}
	return nil
}

// ReadLiteralCache reads back a cache written by WriteLiteralCache.
func ReadLiteralCache(r io.Reader) (*Raw, error) {
	var samples, features int32
	if err := binary.Read(r, binary.LittleEndian, &samples); err != nil {
		return nil, errors.Wrap(err, "dataset.ReadLiteralCache: sample count")
	}
	if err := binary.Read(r, binary.LittleEndian, &features); err != nil {
		return nil, errors.Wrap(err, "dataset.ReadLiteralCache: feature count")
	}

	raw := &Raw{
		Features: int(features),
		X:        make([][]byte, samples),
		Y:        make([]int, samples),
	}
	br := bitio.NewReader(r)
	for i := range raw.X {
		x := make([]byte, features)
		for f := range x {
			bit, err := br.ReadBits(1)
			if err != nil {
				return nil, errors.Wrapf(err, "dataset.ReadLiteralCache: sample %d feature %d", i, f)
			}
			x[f] = byte(bit)
		}
		label, err := br.ReadBits(32)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset.ReadLiteralCache: sample %d label", i)
		}
		raw.X[i] = x
		raw.Y[i] = int(int32(label))
	}
	return raw, nil
}
