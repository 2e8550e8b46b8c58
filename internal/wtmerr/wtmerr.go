// Package wtmerr defines the sentinel error kinds shared across the module
// (spec section 7): MissingDataset, MalformedSample, IncompatibleCheckpoint
// and InvalidHyperparameter. Callers wrap these with
// github.com/pkg/errors.Wrap/Wrapf at the point of detection and compare
// with errors.Is at the driver level.
package wtmerr

import "errors"

var (
	// ErrMissingDataset means a dataset path did not exist.
	ErrMissingDataset = errors.New("missing dataset")
	// ErrMalformedSample means a dataset line had the wrong token count or
	// an unparsable token.
	ErrMalformedSample = errors.New("malformed sample")
	// ErrIncompatibleCheckpoint means a deserialized checkpoint's
	// hyperparameters are inconsistent with the dataset or configuration
	// in hand.
	ErrIncompatibleCheckpoint = errors.New("incompatible checkpoint")
	// ErrInvalidHyperparameter means a hyperparameter violates its
	// documented domain (e.g. an odd clause count, or p outside (0,1)).
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")
)
