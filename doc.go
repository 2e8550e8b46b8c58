// Package wtm implements a Weighted Tsetlin Machine multi-class classifier:
// one automaton.BinaryMachine per class, trained one-vs-one-negative-class
// per sample and predicting by argmax of inferred vote.
//
// The package is split by concern: internal/prng and internal/packed hold
// the deterministic-PRNG and bit-packed-buffer primitives; automaton holds
// the single-class learning core (clause evaluation, Type I/II feedback);
// this package composes those into the multi-class model; checkpoint
// serializes a model to and from the on-disk format; dataset loads
// whitespace-delimited sample files and encodes them into packed literal
// vectors; cmd/wtm-train is the training driver.
package wtm
