// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every zkbridge package. Callers discriminate
// with errors.Is; packages wrap them with context using %w.
var (
	// ErrUnsupportedCombination is returned when a (scheme, curve) pair is
	// not implemented. It is raised at scheme selection time, never at
	// proving time.
	ErrUnsupportedCombination = errors.New("unsupported scheme and curve combination")

	// ErrCurveMismatch is returned when artifacts or programs bound to one
	// curve are used with another.
	ErrCurveMismatch = errors.New("curve mismatch")

	// ErrUnsupportedField is returned when a program's field modulus does
	// not correspond to the scalar field of any supported curve.
	ErrUnsupportedField = errors.New("unsupported field modulus")

	// ErrEmptyCircuit is returned when a program has no constraints.
	ErrEmptyCircuit = errors.New("empty circuit")

	// ErrWitnessMismatch is returned when a witness does not fit a program,
	// either structurally or because it fails a constraint. The two causes
	// are distinguished by the wrapped sentinels below.
	ErrWitnessMismatch = errors.New("witness does not satisfy the program")

	// ErrPublicInputCountMismatch is returned before any pairing work when
	// the number of public inputs does not match the verifying key.
	ErrPublicInputCountMismatch = errors.New("public input count mismatch")

	// ErrTruncated is returned by decoders when the input ends before the
	// frame or payload is complete.
	ErrTruncated = errors.New("truncated input")

	// ErrInvalidEncoding is returned by decoders on malformed frames or
	// payloads that are not a valid artifact encoding.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrSchemeCurveMismatch is returned when a well-formed artifact carries
	// a different kind, scheme or curve than the caller expects.
	ErrSchemeCurveMismatch = errors.New("artifact scheme or curve mismatch")

	// ErrUnsupportedExport is returned by contract-oriented encoders for
	// (scheme, curve) pairs that have no on-chain verifier surface.
	ErrUnsupportedExport = errors.New("unsupported export target")
)

// Sub-causes of ErrWitnessMismatch; both satisfy
// errors.Is(err, ErrWitnessMismatch).
var (
	ErrUnsatisfiedConstraint = fmt.Errorf("%w: unsatisfied constraint", ErrWitnessMismatch)
	ErrMissingAssignment     = fmt.Errorf("%w: missing assignment", ErrWitnessMismatch)
)
