// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package driver runs key generation, proving and verification for each
// supported scheme behind a single interface.
//
// Artifacts carry the scheme and curve they were generated for; every
// operation checks those tags, the witness, and the public input count
// before any cryptographic work starts. Verify reports a well-formed but
// invalid proof as (false, nil); errors are reserved for malformed inputs.
package driver

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/kzg"
	gnarkbackend "github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/backend/witness"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/bridge"
	"github.com/zkbridge/zkbridge/ir"
	"github.com/zkbridge/zkbridge/translate"
)

// Object is the behavior shared by the underlying scheme artifacts.
type Object interface {
	io.WriterTo
	io.ReaderFrom
}

// ProvingKey wraps a scheme proving key with its provenance tags.
type ProvingKey struct {
	Scheme backend.ID
	Curve  ecc.ID
	K      Object
}

// VerifyingKey wraps a scheme verifying key with its provenance tags and
// the number of public inputs it verifies against.
type VerifyingKey struct {
	Scheme   backend.ID
	Curve    ecc.ID
	NbPublic int
	K        Object
}

// Proof wraps a scheme proof with its provenance tags.
type Proof struct {
	Scheme backend.ID
	Curve  ecc.ID
	K      Object
}

// ProverOption forwards gnark's prover options, GPU acceleration included.
type ProverOption = gnarkbackend.ProverOption

// WithIcicleAcceleration requests the ICICLE GPU prover; effective only when
// the program is built with the icicle build tag.
var WithIcicleAcceleration = gnarkbackend.WithIcicleAcceleration

// SetupConfig is the configuration for Setup with the options applied.
type SetupConfig struct {
	// Entropy feeds SRS trapdoor sampling for the universal-setup schemes.
	// Defaults to crypto/rand. The Groth16 ceremony samples internally and
	// ignores it.
	Entropy io.Reader

	// SRS and SRSLagrange inject a pre-generated universal SRS, bypassing
	// generation. Only the universal-setup schemes consume them.
	SRS         kzg.SRS
	SRSLagrange kzg.SRS

	// Contributions is the number of ceremony contributions per phase for
	// the multi-party setup scheme; other schemes ignore it.
	Contributions int
}

// SetupOption alters the behavior of Setup.
type SetupOption func(*SetupConfig) error

// NewSetupConfig returns a default SetupConfig with the given options
// applied.
func NewSetupConfig(opts ...SetupOption) (SetupConfig, error) {
	cfg := SetupConfig{Entropy: rand.Reader, Contributions: 1}
	for _, option := range opts {
		if err := option(&cfg); err != nil {
			return SetupConfig{}, err
		}
	}
	return cfg, nil
}

// WithEntropy sets the randomness source for SRS trapdoor sampling.
func WithEntropy(r io.Reader) SetupOption {
	return func(cfg *SetupConfig) error {
		if r == nil {
			return fmt.Errorf("nil entropy reader")
		}
		cfg.Entropy = r
		return nil
	}
}

// WithKZGSRS injects a pre-generated universal SRS. srsLagrange may be nil
// for schemes that consume the canonical form only.
func WithKZGSRS(srs, srsLagrange kzg.SRS) SetupOption {
	return func(cfg *SetupConfig) error {
		if srs == nil {
			return fmt.Errorf("nil srs")
		}
		cfg.SRS = srs
		cfg.SRSLagrange = srsLagrange
		return nil
	}
}

// WithContributions sets the number of ceremony contributions per phase for
// the multi-party setup scheme.
func WithContributions(n int) SetupOption {
	return func(cfg *SetupConfig) error {
		if n < 1 {
			return fmt.Errorf("ceremony needs at least one contribution, got %d", n)
		}
		cfg.Contributions = n
		return nil
	}
}

// Driver runs one proving scheme over any of its supported curves.
type Driver interface {
	// Setup generates the proving and verifying keys for a compiled system.
	Setup(sys *translate.System, opts ...SetupOption) (*ProvingKey, *VerifyingKey, error)

	// Prove checks the dense witness against the program, then produces a
	// proof.
	Prove(sys *translate.System, pk *ProvingKey, w ir.Witness, opts ...ProverOption) (*Proof, error)

	// Verify checks a proof against the public inputs. A malformed input is
	// an error; a well-formed but invalid proof is (false, nil).
	Verify(vk *VerifyingKey, proof *Proof, publicInputs []*big.Int) (bool, error)
}

// For returns the driver implementing a scheme.
func For(scheme backend.ID) (Driver, error) {
	switch scheme {
	case backend.GROTH16:
		return groth16Driver{}, nil
	case backend.PLONK:
		return plonkDriver{}, nil
	case backend.GROTH16MPC:
		return mpcDriver{}, nil
	default:
		return nil, fmt.Errorf("%w: scheme %s", backend.ErrUnsupportedCombination, scheme)
	}
}

// NewProvingKey returns an empty tagged proving key for (scheme, curve),
// ready for ReadFrom.
func NewProvingKey(scheme backend.ID, curve ecc.ID) (*ProvingKey, error) {
	k, err := newObject(scheme, curve, kindProvingKey)
	if err != nil {
		return nil, err
	}
	return &ProvingKey{Scheme: scheme, Curve: curve, K: k}, nil
}

// NewVerifyingKey returns an empty tagged verifying key for (scheme, curve),
// ready for ReadFrom.
func NewVerifyingKey(scheme backend.ID, curve ecc.ID) (*VerifyingKey, error) {
	k, err := newObject(scheme, curve, kindVerifyingKey)
	if err != nil {
		return nil, err
	}
	return &VerifyingKey{Scheme: scheme, Curve: curve, K: k}, nil
}

// NewProof returns an empty tagged proof for (scheme, curve), ready for
// ReadFrom.
func NewProof(scheme backend.ID, curve ecc.ID) (*Proof, error) {
	k, err := newObject(scheme, curve, kindProof)
	if err != nil {
		return nil, err
	}
	return &Proof{Scheme: scheme, Curve: curve, K: k}, nil
}

type objectKind uint8

const (
	kindProvingKey objectKind = iota + 1
	kindVerifyingKey
	kindProof
)

func newObject(scheme backend.ID, curve ecc.ID, kind objectKind) (Object, error) {
	if !backend.Supports(scheme, curve) {
		return nil, fmt.Errorf("%w: %s over %s", backend.ErrUnsupportedCombination, scheme, curve)
	}
	switch scheme {
	case backend.PLONK:
		return newPlonkObject(curve, kind), nil
	default:
		// both Groth16 variants share the same artifact types
		return newGroth16Object(curve, kind), nil
	}
}

// checkSystem verifies the system was compiled for the driver's scheme.
func checkSystem(sys *translate.System, scheme backend.ID) error {
	if sys.Scheme != scheme {
		return fmt.Errorf("%w: system compiled for %s, driver runs %s", backend.ErrSchemeCurveMismatch, sys.Scheme, scheme)
	}
	if !backend.Supports(scheme, sys.Curve) {
		return fmt.Errorf("%w: %s over %s", backend.ErrUnsupportedCombination, scheme, sys.Curve)
	}
	return nil
}

// checkTags verifies an artifact's provenance against the expectation,
// scheme first, curve second.
func checkTags(gotScheme backend.ID, gotCurve ecc.ID, scheme backend.ID, curve ecc.ID) error {
	if gotScheme != scheme {
		return fmt.Errorf("%w: artifact for %s, expected %s", backend.ErrSchemeCurveMismatch, gotScheme, scheme)
	}
	if gotCurve != curve {
		return fmt.Errorf("%w: artifact for %s, expected %s", backend.ErrCurveMismatch, gotCurve, curve)
	}
	return nil
}

// proveWitness validates the dense witness against the program, then builds
// the gnark witness.
func proveWitness(sys *translate.System, w ir.Witness) (witness.Witness, error) {
	if err := sys.Program.IsSolved(w); err != nil {
		return nil, err
	}
	return translate.FullWitness(sys.Program, w, sys.Curve)
}

// publicWitness builds the verification-side witness from raw public
// inputs; the count was already checked against the verifying key.
func publicWitness(curve ecc.ID, inputs []*big.Int) (witness.Witness, error) {
	wit, err := witness.New(curve.ScalarField())
	if err != nil {
		return nil, err
	}
	values := make(chan any, len(inputs))
	for i, v := range inputs {
		e, err := bridge.Element(v, curve)
		if err != nil {
			return nil, fmt.Errorf("%w: public input %d", backend.ErrMissingAssignment, i)
		}
		values <- e
	}
	close(values)
	if err := wit.Fill(len(inputs), 0, values); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrWitnessMismatch, err)
	}
	return wit, nil
}

func checkVerifyInputs(vk *VerifyingKey, proof *Proof, scheme backend.ID, nbInputs int) error {
	if vk.Scheme != scheme {
		return fmt.Errorf("%w: verifying key for %s, driver runs %s", backend.ErrSchemeCurveMismatch, vk.Scheme, scheme)
	}
	if !backend.Supports(vk.Scheme, vk.Curve) {
		return fmt.Errorf("%w: %s over %s", backend.ErrUnsupportedCombination, vk.Scheme, vk.Curve)
	}
	if err := checkTags(proof.Scheme, proof.Curve, vk.Scheme, vk.Curve); err != nil {
		return err
	}
	if nbInputs != vk.NbPublic {
		return fmt.Errorf("%w: got %d public inputs, verifying key expects %d", backend.ErrPublicInputCountMismatch, nbInputs, vk.NbPublic)
	}
	return nil
}
