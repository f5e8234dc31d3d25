// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package zkbridge adapts flattened rank-1 constraint programs onto
// zero-knowledge proof schemes over pairing-friendly curves.
//
// zkbridge drives the following schemes:
//   - Groth16 (per-circuit trusted setup)
//   - Groth16 with a multi-party ceremony setup (per-circuit, sound with
//     one honest contributor per phase)
//   - PLONK over KZG (universal, updatable SRS)
//
// on the following curves:
//   - BN254
//   - BLS12-381
//   - BLS12-377
//
// A Session pins one (scheme, curve) pair and exposes the whole pipeline:
// compile a program, generate keys, prove, verify.
package zkbridge

import (
	"fmt"
	"math/big"
	"runtime"

	"github.com/blang/semver/v4"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/bridge"
	"github.com/zkbridge/zkbridge/driver"
	"github.com/zkbridge/zkbridge/ir"
	"github.com/zkbridge/zkbridge/logger"
	"github.com/zkbridge/zkbridge/translate"
)

// Version of the zkbridge module.
var Version = semver.MustParse("1.0.0")

// Curves returns the curves supported by zkbridge.
func Curves() []ecc.ID {
	return bridge.Curves()
}

// Schemes returns the proving schemes supported by zkbridge.
func Schemes() []backend.ID {
	return backend.Implemented()
}

// Session pins a (scheme, curve) pair. Unsupported pairs are rejected at
// session creation, never later in the pipeline.
type Session struct {
	scheme backend.ID
	curve  ecc.ID
	drv    driver.Driver
	log    zerolog.Logger
}

// SessionOption alters the behavior of a session.
type SessionOption func(*Session) error

// WithLogger overrides the session logger.
func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) error {
		s.log = l
		return nil
	}
}

// NewSession returns a session for the given scheme and curve.
func NewSession(scheme backend.ID, curve ecc.ID, opts ...SessionOption) (*Session, error) {
	if !backend.Supports(scheme, curve) {
		return nil, fmt.Errorf("%w: %s over %s", backend.ErrUnsupportedCombination, scheme, curve)
	}
	drv, err := driver.For(scheme)
	if err != nil {
		return nil, err
	}
	s := &Session{
		scheme: scheme,
		curve:  curve,
		drv:    drv,
		log:    logger.Logger().With().Str("backend", scheme.String()).Str("curve", curve.String()).Logger(),
	}
	for _, option := range opts {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Scheme returns the session's proving scheme.
func (s *Session) Scheme() backend.ID { return s.scheme }

// Curve returns the session's curve.
func (s *Session) Curve() ecc.ID { return s.curve }

// Compile lowers a program onto the session's scheme and curve.
func (s *Session) Compile(p *ir.Program) (*translate.System, error) {
	return translate.Compile(p, s.scheme, s.curve)
}

// Setup generates the proving and verifying keys for a compiled system.
func (s *Session) Setup(sys *translate.System, opts ...driver.SetupOption) (*driver.ProvingKey, *driver.VerifyingKey, error) {
	return s.drv.Setup(sys, opts...)
}

// Prove produces a proof for the dense witness.
func (s *Session) Prove(sys *translate.System, pk *driver.ProvingKey, w ir.Witness, opts ...driver.ProverOption) (*driver.Proof, error) {
	return s.drv.Prove(sys, pk, w, opts...)
}

// Verify checks a proof against public inputs. A malformed input is an
// error; a well-formed but invalid proof is (false, nil).
func (s *Session) Verify(vk *driver.VerifyingKey, proof *Proof, publicInputs []*big.Int) (bool, error) {
	return s.drv.Verify(vk, proof, publicInputs)
}

// Proof re-exports the driver artifact for the session API.
type Proof = driver.Proof

// VerifyBatch checks a batch of proofs against one verifying key,
// concurrently. It fails on the first malformed input or invalid proof,
// annotated with its index.
func (s *Session) VerifyBatch(vk *driver.VerifyingKey, proofs []*Proof, publicInputs [][]*big.Int) error {
	if len(proofs) != len(publicInputs) {
		return fmt.Errorf("ragged batch: %d proofs, %d public input sets", len(proofs), len(publicInputs))
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range proofs {
		i := i
		g.Go(func() error {
			ok, err := s.drv.Verify(vk, proofs[i], publicInputs[i])
			if err != nil {
				return fmt.Errorf("proof %d: %w", i, err)
			}
			if !ok {
				return fmt.Errorf("proof %d: invalid", i)
			}
			return nil
		})
	}
	err := g.Wait()
	s.log.Debug().Int("batch", len(proofs)).Err(err).Msg("batch verification done")
	return err
}
