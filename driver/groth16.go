// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package driver

import (
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/ir"
	"github.com/zkbridge/zkbridge/logger"
	"github.com/zkbridge/zkbridge/translate"
)

// groth16Driver runs the pairing-based scheme with a per-circuit trusted
// setup.
type groth16Driver struct{}

func (groth16Driver) Setup(sys *translate.System, opts ...SetupOption) (*ProvingKey, *VerifyingKey, error) {
	if err := checkSystem(sys, backend.GROTH16); err != nil {
		return nil, nil, err
	}
	if _, err := NewSetupConfig(opts...); err != nil {
		return nil, nil, err
	}

	log := logger.Logger().With().Str("curve", sys.Curve.String()).Str("backend", "groth16").Logger()
	start := time.Now()

	// the per-circuit ceremony samples its toxic waste internally; the
	// configured entropy source applies to the universal-setup schemes only
	pk, vk, err := groth16.Setup(sys.CCS)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 setup: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("setup done")

	return &ProvingKey{Scheme: backend.GROTH16, Curve: sys.Curve, K: pk},
		&VerifyingKey{Scheme: backend.GROTH16, Curve: sys.Curve, NbPublic: sys.Program.NbPublic, K: vk},
		nil
}

func (groth16Driver) Prove(sys *translate.System, pk *ProvingKey, w ir.Witness, opts ...ProverOption) (*Proof, error) {
	if err := checkSystem(sys, backend.GROTH16); err != nil {
		return nil, err
	}
	if err := checkTags(pk.Scheme, pk.Curve, backend.GROTH16, sys.Curve); err != nil {
		return nil, err
	}
	gpk, ok := pk.K.(groth16.ProvingKey)
	if !ok {
		return nil, fmt.Errorf("%w: proving key payload is %T", backend.ErrSchemeCurveMismatch, pk.K)
	}
	fw, err := proveWitness(sys, w)
	if err != nil {
		return nil, err
	}

	log := logger.Logger().With().Str("curve", sys.Curve.String()).Str("backend", "groth16").Logger()
	start := time.Now()
	proof, err := groth16.Prove(sys.CCS, gpk, fw, opts...)
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("prover done")

	return &Proof{Scheme: backend.GROTH16, Curve: sys.Curve, K: proof}, nil
}

func (groth16Driver) Verify(vk *VerifyingKey, proof *Proof, publicInputs []*big.Int) (bool, error) {
	if err := checkVerifyInputs(vk, proof, backend.GROTH16, len(publicInputs)); err != nil {
		return false, err
	}
	gvk, ok := vk.K.(groth16.VerifyingKey)
	if !ok {
		return false, fmt.Errorf("%w: verifying key payload is %T", backend.ErrSchemeCurveMismatch, vk.K)
	}
	gproof, ok := proof.K.(groth16.Proof)
	if !ok {
		return false, fmt.Errorf("%w: proof payload is %T", backend.ErrSchemeCurveMismatch, proof.K)
	}
	pw, err := publicWitness(vk.Curve, publicInputs)
	if err != nil {
		return false, err
	}

	if err := groth16.Verify(gproof, gvk, pw); err != nil {
		log := logger.Logger()
		log.Debug().Err(err).Str("backend", "groth16").Msg("proof rejected")
		return false, nil
	}
	return true, nil
}

func newGroth16Object(curve ecc.ID, kind objectKind) Object {
	switch kind {
	case kindProvingKey:
		return groth16.NewProvingKey(curve)
	case kindVerifyingKey:
		return groth16.NewVerifyingKey(curve)
	default:
		return groth16.NewProof(curve)
	}
}
