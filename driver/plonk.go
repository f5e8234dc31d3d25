// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package driver

import (
	"fmt"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/ir"
	"github.com/zkbridge/zkbridge/logger"
	"github.com/zkbridge/zkbridge/srs"
	"github.com/zkbridge/zkbridge/translate"
)

// plonkDriver runs PLONK over KZG commitments with a universal, updatable
// SRS.
type plonkDriver struct{}

func (plonkDriver) Setup(sys *translate.System, opts ...SetupOption) (*ProvingKey, *VerifyingKey, error) {
	if err := checkSystem(sys, backend.PLONK); err != nil {
		return nil, nil, err
	}
	cfg, err := NewSetupConfig(opts...)
	if err != nil {
		return nil, nil, err
	}

	log := logger.Logger().With().Str("curve", sys.Curve.String()).Str("backend", "plonk").Logger()

	canonical, lagrange := cfg.SRS, cfg.SRSLagrange
	if canonical == nil || lagrange == nil {
		sizeCanonical, sizeLagrange := srs.Sizes(backend.PLONK, sys.CCS)
		start := time.Now()
		canonical, err = srs.Generate(sys.Curve, sizeCanonical, cfg.Entropy)
		if err != nil {
			return nil, nil, fmt.Errorf("plonk srs: %w", err)
		}
		lagrange, err = srs.Lagrange(sys.Curve, canonical, sizeLagrange)
		if err != nil {
			return nil, nil, fmt.Errorf("plonk srs: %w", err)
		}
		log.Debug().Dur("took", time.Since(start)).Uint64("size", sizeCanonical).Msg("srs generated")
	}

	start := time.Now()
	pk, vk, err := plonk.Setup(sys.CCS, canonical, lagrange)
	if err != nil {
		return nil, nil, fmt.Errorf("plonk setup: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("setup done")

	return &ProvingKey{Scheme: backend.PLONK, Curve: sys.Curve, K: pk},
		&VerifyingKey{Scheme: backend.PLONK, Curve: sys.Curve, NbPublic: sys.Program.NbPublic, K: vk},
		nil
}

func (plonkDriver) Prove(sys *translate.System, pk *ProvingKey, w ir.Witness, opts ...ProverOption) (*Proof, error) {
	if err := checkSystem(sys, backend.PLONK); err != nil {
		return nil, err
	}
	if err := checkTags(pk.Scheme, pk.Curve, backend.PLONK, sys.Curve); err != nil {
		return nil, err
	}
	ppk, ok := pk.K.(plonk.ProvingKey)
	if !ok {
		return nil, fmt.Errorf("%w: proving key payload is %T", backend.ErrSchemeCurveMismatch, pk.K)
	}
	fw, err := proveWitness(sys, w)
	if err != nil {
		return nil, err
	}

	log := logger.Logger().With().Str("curve", sys.Curve.String()).Str("backend", "plonk").Logger()
	start := time.Now()
	proof, err := plonk.Prove(sys.CCS, ppk, fw, opts...)
	if err != nil {
		return nil, fmt.Errorf("plonk prove: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("prover done")

	return &Proof{Scheme: backend.PLONK, Curve: sys.Curve, K: proof}, nil
}

func (plonkDriver) Verify(vk *VerifyingKey, proof *Proof, publicInputs []*big.Int) (bool, error) {
	if err := checkVerifyInputs(vk, proof, backend.PLONK, len(publicInputs)); err != nil {
		return false, err
	}
	pvk, ok := vk.K.(plonk.VerifyingKey)
	if !ok {
		return false, fmt.Errorf("%w: verifying key payload is %T", backend.ErrSchemeCurveMismatch, vk.K)
	}
	pproof, ok := proof.K.(plonk.Proof)
	if !ok {
		return false, fmt.Errorf("%w: proof payload is %T", backend.ErrSchemeCurveMismatch, proof.K)
	}
	pw, err := publicWitness(vk.Curve, publicInputs)
	if err != nil {
		return false, err
	}

	if err := plonk.Verify(pproof, pvk, pw); err != nil {
		log := logger.Logger()
		log.Debug().Err(err).Str("backend", "plonk").Msg("proof rejected")
		return false, nil
	}
	return true, nil
}

func newPlonkObject(curve ecc.ID, kind objectKind) Object {
	switch kind {
	case kindProvingKey:
		return plonk.NewProvingKey(curve)
	case kindVerifyingKey:
		return plonk.NewVerifyingKey(curve)
	default:
		return plonk.NewProof(curve)
	}
}
