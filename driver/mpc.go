// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package driver

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	mpc_bls12377 "github.com/consensys/gnark/backend/groth16/bls12-377/mpcsetup"
	mpc_bls12381 "github.com/consensys/gnark/backend/groth16/bls12-381/mpcsetup"
	mpc_bn254 "github.com/consensys/gnark/backend/groth16/bn254/mpcsetup"
	cs_bls12377 "github.com/consensys/gnark/constraint/bls12-377"
	cs_bls12381 "github.com/consensys/gnark/constraint/bls12-381"
	cs_bn254 "github.com/consensys/gnark/constraint/bn254"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/ir"
	"github.com/zkbridge/zkbridge/logger"
	"github.com/zkbridge/zkbridge/translate"
)

// mpcDriver runs Groth16 with a multi-party ceremony in place of the
// single-party setup: phase 1 builds the circuit-independent powers of tau,
// phase 2 specializes them to the circuit, and a random beacon seals each
// phase. The key pair is sound as long as one contribution per phase was
// honest. Proving and verification are plain Groth16.
type mpcDriver struct{}

func (mpcDriver) Setup(sys *translate.System, opts ...SetupOption) (*ProvingKey, *VerifyingKey, error) {
	if err := checkSystem(sys, backend.GROTH16MPC); err != nil {
		return nil, nil, err
	}
	cfg, err := NewSetupConfig(opts...)
	if err != nil {
		return nil, nil, err
	}

	log := logger.Logger().With().Str("curve", sys.Curve.String()).Str("backend", "groth16-mpc").Logger()

	// the beacon values are public randomness revealed after the last
	// contribution; the contributions themselves sample their secrets
	// internally
	beacon1, err := beaconChallenge(cfg.Entropy)
	if err != nil {
		return nil, nil, err
	}
	beacon2, err := beaconChallenge(cfg.Entropy)
	if err != nil {
		return nil, nil, err
	}

	domainSize := ecc.NextPowerOfTwo(uint64(sys.CCS.GetNbConstraints()))
	start := time.Now()
	pk, vk, err := runCeremony(sys, domainSize, cfg.Contributions, beacon1, beacon2)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 ceremony: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Int("contributions", cfg.Contributions).Msg("setup done")

	return &ProvingKey{Scheme: backend.GROTH16MPC, Curve: sys.Curve, K: pk},
		&VerifyingKey{Scheme: backend.GROTH16MPC, Curve: sys.Curve, NbPublic: sys.Program.NbPublic, K: vk},
		nil
}

func (mpcDriver) Prove(sys *translate.System, pk *ProvingKey, w ir.Witness, opts ...ProverOption) (*Proof, error) {
	if err := checkSystem(sys, backend.GROTH16MPC); err != nil {
		return nil, err
	}
	if err := checkTags(pk.Scheme, pk.Curve, backend.GROTH16MPC, sys.Curve); err != nil {
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

	log := logger.Logger().With().Str("curve", sys.Curve.String()).Str("backend", "groth16-mpc").Logger()
	start := time.Now()
	proof, err := groth16.Prove(sys.CCS, gpk, fw, opts...)
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("prover done")

	return &Proof{Scheme: backend.GROTH16MPC, Curve: sys.Curve, K: proof}, nil
}

func (mpcDriver) Verify(vk *VerifyingKey, proof *Proof, publicInputs []*big.Int) (bool, error) {
	if err := checkVerifyInputs(vk, proof, backend.GROTH16MPC, len(publicInputs)); err != nil {
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
		log.Debug().Err(err).Str("backend", "groth16-mpc").Msg("proof rejected")
		return false, nil
	}
	return true, nil
}

// runCeremony executes both ceremony phases in process, one participant per
// contribution, and returns the sealed key pair.
func runCeremony(sys *translate.System, domainSize uint64, contributions int, beacon1, beacon2 []byte) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	switch ccs := sys.CCS.(type) {
	case *cs_bn254.R1CS:
		var p1 mpc_bn254.Phase1
		p1.Initialize(domainSize)
		phase1 := make([]*mpc_bn254.Phase1, contributions)
		for i := range phase1 {
			p1.Contribute()
			phase1[i] = new(mpc_bn254.Phase1)
			if err := snapshot(phase1[i], &p1); err != nil {
				return nil, nil, err
			}
		}
		commons, err := mpc_bn254.VerifyPhase1(domainSize, beacon1, phase1...)
		if err != nil {
			return nil, nil, fmt.Errorf("phase 1: %w", err)
		}

		var p2 mpc_bn254.Phase2
		p2.Initialize(ccs, &commons)
		phase2 := make([]*mpc_bn254.Phase2, contributions)
		for i := range phase2 {
			p2.Contribute()
			phase2[i] = new(mpc_bn254.Phase2)
			if err := snapshot(phase2[i], &p2); err != nil {
				return nil, nil, err
			}
		}
		pk, vk, err := mpc_bn254.VerifyPhase2(ccs, &commons, beacon2, phase2...)
		if err != nil {
			return nil, nil, fmt.Errorf("phase 2: %w", err)
		}
		return pk, vk, nil

	case *cs_bls12381.R1CS:
		var p1 mpc_bls12381.Phase1
		p1.Initialize(domainSize)
		phase1 := make([]*mpc_bls12381.Phase1, contributions)
		for i := range phase1 {
			p1.Contribute()
			phase1[i] = new(mpc_bls12381.Phase1)
			if err := snapshot(phase1[i], &p1); err != nil {
				return nil, nil, err
			}
		}
		commons, err := mpc_bls12381.VerifyPhase1(domainSize, beacon1, phase1...)
		if err != nil {
			return nil, nil, fmt.Errorf("phase 1: %w", err)
		}

		var p2 mpc_bls12381.Phase2
		p2.Initialize(ccs, &commons)
		phase2 := make([]*mpc_bls12381.Phase2, contributions)
		for i := range phase2 {
			p2.Contribute()
			phase2[i] = new(mpc_bls12381.Phase2)
			if err := snapshot(phase2[i], &p2); err != nil {
				return nil, nil, err
			}
		}
		pk, vk, err := mpc_bls12381.VerifyPhase2(ccs, &commons, beacon2, phase2...)
		if err != nil {
			return nil, nil, fmt.Errorf("phase 2: %w", err)
		}
		return pk, vk, nil

	case *cs_bls12377.R1CS:
		var p1 mpc_bls12377.Phase1
		p1.Initialize(domainSize)
		phase1 := make([]*mpc_bls12377.Phase1, contributions)
		for i := range phase1 {
			p1.Contribute()
			phase1[i] = new(mpc_bls12377.Phase1)
			if err := snapshot(phase1[i], &p1); err != nil {
				return nil, nil, err
			}
		}
		commons, err := mpc_bls12377.VerifyPhase1(domainSize, beacon1, phase1...)
		if err != nil {
			return nil, nil, fmt.Errorf("phase 1: %w", err)
		}

		var p2 mpc_bls12377.Phase2
		p2.Initialize(ccs, &commons)
		phase2 := make([]*mpc_bls12377.Phase2, contributions)
		for i := range phase2 {
			p2.Contribute()
			phase2[i] = new(mpc_bls12377.Phase2)
			if err := snapshot(phase2[i], &p2); err != nil {
				return nil, nil, err
			}
		}
		pk, vk, err := mpc_bls12377.VerifyPhase2(ccs, &commons, beacon2, phase2...)
		if err != nil {
			return nil, nil, fmt.Errorf("phase 2: %w", err)
		}
		return pk, vk, nil

	default:
		return nil, nil, fmt.Errorf("%w: constraint system %T", backend.ErrCurveMismatch, sys.CCS)
	}
}

// snapshot round-trips a contribution through its wire encoding, the way it
// would travel between ceremony participants.
func snapshot(dst io.ReaderFrom, src io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := src.WriteTo(&buf); err != nil {
		return err
	}
	_, err := dst.ReadFrom(&buf)
	return err
}

func beaconChallenge(entropy io.Reader) ([]byte, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(entropy, b); err != nil {
		return nil, fmt.Errorf("sample beacon challenge: %w", err)
	}
	return b, nil
}
