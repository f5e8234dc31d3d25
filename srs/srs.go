// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package srs generates and caches the universal KZG structured reference
// strings consumed by the universal-setup schemes.
//
// Generation samples the trapdoor from a caller-supplied entropy source and
// discards it; the canonical SRS can be persisted through Cache, the
// Lagrange-basis form is always derived from the canonical one at the
// requested domain size.
package srs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	kzg_bls12377 "github.com/consensys/gnark-crypto/ecc/bls12-377/kzg"
	kzg_bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/kzg"
	kzg_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/consensys/gnark-crypto/kzg"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"

	"github.com/zkbridge/zkbridge/backend"
)

// Sizes returns the canonical and Lagrange SRS sizes a scheme needs for a
// compiled system. The Groth16 variants build their parameters in a
// per-circuit ceremony and need none.
func Sizes(scheme backend.ID, ccs constraint.ConstraintSystem) (canonical, lagrange uint64) {
	switch scheme {
	case backend.PLONK:
		c, l := plonk.SRSSize(ccs)
		return uint64(c), uint64(l)
	default:
		return 0, 0
	}
}

// Generate samples a fresh canonical SRS of the given size for the curve.
// If entropy is nil, crypto/rand is used.
func Generate(curve ecc.ID, size uint64, entropy io.Reader) (kzg.SRS, error) {
	if entropy == nil {
		entropy = rand.Reader
	}
	tau, err := rand.Int(entropy, curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("sample srs trapdoor: %w", err)
	}
	return newSRS(curve, size, tau)
}

func newSRS(curve ecc.ID, size uint64, tau *big.Int) (kzg.SRS, error) {
	switch curve {
	case ecc.BN254:
		return kzg_bn254.NewSRS(size, tau)
	case ecc.BLS12_381:
		return kzg_bls12381.NewSRS(size, tau)
	case ecc.BLS12_377:
		return kzg_bls12377.NewSRS(size, tau)
	default:
		return nil, fmt.Errorf("%w: curve %s", backend.ErrUnsupportedCombination, curve)
	}
}

// Lagrange derives the Lagrange-basis SRS at the given domain size from a
// canonical SRS of the same curve.
func Lagrange(curve ecc.ID, canonical kzg.SRS, size uint64) (kzg.SRS, error) {
	switch s := canonical.(type) {
	case *kzg_bn254.SRS:
		if uint64(len(s.Pk.G1)) < size {
			return nil, fmt.Errorf("canonical srs too small: %d < %d", len(s.Pk.G1), size)
		}
		g1, err := kzg_bn254.ToLagrangeG1(s.Pk.G1[:size])
		if err != nil {
			return nil, err
		}
		return &kzg_bn254.SRS{Pk: kzg_bn254.ProvingKey{G1: g1}, Vk: s.Vk}, nil
	case *kzg_bls12381.SRS:
		if uint64(len(s.Pk.G1)) < size {
			return nil, fmt.Errorf("canonical srs too small: %d < %d", len(s.Pk.G1), size)
		}
		g1, err := kzg_bls12381.ToLagrangeG1(s.Pk.G1[:size])
		if err != nil {
			return nil, err
		}
		return &kzg_bls12381.SRS{Pk: kzg_bls12381.ProvingKey{G1: g1}, Vk: s.Vk}, nil
	case *kzg_bls12377.SRS:
		if uint64(len(s.Pk.G1)) < size {
			return nil, fmt.Errorf("canonical srs too small: %d < %d", len(s.Pk.G1), size)
		}
		g1, err := kzg_bls12377.ToLagrangeG1(s.Pk.G1[:size])
		if err != nil {
			return nil, err
		}
		return &kzg_bls12377.SRS{Pk: kzg_bls12377.ProvingKey{G1: g1}, Vk: s.Vk}, nil
	default:
		return nil, fmt.Errorf("%w: srs type %T does not match curve %s", backend.ErrCurveMismatch, canonical, curve)
	}
}

// empty returns a zero-value SRS of the curve's concrete type, ready for
// ReadFrom.
func empty(curve ecc.ID) (kzg.SRS, error) {
	switch curve {
	case ecc.BN254:
		return &kzg_bn254.SRS{}, nil
	case ecc.BLS12_381:
		return &kzg_bls12381.SRS{}, nil
	case ecc.BLS12_377:
		return &kzg_bls12377.SRS{}, nil
	default:
		return nil, fmt.Errorf("%w: curve %s", backend.ErrUnsupportedCombination, curve)
	}
}
