// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package bridge binds field-generic programs to concrete pairing-friendly
// curves. It is the only place a program modulus is compared against curve
// scalar fields; everything downstream works with an already-checked pair.
package bridge

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/ir"
)

// Info describes a supported curve.
type Info struct {
	ID          ecc.ID
	ScalarField *big.Int
	BaseField   *big.Int

	// byte width of a canonical big-endian field element
	ScalarBytes int
	BaseBytes   int
}

// Curves returns the curves zkbridge operates on.
func Curves() []ecc.ID {
	return []ecc.ID{ecc.BN254, ecc.BLS12_381, ecc.BLS12_377}
}

// ByID returns curve info for a supported curve.
func ByID(id ecc.ID) (Info, error) {
	supported := false
	for _, c := range Curves() {
		if c == id {
			supported = true
			break
		}
	}
	if !supported {
		return Info{}, fmt.Errorf("%w: curve %s", backend.ErrUnsupportedCombination, id)
	}
	scalar := id.ScalarField()
	base := id.BaseField()
	return Info{
		ID:          id,
		ScalarField: scalar,
		BaseField:   base,
		ScalarBytes: (scalar.BitLen() + 7) / 8,
		BaseBytes:   (base.BitLen() + 7) / 8,
	}, nil
}

// CheckField verifies that the program's modulus is the scalar field of the
// given curve. A modulus belonging to a different supported curve is a
// backend.ErrCurveMismatch naming that curve; a modulus matching no
// supported curve is a backend.ErrUnsupportedField.
func CheckField(p *ir.Program, curve ecc.ID) error {
	info, err := ByID(curve)
	if err != nil {
		return err
	}
	if p.Field == nil {
		return fmt.Errorf("%w: program has no field modulus", backend.ErrUnsupportedField)
	}
	if p.Field.Cmp(info.ScalarField) == 0 {
		return nil
	}
	for _, other := range Curves() {
		if other == curve {
			continue
		}
		if p.Field.Cmp(other.ScalarField()) == 0 {
			return fmt.Errorf("%w: program field is the scalar field of %s, not %s", backend.ErrCurveMismatch, other, curve)
		}
	}
	return fmt.Errorf("%w: program field matches no supported curve", backend.ErrUnsupportedField)
}

// Element reduces v into the canonical representative range [0, r) of the
// curve's scalar field. Negative values map to their additive inverse
// representative.
func Element(v *big.Int, curve ecc.ID) (*big.Int, error) {
	info, err := ByID(curve)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", backend.ErrMissingAssignment)
	}
	return new(big.Int).Mod(v, info.ScalarField), nil
}
