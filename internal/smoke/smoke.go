// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package smoke provides the small programs and witnesses shared by tests
// across zkbridge packages.
package smoke

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"

	"github.com/zkbridge/zkbridge/ir"
)

// MulProgram returns a*b = c with c public.
// Wires: 0 = one, 1 = c (public), 2 = a, 3 = b.
func MulProgram(curve ecc.ID) *ir.Program {
	return &ir.Program{
		Field:    curve.ScalarField(),
		NbWires:  4,
		NbPublic: 1,
		Constraints: []ir.R1C{
			{
				L: ir.LinearCombination{{Coeff: big.NewInt(1), WireID: 2}},
				R: ir.LinearCombination{{Coeff: big.NewInt(1), WireID: 3}},
				O: ir.LinearCombination{{Coeff: big.NewInt(1), WireID: 1}},
			},
		},
	}
}

// MulWitness returns a satisfying dense witness for MulProgram.
func MulWitness(curve ecc.ID, a, b int64) ir.Witness {
	c := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	c.Mod(c, curve.ScalarField())
	return ir.Witness{big.NewInt(1), c, big.NewInt(a), big.NewInt(b)}
}

// BadWitness returns a witness for MulProgram failing its constraint.
func BadWitness(curve ecc.ID) ir.Witness {
	w := MulWitness(curve, 3, 5)
	w[1] = big.NewInt(16)
	return w
}

// LinearProgram returns (x + 3) * 1 = y with y public, exercising the
// one-wire and multi-term combinations.
// Wires: 0 = one, 1 = y (public), 2 = x.
func LinearProgram(curve ecc.ID) *ir.Program {
	return &ir.Program{
		Field:    curve.ScalarField(),
		NbWires:  3,
		NbPublic: 1,
		Constraints: []ir.R1C{
			{
				L: ir.LinearCombination{
					{Coeff: big.NewInt(1), WireID: 2},
					{Coeff: big.NewInt(3), WireID: 0},
				},
				R: ir.LinearCombination{{Coeff: big.NewInt(1), WireID: 0}},
				O: ir.LinearCombination{{Coeff: big.NewInt(1), WireID: 1}},
			},
		},
	}
}

// LinearWitness returns a satisfying dense witness for LinearProgram.
func LinearWitness(curve ecc.ID, x int64) ir.Witness {
	y := new(big.Int).Add(big.NewInt(x), big.NewInt(3))
	y.Mod(y, curve.ScalarField())
	return ir.Witness{big.NewInt(1), y, big.NewInt(x)}
}
