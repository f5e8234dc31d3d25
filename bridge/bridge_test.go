// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package bridge

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/ir"
)

func TestByID(t *testing.T) {
	assert := require.New(t)

	for _, c := range Curves() {
		info, err := ByID(c)
		assert.NoError(err)
		assert.Equal(c, info.ID)
		assert.Equal(0, info.ScalarField.Cmp(c.ScalarField()))
		assert.Equal(32, info.ScalarBytes)
	}

	bn, _ := ByID(ecc.BN254)
	assert.Equal(32, bn.BaseBytes)
	bls, _ := ByID(ecc.BLS12_381)
	assert.Equal(48, bls.BaseBytes)

	_, err := ByID(ecc.BW6_761)
	assert.ErrorIs(err, backend.ErrUnsupportedCombination)
}

func TestCheckField(t *testing.T) {
	assert := require.New(t)

	prog := func(q *big.Int) *ir.Program { return &ir.Program{Field: q, NbWires: 1} }

	for _, c := range Curves() {
		assert.NoError(CheckField(prog(c.ScalarField()), c))
	}

	// field of another supported curve
	err := CheckField(prog(ecc.BLS12_381.ScalarField()), ecc.BN254)
	assert.ErrorIs(err, backend.ErrCurveMismatch)

	// field of no supported curve
	err = CheckField(prog(big.NewInt(65537)), ecc.BN254)
	assert.ErrorIs(err, backend.ErrUnsupportedField)

	err = CheckField(prog(nil), ecc.BN254)
	assert.ErrorIs(err, backend.ErrUnsupportedField)
}

func TestElement(t *testing.T) {
	assert := require.New(t)
	r := ecc.BN254.ScalarField()

	got, err := Element(new(big.Int).Add(r, big.NewInt(3)), ecc.BN254)
	assert.NoError(err)
	assert.Equal(0, got.Cmp(big.NewInt(3)))

	got, err = Element(big.NewInt(-1), ecc.BN254)
	assert.NoError(err)
	assert.Equal(0, got.Cmp(new(big.Int).Sub(r, big.NewInt(1))))

	_, err = Element(nil, ecc.BN254)
	assert.ErrorIs(err, backend.ErrMissingAssignment)
}
