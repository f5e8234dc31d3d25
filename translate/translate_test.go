// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package translate

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/internal/smoke"
)

func TestCompile(t *testing.T) {
	for _, scheme := range backend.Implemented() {
		for _, curve := range backend.Curves(scheme) {
			t.Run(scheme.String()+"/"+curve.String(), func(t *testing.T) {
				assert := require.New(t)

				sys, err := Compile(smoke.MulProgram(curve), scheme, curve)
				assert.NoError(err)
				assert.Equal(scheme, sys.Scheme)
				assert.Equal(curve, sys.Curve)
				assert.GreaterOrEqual(sys.CCS.GetNbConstraints(), 1)
				assert.Equal(0, sys.CCS.Field().Cmp(curve.ScalarField()))

				w, err := FullWitness(sys.Program, smoke.MulWitness(curve, 3, 5), curve)
				assert.NoError(err)
				assert.NoError(sys.CCS.IsSolved(w))
			})
		}
	}
}

func TestCompileLinear(t *testing.T) {
	assert := require.New(t)

	sys, err := Compile(smoke.LinearProgram(ecc.BN254), backend.PLONK, ecc.BN254)
	assert.NoError(err)

	w, err := FullWitness(sys.Program, smoke.LinearWitness(ecc.BN254, 39), ecc.BN254)
	assert.NoError(err)
	assert.NoError(sys.CCS.IsSolved(w))
}

func TestCompileRejections(t *testing.T) {
	assert := require.New(t)

	// unsupported combination, before any compilation work
	_, err := Compile(smoke.MulProgram(ecc.BLS12_381), backend.UNKNOWN, ecc.BLS12_381)
	assert.ErrorIs(err, backend.ErrUnsupportedCombination)

	// program bound to another curve's field
	_, err = Compile(smoke.MulProgram(ecc.BLS12_381), backend.GROTH16, ecc.BN254)
	assert.ErrorIs(err, backend.ErrCurveMismatch)

	// empty program
	p := smoke.MulProgram(ecc.BN254)
	p.Constraints = nil
	_, err = Compile(p, backend.GROTH16, ecc.BN254)
	assert.ErrorIs(err, backend.ErrEmptyCircuit)
}

func TestCompileDeterministic(t *testing.T) {
	assert := require.New(t)

	serialize := func(sys *System) []byte {
		var buf bytes.Buffer
		_, err := sys.CCS.WriteTo(&buf)
		assert.NoError(err)
		return buf.Bytes()
	}

	for _, scheme := range backend.Implemented() {
		a, err := Compile(smoke.MulProgram(ecc.BN254), scheme, ecc.BN254)
		assert.NoError(err)
		b, err := Compile(smoke.MulProgram(ecc.BN254), scheme, ecc.BN254)
		assert.NoError(err)
		assert.Equal(serialize(a), serialize(b))
	}
}

func TestWitnessShape(t *testing.T) {
	assert := require.New(t)
	p := smoke.MulProgram(ecc.BN254)

	// short dense witness
	_, err := FullWitness(p, smoke.MulWitness(ecc.BN254, 3, 5)[:2], ecc.BN254)
	assert.ErrorIs(err, backend.ErrWitnessMismatch)

	// nil entry
	w := smoke.MulWitness(ecc.BN254, 3, 5)
	w[2] = nil
	_, err = FullWitness(p, w, ecc.BN254)
	assert.ErrorIs(err, backend.ErrWitnessMismatch)

	// public input count
	_, err = PublicWitness(p, nil, ecc.BN254)
	assert.ErrorIs(err, backend.ErrPublicInputCountMismatch)
	_, err = PublicWitness(p, []*big.Int{big.NewInt(15), big.NewInt(1)}, ecc.BN254)
	assert.ErrorIs(err, backend.ErrPublicInputCountMismatch)

	pub, err := PublicWitness(p, []*big.Int{big.NewInt(15)}, ecc.BN254)
	assert.NoError(err)
	assert.NotNil(pub)
}
