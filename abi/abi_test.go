// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package abi

import (
	mrand "math/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/stretchr/testify/require"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/driver"
	"github.com/zkbridge/zkbridge/internal/smoke"
	"github.com/zkbridge/zkbridge/translate"
)

func artifacts(t *testing.T, scheme backend.ID, curve ecc.ID) (*driver.VerifyingKey, *driver.Proof) {
	t.Helper()
	assert := require.New(t)

	d, err := driver.For(scheme)
	assert.NoError(err)
	sys, err := translate.Compile(smoke.MulProgram(curve), scheme, curve)
	assert.NoError(err)
	pk, vk, err := d.Setup(sys, driver.WithEntropy(mrand.New(mrand.NewSource(1))))
	assert.NoError(err)
	proof, err := d.Prove(sys, pk, smoke.MulWitness(curve, 3, 5))
	assert.NoError(err)
	return vk, proof
}

func TestGroth16Layout(t *testing.T) {
	assert := require.New(t)
	vk, proof := artifacts(t, backend.GROTH16, ecc.BN254)

	raw, err := MarshalProof(proof)
	assert.NoError(err)
	assert.Len(raw, 8*WordLen)

	// first two words are A's affine coordinates
	p := proof.K.(*groth16_bn254.Proof)
	x := p.Ar.X.Bytes()
	y := p.Ar.Y.Bytes()
	assert.Equal(x[:], raw[:WordLen])
	assert.Equal(y[:], raw[WordLen:2*WordLen])

	rawVk, err := MarshalVerifyingKey(vk)
	assert.NoError(err)
	k := vk.K.(*groth16_bn254.VerifyingKey)
	assert.Len(rawVk, (14+2*len(k.G1.K))*WordLen)
	assert.Equal(vk.NbPublic+1, len(k.G1.K))
}

func TestPlonkLayout(t *testing.T) {
	assert := require.New(t)
	vk, proof := artifacts(t, backend.PLONK, ecc.BN254)

	raw, err := MarshalProof(proof)
	assert.NoError(err)
	assert.Len(raw, 25*WordLen)

	rawVk, err := MarshalVerifyingKey(vk)
	assert.NoError(err)
	assert.Len(rawVk, 31*WordLen)
}

func TestMarshalDeterministic(t *testing.T) {
	assert := require.New(t)
	vk, proof := artifacts(t, backend.PLONK, ecc.BN254)

	a, err := MarshalProof(proof)
	assert.NoError(err)
	b, err := MarshalProof(proof)
	assert.NoError(err)
	assert.Equal(a, b)

	av, err := MarshalVerifyingKey(vk)
	assert.NoError(err)
	bv, err := MarshalVerifyingKey(vk)
	assert.NoError(err)
	assert.Equal(av, bv)
}

func TestCeremonyLayout(t *testing.T) {
	assert := require.New(t)
	vk, proof := artifacts(t, backend.GROTH16MPC, ecc.BN254)

	// ceremony keys produce the plain Groth16 layout
	raw, err := MarshalProof(proof)
	assert.NoError(err)
	assert.Len(raw, 8*WordLen)

	rawVk, err := MarshalVerifyingKey(vk)
	assert.NoError(err)
	k := vk.K.(*groth16_bn254.VerifyingKey)
	assert.Len(rawVk, (14+2*len(k.G1.K))*WordLen)
}

func TestUnsupportedTargets(t *testing.T) {
	assert := require.New(t)

	// no precompile encoding outside BN254
	vk, proof := artifacts(t, backend.GROTH16, ecc.BLS12_381)
	_, err := MarshalProof(proof)
	assert.ErrorIs(err, backend.ErrUnsupportedExport)
	_, err = MarshalVerifyingKey(vk)
	assert.ErrorIs(err, backend.ErrUnsupportedExport)

	vk, proof = artifacts(t, backend.PLONK, ecc.BLS12_377)
	_, err = MarshalProof(proof)
	assert.ErrorIs(err, backend.ErrUnsupportedExport)
	_, err = MarshalVerifyingKey(vk)
	assert.ErrorIs(err, backend.ErrUnsupportedExport)
}
