// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package zkbridge

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/driver"
	"github.com/zkbridge/zkbridge/internal/smoke"
)

func TestSessionPipeline(t *testing.T) {
	for _, scheme := range Schemes() {
		for _, curve := range backend.Curves(scheme) {
			t.Run(scheme.String()+"/"+curve.String(), func(t *testing.T) {
				assert := require.New(t)

				s, err := NewSession(scheme, curve)
				assert.NoError(err)
				assert.Equal(scheme, s.Scheme())
				assert.Equal(curve, s.Curve())

				sys, err := s.Compile(smoke.MulProgram(curve))
				assert.NoError(err)

				pk, vk, err := s.Setup(sys, driver.WithEntropy(mrand.New(mrand.NewSource(1))))
				assert.NoError(err)

				proof, err := s.Prove(sys, pk, smoke.MulWitness(curve, 7, 8))
				assert.NoError(err)

				ok, err := s.Verify(vk, proof, []*big.Int{big.NewInt(56)})
				assert.NoError(err)
				assert.True(ok)
			})
		}
	}
}

func TestNewSessionRejectsUnsupported(t *testing.T) {
	assert := require.New(t)

	_, err := NewSession(backend.GROTH16MPC, ecc.BW6_761)
	assert.ErrorIs(err, backend.ErrUnsupportedCombination)

	_, err = NewSession(backend.GROTH16, ecc.BW6_761)
	assert.ErrorIs(err, backend.ErrUnsupportedCombination)

	_, err = NewSession(backend.UNKNOWN, ecc.BN254)
	assert.ErrorIs(err, backend.ErrUnsupportedCombination)
}

func TestVerifyBatch(t *testing.T) {
	assert := require.New(t)
	curve := ecc.BN254

	s, err := NewSession(backend.GROTH16, curve)
	assert.NoError(err)

	sys, err := s.Compile(smoke.MulProgram(curve))
	assert.NoError(err)
	pk, vk, err := s.Setup(sys)
	assert.NoError(err)

	var proofs []*Proof
	var inputs [][]*big.Int
	for _, pair := range [][2]int64{{3, 5}, {7, 8}, {11, 13}} {
		proof, err := s.Prove(sys, pk, smoke.MulWitness(curve, pair[0], pair[1]))
		assert.NoError(err)
		proofs = append(proofs, proof)
		inputs = append(inputs, []*big.Int{big.NewInt(pair[0] * pair[1])})
	}

	assert.NoError(s.VerifyBatch(vk, proofs, inputs))

	// one wrong public input fails the batch, index-annotated
	inputs[1] = []*big.Int{big.NewInt(57)}
	err = s.VerifyBatch(vk, proofs, inputs)
	assert.Error(err)
	assert.Contains(err.Error(), "proof 1")

	// ragged batch is a shape error, not a public input count mismatch
	err = s.VerifyBatch(vk, proofs, inputs[:2])
	assert.Error(err)
	assert.NotErrorIs(err, backend.ErrPublicInputCountMismatch)
	assert.Contains(err.Error(), "ragged batch")
}

func TestVersion(t *testing.T) {
	require.Equal(t, uint64(1), Version.Major)
}
