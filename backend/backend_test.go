// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package backend

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"
)

func TestSupportMatrix(t *testing.T) {
	assert := require.New(t)

	for _, id := range Implemented() {
		assert.NotEmpty(Curves(id), "scheme %s has no curve", id)
		for _, c := range Curves(id) {
			assert.True(Supports(id, c))
		}
	}

	assert.True(Supports(GROTH16MPC, ecc.BN254))
	assert.True(Supports(GROTH16MPC, ecc.BLS12_381))
	assert.False(Supports(GROTH16, ecc.BW6_761))
	assert.False(Supports(GROTH16MPC, ecc.BW6_761))
	assert.False(Supports(UNKNOWN, ecc.BN254))
}

func TestIDText(t *testing.T) {
	assert := require.New(t)

	for _, id := range Implemented() {
		b, err := id.MarshalText()
		assert.NoError(err)

		var got ID
		assert.NoError(got.UnmarshalText(b))
		assert.Equal(id, got)
	}

	_, err := UNKNOWN.MarshalText()
	assert.Error(err)

	var got ID
	assert.Error(got.UnmarshalText([]byte("gm17")))
}

func TestWitnessMismatchCauses(t *testing.T) {
	require.True(t, errors.Is(ErrUnsatisfiedConstraint, ErrWitnessMismatch))
	require.True(t, errors.Is(ErrMissingAssignment, ErrWitnessMismatch))
	require.False(t, errors.Is(ErrWitnessMismatch, ErrUnsatisfiedConstraint))
}
