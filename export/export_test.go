// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package export

import (
	"bytes"
	"encoding/json"
	mrand "math/rand"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/driver"
	"github.com/zkbridge/zkbridge/internal/smoke"
	"github.com/zkbridge/zkbridge/translate"
)

func verifyingKey(t *testing.T, scheme backend.ID, curve ecc.ID) *driver.VerifyingKey {
	t.Helper()
	assert := require.New(t)

	d, err := driver.For(scheme)
	assert.NoError(err)
	sys, err := translate.Compile(smoke.MulProgram(curve), scheme, curve)
	assert.NoError(err)
	_, vk, err := d.Setup(sys, driver.WithEntropy(mrand.New(mrand.NewSource(1))))
	assert.NoError(err)
	return vk
}

func groupNames(data *VkData) []string {
	names := make([]string, len(data.Groups))
	for i, g := range data.Groups {
		names[i] = g.Name
	}
	return names
}

func TestGroth16Data(t *testing.T) {
	for _, curve := range backend.Curves(backend.GROTH16) {
		t.Run(curve.String(), func(t *testing.T) {
			assert := require.New(t)
			vk := verifyingKey(t, backend.GROTH16, curve)

			data, err := VerifyingKey(vk)
			assert.NoError(err)
			assert.Equal("groth16", data.Scheme)
			assert.Equal(curve.String(), data.Curve)
			assert.Equal(1, data.NbPublic)
			assert.Equal([]string{"alpha", "beta", "gamma", "delta", "ic"}, groupNames(data))

			// nb_public + 1 input commitments
			assert.Len(data.Groups[4].Elements, 2)

			// fixed-width 0x hex, G1 = (x, y) in the base field
			alpha := data.Groups[0].Elements[0]
			assert.Equal("g1", alpha.Kind)
			assert.Len(alpha.Values, 2)
			for _, v := range alpha.Values {
				assert.True(strings.HasPrefix(v, "0x"))
				assert.Len(v, 2+2*baseFieldBytes[curve])
			}

			// G2 components, imaginary first
			beta := data.Groups[1].Elements[0]
			assert.Equal("g2", beta.Kind)
			assert.Len(beta.Values, 4)

			// stable across renders
			again, err := VerifyingKey(vk)
			assert.NoError(err)
			a, err := json.Marshal(data)
			assert.NoError(err)
			b, err := json.Marshal(again)
			assert.NoError(err)
			assert.Equal(a, b)
		})
	}
}

func TestPlonkData(t *testing.T) {
	assert := require.New(t)
	vk := verifyingKey(t, backend.PLONK, ecc.BLS12_377)

	data, err := VerifyingKey(vk)
	assert.NoError(err)
	assert.Equal("plonk", data.Scheme)
	assert.Equal([]string{"domain", "permutation", "selectors", "kzg"}, groupNames(data))
	assert.Len(data.Groups[1].Elements, 3)
	assert.Len(data.Groups[2].Elements, 5)
	assert.Len(data.Groups[3].Elements, 3)
}

func TestCeremonyData(t *testing.T) {
	assert := require.New(t)
	vk := verifyingKey(t, backend.GROTH16MPC, ecc.BN254)

	// ceremony keys render with the plain Groth16 group layout
	data, err := VerifyingKey(vk)
	assert.NoError(err)
	assert.Equal([]string{"alpha", "beta", "gamma", "delta", "ic"}, groupNames(data))
}

func TestUnknownShapeRejected(t *testing.T) {
	assert := require.New(t)
	vk := &driver.VerifyingKey{Scheme: backend.UNKNOWN, Curve: ecc.BN254}

	_, err := VerifyingKey(vk)
	assert.ErrorIs(err, backend.ErrUnsupportedExport)

	var buf bytes.Buffer
	assert.ErrorIs(Solidity(&buf, vk), backend.ErrUnsupportedExport)
}

func TestSolidity(t *testing.T) {
	assert := require.New(t)

	for _, scheme := range []backend.ID{backend.GROTH16, backend.GROTH16MPC, backend.PLONK} {
		var buf bytes.Buffer
		assert.NoError(Solidity(&buf, verifyingKey(t, scheme, ecc.BN254)))
		assert.Contains(buf.String(), "pragma solidity")
	}

	var buf bytes.Buffer
	err := Solidity(&buf, verifyingKey(t, backend.GROTH16, ecc.BLS12_381))
	assert.ErrorIs(err, backend.ErrUnsupportedExport)
}
