// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package export turns verifying keys into the structured data external
// verifier generators consume.
//
// Coordinates are rendered as 0x-prefixed fixed-width big-endian hex, one
// value per field element, G2 components imaginary first. Group and element
// order is stable across runs.
package export

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc"
	bls12377 "github.com/consensys/gnark-crypto/ecc/bls12-377"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	groth16_bls12377 "github.com/consensys/gnark/backend/groth16/bls12-377"
	groth16_bls12381 "github.com/consensys/gnark/backend/groth16/bls12-381"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	plonk_bls12377 "github.com/consensys/gnark/backend/plonk/bls12-377"
	plonk_bls12381 "github.com/consensys/gnark/backend/plonk/bls12-381"
	plonk_bn254 "github.com/consensys/gnark/backend/plonk/bn254"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/driver"
)

// Element is one named value of a verifying key.
type Element struct {
	Name string `json:"name"`
	// Kind is "g1", "g2", "fr" or "uint".
	Kind   string   `json:"kind"`
	Values []string `json:"values"`
}

// Group is a named run of elements.
type Group struct {
	Name     string    `json:"name"`
	Elements []Element `json:"elements"`
}

// VkData is the structured form of a verifying key.
type VkData struct {
	Scheme   string `json:"scheme"`
	Curve    string `json:"curve"`
	NbPublic int    `json:"nb_public"`
	// ProgramDigest optionally pins the program the key was generated for;
	// filled by callers that track it.
	ProgramDigest string  `json:"program_digest,omitempty"`
	Groups        []Group `json:"groups"`
}

// VerifyingKey renders a verifying key as structured data. Both Groth16
// setup variants produce the same key shape and render identically.
func VerifyingKey(vk *driver.VerifyingKey) (*VkData, error) {
	data := &VkData{
		Scheme:   vk.Scheme.String(),
		Curve:    vk.Curve.String(),
		NbPublic: vk.NbPublic,
	}
	switch k := vk.K.(type) {
	case *groth16_bn254.VerifyingKey:
		ic := make([]Element, len(k.G1.K))
		for i := range k.G1.K {
			ic[i] = g1BN254("ic["+strconv.Itoa(i)+"]", &k.G1.K[i])
		}
		data.Groups = []Group{
			{Name: "alpha", Elements: []Element{g1BN254("alpha", &k.G1.Alpha)}},
			{Name: "beta", Elements: []Element{g2BN254("beta", &k.G2.Beta)}},
			{Name: "gamma", Elements: []Element{g2BN254("gamma", &k.G2.Gamma)}},
			{Name: "delta", Elements: []Element{g2BN254("delta", &k.G2.Delta)}},
			{Name: "ic", Elements: ic},
		}
	case *groth16_bls12381.VerifyingKey:
		ic := make([]Element, len(k.G1.K))
		for i := range k.G1.K {
			ic[i] = g1BLS12381("ic["+strconv.Itoa(i)+"]", &k.G1.K[i])
		}
		data.Groups = []Group{
			{Name: "alpha", Elements: []Element{g1BLS12381("alpha", &k.G1.Alpha)}},
			{Name: "beta", Elements: []Element{g2BLS12381("beta", &k.G2.Beta)}},
			{Name: "gamma", Elements: []Element{g2BLS12381("gamma", &k.G2.Gamma)}},
			{Name: "delta", Elements: []Element{g2BLS12381("delta", &k.G2.Delta)}},
			{Name: "ic", Elements: ic},
		}
	case *groth16_bls12377.VerifyingKey:
		ic := make([]Element, len(k.G1.K))
		for i := range k.G1.K {
			ic[i] = g1BLS12377("ic["+strconv.Itoa(i)+"]", &k.G1.K[i])
		}
		data.Groups = []Group{
			{Name: "alpha", Elements: []Element{g1BLS12377("alpha", &k.G1.Alpha)}},
			{Name: "beta", Elements: []Element{g2BLS12377("beta", &k.G2.Beta)}},
			{Name: "gamma", Elements: []Element{g2BLS12377("gamma", &k.G2.Gamma)}},
			{Name: "delta", Elements: []Element{g2BLS12377("delta", &k.G2.Delta)}},
			{Name: "ic", Elements: ic},
		}
	case *plonk_bn254.VerifyingKey:
		data.Groups = plonkGroups(
			k.Size, k.SizeInv.Bytes(), k.Generator.Bytes(), k.NbPublicVariables, k.CosetShift.Bytes(),
			[]Element{g1BN254("s1", &k.S[0]), g1BN254("s2", &k.S[1]), g1BN254("s3", &k.S[2])},
			[]Element{g1BN254("ql", &k.Ql), g1BN254("qr", &k.Qr), g1BN254("qm", &k.Qm), g1BN254("qo", &k.Qo), g1BN254("qk", &k.Qk)},
			qcpBN254(k.Qcp),
			[]Element{g1BN254("g1", &k.Kzg.G1), g2BN254("g2[0]", &k.Kzg.G2[0]), g2BN254("g2[1]", &k.Kzg.G2[1])},
		)
	case *plonk_bls12381.VerifyingKey:
		data.Groups = plonkGroups(
			k.Size, k.SizeInv.Bytes(), k.Generator.Bytes(), k.NbPublicVariables, k.CosetShift.Bytes(),
			[]Element{g1BLS12381("s1", &k.S[0]), g1BLS12381("s2", &k.S[1]), g1BLS12381("s3", &k.S[2])},
			[]Element{g1BLS12381("ql", &k.Ql), g1BLS12381("qr", &k.Qr), g1BLS12381("qm", &k.Qm), g1BLS12381("qo", &k.Qo), g1BLS12381("qk", &k.Qk)},
			qcpBLS12381(k.Qcp),
			[]Element{g1BLS12381("g1", &k.Kzg.G1), g2BLS12381("g2[0]", &k.Kzg.G2[0]), g2BLS12381("g2[1]", &k.Kzg.G2[1])},
		)
	case *plonk_bls12377.VerifyingKey:
		data.Groups = plonkGroups(
			k.Size, k.SizeInv.Bytes(), k.Generator.Bytes(), k.NbPublicVariables, k.CosetShift.Bytes(),
			[]Element{g1BLS12377("s1", &k.S[0]), g1BLS12377("s2", &k.S[1]), g1BLS12377("s3", &k.S[2])},
			[]Element{g1BLS12377("ql", &k.Ql), g1BLS12377("qr", &k.Qr), g1BLS12377("qm", &k.Qm), g1BLS12377("qo", &k.Qo), g1BLS12377("qk", &k.Qk)},
			qcpBLS12377(k.Qcp),
			[]Element{g1BLS12377("g1", &k.Kzg.G1), g2BLS12377("g2[0]", &k.Kzg.G2[0]), g2BLS12377("g2[1]", &k.Kzg.G2[1])},
		)
	default:
		return nil, fmt.Errorf("%w: %s over %s", backend.ErrUnsupportedExport, vk.Scheme, vk.Curve)
	}
	return data, nil
}

// Solidity writes the scheme's Solidity verifier contract for the key.
// Available for both Groth16 variants and PLONK on BN254.
func Solidity(w io.Writer, vk *driver.VerifyingKey) error {
	switch k := vk.K.(type) {
	case *groth16_bn254.VerifyingKey:
		return k.ExportSolidity(w)
	case *plonk_bn254.VerifyingKey:
		return k.ExportSolidity(w)
	default:
		return fmt.Errorf("%w: %s over %s has no verifier contract", backend.ErrUnsupportedExport, vk.Scheme, vk.Curve)
	}
}

func plonkGroups(size uint64, sizeInv, generator [32]byte, nbPublic uint64, cosetShift [32]byte, s, selectors, qcp, kzg []Element) []Group {
	groups := []Group{
		{Name: "domain", Elements: []Element{
			uintElement("size", size),
			{Name: "size_inv", Kind: "fr", Values: []string{hexWord(sizeInv[:])}},
			{Name: "generator", Kind: "fr", Values: []string{hexWord(generator[:])}},
			uintElement("nb_public", nbPublic),
			{Name: "coset_shift", Kind: "fr", Values: []string{hexWord(cosetShift[:])}},
		}},
		{Name: "permutation", Elements: s},
		{Name: "selectors", Elements: selectors},
	}
	if len(qcp) > 0 {
		groups = append(groups, Group{Name: "qcp", Elements: qcp})
	}
	return append(groups, Group{Name: "kzg", Elements: kzg})
}

func hexWord(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func uintElement(name string, v uint64) Element {
	return Element{Name: name, Kind: "uint", Values: []string{"0x" + strconv.FormatUint(v, 16)}}
}

func g1BN254(name string, p *bn254.G1Affine) Element {
	x, y := p.X.Bytes(), p.Y.Bytes()
	return Element{Name: name, Kind: "g1", Values: []string{hexWord(x[:]), hexWord(y[:])}}
}

func g2BN254(name string, p *bn254.G2Affine) Element {
	x1, x0, y1, y0 := p.X.A1.Bytes(), p.X.A0.Bytes(), p.Y.A1.Bytes(), p.Y.A0.Bytes()
	return Element{Name: name, Kind: "g2", Values: []string{hexWord(x1[:]), hexWord(x0[:]), hexWord(y1[:]), hexWord(y0[:])}}
}

func qcpBN254(qcp []bn254.G1Affine) []Element {
	out := make([]Element, len(qcp))
	for i := range qcp {
		out[i] = g1BN254("qcp["+strconv.Itoa(i)+"]", &qcp[i])
	}
	return out
}

func g1BLS12381(name string, p *bls12381.G1Affine) Element {
	x, y := p.X.Bytes(), p.Y.Bytes()
	return Element{Name: name, Kind: "g1", Values: []string{hexWord(x[:]), hexWord(y[:])}}
}

func g2BLS12381(name string, p *bls12381.G2Affine) Element {
	x1, x0, y1, y0 := p.X.A1.Bytes(), p.X.A0.Bytes(), p.Y.A1.Bytes(), p.Y.A0.Bytes()
	return Element{Name: name, Kind: "g2", Values: []string{hexWord(x1[:]), hexWord(x0[:]), hexWord(y1[:]), hexWord(y0[:])}}
}

func qcpBLS12381(qcp []bls12381.G1Affine) []Element {
	out := make([]Element, len(qcp))
	for i := range qcp {
		out[i] = g1BLS12381("qcp["+strconv.Itoa(i)+"]", &qcp[i])
	}
	return out
}

func g1BLS12377(name string, p *bls12377.G1Affine) Element {
	x, y := p.X.Bytes(), p.Y.Bytes()
	return Element{Name: name, Kind: "g1", Values: []string{hexWord(x[:]), hexWord(y[:])}}
}

func g2BLS12377(name string, p *bls12377.G2Affine) Element {
	x1, x0, y1, y0 := p.X.A1.Bytes(), p.X.A0.Bytes(), p.Y.A1.Bytes(), p.Y.A0.Bytes()
	return Element{Name: name, Kind: "g2", Values: []string{hexWord(x1[:]), hexWord(x0[:]), hexWord(y1[:]), hexWord(y0[:])}}
}

func qcpBLS12377(qcp []bls12377.G1Affine) []Element {
	out := make([]Element, len(qcp))
	for i := range qcp {
		out[i] = g1BLS12377("qcp["+strconv.Itoa(i)+"]", &qcp[i])
	}
	return out
}

// curve widths, for documentation and tests
var baseFieldBytes = map[ecc.ID]int{
	ecc.BN254:     32,
	ecc.BLS12_381: 48,
	ecc.BLS12_377: 48,
}
