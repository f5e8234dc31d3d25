// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package abi encodes BN254 artifacts as the fixed 32-byte big-endian words
// consumed by on-chain verifiers.
//
// Coordinates are written explicitly from field elements, never compressed,
// with no length framing. G2 coordinates are written imaginary component
// first, the order the EVM pairing precompile expects. The layouts are:
//
//	Groth16 proof (8 words):   A.X A.Y  B.X1 B.X0 B.Y1 B.Y0  C.X C.Y
//	Groth16 key (14+2k words): α  β  γ  δ  IC[0..k], k = public inputs + 1
//	PLONK proof (25 words):    L R O  Z  H0 H1 H2  Wζ  Wζω
//	                           lin(ζ) l(ζ) r(ζ) o(ζ) s1(ζ) s2(ζ)  z(ζω)
//	PLONK key (31 words):      size 1/size ω nbPublic cosetShift
//	                           S1 S2 S3  Ql Qr Qm Qo Qk  KZG.G1 KZG.G2[0] KZG.G2[1]
//
// Both Groth16 setup variants produce the same artifact types and share the
// Groth16 layout. Proofs carrying extra commitments have no fixed layout and
// are rejected, as is every curve other than BN254.
package abi

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	plonk_bn254 "github.com/consensys/gnark/backend/plonk/bn254"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/driver"
)

// WordLen is the width of one ABI word.
const WordLen = 32

// nbBatchedEvaluations is the batched-opening claim count of a
// commitment-free PLONK proof.
const nbBatchedEvaluations = 6

// MarshalProof encodes a BN254 proof in its fixed word layout.
func MarshalProof(proof *driver.Proof) ([]byte, error) {
	if proof.Curve != ecc.BN254 {
		return nil, fmt.Errorf("%w: curve %s has no precompile encoding", backend.ErrUnsupportedExport, proof.Curve)
	}
	var buf bytes.Buffer
	switch p := proof.K.(type) {
	case *groth16_bn254.Proof:
		if len(p.Commitments) > 0 {
			return nil, fmt.Errorf("%w: commitment-carrying proofs have no fixed layout", backend.ErrUnsupportedExport)
		}
		writeG1(&buf, &p.Ar)
		writeG2(&buf, &p.Bs)
		writeG1(&buf, &p.Krs)
	case *plonk_bn254.Proof:
		if len(p.Bsb22Commitments) > 0 {
			return nil, fmt.Errorf("%w: commitment-carrying proofs have no fixed layout", backend.ErrUnsupportedExport)
		}
		if len(p.BatchedProof.ClaimedValues) != nbBatchedEvaluations {
			return nil, fmt.Errorf("%w: %d batched evaluations, fixed layout has %d", backend.ErrUnsupportedExport, len(p.BatchedProof.ClaimedValues), nbBatchedEvaluations)
		}
		for i := range p.LRO {
			writeG1(&buf, &p.LRO[i])
		}
		writeG1(&buf, &p.Z)
		for i := range p.H {
			writeG1(&buf, &p.H[i])
		}
		writeG1(&buf, &p.BatchedProof.H)
		writeG1(&buf, &p.ZShiftedOpening.H)
		for i := range p.BatchedProof.ClaimedValues {
			writeFr(&buf, &p.BatchedProof.ClaimedValues[i])
		}
		writeFr(&buf, &p.ZShiftedOpening.ClaimedValue)
	default:
		return nil, fmt.Errorf("%w: scheme %s", backend.ErrUnsupportedExport, proof.Scheme)
	}
	return buf.Bytes(), nil
}

// MarshalVerifyingKey encodes a BN254 verifying key in its fixed word
// layout.
func MarshalVerifyingKey(vk *driver.VerifyingKey) ([]byte, error) {
	if vk.Curve != ecc.BN254 {
		return nil, fmt.Errorf("%w: curve %s has no precompile encoding", backend.ErrUnsupportedExport, vk.Curve)
	}
	var buf bytes.Buffer
	switch k := vk.K.(type) {
	case *groth16_bn254.VerifyingKey:
		writeG1(&buf, &k.G1.Alpha)
		writeG2(&buf, &k.G2.Beta)
		writeG2(&buf, &k.G2.Gamma)
		writeG2(&buf, &k.G2.Delta)
		for i := range k.G1.K {
			writeG1(&buf, &k.G1.K[i])
		}
	case *plonk_bn254.VerifyingKey:
		if len(k.Qcp) > 0 {
			return nil, fmt.Errorf("%w: commitment-carrying keys have no fixed layout", backend.ErrUnsupportedExport)
		}
		writeUint(&buf, k.Size)
		writeFr(&buf, &k.SizeInv)
		writeFr(&buf, &k.Generator)
		writeUint(&buf, k.NbPublicVariables)
		writeFr(&buf, &k.CosetShift)
		for i := range k.S {
			writeG1(&buf, &k.S[i])
		}
		writeG1(&buf, &k.Ql)
		writeG1(&buf, &k.Qr)
		writeG1(&buf, &k.Qm)
		writeG1(&buf, &k.Qo)
		writeG1(&buf, &k.Qk)
		writeG1(&buf, &k.Kzg.G1)
		writeG2(&buf, &k.Kzg.G2[0])
		writeG2(&buf, &k.Kzg.G2[1])
	default:
		return nil, fmt.Errorf("%w: scheme %s", backend.ErrUnsupportedExport, vk.Scheme)
	}
	return buf.Bytes(), nil
}

func writeG1(buf *bytes.Buffer, p *bn254.G1Affine) {
	x := p.X.Bytes()
	y := p.Y.Bytes()
	buf.Write(x[:])
	buf.Write(y[:])
}

// imaginary component first
func writeG2(buf *bytes.Buffer, p *bn254.G2Affine) {
	x1 := p.X.A1.Bytes()
	x0 := p.X.A0.Bytes()
	y1 := p.Y.A1.Bytes()
	y0 := p.Y.A0.Bytes()
	buf.Write(x1[:])
	buf.Write(x0[:])
	buf.Write(y1[:])
	buf.Write(y0[:])
}

func writeFr(buf *bytes.Buffer, e *fr_bn254.Element) {
	b := e.Bytes()
	buf.Write(b[:])
}

func writeUint(buf *bytes.Buffer, v uint64) {
	var word [WordLen]byte
	binary.BigEndian.PutUint64(word[WordLen-8:], v)
	buf.Write(word[:])
}
