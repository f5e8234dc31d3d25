// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package codec frames zkbridge artifacts for storage and transport.
//
// Every artifact is written as a fixed self-describing header followed by
// the scheme object's canonical payload:
//
//	magic "zkbr" (4) | format version (1) | kind (1) | scheme (1) | curve (1)
//
// Verifying keys carry an additional big-endian uint32 public input count
// between header and payload. Decoding validates the frame against the
// caller's expectation and distinguishes three failure classes: short input
// (backend.ErrTruncated), malformed frame or payload
// (backend.ErrInvalidEncoding), and a valid frame for a different kind,
// scheme or curve (backend.ErrSchemeCurveMismatch).
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/driver"
)

var magic = [4]byte{'z', 'k', 'b', 'r'}

// FormatVersion is the frame format version; bumped on incompatible layout
// changes.
const FormatVersion byte = 1

// Kind tags the artifact type inside a frame.
type Kind uint8

const (
	KindProvingKey Kind = iota + 1
	KindVerifyingKey
	KindProof
)

func (k Kind) String() string {
	switch k {
	case KindProvingKey:
		return "proving key"
	case KindVerifyingKey:
		return "verifying key"
	case KindProof:
		return "proof"
	default:
		return "unknown"
	}
}

const headerLen = 8

// Encode frames an artifact (*driver.ProvingKey, *driver.VerifyingKey or
// *driver.Proof) onto w and returns the number of bytes written.
func Encode(w io.Writer, artifact any) (int64, error) {
	switch a := artifact.(type) {
	case *driver.ProvingKey:
		return encode(w, KindProvingKey, a.Scheme, a.Curve, -1, a.K)
	case *driver.VerifyingKey:
		return encode(w, KindVerifyingKey, a.Scheme, a.Curve, a.NbPublic, a.K)
	case *driver.Proof:
		return encode(w, KindProof, a.Scheme, a.Curve, -1, a.K)
	default:
		return 0, fmt.Errorf("cannot encode %T", artifact)
	}
}

func encode(w io.Writer, kind Kind, scheme backend.ID, curve ecc.ID, nbPublic int, payload driver.Object) (int64, error) {
	if payload == nil {
		return 0, fmt.Errorf("cannot encode %s without payload", kind)
	}
	if !backend.Supports(scheme, curve) {
		return 0, fmt.Errorf("%w: %s over %s", backend.ErrUnsupportedCombination, scheme, curve)
	}

	header := [headerLen]byte{magic[0], magic[1], magic[2], magic[3], FormatVersion, byte(kind), byte(scheme), byte(curve)}
	n, err := w.Write(header[:])
	written := int64(n)
	if err != nil {
		return written, err
	}

	if kind == KindVerifyingKey {
		var count [4]byte
		binary.BigEndian.PutUint32(count[:], uint32(nbPublic))
		n, err = w.Write(count[:])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	m, err := payload.WriteTo(w)
	return written + m, err
}

// DecodeProvingKey reads a framed proving key, which must be for the given
// scheme and curve.
func DecodeProvingKey(r io.Reader, scheme backend.ID, curve ecc.ID) (*driver.ProvingKey, error) {
	if err := readHeader(r, KindProvingKey, scheme, curve); err != nil {
		return nil, err
	}
	pk, err := driver.NewProvingKey(scheme, curve)
	if err != nil {
		return nil, err
	}
	if err := readPayload(r, pk.K); err != nil {
		return nil, err
	}
	return pk, nil
}

// DecodeVerifyingKey reads a framed verifying key, which must be for the
// given scheme and curve.
func DecodeVerifyingKey(r io.Reader, scheme backend.ID, curve ecc.ID) (*driver.VerifyingKey, error) {
	if err := readHeader(r, KindVerifyingKey, scheme, curve); err != nil {
		return nil, err
	}
	var count [4]byte
	if _, err := io.ReadFull(r, count[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrTruncated, err)
	}
	vk, err := driver.NewVerifyingKey(scheme, curve)
	if err != nil {
		return nil, err
	}
	vk.NbPublic = int(binary.BigEndian.Uint32(count[:]))
	if err := readPayload(r, vk.K); err != nil {
		return nil, err
	}
	return vk, nil
}

// DecodeProof reads a framed proof, which must be for the given scheme and
// curve.
func DecodeProof(r io.Reader, scheme backend.ID, curve ecc.ID) (*driver.Proof, error) {
	if err := readHeader(r, KindProof, scheme, curve); err != nil {
		return nil, err
	}
	proof, err := driver.NewProof(scheme, curve)
	if err != nil {
		return nil, err
	}
	if err := readPayload(r, proof.K); err != nil {
		return nil, err
	}
	return proof, nil
}

func readHeader(r io.Reader, wantKind Kind, scheme backend.ID, curve ecc.ID) error {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("%w: frame header: %v", backend.ErrTruncated, err)
	}
	if !bytes.Equal(header[:4], magic[:]) {
		return fmt.Errorf("%w: bad magic", backend.ErrInvalidEncoding)
	}
	if header[4] != FormatVersion {
		return fmt.Errorf("%w: frame format %d, this build reads %d", backend.ErrInvalidEncoding, header[4], FormatVersion)
	}

	kind := Kind(header[5])
	if kind < KindProvingKey || kind > KindProof {
		return fmt.Errorf("%w: unknown artifact kind %d", backend.ErrInvalidEncoding, header[5])
	}
	gotScheme := backend.ID(header[6])
	gotCurve, err := curveFromByte(header[7])
	if err != nil {
		return err
	}
	if !backend.Supports(gotScheme, gotCurve) {
		return fmt.Errorf("%w: frame declares %s over %s", backend.ErrInvalidEncoding, gotScheme, gotCurve)
	}

	if kind != wantKind {
		return fmt.Errorf("%w: artifact is a %s, expected a %s", backend.ErrSchemeCurveMismatch, kind, wantKind)
	}
	if gotScheme != scheme {
		return fmt.Errorf("%w: artifact for %s, expected %s", backend.ErrSchemeCurveMismatch, gotScheme, scheme)
	}
	if gotCurve != curve {
		return fmt.Errorf("%w: artifact for %s, expected %s", backend.ErrSchemeCurveMismatch, gotCurve, curve)
	}
	return nil
}

func readPayload(r io.Reader, obj driver.Object) error {
	if _, err := obj.ReadFrom(r); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: payload: %v", backend.ErrTruncated, err)
		}
		return fmt.Errorf("%w: payload: %v", backend.ErrInvalidEncoding, err)
	}
	return nil
}

func curveFromByte(b byte) (ecc.ID, error) {
	for _, c := range []ecc.ID{ecc.BN254, ecc.BLS12_381, ecc.BLS12_377} {
		if byte(c) == b {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown curve %d", backend.ErrInvalidEncoding, b)
}
