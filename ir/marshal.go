// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package ir

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"

	"github.com/zkbridge/zkbridge/backend"
)

// FormatVersion stamps serialized programs. Decoding rejects blobs written
// by a different major version.
var FormatVersion = semver.MustParse("1.0.0")

type programBlob struct {
	Version     string   `cbor:"v"`
	Field       *big.Int `cbor:"q"`
	NbWires     int      `cbor:"n"`
	NbPublic    int      `cbor:"p"`
	Constraints []R1C    `cbor:"cs"`
}

// canonical CBOR keeps the encoding deterministic, so equal programs
// serialize to equal bytes and Digest is well defined.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

func (p *Program) blob() programBlob {
	return programBlob{
		Version:     FormatVersion.String(),
		Field:       p.Field,
		NbWires:     p.NbWires,
		NbPublic:    p.NbPublic,
		Constraints: p.Constraints,
	}
}

// WriteTo serializes the program in canonical CBOR.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	buf, err := encMode.Marshal(p.blob())
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom deserializes the program, checking the format version for major
// compatibility. Short inputs surface as backend.ErrTruncated, anything
// else malformed as backend.ErrInvalidEncoding.
func (p *Program) ReadFrom(r io.Reader) (int64, error) {
	dec := cbor.NewDecoder(r)
	var blob programBlob
	if err := dec.Decode(&blob); err != nil {
		n := int64(dec.NumBytesRead())
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return n, fmt.Errorf("%w: %v", backend.ErrTruncated, err)
		}
		return n, fmt.Errorf("%w: %v", backend.ErrInvalidEncoding, err)
	}
	n := int64(dec.NumBytesRead())

	v, err := semver.Parse(blob.Version)
	if err != nil {
		return n, fmt.Errorf("%w: malformed format version %q", backend.ErrInvalidEncoding, blob.Version)
	}
	if v.Major != FormatVersion.Major {
		return n, fmt.Errorf("%w: program written with format %s, this build reads %s", backend.ErrInvalidEncoding, v, FormatVersion)
	}

	p.Field = blob.Field
	p.NbWires = blob.NbWires
	p.NbPublic = blob.NbPublic
	p.Constraints = blob.Constraints
	return n, nil
}

// Digest returns the Keccak-256 digest of the canonical encoding. Equal
// programs hash equal; any structural change flips the digest.
func (p *Program) Digest() [32]byte {
	buf, err := encMode.Marshal(p.blob())
	if err != nil {
		// the blob holds only integers and slices, canonical marshaling
		// cannot fail on it
		panic(err)
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(buf)
	var d [32]byte
	copy(d[:], h.Sum(nil))
	return d
}
