// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package backend enumerates the proving schemes zkbridge can drive and the
// curve combinations each scheme supports.
package backend

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
)

// ID represents a unique ID for a proving scheme.
type ID uint16

const (
	UNKNOWN ID = iota
	GROTH16
	PLONK
	GROTH16MPC
)

// Implemented returns the list of proving schemes implemented in zkbridge.
func Implemented() []ID {
	return []ID{GROTH16, PLONK, GROTH16MPC}
}

// String returns the string representation of a proving scheme.
func (id ID) String() string {
	switch id {
	case GROTH16:
		return "groth16"
	case PLONK:
		return "plonk"
	case GROTH16MPC:
		return "groth16-mpc"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	if id == UNKNOWN || id > GROTH16MPC {
		return nil, fmt.Errorf("unknown proving scheme %d", uint16(id))
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	switch string(text) {
	case "groth16":
		*id = GROTH16
	case "plonk":
		*id = PLONK
	case "groth16-mpc":
		*id = GROTH16MPC
	default:
		return fmt.Errorf("unknown proving scheme %q", string(text))
	}
	return nil
}

// Curves returns the curves a proving scheme is implemented on. Every
// implemented scheme covers the three pairing-friendly curves.
func Curves(id ID) []ecc.ID {
	switch id {
	case GROTH16, PLONK, GROTH16MPC:
		return []ecc.ID{ecc.BN254, ecc.BLS12_381, ecc.BLS12_377}
	default:
		return nil
	}
}

// Supports reports whether the (scheme, curve) pair is implemented.
func Supports(id ID, curve ecc.ID) bool {
	for _, c := range Curves(id) {
		if c == curve {
			return true
		}
	}
	return false
}
