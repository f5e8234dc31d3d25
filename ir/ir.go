// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package ir defines the flattened rank-1 constraint system exchanged with
// circuit front ends, and the dense witness that accompanies it.
//
// Wire indices are dense, zero-based and stable. Wire 0 carries the constant
// one; wires 1..NbPublic are the public inputs; the remaining wires are
// private. A program is bound to a prime field by its modulus only, so the
// same program can be checked against any curve whose scalar field matches.
package ir

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"

	"github.com/zkbridge/zkbridge/backend"
)

// Term is a coefficient applied to a wire.
type Term struct {
	Coeff  *big.Int `cbor:"c"`
	WireID int      `cbor:"w"`
}

// LinearCombination is a sum of terms; empty combinations evaluate to 0.
type LinearCombination []Term

// R1C is a rank-1 constraint L × R = O over the program field.
type R1C struct {
	L LinearCombination `cbor:"l"`
	R LinearCombination `cbor:"r"`
	O LinearCombination `cbor:"o"`
}

// Program is a flattened constraint system.
type Program struct {
	// Field is the modulus of the prime field the constraints live in.
	Field *big.Int

	// NbWires counts all wires, the constant one-wire included.
	NbWires int

	// NbPublic counts the public input wires (the one-wire excluded).
	NbPublic int

	Constraints []R1C
}

// Witness is a dense assignment, index-aligned with the program wires.
// Entry 0 must carry the constant 1.
type Witness []*big.Int

// NbPrivate returns the number of private wires.
func (p *Program) NbPrivate() int {
	return p.NbWires - 1 - p.NbPublic
}

// Validate checks the structural invariants of the program: a positive
// modulus, at least one constraint, a coherent wire layout, and normalized
// in-bounds terms.
func (p *Program) Validate() error {
	if p.Field == nil || p.Field.Sign() <= 0 {
		return fmt.Errorf("%w: missing field modulus", backend.ErrUnsupportedField)
	}
	if len(p.Constraints) == 0 {
		return backend.ErrEmptyCircuit
	}
	if p.NbWires < 1 || p.NbPublic < 0 || p.NbPublic > p.NbWires-1 {
		return fmt.Errorf("invalid wire layout: %d wires, %d public", p.NbWires, p.NbPublic)
	}
	for i, c := range p.Constraints {
		for _, lc := range []LinearCombination{c.L, c.R, c.O} {
			for _, t := range lc {
				if t.WireID < 0 || t.WireID >= p.NbWires {
					return fmt.Errorf("constraint %d references wire %d, program has %d wires", i, t.WireID, p.NbWires)
				}
				if t.Coeff == nil || t.Coeff.Sign() < 0 || t.Coeff.Cmp(p.Field) >= 0 {
					return fmt.Errorf("constraint %d: coefficient on wire %d not normalized in [0, q)", i, t.WireID)
				}
			}
		}
	}
	return nil
}

// Referenced returns the set of wires appearing in at least one linear
// combination. The one-wire is always a member.
func (p *Program) Referenced() *bitset.BitSet {
	ref := bitset.New(uint(p.NbWires))
	ref.Set(0)
	for _, c := range p.Constraints {
		for _, lc := range []LinearCombination{c.L, c.R, c.O} {
			for _, t := range lc {
				ref.Set(uint(t.WireID))
			}
		}
	}
	return ref
}

var one = big.NewInt(1)

// IsSolved checks the witness against every constraint, with big.Int
// arithmetic modulo the program field. Structural defects (wrong length,
// unassigned referenced wires, a one-wire not set to 1) surface as
// backend.ErrMissingAssignment; a failing constraint surfaces as
// backend.ErrUnsatisfiedConstraint naming its index. Both wrap
// backend.ErrWitnessMismatch.
func (p *Program) IsSolved(w Witness) error {
	if len(w) != p.NbWires {
		return fmt.Errorf("%w: witness has %d entries, program has %d wires", backend.ErrMissingAssignment, len(w), p.NbWires)
	}
	if w[0] == nil || w[0].Cmp(one) != 0 {
		return fmt.Errorf("%w: wire 0 must carry the constant 1", backend.ErrMissingAssignment)
	}
	ref := p.Referenced()
	for i, ok := ref.NextSet(0); ok; i, ok = ref.NextSet(i + 1) {
		if w[i] == nil {
			return fmt.Errorf("%w: wire %d", backend.ErrMissingAssignment, i)
		}
	}

	var l, r, o big.Int
	for i, c := range p.Constraints {
		c.L.eval(w, p.Field, &l)
		c.R.eval(w, p.Field, &r)
		c.O.eval(w, p.Field, &o)
		l.Mul(&l, &r).Mod(&l, p.Field)
		if l.Cmp(&o) != 0 {
			return fmt.Errorf("%w %d", backend.ErrUnsatisfiedConstraint, i)
		}
	}
	return nil
}

func (lc LinearCombination) eval(w Witness, q *big.Int, res *big.Int) {
	res.SetUint64(0)
	var t big.Int
	for _, term := range lc {
		t.Mul(term.Coeff, w[term.WireID])
		res.Add(res, &t)
	}
	res.Mod(res, q)
}

// SplitWitness splits a dense witness at the public boundary, dropping the
// one-wire: public inputs first, private assignments second. The returned
// slices alias w.
func SplitWitness(p *Program, w Witness) (public, private []*big.Int, err error) {
	if len(w) != p.NbWires {
		return nil, nil, fmt.Errorf("%w: witness has %d entries, program has %d wires", backend.ErrMissingAssignment, len(w), p.NbWires)
	}
	return w[1 : 1+p.NbPublic], w[1+p.NbPublic:], nil
}
