// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package translate lowers flattened programs onto gnark constraint systems.
//
// A single replay circuit re-emits each L × R = O row through the builder
// API, so the same translation path serves every scheme and curve: the
// Groth16 variants compile through the R1CS builder, PLONK through the
// sparse-R1CS builder.
package translate

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/bridge"
	"github.com/zkbridge/zkbridge/ir"
	"github.com/zkbridge/zkbridge/logger"
)

// System is a program compiled for one (scheme, curve) pair.
type System struct {
	CCS     constraint.ConstraintSystem
	Program *ir.Program
	Scheme  backend.ID
	Curve   ecc.ID
}

// Compile lowers the program onto a gnark constraint system for the given
// scheme and curve. The pair must be supported, the program field must match
// the curve's scalar field, and the program must have at least one
// constraint. Compilation is deterministic: the same inputs produce a
// structurally identical system.
func Compile(p *ir.Program, scheme backend.ID, curve ecc.ID) (*System, error) {
	if !backend.Supports(scheme, curve) {
		return nil, fmt.Errorf("%w: %s over %s", backend.ErrUnsupportedCombination, scheme, curve)
	}
	if err := bridge.CheckField(p, curve); err != nil {
		return nil, err
	}
	if len(p.Constraints) == 0 {
		return nil, backend.ErrEmptyCircuit
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var builder frontend.NewBuilder
	switch scheme {
	case backend.GROTH16, backend.GROTH16MPC:
		builder = r1cs.NewBuilder
	default:
		builder = scs.NewBuilder
	}

	circuit := &replayCircuit{
		Public:  make([]frontend.Variable, p.NbPublic),
		Private: make([]frontend.Variable, p.NbPrivate()),
		prog:    p,
	}

	log := logger.Logger().With().Str("curve", curve.String()).Str("backend", scheme.String()).Logger()
	start := time.Now()
	ccs, err := frontend.Compile(curve.ScalarField(), builder, circuit)
	if err != nil {
		return nil, fmt.Errorf("compile program: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).
		Int("nbConstraints", ccs.GetNbConstraints()).
		Int("nbWires", p.NbWires).
		Msg("program compiled")

	return &System{CCS: ccs, Program: p, Scheme: scheme, Curve: curve}, nil
}

// replayCircuit re-emits a flattened program through the frontend API. The
// public and private slices mirror the program's wire layout; wire 0 maps to
// the constant 1.
type replayCircuit struct {
	Public  []frontend.Variable `gnark:",public"`
	Private []frontend.Variable
	prog    *ir.Program
}

func (c *replayCircuit) Define(api frontend.API) error {
	wires := make([]frontend.Variable, c.prog.NbWires)
	wires[0] = 1
	copy(wires[1:1+len(c.Public)], c.Public)
	copy(wires[1+len(c.Public):], c.Private)

	for _, cs := range c.prog.Constraints {
		l := combine(api, cs.L, wires)
		r := combine(api, cs.R, wires)
		o := combine(api, cs.O, wires)
		api.AssertIsEqual(api.Mul(l, r), o)
	}
	return nil
}

// combine evaluates a linear combination; empty combinations (and dropped
// zero terms) yield the constant 0.
func combine(api frontend.API, lc ir.LinearCombination, wires []frontend.Variable) frontend.Variable {
	acc := frontend.Variable(0)
	for _, t := range lc {
		if t.Coeff.Sign() == 0 {
			continue
		}
		acc = api.Add(acc, api.Mul(t.Coeff, wires[t.WireID]))
	}
	return acc
}
