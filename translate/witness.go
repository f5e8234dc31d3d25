// Copyright 2023 The zkbridge Authors
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package translate

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/witness"

	"github.com/zkbridge/zkbridge/backend"
	"github.com/zkbridge/zkbridge/bridge"
	"github.com/zkbridge/zkbridge/ir"
)

// FullWitness builds the gnark witness for a dense program assignment:
// public inputs first, private assignments second, each reduced into the
// curve's scalar field. The one-wire entry is consumed by the split and not
// part of the gnark witness.
func FullWitness(p *ir.Program, w ir.Witness, curve ecc.ID) (witness.Witness, error) {
	if err := bridge.CheckField(p, curve); err != nil {
		return nil, err
	}
	public, private, err := ir.SplitWitness(p, w)
	if err != nil {
		return nil, err
	}
	return fill(curve, public, private)
}

// PublicWitness builds the gnark witness for the public inputs alone, as
// consumed by verification.
func PublicWitness(p *ir.Program, inputs []*big.Int, curve ecc.ID) (witness.Witness, error) {
	if err := bridge.CheckField(p, curve); err != nil {
		return nil, err
	}
	if len(inputs) != p.NbPublic {
		return nil, fmt.Errorf("%w: got %d public inputs, program declares %d", backend.ErrPublicInputCountMismatch, len(inputs), p.NbPublic)
	}
	return fill(curve, inputs, nil)
}

func fill(curve ecc.ID, public, private []*big.Int) (witness.Witness, error) {
	wit, err := witness.New(curve.ScalarField())
	if err != nil {
		return nil, err
	}

	values := make(chan any, len(public)+len(private))
	for _, vs := range [][]*big.Int{public, private} {
		for i, v := range vs {
			e, err := bridge.Element(v, curve)
			if err != nil {
				return nil, fmt.Errorf("%w: witness entry %d", backend.ErrMissingAssignment, i)
			}
			values <- e
		}
	}
	close(values)

	if err := wit.Fill(len(public), len(private), values); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrWitnessMismatch, err)
	}
	return wit, nil
}
