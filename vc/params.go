package vc

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ParametersLiteral is a structure for vector commitment parameters.
type ParametersLiteral struct {
	// N is the dimension of committed vectors.
	// The reference string holds 2N powers on the data side,
	// with the power N+1 structurally excluded.
	N int
}

// Compile transforms ParametersLiteral to read-only Parameters.
// If there is any invalid parameter in the literal, it panics.
// Default parameters are guaranteed to be compiled without panics.
func (p ParametersLiteral) Compile() Parameters {
	switch {
	case p.N < 1:
		panic("N must be positive")
	}

	return Parameters{
		n:       p.N,
		modulus: fr.Modulus(),
	}
}

// Parameters is a read-only structure for vector commitment parameters.
type Parameters struct {
	// n is the dimension of committed vectors.
	n int
	// modulus is the order of the scalar field.
	modulus *big.Int
}

// N returns the dimension of committed vectors.
func (p Parameters) N() int {
	return p.n
}

// Modulus returns the order of the scalar field.
func (p Parameters) Modulus() *big.Int {
	return p.modulus
}
