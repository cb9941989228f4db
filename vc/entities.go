package vc

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// RangeProof is a non-interactive proof that a committed value
// lies in [0, 2^Bits).
type RangeProof struct {
	// BitCommitment commits to the bit decomposition of the value.
	// Denoted as C_hat.
	BitCommitment bls12381.G2Affine
	// ValueCommitment commits to the value itself.
	// Denoted as V_hat.
	ValueCommitment bls12381.G2Affine
	// HadamardCommitment commits to the challenge-weighted bits
	// in reverse order.
	// Denoted as C_y.
	HadamardCommitment bls12381.G1Affine
	// AggregatedProof is the single group element carrying the
	// combined sum, equality, orthogonality and first-coordinate checks.
	AggregatedProof bls12381.G1Affine
	// Bits is the claimed bit length of the value.
	Bits int
}
