// Package vds implements a verifiable data streaming protocol with three
// roles. An Owner commits batches of secret columns with a shared time
// vector and signs them, a Storage Server holds the secrets and answers
// weighted-sum queries, zero-knowledge audits and timestamp range proofs,
// and a Verifier checks the answers against the Owner's published key.
// Batches are revoked through a bilinear accumulator blacklist; revocation
// invalidates all further proofs for the revoked batch.
package vds

import (
	"crypto/ecdsa"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/Alfred-hhy/streamCommit/accum"
	"github.com/Alfred-hhy/streamCommit/vc"
)

// BatchHeader is the public part of a batch.
type BatchHeader struct {
	// ID is the hex digest identifying the batch.
	ID string
	// DataCommitments holds one commitment per stored column.
	DataCommitments []bls12381.G1Affine
	// TimeCommitment is the dual commitment to the shared time vector.
	TimeCommitment bls12381.G2Affine
	// Signature binds the commitments to the Owner.
	Signature []byte
}

// BatchSecrets is handed to the Storage Server along with the header.
// It never reaches a Verifier.
type BatchSecrets struct {
	Columns    [][]fr.Element
	ColumnRand []fr.Element

	Times      []uint64
	TimeVector []fr.Element
	TimeRand   fr.Element
}

// GlobalPublicKey is the Owner's published verification material.
// The accumulator value and version change on every revocation; servers
// and verifiers must refresh their copy after each one.
type GlobalPublicKey struct {
	SigKey   *ecdsa.PublicKey
	AccKey   accum.PublicKey
	AccValue bls12381.G1Affine
	Version  uint64
}

// RevocationNotice is distributed after a revocation. It carries the
// revoked signature, the refreshed accumulator mirror for servers and
// the new global public key for verifiers.
type RevocationNotice struct {
	Signature []byte
	State     accum.State
	GlobalKey GlobalPublicKey
}

// QueryProof answers an interactive weighted-sum query.
type QueryProof struct {
	Result  fr.Element
	Opening bls12381.G1Affine
	Witness accum.Witness
}

// AuditProof answers a non-interactive audit. The challenge weights are
// derived from the column commitment and reported back for comparison.
type AuditProof struct {
	Result    fr.Element
	Opening   bls12381.G1Affine
	Challenge []fr.Element
	Witness   accum.Witness
}

// TimeProof attests that every timestamp of a batch fits a bit length.
type TimeProof struct {
	Proofs  []vc.RangeProof
	Witness accum.Witness
}
