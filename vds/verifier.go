package vds

import (
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"

	"github.com/Alfred-hhy/streamCommit/accum"
	"github.com/Alfred-hhy/streamCommit/vc"
)

// Verifier checks query, audit and time proofs against the Owner's
// published key. Checks run in a fixed order: batch signature, then
// non-membership of the signature digest, then the commitment proof;
// the first failing check determines the Reason.
type Verifier struct {
	Parameters vc.Parameters
	CRS        *vc.CRS

	VC *vc.Verifier

	mu     sync.RWMutex
	global GlobalPublicKey
}

// NewVerifier creates a Verifier holding the Owner's public key.
func NewVerifier(params vc.Parameters, crs *vc.CRS, global GlobalPublicKey) *Verifier {
	return &Verifier{
		Parameters: params,
		CRS:        crs,

		VC: vc.NewVerifier(params, crs),

		global: global,
	}
}

// UpdateGlobalPublicKey replaces the cached key. Keys with a lower
// accumulator version than the cached one are rejected.
func (v *Verifier) UpdateGlobalPublicKey(global GlobalPublicKey) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if global.Version < v.global.Version {
		Logger.Tracef("vds: rejected global key downgrade from version %d to %d", v.global.Version, global.Version)
		return ErrStaleKey
	}
	v.global = global
	return nil
}

// GlobalPublicKey returns the cached key.
func (v *Verifier) GlobalPublicKey() GlobalPublicKey {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.global
}

// VerifyQuery checks a weighted-sum query response.
func (v *Verifier) VerifyQuery(header BatchHeader, weights []fr.Element, proof QueryProof, column int) (bool, Reason, error) {
	n := v.Parameters.N()
	if len(weights) != n {
		return false, ReasonOK, errors.Errorf("weight vector has length %d, want %d", len(weights), n)
	}
	if column < 0 || column >= len(header.DataCommitments) {
		return false, ReasonOK, errors.Errorf("column %d out of range [0, %d)", column, len(header.DataCommitments))
	}

	global := v.GlobalPublicKey()

	if reason := v.precheck(global, header, proof.Witness); reason != ReasonOK {
		return false, reason, nil
	}

	ok, err := v.VC.ShallowCopy().VerifyAggregatedOpening(header.DataCommitments[column], proof.Opening, weights, proof.Result)
	if err != nil {
		return false, ReasonOK, err
	}
	if !ok {
		Logger.Tracef("vds: query on batch %s rejected: %v", header.ID, ReasonProofMismatch)
		return false, ReasonProofMismatch, nil
	}
	return true, ReasonOK, nil
}

// VerifyAudit checks an audit response. The challenge weights are
// recomputed locally and compared against the reported ones; the opening
// is then checked against the local challenge.
func (v *Verifier) VerifyAudit(header BatchHeader, proof AuditProof, column int) (bool, Reason, error) {
	if column < 0 || column >= len(header.DataCommitments) {
		return false, ReasonOK, errors.Errorf("column %d out of range [0, %d)", column, len(header.DataCommitments))
	}

	global := v.GlobalPublicKey()

	if reason := v.precheck(global, header, proof.Witness); reason != ReasonOK {
		return false, reason, nil
	}

	vcv := v.VC.ShallowCopy()

	var identityG1 bls12381.G1Affine
	var identityG2 bls12381.G2Affine
	challenge := vcv.Oracle.ChallengeWeights(header.DataCommitments[column], identityG2, identityG1, auditContext)

	if len(proof.Challenge) != len(challenge) {
		return false, ReasonProofMismatch, nil
	}
	for i := range challenge {
		if !challenge[i].Equal(&proof.Challenge[i]) {
			Logger.Tracef("vds: audit on batch %s rejected: %v", header.ID, ReasonProofMismatch)
			return false, ReasonProofMismatch, nil
		}
	}

	ok, err := vcv.VerifyAggregatedOpening(header.DataCommitments[column], proof.Opening, challenge, proof.Result)
	if err != nil {
		return false, ReasonOK, err
	}
	if !ok {
		return false, ReasonProofMismatch, nil
	}
	return true, ReasonOK, nil
}

// VerifyTimeProofs checks that every timestamp of the batch fits in the
// given bit length. The proof must carry one range proof per position.
func (v *Verifier) VerifyTimeProofs(header BatchHeader, proof TimeProof, bits int) (bool, Reason, error) {
	n := v.Parameters.N()
	if len(proof.Proofs) != n {
		return false, ReasonOK, errors.Errorf("time proof has %d range proofs, want %d", len(proof.Proofs), n)
	}

	global := v.GlobalPublicKey()

	if reason := v.precheck(global, header, proof.Witness); reason != ReasonOK {
		return false, reason, nil
	}

	vcv := v.VC.ShallowCopy()
	for i := range proof.Proofs {
		ok, err := vcv.VerifyRange(proof.Proofs[i], bits)
		if err != nil {
			return false, ReasonOK, err
		}
		if !ok {
			return false, ReasonProofMismatch, nil
		}
	}
	return true, ReasonOK, nil
}

// precheck runs the signature and revocation checks shared by all
// verifications.
func (v *Verifier) precheck(global GlobalPublicKey, header BatchHeader, wit accum.Witness) Reason {
	bts := headerBytes(header.DataCommitments, header.TimeCommitment)
	if !verifySignature(global.SigKey, bts, header.Signature) {
		Logger.Tracef("vds: batch %s rejected: %v", header.ID, ReasonSignatureMismatch)
		return ReasonSignatureMismatch
	}

	y := accum.HashItem(header.Signature)
	if !accum.Verify(global.AccKey, global.AccValue, y, wit) {
		Logger.Tracef("vds: batch %s rejected: %v", header.ID, ReasonRevoked)
		return ReasonRevoked
	}
	return ReasonOK
}
