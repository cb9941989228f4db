package vds

import (
	"github.com/go-errors/errors"
)

var (
	// ErrUnknownBatch is returned when a batch id is not stored.
	ErrUnknownBatch = errors.New("vds: unknown batch")

	// ErrStaleKey is returned when a global public key or revocation
	// notice is older than the currently held one.
	ErrStaleKey = errors.New("vds: stale global public key")
)

// Reason classifies why a verification returned false. Only the coarse
// failure class is reported.
type Reason int

const (
	// ReasonOK means the check passed, or failed with an error instead.
	ReasonOK Reason = iota
	// ReasonSignatureMismatch means the batch signature did not verify.
	ReasonSignatureMismatch
	// ReasonRevoked means the non-membership witness was rejected.
	ReasonRevoked
	// ReasonProofMismatch means a commitment proof check failed.
	ReasonProofMismatch
)

// String returns a short description of the Reason.
func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonSignatureMismatch:
		return "signature mismatch"
	case ReasonRevoked:
		return "revoked"
	case ReasonProofMismatch:
		return "proof mismatch"
	}
	return "unknown"
}
