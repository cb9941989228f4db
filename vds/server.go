package vds

import (
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"

	"github.com/Alfred-hhy/streamCommit/accum"
	"github.com/Alfred-hhy/streamCommit/vc"
)

// auditContext domain-separates audit challenges from query weights.
var auditContext = []byte("VDS-DA-AUDIT-ZK")

// StorageServer stores batch secrets and answers queries, audits and
// timestamp range proofs. Proof generation runs on a copy of the prover,
// so distinct requests may run concurrently.
type StorageServer struct {
	Parameters vc.Parameters
	CRS        *vc.CRS

	Prover *vc.Prover

	mu      sync.RWMutex
	batches map[string]storedBatch
	acc     accum.State
	global  GlobalPublicKey
}

type storedBatch struct {
	header  BatchHeader
	secrets BatchSecrets
}

// NewStorageServer creates a server mirroring the Owner's key material.
func NewStorageServer(params vc.Parameters, crs *vc.CRS, global GlobalPublicKey, acc accum.State) *StorageServer {
	return &StorageServer{
		Parameters: params,
		CRS:        crs,

		Prover: vc.NewProver(params, crs),

		batches: make(map[string]storedBatch),
		acc:     acc,
		global:  global,
	}
}

// StoreBatch validates a batch received from the Owner and stores it.
func (s *StorageServer) StoreBatch(header BatchHeader, secrets BatchSecrets) error {
	n := s.Parameters.N()
	if len(secrets.Columns) != len(header.DataCommitments) {
		return errors.Errorf("batch has %d columns with %d commitments", len(secrets.Columns), len(header.DataCommitments))
	}
	for c := range secrets.Columns {
		if len(secrets.Columns[c]) != n {
			return errors.Errorf("column %d has length %d, want %d", c, len(secrets.Columns[c]), n)
		}
	}
	if len(secrets.ColumnRand) != len(secrets.Columns) {
		return errors.Errorf("batch has %d columns with %d randomizers", len(secrets.Columns), len(secrets.ColumnRand))
	}
	if len(secrets.TimeVector) != n || len(secrets.Times) != n {
		return errors.Errorf("time vector has length %d, want %d", len(secrets.TimeVector), n)
	}

	bts := headerBytes(header.DataCommitments, header.TimeCommitment)
	if batchID(bts) != header.ID {
		return errors.Errorf("header id %s does not match its commitments", header.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !verifySignature(s.global.SigKey, bts, header.Signature) {
		return errors.New("vds: batch signature is invalid")
	}
	s.batches[header.ID] = storedBatch{header: header, secrets: secrets}

	Logger.Tracef("vds: stored batch %s", header.ID)
	return nil
}

// ApplyRevocation refreshes the server's accumulator mirror and global
// key. Notices not newer than the current mirror are rejected.
func (s *StorageServer) ApplyRevocation(notice RevocationNotice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notice.State.Version <= s.acc.Version {
		return ErrStaleKey
	}
	s.acc = notice.State
	s.global = notice.GlobalKey

	Logger.Tracef("vds: accumulator mirror advanced to version %d", s.acc.Version)
	return nil
}

// GenerateQueryProof answers a weighted-sum query over one column. The
// caller passes the accumulator value of the global key it will verify
// against; the server refuses to answer while its mirror disagrees, so a
// witness is never produced for a key the querier does not hold.
func (s *StorageServer) GenerateQueryProof(id string, weights []fr.Element, accValue bls12381.G1Affine, column int) (QueryProof, error) {
	n := s.Parameters.N()
	if len(weights) != n {
		return QueryProof{}, errors.Errorf("weight vector has length %d, want %d", len(weights), n)
	}

	s.mu.RLock()
	batch, ok := s.batches[id]
	acc := s.acc
	s.mu.RUnlock()
	if !ok {
		return QueryProof{}, ErrUnknownBatch
	}
	if column < 0 || column >= len(batch.secrets.Columns) {
		return QueryProof{}, errors.Errorf("column %d out of range [0, %d)", column, len(batch.secrets.Columns))
	}
	if !accValue.Equal(&acc.Value) {
		return QueryProof{}, ErrStaleKey
	}

	prover := s.Prover.ShallowCopy()

	col := batch.secrets.Columns[column]
	result := vc.InnerProduct(weights, col)

	opening, err := prover.ProveAggregatedOpening(col, batch.secrets.ColumnRand[column], allPositions(n), weights)
	if err != nil {
		return QueryProof{}, err
	}

	wit, err := s.witness(acc, batch.header.Signature)
	if err != nil {
		return QueryProof{}, err
	}

	Logger.Tracef("vds: answered query on batch %s column %d", id, column)
	return QueryProof{Result: result, Opening: opening, Witness: wit}, nil
}

// GenerateAuditProof answers a non-interactive audit over one column.
// The challenge weights are derived from the column commitment, so the
// auditor can recompute them without issuing a query.
func (s *StorageServer) GenerateAuditProof(id string, column int) (AuditProof, error) {
	s.mu.RLock()
	batch, ok := s.batches[id]
	acc := s.acc
	s.mu.RUnlock()
	if !ok {
		return AuditProof{}, ErrUnknownBatch
	}
	if column < 0 || column >= len(batch.secrets.Columns) {
		return AuditProof{}, errors.Errorf("column %d out of range [0, %d)", column, len(batch.secrets.Columns))
	}

	prover := s.Prover.ShallowCopy()

	var identityG1 bls12381.G1Affine
	var identityG2 bls12381.G2Affine
	challenge := prover.Oracle.ChallengeWeights(batch.header.DataCommitments[column], identityG2, identityG1, auditContext)

	col := batch.secrets.Columns[column]
	result := vc.InnerProduct(challenge, col)

	opening, err := prover.ProveAggregatedOpening(col, batch.secrets.ColumnRand[column], allPositions(s.Parameters.N()), challenge)
	if err != nil {
		return AuditProof{}, err
	}

	wit, err := s.witness(acc, batch.header.Signature)
	if err != nil {
		return AuditProof{}, err
	}

	Logger.Tracef("vds: answered audit on batch %s column %d", id, column)
	return AuditProof{Result: result, Opening: opening, Challenge: challenge, Witness: wit}, nil
}

// GenerateTimeProofs proves that every timestamp of the batch fits in the
// given bit length. All timestamps share one non-membership witness.
func (s *StorageServer) GenerateTimeProofs(id string, bits int) (TimeProof, error) {
	s.mu.RLock()
	batch, ok := s.batches[id]
	acc := s.acc
	s.mu.RUnlock()
	if !ok {
		return TimeProof{}, ErrUnknownBatch
	}

	prover := s.Prover.ShallowCopy()
	proofs, err := prover.ProveRangeBatchParallel(batch.secrets.Times, bits)
	if err != nil {
		return TimeProof{}, err
	}

	wit, err := s.witness(acc, batch.header.Signature)
	if err != nil {
		return TimeProof{}, err
	}

	return TimeProof{Proofs: proofs, Witness: wit}, nil
}

// witness builds the non-membership witness for a stored signature.
// Revoked batches get the zero witness, which every verifier rejects.
func (s *StorageServer) witness(acc accum.State, signature []byte) (accum.Witness, error) {
	y := accum.HashItem(signature)
	wit, err := accum.ProveNonMembership(acc, y)
	if err != nil {
		if errors.Is(err, accum.ErrRevoked) {
			Logger.Trace("vds: answering for a revoked batch")
			return accum.Witness{}, nil
		}
		return accum.Witness{}, err
	}
	return wit, nil
}

// allPositions returns the positions 1..n.
func allPositions(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i + 1
	}
	return positions
}
