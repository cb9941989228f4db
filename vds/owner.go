package vds

import (
	"crypto/ecdsa"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"

	"github.com/Alfred-hhy/streamCommit/accum"
	"github.com/Alfred-hhy/streamCommit/csprng"
	"github.com/Alfred-hhy/streamCommit/vc"
)

// Owner creates, signs and revokes batches. It is the only role that
// mutates accumulator state; revocations are serialized internally.
type Owner struct {
	Parameters vc.Parameters
	CRS        *vc.CRS

	Committer      *vc.Committer
	UniformSampler *csprng.UniformSampler

	sigKey *ecdsa.PrivateKey
	accKey accum.SecretKey
	accPK  accum.PublicKey

	mu  sync.Mutex
	acc accum.State
}

// NewOwner creates an Owner with fresh signing and accumulator keys.
func NewOwner(params vc.Parameters, crs *vc.CRS) (*Owner, error) {
	sigKey, err := GenerateSigningKey()
	if err != nil {
		return nil, err
	}

	us := csprng.NewUniformSampler()
	accKey, accPK, acc := accum.Setup(us)

	return &Owner{
		Parameters: params,
		CRS:        crs,

		Committer:      vc.NewCommitter(params, crs),
		UniformSampler: us,

		sigKey: sigKey,
		accKey: accKey,
		accPK:  accPK,

		acc: acc,
	}, nil
}

// GlobalPublicKey returns the current published key.
func (o *Owner) GlobalPublicKey() GlobalPublicKey {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.globalPublicKey()
}

func (o *Owner) globalPublicKey() GlobalPublicKey {
	return GlobalPublicKey{
		SigKey:   &o.sigKey.PublicKey,
		AccKey:   o.accPK,
		AccValue: o.acc.Value,
		Version:  o.acc.Version,
	}
}

// AccumulatorState returns a snapshot for a Storage Server mirror.
func (o *Owner) AccumulatorState() accum.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.acc
}

// CreateBatch commits every column and the shared time vector, signs the
// commitments and returns the public header with the server-side secrets.
// Columns are committed in parallel.
func (o *Owner) CreateBatch(columns [][]fr.Element, times []uint64) (BatchHeader, BatchSecrets, error) {
	n := o.Parameters.N()
	if len(columns) == 0 {
		return BatchHeader{}, BatchSecrets{}, errors.New("vds: batch has no columns")
	}
	for c := range columns {
		if len(columns[c]) != n {
			return BatchHeader{}, BatchSecrets{}, errors.Errorf("column %d has length %d, want %d", c, len(columns[c]), n)
		}
	}
	if len(times) != n {
		return BatchHeader{}, BatchSecrets{}, errors.Errorf("time vector has length %d, want %d", len(times), n)
	}

	timeVector := make([]fr.Element, n)
	for i, v := range times {
		timeVector[i].SetUint64(v)
	}

	columnRand := make([]fr.Element, len(columns))
	for c := range columnRand {
		columnRand[c] = o.UniformSampler.SampleFr()
	}
	timeRand := o.UniformSampler.SampleFr()

	dataCommitments := make([]bls12381.G1Affine, len(columns))
	errs := make([]error, len(columns))

	committerPool := make([]*vc.Committer, len(columns))
	for c := range committerPool {
		committerPool[c] = o.Committer.ShallowCopy()
	}

	var wg sync.WaitGroup
	wg.Add(len(columns))
	for c := 0; c < len(columns); c++ {
		go func(c int) {
			dataCommitments[c], errs[c] = committerPool[c].CommitData(columns[c], columnRand[c])
			wg.Done()
		}(c)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return BatchHeader{}, BatchSecrets{}, err
		}
	}

	timeCommitment, err := o.Committer.CommitTime(timeVector, timeRand)
	if err != nil {
		return BatchHeader{}, BatchSecrets{}, err
	}

	bts := headerBytes(dataCommitments, timeCommitment)
	signature, err := sign(o.sigKey, bts)
	if err != nil {
		return BatchHeader{}, BatchSecrets{}, err
	}

	header := BatchHeader{
		ID:              batchID(bts),
		DataCommitments: dataCommitments,
		TimeCommitment:  timeCommitment,
		Signature:       signature,
	}
	secrets := BatchSecrets{
		Columns:    columns,
		ColumnRand: columnRand,

		Times:      times,
		TimeVector: timeVector,
		TimeRand:   timeRand,
	}

	Logger.Debugf("vds: created batch %s with %d columns", header.ID, len(columns))
	return header, secrets, nil
}

// CreateVectorBatch commits a single column with its time vector.
func (o *Owner) CreateVectorBatch(column []fr.Element, times []uint64) (BatchHeader, BatchSecrets, error) {
	return o.CreateBatch([][]fr.Element{column}, times)
}

// RevokeBatch adds the signature digest to the blacklist and returns the
// notice carrying the refreshed accumulator mirror and public key.
// Revoking the same signature twice is an error.
func (o *Owner) RevokeBatch(signature []byte) (RevocationNotice, error) {
	if len(signature) == 0 {
		return RevocationNotice{}, errors.New("vds: empty signature")
	}
	y := accum.HashItem(signature)

	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.acc.Blacklist {
		if o.acc.Blacklist[i].Equal(&y) {
			return RevocationNotice{}, errors.New("vds: batch is already revoked")
		}
	}

	o.acc = o.accKey.Add(o.acc, y)

	Logger.Debugf("vds: revoked batch signature, accumulator version %d", o.acc.Version)
	return RevocationNotice{
		Signature: append([]byte(nil), signature...),
		State:     o.acc,
		GlobalKey: o.globalPublicKey(),
	}, nil
}

/// UpdateBatch replaces a batch in one operation: the new batch is created
// first and the old signature revoked after. On error the prior batch
// stays valid and no revocation is published.
func (o *Owner) UpdateBatch(old BatchHeader, columns [][]fr.Element, times []uint64) (BatchHeader, BatchSecrets, RevocationNotice, error) {
	header, secrets, err := o.CreateBatch(columns, times)
	if err != nil {
		return BatchHeader{}, BatchSecrets{}, RevocationNotice{}, err
	}

	notice, err := o.RevokeBatch(old.Signature)
	if err != nil {
		return BatchHeader{}, BatchSecrets{}, RevocationNotice{}, err
	}

	return header, secrets, notice, nil
}
