package vc

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"
)

// Committer computes commitments against a reference string.
type Committer struct {
	Parameters Parameters
	CRS        *CRS

	buffer committerBuffer
}

type committerBuffer struct {
	scalars []fr.Element
}

// NewCommitter creates a new Committer.
func NewCommitter(params Parameters, crs *CRS) *Committer {
	return &Committer{
		Parameters: params,
		CRS:        crs,
		buffer:     newCommitterBuffer(params),
	}
}

// newCommitterBuffer creates a new committerBuffer.
func newCommitterBuffer(params Parameters) committerBuffer {
	return committerBuffer{
		scalars: make([]fr.Element, params.n+1),
	}
}

// ShallowCopy creates a copy of Committer that is thread-safe.
func (c *Committer) ShallowCopy() *Committer {
	return &Committer{
		Parameters: c.Parameters,
		CRS:        c.CRS,
		buffer:     newCommitterBuffer(c.Parameters),
	}
}

// CommitData commits to the vector m under randomness gamma.
// The commitment is C = g^gamma * prod_j g_j^(m_j).
func (c *Committer) CommitData(m []fr.Element, gamma fr.Element) (bls12381.G1Affine, error) {
	n := c.Parameters.n
	if len(m) != n {
		return bls12381.G1Affine{}, errors.Errorf("vector has length %d, want %d", len(m), n)
	}

	c.buffer.scalars[0] = gamma
	copy(c.buffer.scalars[1:], m)
	return c.CRS.combine(c.buffer.scalars), nil
}

// CommitTime commits to the vector t on the dual side under randomness gamma.
// The commitment is C_hat = ghat^gamma * prod_j ghat_j^(t_j).
func (c *Committer) CommitTime(t []fr.Element, gamma fr.Element) (bls12381.G2Affine, error) {
	n := c.Parameters.n
	if len(t) != n {
		return bls12381.G2Affine{}, errors.Errorf("vector has length %d, want %d", len(t), n)
	}

	c.buffer.scalars[0] = gamma
	copy(c.buffer.scalars[1:], t)
	return c.CRS.combineDual(c.buffer.scalars), nil
}

// CommitHadamard commits to the coordinate products y_j * x_j in reverse
// order under randomness gammaY.
// The commitment is C_y = g^gammaY * prod_j g_(n+1-j)^(y_j x_j).
func (c *Committer) CommitHadamard(y, x []fr.Element, gammaY fr.Element) (bls12381.G1Affine, error) {
	n := c.Parameters.n
	if len(y) != n || len(x) != n {
		return bls12381.G1Affine{}, errors.Errorf("vectors have length %d and %d, want %d", len(y), len(x), n)
	}

	c.buffer.scalars[0] = gammaY
	for j := 1; j <= n; j++ {
		c.buffer.scalars[n+1-j].Mul(&y[j-1], &x[j-1])
	}
	return c.CRS.combine(c.buffer.scalars), nil
}

// CommitInteger commits to the scalar x on the dual side under randomness r.
// The commitment is V_hat = ghat^r * ghat_1^x.
func (c *Committer) CommitInteger(x, r fr.Element) bls12381.G2Affine {
	c.buffer.scalars[0] = r
	c.buffer.scalars[1] = x
	return c.CRS.combineDual(c.buffer.scalars[:2])
}
