package vc

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"

	"github.com/Alfred-hhy/streamCommit/csprng"
	"github.com/Alfred-hhy/streamCommit/frpoly"
)

// Prover generates opening, smallness and range proofs.
// Every proof is assembled as a coefficient vector over the power basis
// and evaluated with a single multi-exponentiation.
type Prover struct {
	Parameters Parameters
	CRS        *CRS

	UniformSampler *csprng.UniformSampler
	Oracle         *Oracle
	Committer      *Committer

	buffer proverBuffer
}

type proverBuffer struct {
	coeffs frpoly.Poly
	num    frpoly.Poly
	den    frpoly.Poly

	weights []fr.Element
}

// NewProver creates a new Prover.
func NewProver(params Parameters, crs *CRS) *Prover {
	return &Prover{
		Parameters: params,
		CRS:        crs,

		UniformSampler: csprng.NewUniformSampler(),
		Oracle:         NewOracle(params),
		Committer:      NewCommitter(params, crs),

		buffer: newProverBuffer(params),
	}
}

// newProverBuffer creates a new proverBuffer.
func newProverBuffer(params Parameters) proverBuffer {
	return proverBuffer{
		coeffs: frpoly.NewPoly(2*params.n + 1),
		num:    frpoly.NewPoly(2*params.n + 1),
		den:    frpoly.NewPoly(2*params.n + 1),

		weights: make([]fr.Element, params.n),
	}
}

// ShallowCopy creates a copy of Prover that is thread-safe.
func (p *Prover) ShallowCopy() *Prover {
	return &Prover{
		Parameters: p.Parameters,
		CRS:        p.CRS,

		UniformSampler: csprng.NewUniformSampler(),
		Oracle:         p.Oracle.ShallowCopy(),
		Committer:      p.Committer.ShallowCopy(),

		buffer: newProverBuffer(p.Parameters),
	}
}

// ProvePointOpening proves that the vector committed under (m, gamma)
// holds m_i at position i.
// The proof is pi = g_(n+1-i)^gamma * prod_(j != i) g_(n+1-i+j)^(m_j).
func (p *Prover) ProvePointOpening(m []fr.Element, gamma fr.Element, i int) (bls12381.G1Affine, error) {
	n := p.Parameters.n
	if i < 1 || i > n {
		return bls12381.G1Affine{}, errors.Errorf("position %d out of range [1, %d]", i, n)
	}
	if len(m) != n {
		return bls12381.G1Affine{}, errors.Errorf("vector has length %d, want %d", len(m), n)
	}

	coeffs := p.buffer.coeffs.Coeffs
	p.buffer.coeffs.Clear()

	coeffs[n+1-i].Add(&coeffs[n+1-i], &gamma)
	for j := 1; j <= n; j++ {
		if j == i {
			continue
		}
		coeffs[n+1-i+j].Add(&coeffs[n+1-i+j], &m[j-1])
	}

	return p.CRS.combine(coeffs), nil
}

// ProveAggregatedOpening proves openings at the given positions in one
// group element, folded with the weights t.
// The positions and weights are parallel slices.
func (p *Prover) ProveAggregatedOpening(m []fr.Element, gamma fr.Element, positions []int, t []fr.Element) (bls12381.G1Affine, error) {
	n := p.Parameters.n
	if len(m) != n {
		return bls12381.G1Affine{}, errors.Errorf("vector has length %d, want %d", len(m), n)
	}
	if len(positions) != len(t) {
		return bls12381.G1Affine{}, errors.Errorf("%d positions with %d weights", len(positions), len(t))
	}

	coeffs := p.buffer.coeffs.Coeffs
	p.buffer.coeffs.Clear()

	var mul fr.Element
	for pos, i := range positions {
		if i < 1 || i > n {
			return bls12381.G1Affine{}, errors.Errorf("position %d out of range [1, %d]", i, n)
		}

		mul.Mul(&t[pos], &gamma)
		coeffs[n+1-i].Add(&coeffs[n+1-i], &mul)
		for j := 1; j <= n; j++ {
			if j == i {
				continue
			}
			mul.Mul(&t[pos], &m[j-1])
			coeffs[n+1-i+j].Add(&coeffs[n+1-i+j], &mul)
		}
	}

	return p.CRS.combine(coeffs), nil
}

// ProveEquality proves that a Hadamard commitment to (y, x) and a dual
// commitment to x agree on the weighted inner product sum_i t_i y_i x_i.
// The randomness gamma belongs to the dual commitment, gammaY to the
// Hadamard commitment.
func (p *Prover) ProveEquality(t, y, x []fr.Element, gamma, gammaY fr.Element) (bls12381.G1Affine, error) {
	n := p.Parameters.n
	if len(t) != n || len(y) != n || len(x) != n {
		return bls12381.G1Affine{}, errors.Errorf("vectors have lengths %d, %d, %d, want %d", len(t), len(y), len(x), n)
	}

	num := p.buffer.num.Coeffs
	den := p.buffer.den.Coeffs
	p.buffer.num.Clear()
	p.buffer.den.Clear()

	var w, mul fr.Element
	for i := 1; i <= n; i++ {
		w.Mul(&t[i-1], &y[i-1])
		mul.Mul(&w, &gamma)
		num[n+1-i].Add(&num[n+1-i], &mul)
		for j := 1; j <= n; j++ {
			if j == i {
				continue
			}
			mul.Mul(&w, &x[j-1])
			num[n+1-i+j].Add(&num[n+1-i+j], &mul)
		}
	}

	for i := 1; i <= n; i++ {
		mul.Mul(&t[i-1], &gammaY)
		den[i].Add(&den[i], &mul)
		for j := 1; j <= n; j++ {
			if j == i {
				continue
			}
			w.Mul(&y[j-1], &x[j-1])
			mul.Mul(&w, &t[i-1])
			den[i+n+1-j].Add(&den[i+n+1-j], &mul)
		}
	}

	frpoly.SubAssign(p.buffer.num, p.buffer.den, p.buffer.coeffs)
	return p.CRS.combine(p.buffer.coeffs.Coeffs), nil
}

// ProveOrthogonality proves that y is orthogonal to x - 1 coordinate-wise,
// which for binary x pins every y_i x_i (x_i - 1) to zero.
func (p *Prover) ProveOrthogonality(x, y []fr.Element, gamma, gammaY fr.Element) (bls12381.G1Affine, error) {
	n := p.Parameters.n
	if len(x) != n || len(y) != n {
		return bls12381.G1Affine{}, errors.Errorf("vectors have lengths %d, %d, want %d", len(x), len(y), n)
	}

	coeffs := p.buffer.coeffs.Coeffs
	p.buffer.coeffs.Clear()

	// weights[j-1] = y_j * (x_j - 1)
	one := fr.One()
	weights := p.buffer.weights
	for j := 1; j <= n; j++ {
		weights[j-1].Sub(&x[j-1], &one)
		weights[j-1].Mul(&weights[j-1], &y[j-1])
	}

	var mul fr.Element
	mul.Mul(&gamma, &gammaY)
	coeffs[0].Add(&coeffs[0], &mul)

	for j := 1; j <= n; j++ {
		mul.Mul(&gamma, &weights[j-1])
		coeffs[n+1-j].Add(&coeffs[n+1-j], &mul)
	}

	for i := 1; i <= n; i++ {
		mul.Mul(&gammaY, &x[i-1])
		coeffs[i].Add(&coeffs[i], &mul)
		for j := 1; j <= n; j++ {
			if j == i {
				continue
			}
			mul.Mul(&x[i-1], &weights[j-1])
			coeffs[n+1-j+i].Add(&coeffs[n+1-j+i], &mul)
		}
	}

	return p.CRS.combine(coeffs), nil
}

// ProveRangeSum folds per-bit opening proofs into the weighted sum proof,
// with bit i weighted by 2^(i-1), blinded by the value commitment
// randomness r.
func (p *Prover) ProveRangeSum(bitProofs []bls12381.G1Affine, r fr.Element) bls12381.G1Affine {
	var acc bls12381.G1Affine
	if len(bitProofs) > 0 {
		weights := powersOfTwo(len(bitProofs))
		if _, err := acc.MultiExp(bitProofs, weights, ecc.MultiExpConfig{}); err != nil {
			panic(err)
		}
	}

	var rNeg fr.Element
	var rBig big.Int
	rNeg.Neg(&r)

	var tail bls12381.G1Affine
	tail.ScalarMultiplication(&p.CRS.G1Powers[p.Parameters.n], rNeg.BigInt(&rBig))
	acc.Add(&acc, &tail)
	return acc
}

// ProveFirstCoordinate proves that the value commitment built from (x, r)
// carries no component beyond the first coordinate.
// The challenges s must have length n-1, one per coordinate 2..n.
func (p *Prover) ProveFirstCoordinate(x, r fr.Element, s []fr.Element) (bls12381.G1Affine, error) {
	n := p.Parameters.n
	if len(s) != n-1 {
		return bls12381.G1Affine{}, errors.Errorf("challenges have length %d, want %d", len(s), n-1)
	}

	coeffs := p.buffer.coeffs.Coeffs
	p.buffer.coeffs.Clear()

	var mul fr.Element
	for i := 2; i <= n; i++ {
		mul.Mul(&s[i-2], &r)
		coeffs[n+1-i].Add(&coeffs[n+1-i], &mul)
		mul.Mul(&s[i-2], &x)
		coeffs[n+2-i].Add(&coeffs[n+2-i], &mul)
	}

	return p.CRS.combine(coeffs), nil
}

// AggregatePair folds an equality proof and an orthogonality proof into
// a single group element under the given challenges.
func (p *Prover) AggregatePair(piEq, piY bls12381.G1Affine, deltaEq, deltaY fr.Element) bls12381.G1Affine {
	points := []bls12381.G1Affine{piEq, piY}
	scalars := []fr.Element{deltaEq, deltaY}

	var acc bls12381.G1Affine
	if _, err := acc.MultiExp(points, scalars, ecc.MultiExpConfig{}); err != nil {
		panic(err)
	}
	return acc
}

// ProveRange proves that value lies in [0, 2^bits).
// The bit length may not exceed the vector dimension.
func (p *Prover) ProveRange(value uint64, bits int) (RangeProof, error) {
	n := p.Parameters.n
	if bits < 1 || bits > n {
		return RangeProof{}, errors.Errorf("bit length %d out of range [1, %d]", bits, n)
	}
	if bits < 64 && value >= uint64(1)<<bits {
		return RangeProof{}, errors.Errorf("value %d does not fit in %d bits", value, bits)
	}

	x := BitDecompose(value, n)
	gamma := p.UniformSampler.SampleFr()
	cHat, err := p.Committer.CommitTime(x, gamma)
	if err != nil {
		return RangeProof{}, err
	}

	var xScalar fr.Element
	xScalar.SetUint64(value)
	r := p.UniformSampler.SampleFr()
	vHat := p.Committer.CommitInteger(xScalar, r)

	bitProofs := make([]bls12381.G1Affine, bits)
	for i := 1; i <= bits; i++ {
		bitProofs[i-1], err = p.ProvePointOpening(x, gamma, i)
		if err != nil {
			return RangeProof{}, err
		}
	}
	piX := p.ProveRangeSum(bitProofs, r)

	y := p.Oracle.RangeWeight(cHat, vHat)
	yVec := make([]fr.Element, n)
	yVec[0] = y

	gammaY := p.UniformSampler.SampleFr()
	cy, err := p.Committer.CommitHadamard(yVec, x, gammaY)
	if err != nil {
		return RangeProof{}, err
	}

	t := p.Oracle.RangeBindingWeight(y, cHat, cy)
	tVec := make([]fr.Element, n)
	tVec[0] = t

	piEq, err := p.ProveEquality(tVec, yVec, x, gamma, gammaY)
	if err != nil {
		return RangeProof{}, err
	}
	piY, err := p.ProveOrthogonality(x, yVec, gamma, gammaY)
	if err != nil {
		return RangeProof{}, err
	}
	piV, err := p.ProveFirstCoordinate(xScalar, r, tVec[1:])
	if err != nil {
		return RangeProof{}, err
	}

	deltas := p.Oracle.RangeAggregationChallenges(cHat, vHat, cy)
	points := []bls12381.G1Affine{piX, piEq, piY, piV}

	var piAgg bls12381.G1Affine
	if _, err := piAgg.MultiExp(points, deltas[:], ecc.MultiExpConfig{}); err != nil {
		panic(err)
	}

	return RangeProof{
		BitCommitment:      cHat,
		ValueCommitment:    vHat,
		HadamardCommitment: cy,
		AggregatedProof:    piAgg,
		Bits:               bits,
	}, nil
}
