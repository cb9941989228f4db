package vc

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"

	"github.com/Alfred-hhy/streamCommit/frpoly"
)

// Verifier checks opening, smallness and range proofs.
// Quotients of pairings are evaluated literally, as the numerator times
// the inverse of the denominator in the target group.
type Verifier struct {
	Parameters Parameters
	CRS        *CRS

	Oracle *Oracle

	buffer verifierBuffer
}

type verifierBuffer struct {
	// basePair is e(g_1, gHat_n), the pair carrying opened values.
	basePair bls12381.GT

	coeffs  frpoly.Poly
	scalars []fr.Element
}

// NewVerifier creates a new Verifier.
func NewVerifier(params Parameters, crs *CRS) *Verifier {
	return &Verifier{
		Parameters: params,
		CRS:        crs,

		Oracle: NewOracle(params),

		buffer: newVerifierBuffer(params, crs),
	}
}

// newVerifierBuffer creates a new verifierBuffer.
func newVerifierBuffer(params Parameters, crs *CRS) verifierBuffer {
	return verifierBuffer{
		basePair: pairing(crs.G1Powers[1], crs.G2Powers[params.n]),

		coeffs:  frpoly.NewPoly(2*params.n + 1),
		scalars: make([]fr.Element, params.n),
	}
}

// ShallowCopy creates a copy of Verifier that is thread-safe.
func (v *Verifier) ShallowCopy() *Verifier {
	return &Verifier{
		Parameters: v.Parameters,
		CRS:        v.CRS,

		Oracle: v.Oracle.ShallowCopy(),

		buffer: verifierBuffer{
			basePair: v.buffer.basePair,

			coeffs:  frpoly.NewPoly(2*v.Parameters.n + 1),
			scalars: make([]fr.Element, v.Parameters.n),
		},
	}
}

// VerifyPointOpening checks that c opens to mi at position i.
func (v *Verifier) VerifyPointOpening(c, proof bls12381.G1Affine, i int, mi fr.Element) (bool, error) {
	n := v.Parameters.n
	if i < 1 || i > n {
		return false, errors.Errorf("position %d out of range [1, %d]", i, n)
	}

	lhs := pairing(c, v.CRS.G2Powers[n+1-i])

	rhs := pairing(proof, v.CRS.G2Powers[0])
	var miBig big.Int
	var tail bls12381.GT
	tail.Exp(v.buffer.basePair, mi.BigInt(&miBig))
	rhs.Mul(&rhs, &tail)

	return lhs.Equal(&rhs), nil
}

// VerifyAggregatedOpening checks that the openings of c folded with the
// weights t sum to result.
func (v *Verifier) VerifyAggregatedOpening(c, proof bls12381.G1Affine, t []fr.Element, result fr.Element) (bool, error) {
	n := v.Parameters.n
	if len(t) != n {
		return false, errors.Errorf("weights have length %d, want %d", len(t), n)
	}

	// prod_i gHat_(n+1-i)^(t_i)
	scalars := v.buffer.scalars
	for k := 0; k < n; k++ {
		scalars[k] = t[n-1-k]
	}
	var agg bls12381.G2Affine
	if _, err := agg.MultiExp(v.CRS.G2Powers[1:n+1], scalars, ecc.MultiExpConfig{}); err != nil {
		panic(err)
	}
	lhs := pairing(c, agg)

	rhs := pairing(proof, v.CRS.G2Powers[0])
	var resultBig big.Int
	var tail bls12381.GT
	tail.Exp(v.buffer.basePair, result.BigInt(&resultBig))
	rhs.Mul(&rhs, &tail)

	return lhs.Equal(&rhs), nil
}

// VerifyHadamardCoordinate checks that the Hadamard commitment cy built
// from (y, x, gammaY) carries y_i x_i at position i.
func (v *Verifier) VerifyHadamardCoordinate(cy bls12381.G1Affine, i int, x, y []fr.Element, gammaY fr.Element) (bool, error) {
	n := v.Parameters.n
	if i < 1 || i > n {
		return false, errors.Errorf("position %d out of range [1, %d]", i, n)
	}
	if len(x) != n || len(y) != n {
		return false, errors.Errorf("vectors have lengths %d, %d, want %d", len(x), len(y), n)
	}

	lhs := pairing(cy, v.CRS.G2Powers[i])

	coeffs := v.buffer.coeffs.Coeffs
	v.buffer.coeffs.Clear()
	coeffs[i].Add(&coeffs[i], &gammaY)
	var mul fr.Element
	for j := 1; j <= n; j++ {
		if j == i {
			continue
		}
		mul.Mul(&y[j-1], &x[j-1])
		coeffs[n+1-j+i].Add(&coeffs[n+1-j+i], &mul)
	}
	rhs := pairing(v.CRS.combine(coeffs), v.CRS.G2Powers[0])

	mul.Mul(&y[i-1], &x[i-1])
	var mulBig big.Int
	var tail bls12381.GT
	tail.Exp(v.buffer.basePair, mul.BigInt(&mulBig))
	rhs.Mul(&rhs, &tail)

	return lhs.Equal(&rhs), nil
}

// VerifyDualCoordinate checks that the dual commitment cHat built from
// (x, gamma) carries x_i at position i.
func (v *Verifier) VerifyDualCoordinate(cHat bls12381.G2Affine, i int, x []fr.Element, gamma fr.Element) (bool, error) {
	n := v.Parameters.n
	if i < 1 || i > n {
		return false, errors.Errorf("position %d out of range [1, %d]", i, n)
	}
	if len(x) != n {
		return false, errors.Errorf("vector has length %d, want %d", len(x), n)
	}

	lhs := pairing(v.CRS.G1Powers[n+1-i], cHat)

	coeffs := v.buffer.coeffs.Coeffs
	v.buffer.coeffs.Clear()
	coeffs[n+1-i].Add(&coeffs[n+1-i], &gamma)
	for j := 1; j <= n; j++ {
		if j == i {
			continue
		}
		coeffs[n+1-i+j].Add(&coeffs[n+1-i+j], &x[j-1])
	}
	rhs := pairing(v.CRS.combine(coeffs), v.CRS.G2Powers[0])

	var xiBig big.Int
	var tail bls12381.GT
	xi := x[i-1]
	tail.Exp(v.buffer.basePair, xi.BigInt(&xiBig))
	rhs.Mul(&rhs, &tail)

	return lhs.Equal(&rhs), nil
}

// VerifyEquality checks that a Hadamard commitment cy and a dual
// commitment cHat agree on the weighted inner product sum_i t_i y_i x_i.
func (v *Verifier) VerifyEquality(cHat bls12381.G2Affine, cy, proof bls12381.G1Affine, t, y []fr.Element) (bool, error) {
	n := v.Parameters.n
	if len(t) != n || len(y) != n {
		return false, errors.Errorf("vectors have lengths %d, %d, want %d", len(t), len(y), n)
	}

	lhs := v.equalityLHS(cHat, cy, t, y)
	rhs := pairing(proof, v.CRS.G2Powers[0])
	return lhs.Equal(&rhs), nil
}

func (v *Verifier) equalityLHS(cHat bls12381.G2Affine, cy bls12381.G1Affine, t, y []fr.Element) bls12381.GT {
	n := v.Parameters.n

	coeffs := v.buffer.coeffs.Coeffs
	v.buffer.coeffs.Clear()
	var mul fr.Element
	for i := 1; i <= n; i++ {
		mul.Mul(&t[i-1], &y[i-1])
		coeffs[n+1-i].Add(&coeffs[n+1-i], &mul)
	}
	num := pairing(v.CRS.combine(coeffs), cHat)

	scalars := v.buffer.scalars
	copy(scalars, t)
	var agg bls12381.G2Affine
	if _, err := agg.MultiExp(v.CRS.G2Powers[1:n+1], scalars, ecc.MultiExpConfig{}); err != nil {
		panic(err)
	}
	den := pairing(cy, agg)

	var denInv bls12381.GT
	denInv.Inverse(&den)
	num.Mul(&num, &denInv)
	return num
}

// VerifyOrthogonality checks that the challenge weights committed in cy
// vanish against x - 1, which for binary x they always do.
func (v *Verifier) VerifyOrthogonality(cHat bls12381.G2Affine, cy, proof bls12381.G1Affine, y []fr.Element) (bool, error) {
	n := v.Parameters.n
	if len(y) != n {
		return false, errors.Errorf("vector has length %d, want %d", len(y), n)
	}

	lhs := v.orthogonalityLHS(cHat, cy, y)
	rhs := pairing(proof, v.CRS.G2Powers[0])
	return lhs.Equal(&rhs), nil
}

func (v *Verifier) orthogonalityLHS(cHat bls12381.G2Affine, cy bls12381.G1Affine, y []fr.Element) bls12381.GT {
	n := v.Parameters.n

	coeffs := v.buffer.coeffs.Coeffs
	v.buffer.coeffs.Clear()
	var neg fr.Element
	for j := 1; j <= n; j++ {
		neg.Neg(&y[j-1])
		coeffs[n+1-j].Add(&coeffs[n+1-j], &neg)
	}
	p := v.CRS.combine(coeffs)
	p.Add(&p, &cy)

	return pairing(p, cHat)
}

// VerifyRangeSum checks that the low bits committed in cHat recompose,
// weighted by powers of two, to the value committed in vHat.
func (v *Verifier) VerifyRangeSum(cHat, vHat bls12381.G2Affine, proof bls12381.G1Affine, bits int) (bool, error) {
	n := v.Parameters.n
	if bits < 1 || bits > n {
		return false, errors.Errorf("bit length %d out of range [1, %d]", bits, n)
	}

	lhs := v.rangeSumLHS(cHat, vHat, bits)
	rhs := pairing(proof, v.CRS.G2Powers[0])
	return lhs.Equal(&rhs), nil
}

func (v *Verifier) rangeSumLHS(cHat, vHat bls12381.G2Affine, bits int) bls12381.GT {
	n := v.Parameters.n

	coeffs := v.buffer.coeffs.Coeffs
	v.buffer.coeffs.Clear()
	weights := powersOfTwo(bits)
	for i := 1; i <= bits; i++ {
		coeffs[n+1-i].Add(&coeffs[n+1-i], &weights[i-1])
	}
	num := pairing(v.CRS.combine(coeffs), cHat)

	den := pairing(v.CRS.G1Powers[n], vHat)

	var denInv bls12381.GT
	denInv.Inverse(&den)
	num.Mul(&num, &denInv)
	return num
}

// VerifyAggregatedPair checks a folded equality and orthogonality proof
// under the challenges deltaEq and deltaY.
func (v *Verifier) VerifyAggregatedPair(cHat bls12381.G2Affine, cy, proof bls12381.G1Affine, deltaEq, deltaY fr.Element, t, y []fr.Element) (bool, error) {
	n := v.Parameters.n
	if len(t) != n || len(y) != n {
		return false, errors.Errorf("vectors have lengths %d, %d, want %d", len(t), len(y), n)
	}

	coeffs := v.buffer.coeffs.Coeffs
	v.buffer.coeffs.Clear()
	var w, mul fr.Element
	for i := 1; i <= n; i++ {
		// (deltaEq * t_i - deltaY) * y_i
		w.Mul(&deltaEq, &t[i-1])
		w.Sub(&w, &deltaY)
		mul.Mul(&w, &y[i-1])
		coeffs[n+1-i].Add(&coeffs[n+1-i], &mul)
	}
	p := v.CRS.combine(coeffs)

	var deltaYBig big.Int
	var cyWeighted bls12381.G1Affine
	cyWeighted.ScalarMultiplication(&cy, deltaY.BigInt(&deltaYBig))
	p.Add(&p, &cyWeighted)
	num := pairing(p, cHat)

	scalars := v.buffer.scalars
	for k := 0; k < n; k++ {
		scalars[k].Mul(&deltaEq, &t[k])
	}
	var agg bls12381.G2Affine
	if _, err := agg.MultiExp(v.CRS.G2Powers[1:n+1], scalars, ecc.MultiExpConfig{}); err != nil {
		panic(err)
	}
	den := pairing(cy, agg)

	var denInv bls12381.GT
	denInv.Inverse(&den)
	num.Mul(&num, &denInv)

	rhs := pairing(proof, v.CRS.G2Powers[0])
	return num.Equal(&rhs), nil
}

// VerifyFirstCoordinate checks that the value commitment vHat carries no
// component beyond the first coordinate, under challenges s of length n-1.
func (v *Verifier) VerifyFirstCoordinate(vHat bls12381.G2Affine, proof bls12381.G1Affine, s []fr.Element) (bool, error) {
	n := v.Parameters.n
	if len(s) != n-1 {
		return false, errors.Errorf("challenges have length %d, want %d", len(s), n-1)
	}

	lhs := v.firstCoordinateLHS(vHat, s)
	rhs := pairing(proof, v.CRS.G2Powers[0])
	return lhs.Equal(&rhs), nil
}

func (v *Verifier) firstCoordinateLHS(vHat bls12381.G2Affine, s []fr.Element) bls12381.GT {
	n := v.Parameters.n

	coeffs := v.buffer.coeffs.Coeffs
	v.buffer.coeffs.Clear()
	for i := 2; i <= n; i++ {
		coeffs[n+1-i].Add(&coeffs[n+1-i], &s[i-2])
	}
	return pairing(v.CRS.combine(coeffs), vHat)
}

// VerifyRange checks that proof attests a value in [0, 2^bits).
// The challenges are recomputed from the commitments, so the proof
// carries only the three commitments and the folded proof element.
func (v *Verifier) VerifyRange(proof RangeProof, bits int) (bool, error) {
	n := v.Parameters.n
	if bits < 1 || bits > n {
		return false, errors.Errorf("bit length %d out of range [1, %d]", bits, n)
	}
	if proof.Bits != bits {
		return false, nil
	}

	cHat := proof.BitCommitment
	vHat := proof.ValueCommitment
	cy := proof.HadamardCommitment

	y := v.Oracle.RangeWeight(cHat, vHat)
	yVec := make([]fr.Element, n)
	yVec[0] = y

	t := v.Oracle.RangeBindingWeight(y, cHat, cy)
	tVec := make([]fr.Element, n)
	tVec[0] = t

	deltas := v.Oracle.RangeAggregationChallenges(cHat, vHat, cy)

	lhsSum := v.rangeSumLHS(cHat, vHat, bits)
	lhsEq := v.equalityLHS(cHat, cy, tVec, yVec)
	lhsOrth := v.orthogonalityLHS(cHat, cy, yVec)
	lhsFirst := v.firstCoordinateLHS(vHat, tVec[1:])

	var lhs, term bls12381.GT
	var deltaBig big.Int
	lhs.SetOne()
	for i, lhsTerm := range []bls12381.GT{lhsSum, lhsEq, lhsOrth, lhsFirst} {
		term.Exp(lhsTerm, deltas[i].BigInt(&deltaBig))
		lhs.Mul(&lhs, &term)
	}

	rhs := pairing(proof.AggregatedProof, v.CRS.G2Powers[0])
	return lhs.Equal(&rhs), nil
}
