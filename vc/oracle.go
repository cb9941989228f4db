package vc

import (
	"encoding/binary"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/crypto/blake2b"
)

// Oracle derives Fiat-Shamir challenges from protocol transcripts.
// Group elements enter the transcript in compressed form, scalars as
// big-endian bytes. Each challenge family carries its own domain prefix.
type Oracle struct {
	Parameters Parameters

	buf []byte
}

// NewOracle creates a new Oracle.
func NewOracle(params Parameters) *Oracle {
	return &Oracle{
		Parameters: params,
		buf:        make([]byte, 0, 512),
	}
}

// ShallowCopy creates a copy of Oracle that is thread-safe.
func (o *Oracle) ShallowCopy() *Oracle {
	return NewOracle(o.Parameters)
}

func (o *Oracle) reset() {
	o.buf = o.buf[:0]
}

func (o *Oracle) writeBytes(b []byte) {
	o.buf = append(o.buf, b...)
}

func (o *Oracle) writeG1(p bls12381.G1Affine) {
	b := p.Bytes()
	o.buf = append(o.buf, b[:]...)
}

func (o *Oracle) writeG2(p bls12381.G2Affine) {
	b := p.Bytes()
	o.buf = append(o.buf, b[:]...)
}

func (o *Oracle) writeScalar(x fr.Element) {
	b := x.Bytes()
	o.buf = append(o.buf, b[:]...)
}

// ChallengeWeights derives the weights t_1, ..., t_n used to fold n
// point openings into one aggregated opening.
// The optional ctx bytes separate independent protocol uses.
func (o *Oracle) ChallengeWeights(c bls12381.G1Affine, cHat bls12381.G2Affine, cy bls12381.G1Affine, ctx []byte) []fr.Element {
	o.reset()
	o.writeBytes([]byte("HT"))
	o.writeG1(c)
	o.writeG2(cHat)
	o.writeG1(cy)
	o.writeBytes(ctx)

	base := len(o.buf)
	t := make([]fr.Element, o.Parameters.n)
	var ctr [4]byte
	for i := range t {
		binary.BigEndian.PutUint32(ctr[:], uint32(i+1))
		o.buf = append(o.buf[:base], ctr[:]...)
		digest := blake2b.Sum256(o.buf)
		t[i].SetBytes(digest[:])
	}
	return t
}

// AggregationChallenges derives the pair of challenges that combine the
// equality and orthogonality proofs into a single group element.
func (o *Oracle) AggregationChallenges(c bls12381.G1Affine, cHat bls12381.G2Affine, cy bls12381.G1Affine) (deltaEq, deltaY fr.Element) {
	o.reset()
	o.writeBytes([]byte("HAGG"))
	o.writeG1(c)
	o.writeG2(cHat)
	o.writeG1(cy)

	base := len(o.buf)
	o.buf = append(o.buf[:base], 0x00)
	digest := blake2b.Sum256(o.buf)
	deltaEq.SetBytes(digest[:])

	o.buf = append(o.buf[:base], 0x01)
	digest = blake2b.Sum256(o.buf)
	deltaY.SetBytes(digest[:])

	return
}

// FirstCoordChallenges derives the challenges s_2, ..., s_n for the
// first-coordinate proof.
func (o *Oracle) FirstCoordChallenges(vHat, cHat bls12381.G2Affine, cy bls12381.G1Affine) []fr.Element {
	n := o.Parameters.n

	domain := make([]byte, 0, 4*(n-1))
	var idx [4]byte
	for i := 2; i <= n; i++ {
		binary.BigEndian.PutUint32(idx[:], uint32(i))
		domain = append(domain, idx[:]...)
	}

	s := make([]fr.Element, n-1)
	var ctr [8]byte
	for i := 2; i <= n; i++ {
		o.reset()
		o.writeBytes([]byte("HS"))
		binary.BigEndian.PutUint64(ctr[:], uint64(i))
		o.writeBytes(ctr[:])
		o.writeBytes(domain)
		o.writeG2(vHat)
		o.writeG2(cHat)
		o.writeG1(cy)
		digest := blake2b.Sum256(o.buf)
		s[i-2].SetBytes(digest[:])
	}
	return s
}

// RangeWeight derives the scalar binding the bit commitment to the
// value commitment inside a range proof.
func (o *Oracle) RangeWeight(cHat, vHat bls12381.G2Affine) fr.Element {
	o.reset()
	o.writeG2(cHat)
	o.writeG2(vHat)
	digest := blake2b.Sum256(o.buf)

	var y fr.Element
	y.SetBytes(digest[:])
	return y
}

// RangeBindingWeight derives the scalar binding the Hadamard commitment
// to the previous range challenge.
func (o *Oracle) RangeBindingWeight(y fr.Element, cHat bls12381.G2Affine, cy bls12381.G1Affine) fr.Element {
	o.reset()
	o.writeScalar(y)
	o.writeG2(cHat)
	o.writeG1(cy)
	digest := blake2b.Sum256(o.buf)

	var t fr.Element
	t.SetBytes(digest[:])
	return t
}

// RangeAggregationChallenges derives the four challenges that fold the
// sum, equality, orthogonality and first-coordinate checks of a range
// proof, in that order.
func (o *Oracle) RangeAggregationChallenges(cHat, vHat bls12381.G2Affine, cy bls12381.G1Affine) [4]fr.Element {
	o.reset()
	o.writeG2(cHat)
	o.writeG2(vHat)
	o.writeG1(cy)
	digest := blake2b.Sum256(o.buf)

	var deltas [4]fr.Element
	for i := range deltas {
		deltas[i].SetUint64(binary.BigEndian.Uint64(digest[8*i : 8*i+8]))
	}
	return deltas
}
