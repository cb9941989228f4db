// Package accum implements a bilinear accumulator over BLS12-381 used as a
// revocation blacklist. Items are folded into a single group element, and
// absence of an item is attested with a constant-size witness derived by
// polynomial division over the blacklist.
package accum

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/Alfred-hhy/streamCommit/csprng"
	"github.com/Alfred-hhy/streamCommit/frpoly"
)

// ErrRevoked is returned when a non-membership witness is requested for an
// item that is in the blacklist.
var ErrRevoked = errors.New("accum: item is revoked")

// SecretKey holds the accumulator trapdoor. It never leaves the Owner.
type SecretKey struct {
	S fr.Element
}

// PublicKey holds the generators needed to verify non-membership witnesses.
type PublicKey struct {
	// G is the G1 generator carrying the accumulator value.
	G bls12381.G1Affine
	// GHat is the G2 generator.
	GHat bls12381.G2Affine
	// GHatS is GHat raised to the trapdoor.
	GHatS bls12381.G2Affine
}

// State is a versioned snapshot of the accumulator.
// The Owner mutates it through Add; servers and verifiers hold read-only
// mirrors and must refresh them after every revocation.
type State struct {
	// Value is g raised to prod_i (x_i + s) over the blacklist.
	Value bls12381.G1Affine
	// ServerKeys are g raised to increasing powers of the trapdoor,
	// one more power per revocation.
	ServerKeys []bls12381.G1Affine
	// Blacklist holds the revoked item digests.
	Blacklist []fr.Element
	// Version increases by one per revocation.
	Version uint64
}

// Witness attests that an item is absent from the blacklist.
type Witness struct {
	W bls12381.G1Affine
	U fr.Element
}

// Setup samples a fresh trapdoor and generators, returning the secret key,
// the public key and the empty accumulator state.
func Setup(us *csprng.UniformSampler) (SecretKey, PublicKey, State) {
	_, _, g1Gen, g2Gen := bls12381.Generators()

	u := us.SampleFr()
	for u.IsZero() {
		u = us.SampleFr()
	}
	v := us.SampleFr()
	for v.IsZero() {
		v = us.SampleFr()
	}
	s := us.SampleFr()
	for s.IsZero() {
		s = us.SampleFr()
	}

	var uBig, vBig, sBig big.Int
	var g bls12381.G1Affine
	g.ScalarMultiplication(&g1Gen, u.BigInt(&uBig))
	var gHat bls12381.G2Affine
	gHat.ScalarMultiplication(&g2Gen, v.BigInt(&vBig))
	var gHatS bls12381.G2Affine
	gHatS.ScalarMultiplication(&gHat, s.BigInt(&sBig))

	sk := SecretKey{S: s}
	pk := PublicKey{G: g, GHat: gHat, GHatS: gHatS}
	st := State{
		Value:      g,
		ServerKeys: []bls12381.G1Affine{g},
	}
	return sk, pk, st
}

// HashItem maps an item to a nonzero blacklist digest.
// A zero digest is rehashed with a trailing zero byte appended.
func HashItem(item []byte) fr.Element {
	digest := blake2b.Sum256(item)
	var y fr.Element
	y.SetBytes(digest[:])
	for y.IsZero() {
		digest = blake2b.Sum256(append(digest[:], 0x00))
		y.SetBytes(digest[:])
	}
	return y
}

// Add folds the digest y into the accumulator, appends the next server key
// and advances the version. The input state is not modified.
func (sk SecretKey) Add(st State, y fr.Element) State {
	var e fr.Element
	e.Add(&y, &sk.S)

	var eBig big.Int
	var value bls12381.G1Affine
	value.ScalarMultiplication(&st.Value, e.BigInt(&eBig))

	keys := make([]bls12381.G1Affine, len(st.ServerKeys)+1)
	copy(keys, st.ServerKeys)
	var sBig big.Int
	keys[len(keys)-1].ScalarMultiplication(&keys[len(keys)-2], sk.S.BigInt(&sBig))

	blacklist := make([]fr.Element, len(st.Blacklist)+1)
	copy(blacklist, st.Blacklist)
	blacklist[len(blacklist)-1] = y

	return State{
		Value:      value,
		ServerKeys: keys,
		Blacklist:  blacklist,
		Version:    st.Version + 1,
	}
}

// ProveNonMembership builds a witness that y is not in the blacklist of st.
// Returns ErrRevoked when y is blacklisted, and an error when the mirrored
// server keys are too short for the current blacklist.
func ProveNonMembership(st State, y fr.Element) (Witness, error) {
	// f(k) = prod_i (x_i + k)
	pol := frpoly.ProductLinear(st.Blacklist)

	// u = -f(-y) = -prod_i (x_i - y)
	var yNeg fr.Element
	yNeg.Neg(&y)
	var u fr.Element
	fAtNegY := pol.Evaluate(yNeg)
	u.Neg(&fAtNegY)
	if u.IsZero() {
		return Witness{}, ErrRevoked
	}

	// (f(k) + u) / (k + y) divides exactly since -y is a root.
	num := pol.Copy()
	num.Coeffs[0].Add(&num.Coeffs[0], &u)

	div := frpoly.NewPoly(2)
	div.Coeffs[0] = y
	div.Coeffs[1].SetOne()

	quo, rem := num.Div(div)
	if rem.Degree() != 0 || !rem.Coeffs[0].IsZero() {
		panic("accum: witness quotient has nonzero remainder")
	}

	if len(st.ServerKeys) < quo.Len() {
		return Witness{}, errors.Errorf("server keys cover %d coefficients, need %d", len(st.ServerKeys), quo.Len())
	}

	var w bls12381.G1Affine
	if _, err := w.MultiExp(st.ServerKeys[:quo.Len()], quo.Coeffs, ecc.MultiExpConfig{}); err != nil {
		panic(err)
	}
	return Witness{W: w, U: u}, nil
}

// Verify checks a non-membership witness for y against the accumulator
// value. Malformed witnesses are treated as membership.
func Verify(pk PublicKey, value bls12381.G1Affine, y fr.Element, wit Witness) bool {
	if wit.U.IsZero() {
		return false
	}

	var yBig big.Int
	var gHatY bls12381.G2Affine
	gHatY.ScalarMultiplication(&pk.GHat, y.BigInt(&yBig))
	gHatY.Add(&gHatY, &pk.GHatS)

	lhs, err := bls12381.Pair([]bls12381.G1Affine{wit.W}, []bls12381.G2Affine{gHatY})
	if err != nil {
		return false
	}

	var uBig big.Int
	var gU bls12381.G1Affine
	gU.ScalarMultiplication(&pk.G, wit.U.BigInt(&uBig))
	gU.Add(&gU, &value)

	rhs, err := bls12381.Pair([]bls12381.G1Affine{gU}, []bls12381.G2Affine{pk.GHat})
	if err != nil {
		return false
	}

	return lhs.Equal(&rhs)
}
