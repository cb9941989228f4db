package vc

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/go-errors/errors"

	"github.com/Alfred-hhy/streamCommit/csprng"
)

// CRS is the public reference string of the commitment scheme.
// It holds consecutive powers of a secret exponent on both curve sides.
// The power n+1 is missing from the G1 side; commitments and proofs are
// built so that no honest operation ever lands on it.
type CRS struct {
	// G1Powers[i] = g^(alpha^i) for i in [0, 2n] except n+1.
	// The slot n+1 holds the identity.
	G1Powers []bls12381.G1Affine
	// G2Powers[i] = ghat^(alpha^i) for i in [0, n].
	G2Powers []bls12381.G2Affine

	// support marks the usable indices of G1Powers.
	support *bitset.BitSet

	trapdoor    fr.Element
	hasTrapdoor bool
}

// GenerateCRS generates a reference string for params.
// The secret exponent is sampled from us and discarded.
func GenerateCRS(params Parameters, us *csprng.UniformSampler) *CRS {
	var alpha fr.Element
	for alpha.IsZero() {
		us.SampleFrAssign(&alpha)
	}
	return newCRS(params, alpha, us)
}

// GenerateCRSWithTrapdoor generates a reference string for params and
// retains the secret exponent.
// This breaks binding and is meant for tests and key ceremonies only.
func GenerateCRSWithTrapdoor(params Parameters, us *csprng.UniformSampler) *CRS {
	var alpha fr.Element
	for alpha.IsZero() {
		us.SampleFrAssign(&alpha)
	}
	crs := newCRS(params, alpha, us)
	crs.trapdoor = alpha
	crs.hasTrapdoor = true
	return crs
}

func newCRS(params Parameters, alpha fr.Element, us *csprng.UniformSampler) *CRS {
	n := params.n

	_, _, g1Gen, g2Gen := bls12381.Generators()

	var u, v fr.Element
	for u.IsZero() {
		us.SampleFrAssign(&u)
	}
	for v.IsZero() {
		us.SampleFrAssign(&v)
	}

	var uBig, vBig big.Int
	var g bls12381.G1Affine
	var gHat bls12381.G2Affine
	g.ScalarMultiplication(&g1Gen, u.BigInt(&uBig))
	gHat.ScalarMultiplication(&g2Gen, v.BigInt(&vBig))

	crs := &CRS{
		G1Powers: make([]bls12381.G1Affine, 2*n+1),
		G2Powers: make([]bls12381.G2Affine, n+1),
		support:  bitset.New(uint(2*n + 1)),
	}
	crs.G1Powers[0] = g
	crs.G2Powers[0] = gHat
	crs.support.Set(0)

	var powBig big.Int
	pow := fr.One()
	for i := 1; i <= 2*n; i++ {
		pow.Mul(&pow, &alpha)
		if i == n+1 {
			continue
		}
		crs.G1Powers[i].ScalarMultiplication(&g, pow.BigInt(&powBig))
		crs.support.Set(uint(i))
		if i <= n {
			crs.G2Powers[i].ScalarMultiplication(&gHat, &powBig)
		}
	}

	return crs
}

// NewCRSFromPowers reconstructs a reference string from its power tables,
// as received over the wire. The slot n+1 of g1Powers must be the identity.
func NewCRSFromPowers(g1Powers []bls12381.G1Affine, g2Powers []bls12381.G2Affine) (*CRS, error) {
	if len(g2Powers) < 2 {
		return nil, errors.Errorf("power table too short: %d", len(g2Powers))
	}
	n := len(g2Powers) - 1
	if len(g1Powers) != 2*n+1 {
		return nil, errors.Errorf("power table length mismatch: %d G1 powers for dimension %d", len(g1Powers), n)
	}

	crs := &CRS{
		G1Powers: g1Powers,
		G2Powers: g2Powers,
		support:  bitset.New(uint(2*n + 1)),
	}
	for i := 0; i <= 2*n; i++ {
		if i != n+1 {
			crs.support.Set(uint(i))
		}
	}

	if err := crs.Validate(Parameters{n: n, modulus: fr.Modulus()}); err != nil {
		return nil, err
	}
	return crs, nil
}

// N returns the dimension supported by the reference string.
func (c *CRS) N() int {
	return len(c.G2Powers) - 1
}

// Trapdoor returns the secret exponent when the reference string was
// generated with GenerateCRSWithTrapdoor.
func (c *CRS) Trapdoor() (fr.Element, bool) {
	return c.trapdoor, c.hasTrapdoor
}

// Validate checks that the reference string is well-formed for params.
func (c *CRS) Validate(params Parameters) error {
	n := params.n

	if len(c.G1Powers) != 2*n+1 {
		return errors.Errorf("G1 power table has length %d, want %d", len(c.G1Powers), 2*n+1)
	}
	if len(c.G2Powers) != n+1 {
		return errors.Errorf("G2 power table has length %d, want %d", len(c.G2Powers), n+1)
	}

	if !c.G1Powers[n+1].IsInfinity() {
		return errors.New("excluded power is present")
	}
	if c.support.Test(uint(n + 1)) {
		return errors.New("excluded power is marked usable")
	}

	for i := 0; i <= 2*n; i++ {
		if i == n+1 {
			continue
		}
		if !c.support.Test(uint(i)) {
			return errors.Errorf("power %d is not marked usable", i)
		}
		if c.G1Powers[i].IsInfinity() {
			return errors.Errorf("G1 power %d is the identity", i)
		}
	}
	for i := 0; i <= n; i++ {
		if c.G2Powers[i].IsInfinity() {
			return errors.Errorf("G2 power %d is the identity", i)
		}
	}

	return nil
}

// combine computes the product of G1 powers raised to coeffs,
// with coeffs[i] the exponent of G1Powers[i].
// It panics if a nonzero coefficient lands outside the support.
func (c *CRS) combine(coeffs []fr.Element) bls12381.G1Affine {
	for i := range coeffs {
		if !coeffs[i].IsZero() && !c.support.Test(uint(i)) {
			panic("vc: nonzero coefficient on excluded power")
		}
	}

	var out bls12381.G1Affine
	if _, err := out.MultiExp(c.G1Powers[:len(coeffs)], coeffs, ecc.MultiExpConfig{}); err != nil {
		panic(err)
	}
	return out
}

// combineDual computes the product of G2 powers raised to coeffs.
func (c *CRS) combineDual(coeffs []fr.Element) bls12381.G2Affine {
	var out bls12381.G2Affine
	if _, err := out.MultiExp(c.G2Powers[:len(coeffs)], coeffs, ecc.MultiExpConfig{}); err != nil {
		panic(err)
	}
	return out
}
