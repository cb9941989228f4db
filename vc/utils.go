package vc

import (
	"github.com/bits-and-blooms/bitset"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// BitDecompose returns the bits of x, least significant first,
// as field elements padded with zeros to the given count.
func BitDecompose(x uint64, count int) []fr.Element {
	bs := bitset.From([]uint64{x})
	bits := make([]fr.Element, count)
	for i := 0; i < count; i++ {
		if bs.Test(uint(i)) {
			bits[i].SetOne()
		}
	}
	return bits
}

// BitCompose returns the weighted sum of bits, with bits[i] weighted by 2^i.
func BitCompose(bits []fr.Element) fr.Element {
	var x, weight, mul fr.Element
	weight.SetOne()
	for i := range bits {
		mul.Mul(&bits[i], &weight)
		x.Add(&x, &mul)
		weight.Double(&weight)
	}
	return x
}

// InnerProduct returns the inner product of a and b.
// Both vectors must have the same length.
func InnerProduct(a, b []fr.Element) fr.Element {
	var sum, mul fr.Element
	for i := range a {
		mul.Mul(&a[i], &b[i])
		sum.Add(&sum, &mul)
	}
	return sum
}

// powersOfTwo returns the first count powers of two as field elements.
func powersOfTwo(count int) []fr.Element {
	w := make([]fr.Element, count)
	if count == 0 {
		return w
	}
	w[0].SetOne()
	for i := 1; i < count; i++ {
		w[i].Double(&w[i-1])
	}
	return w
}

// pairing computes the pairing of a single point pair.
func pairing(p bls12381.G1Affine, q bls12381.G2Affine) bls12381.GT {
	gt, err := bls12381.Pair([]bls12381.G1Affine{p}, []bls12381.G2Affine{q})
	if err != nil {
		panic(err)
	}
	return gt
}
