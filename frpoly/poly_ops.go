package frpoly

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Add returns pOut = p0 + p1.
func Add(p0, p1 Poly) Poly {
	pOut := NewPoly(len(p0.Coeffs))
	AddAssign(p0, p1, pOut)
	return pOut
}

// AddAssign assigns pOut = p0 + p1.
func AddAssign(p0, p1, pOut Poly) {
	for i := 0; i < len(pOut.Coeffs); i++ {
		pOut.Coeffs[i].Add(&p0.Coeffs[i], &p1.Coeffs[i])
	}
}

// Sub returns pOut = p0 - p1.
func Sub(p0, p1 Poly) Poly {
	pOut := NewPoly(len(p0.Coeffs))
	SubAssign(p0, p1, pOut)
	return pOut
}

// SubAssign assigns pOut = p0 - p1.
func SubAssign(p0, p1, pOut Poly) {
	for i := 0; i < len(pOut.Coeffs); i++ {
		pOut.Coeffs[i].Sub(&p0.Coeffs[i], &p1.Coeffs[i])
	}
}

// Neg returns pOut = -p.
func Neg(p Poly) Poly {
	pOut := NewPoly(len(p.Coeffs))
	NegAssign(p, pOut)
	return pOut
}

// NegAssign assigns pOut = -p.
func NegAssign(p, pOut Poly) {
	for i := 0; i < len(pOut.Coeffs); i++ {
		pOut.Coeffs[i].Neg(&p.Coeffs[i])
	}
}

// ScalarMul returns pOut = p * c.
func ScalarMul(p Poly, c fr.Element) Poly {
	pOut := NewPoly(len(p.Coeffs))
	ScalarMulAssign(p, c, pOut)
	return pOut
}

// ScalarMulAssign assigns pOut = p * c.
func ScalarMulAssign(p Poly, c fr.Element, pOut Poly) {
	for i := 0; i < len(pOut.Coeffs); i++ {
		pOut.Coeffs[i].Mul(&p.Coeffs[i], &c)
	}
}

// ScalarMulAddAssign assigns pOut += p * c.
func ScalarMulAddAssign(p Poly, c fr.Element, pOut Poly) {
	var tmp fr.Element
	for i := 0; i < len(pOut.Coeffs); i++ {
		tmp.Mul(&p.Coeffs[i], &c)
		pOut.Coeffs[i].Add(&pOut.Coeffs[i], &tmp)
	}
}

// ScalarMulSubAssign assigns pOut -= p * c.
func ScalarMulSubAssign(p Poly, c fr.Element, pOut Poly) {
	var tmp fr.Element
	for i := 0; i < len(pOut.Coeffs); i++ {
		tmp.Mul(&p.Coeffs[i], &c)
		pOut.Coeffs[i].Sub(&pOut.Coeffs[i], &tmp)
	}
}
