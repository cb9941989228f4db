// Package frpoly implements dense polynomial arithmetic over the BLS12-381
// scalar field, with coefficients in ascending degree order.
package frpoly

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Poly is a polynomial with scalar field coefficients.
type Poly struct {
	Coeffs []fr.Element
}

// NewPoly creates a new Poly with N coefficients.
func NewPoly(N int) Poly {
	return Poly{
		Coeffs: make([]fr.Element, N),
	}
}

// Degree returns the degree of the Poly, ignoring leading zero coefficients.
// The zero polynomial has degree zero.
func (p Poly) Degree() int {
	for i := len(p.Coeffs) - 1; i > 0; i-- {
		if !p.Coeffs[i].IsZero() {
			return i
		}
	}
	return 0
}

// Len returns the number of coefficients of the Poly.
func (p Poly) Len() int {
	return len(p.Coeffs)
}

// Clear clears the Poly.
func (p *Poly) Clear() {
	for i := 0; i < len(p.Coeffs); i++ {
		p.Coeffs[i].SetZero()
	}
}

// Copy returns a copy of the Poly.
func (p Poly) Copy() Poly {
	coeffs := make([]fr.Element, len(p.Coeffs))
	copy(coeffs, p.Coeffs)

	return Poly{
		Coeffs: coeffs,
	}
}

// Equal checks if two Polys are equal, including length.
func (p Poly) Equal(q Poly) bool {
	if len(p.Coeffs) != len(q.Coeffs) {
		return false
	}
	for i := 0; i < len(p.Coeffs); i++ {
		if !p.Coeffs[i].Equal(&q.Coeffs[i]) {
			return false
		}
	}
	return true
}
