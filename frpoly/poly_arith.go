package frpoly

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ProductLinear returns the product of the linear factors (c + X) over all c
// in cs. An empty input gives the constant polynomial 1.
func ProductLinear(cs []fr.Element) Poly {
	if len(cs) == 0 {
		pOut := NewPoly(1)
		pOut.Coeffs[0].SetOne()
		return pOut
	}

	pOut := NewPoly(2)
	pOut.Coeffs[0].Set(&cs[0])
	pOut.Coeffs[1].SetOne()

	var tmp fr.Element
	for _, c := range cs[1:] {
		pNext := NewPoly(len(pOut.Coeffs) + 1)
		for j := 0; j < len(pOut.Coeffs); j++ {
			tmp.Mul(&pOut.Coeffs[j], &c)
			pNext.Coeffs[j].Add(&pNext.Coeffs[j], &tmp)
			pNext.Coeffs[j+1].Add(&pNext.Coeffs[j+1], &pOut.Coeffs[j])
		}
		pOut = pNext
	}

	return pOut
}

// Evaluate evaluates the Poly at x.
func (p Poly) Evaluate(x fr.Element) fr.Element {
	var out fr.Element
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		out.Mul(&out, &x)
		out.Add(&out, &p.Coeffs[i])
	}
	return out
}

// Div divides p by q using polynomial long division, returning the quotient
// and the remainder. The quotient has exactly Degree(p) - Degree(q) + 1
// coefficients.
//
// Panics when q is the zero polynomial.
func (p Poly) Div(q Poly) (Poly, Poly) {
	dividend := trimLeadingZeros(p.Coeffs)
	divisor := trimLeadingZeros(q.Coeffs)

	if len(divisor) == 1 && divisor[0].IsZero() {
		panic("frpoly: division by zero polynomial")
	}

	if len(dividend) < len(divisor) {
		return NewPoly(1), Poly{Coeffs: dividend}
	}

	quo := NewPoly(len(dividend) - len(divisor) + 1)
	rem := dividend

	var leadInv fr.Element
	leadInv.Inverse(&divisor[len(divisor)-1])

	var coeff, tmp fr.Element
	for i := len(quo.Coeffs) - 1; i >= 0; i-- {
		if len(rem) < len(divisor) {
			break
		}

		coeff.Mul(&rem[len(rem)-1], &leadInv)
		quo.Coeffs[i].Set(&coeff)

		for j := 0; j < len(divisor); j++ {
			tmp.Mul(&coeff, &divisor[j])
			rem[i+j].Sub(&rem[i+j], &tmp)
		}
		rem = rem[:len(rem)-1]
	}

	return quo, Poly{Coeffs: rem}
}

// trimLeadingZeros drops zero coefficients of highest degree, keeping at
// least one coefficient. The returned slice is a copy.
func trimLeadingZeros(coeffs []fr.Element) []fr.Element {
	n := len(coeffs)
	for n > 1 && coeffs[n-1].IsZero() {
		n--
	}
	if n == 0 {
		return make([]fr.Element, 1)
	}

	out := make([]fr.Element, n)
	copy(out, coeffs[:n])
	return out
}
