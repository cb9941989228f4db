package frpoly_test

import (
	"testing"

	"github.com/Alfred-hhy/streamCommit/csprng"
	"github.com/Alfred-hhy/streamCommit/frpoly"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
)

func sampleVec(s *csprng.UniformSampler, n int) []fr.Element {
	v := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		s.SampleFrAssign(&v[i])
	}
	return v
}

func TestProductLinear(t *testing.T) {
	us := csprng.NewUniformSampler()

	t.Run("Empty", func(t *testing.T) {
		p := frpoly.ProductLinear(nil)

		var one fr.Element
		one.SetOne()

		assert.Equal(t, 1, p.Len())
		assert.True(t, p.Coeffs[0].Equal(&one))
	})

	t.Run("RootsVanish", func(t *testing.T) {
		cs := sampleVec(us, 8)
		p := frpoly.ProductLinear(cs)

		assert.Equal(t, len(cs), p.Degree())

		var negC fr.Element
		for i := 0; i < len(cs); i++ {
			negC.Neg(&cs[i])
			ev := p.Evaluate(negC)
			assert.True(t, ev.IsZero())
		}
	})

	t.Run("NonRootMatchesFactors", func(t *testing.T) {
		cs := sampleVec(us, 8)
		p := frpoly.ProductLinear(cs)

		x := us.SampleFr()

		var want, factor fr.Element
		want.SetOne()
		for i := 0; i < len(cs); i++ {
			factor.Add(&cs[i], &x)
			want.Mul(&want, &factor)
		}

		ev := p.Evaluate(x)
		assert.True(t, ev.Equal(&want))
	})
}

func TestDiv(t *testing.T) {
	us := csprng.NewUniformSampler()

	t.Run("ExactByLinearFactor", func(t *testing.T) {
		cs := sampleVec(us, 8)
		p := frpoly.ProductLinear(cs)

		divisor := frpoly.NewPoly(2)
		divisor.Coeffs[0].Set(&cs[3])
		divisor.Coeffs[1].SetOne()

		quo, rem := p.Div(divisor)

		assert.Equal(t, 1, rem.Len())
		assert.True(t, rem.Coeffs[0].IsZero())

		rest := append([]fr.Element{}, cs[:3]...)
		rest = append(rest, cs[4:]...)
		want := frpoly.ProductLinear(rest)

		assert.True(t, quo.Equal(want))
	})

	t.Run("RemainderIsEvaluation", func(t *testing.T) {
		cs := sampleVec(us, 8)
		p := frpoly.ProductLinear(cs)

		y := us.SampleFr()
		divisor := frpoly.NewPoly(2)
		divisor.Coeffs[0].Set(&y)
		divisor.Coeffs[1].SetOne()

		_, rem := p.Div(divisor)

		var negY fr.Element
		negY.Neg(&y)
		want := p.Evaluate(negY)

		assert.Equal(t, 1, rem.Len())
		assert.True(t, rem.Coeffs[0].Equal(&want))
	})

	t.Run("ShortDividend", func(t *testing.T) {
		p := frpoly.NewPoly(1)
		p.Coeffs[0] = us.SampleFr()

		divisor := frpoly.NewPoly(2)
		divisor.Coeffs[0] = us.SampleFr()
		divisor.Coeffs[1].SetOne()

		quo, rem := p.Div(divisor)

		assert.Equal(t, 1, quo.Len())
		assert.True(t, quo.Coeffs[0].IsZero())
		assert.True(t, rem.Coeffs[0].Equal(&p.Coeffs[0]))
	})

	t.Run("ZeroDivisorPanics", func(t *testing.T) {
		p := frpoly.NewPoly(4)
		assert.Panics(t, func() {
			p.Div(frpoly.NewPoly(3))
		})
	})
}

func TestOps(t *testing.T) {
	us := csprng.NewUniformSampler()

	p0 := frpoly.Poly{Coeffs: sampleVec(us, 16)}
	p1 := frpoly.Poly{Coeffs: sampleVec(us, 16)}

	t.Run("AddSub", func(t *testing.T) {
		sum := frpoly.Add(p0, p1)
		diff := frpoly.Sub(sum, p1)
		assert.True(t, diff.Equal(p0))
	})

	t.Run("Neg", func(t *testing.T) {
		neg := frpoly.Neg(p0)
		sum := frpoly.Add(p0, neg)

		zero := frpoly.NewPoly(16)
		assert.True(t, sum.Equal(zero))
	})

	t.Run("ScalarMul", func(t *testing.T) {
		c := us.SampleFr()

		var cInv fr.Element
		cInv.Inverse(&c)

		scaled := frpoly.ScalarMul(p0, c)
		back := frpoly.ScalarMul(scaled, cInv)
		assert.True(t, back.Equal(p0))
	})

	t.Run("ScalarMulAddAssign", func(t *testing.T) {
		c := us.SampleFr()

		acc := p1.Copy()
		frpoly.ScalarMulAddAssign(p0, c, acc)
		frpoly.ScalarMulSubAssign(p0, c, acc)
		assert.True(t, acc.Equal(p1))
	})
}

func TestEvaluate(t *testing.T) {
	us := csprng.NewUniformSampler()

	p := frpoly.Poly{Coeffs: sampleVec(us, 16)}
	x := us.SampleFr()

	var want, pw, term fr.Element
	pw.SetOne()
	for i := 0; i < p.Len(); i++ {
		term.Mul(&p.Coeffs[i], &pw)
		want.Add(&want, &term)
		pw.Mul(&pw, &x)
	}

	ev := p.Evaluate(x)
	assert.True(t, ev.Equal(&want))
}
