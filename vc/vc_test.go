package vc_test

import (
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/Alfred-hhy/streamCommit/csprng"
	"github.com/Alfred-hhy/streamCommit/vc"
)

var (
	params = vc.ParamsN8.Compile()
	crs    = vc.GenerateCRS(params, csprng.NewUniformSampler())
)

func TestCRS(t *testing.T) {
	t.Run("Lengths", func(t *testing.T) {
		assert.Equal(t, 2*params.N()+1, len(crs.G1Powers))
		assert.Equal(t, params.N()+1, len(crs.G2Powers))
	})

	t.Run("ExcludedPower", func(t *testing.T) {
		assert.True(t, crs.G1Powers[params.N()+1].IsInfinity())
	})

	t.Run("Validate", func(t *testing.T) {
		assert.NoError(t, crs.Validate(params))
	})

	t.Run("Deterministic", func(t *testing.T) {
		seed := []byte("crs-test-seed")
		crs0 := vc.GenerateCRS(params, csprng.NewUniformSamplerWithSeed(seed))
		crs1 := vc.GenerateCRS(params, csprng.NewUniformSamplerWithSeed(seed))
		assert.Equal(t, crs0.G1Powers, crs1.G1Powers)
		assert.Equal(t, crs0.G2Powers, crs1.G2Powers)
	})

	t.Run("RejectsPresentExcludedPower", func(t *testing.T) {
		bad := *crs
		bad.G1Powers = append([]bls12381.G1Affine(nil), crs.G1Powers...)
		bad.G1Powers[params.N()+1] = crs.G1Powers[1]
		assert.Error(t, bad.Validate(params))
	})

	t.Run("RebuildFromPowers", func(t *testing.T) {
		rebuilt, err := vc.NewCRSFromPowers(crs.G1Powers, crs.G2Powers)
		assert.NoError(t, err)
		assert.Equal(t, params.N(), rebuilt.N())
		assert.NoError(t, rebuilt.Validate(params))
	})

	t.Run("Trapdoor", func(t *testing.T) {
		_, ok := crs.Trapdoor()
		assert.False(t, ok)

		dev := vc.GenerateCRSWithTrapdoor(params, csprng.NewUniformSampler())
		alpha, ok := dev.Trapdoor()
		assert.True(t, ok)

		var alphaBig big.Int
		var g1Alpha bls12381.G1Affine
		g1Alpha.ScalarMultiplication(&dev.G1Powers[0], alpha.BigInt(&alphaBig))
		assert.True(t, g1Alpha.Equal(&dev.G1Powers[1]))
	})
}

func TestOpening(t *testing.T) {
	prover := vc.NewProver(params, crs)
	verifier := vc.NewVerifier(params, crs)

	n := params.N()
	m := make([]fr.Element, n)
	for i := range m {
		m[i] = prover.UniformSampler.SampleFr()
	}
	gamma := prover.UniformSampler.SampleFr()
	c, err := prover.Committer.CommitData(m, gamma)
	assert.NoError(t, err)

	t.Run("Point", func(t *testing.T) {
		for i := 1; i <= n; i++ {
			proof, err := prover.ProvePointOpening(m, gamma, i)
			assert.NoError(t, err)

			ok, err := verifier.VerifyPointOpening(c, proof, i, m[i-1])
			assert.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("PointWrongValue", func(t *testing.T) {
		proof, err := prover.ProvePointOpening(m, gamma, 1)
		assert.NoError(t, err)

		var one, wrong fr.Element
		one.SetOne()
		wrong.Add(&m[0], &one)
		ok, err := verifier.VerifyPointOpening(c, proof, 1, wrong)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("PointWrongPosition", func(t *testing.T) {
		proof, err := prover.ProvePointOpening(m, gamma, 1)
		assert.NoError(t, err)

		ok, err := verifier.VerifyPointOpening(c, proof, 2, m[0])
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Aggregated", func(t *testing.T) {
		positions := make([]int, n)
		weights := make([]fr.Element, n)
		for i := 0; i < n; i++ {
			positions[i] = i + 1
			weights[i] = prover.UniformSampler.SampleFr()
		}
		proof, err := prover.ProveAggregatedOpening(m, gamma, positions, weights)
		assert.NoError(t, err)

		result := vc.InnerProduct(weights, m)
		ok, err := verifier.VerifyAggregatedOpening(c, proof, weights, result)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AggregatedWrongSum", func(t *testing.T) {
		positions := make([]int, n)
		weights := make([]fr.Element, n)
		for i := 0; i < n; i++ {
			positions[i] = i + 1
			weights[i] = prover.UniformSampler.SampleFr()
		}
		proof, err := prover.ProveAggregatedOpening(m, gamma, positions, weights)
		assert.NoError(t, err)

		result := vc.InnerProduct(weights, m)
		var one fr.Element
		result.Add(&result, one.SetOne())
		ok, err := verifier.VerifyAggregatedOpening(c, proof, weights, result)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("OutOfRangePosition", func(t *testing.T) {
		_, err := prover.ProvePointOpening(m, gamma, 0)
		assert.Error(t, err)
		_, err = prover.ProvePointOpening(m, gamma, n+1)
		assert.Error(t, err)
	})
}

func TestSmallness(t *testing.T) {
	prover := vc.NewProver(params, crs)
	verifier := vc.NewVerifier(params, crs)

	n := params.N()
	x := vc.BitDecompose(0b10110101, n)
	y := make([]fr.Element, n)
	tVec := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		y[i] = prover.UniformSampler.SampleFr()
		tVec[i] = prover.UniformSampler.SampleFr()
	}
	gamma := prover.UniformSampler.SampleFr()
	gammaY := prover.UniformSampler.SampleFr()

	cHat, err := prover.Committer.CommitTime(x, gamma)
	assert.NoError(t, err)
	cy, err := prover.Committer.CommitHadamard(y, x, gammaY)
	assert.NoError(t, err)

	t.Run("HadamardCoordinate", func(t *testing.T) {
		for i := 1; i <= n; i++ {
			ok, err := verifier.VerifyHadamardCoordinate(cy, i, x, y, gammaY)
			assert.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("HadamardCoordinateWrongWeights", func(t *testing.T) {
		yBad := append([]fr.Element(nil), y...)
		yBad[0].Add(&yBad[0], &yBad[0])
		ok, err := verifier.VerifyHadamardCoordinate(cy, 2, x, yBad, gammaY)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("DualCoordinate", func(t *testing.T) {
		for i := 1; i <= n; i++ {
			ok, err := verifier.VerifyDualCoordinate(cHat, i, x, gamma)
			assert.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("Equality", func(t *testing.T) {
		proof, err := prover.ProveEquality(tVec, y, x, gamma, gammaY)
		assert.NoError(t, err)

		ok, err := verifier.VerifyEquality(cHat, cy, proof, tVec, y)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("EqualityWrongCommitment", func(t *testing.T) {
		proof, err := prover.ProveEquality(tVec, y, x, gamma, gammaY)
		assert.NoError(t, err)

		gammaY2 := prover.UniformSampler.SampleFr()
		cy2, err := prover.Committer.CommitHadamard(y, x, gammaY2)
		assert.NoError(t, err)

		ok, err := verifier.VerifyEquality(cHat, cy2, proof, tVec, y)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Orthogonality", func(t *testing.T) {
		proof, err := prover.ProveOrthogonality(x, y, gamma, gammaY)
		assert.NoError(t, err)

		ok, err := verifier.VerifyOrthogonality(cHat, cy, proof, y)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("OrthogonalityNonBinary", func(t *testing.T) {
		xBad := append([]fr.Element(nil), x...)
		xBad[0].SetUint64(2)
		gammaBad := prover.UniformSampler.SampleFr()
		gammaYBad := prover.UniformSampler.SampleFr()

		cHatBad, err := prover.Committer.CommitTime(xBad, gammaBad)
		assert.NoError(t, err)
		cyBad, err := prover.Committer.CommitHadamard(y, xBad, gammaYBad)
		assert.NoError(t, err)
		proof, err := prover.ProveOrthogonality(xBad, y, gammaBad, gammaYBad)
		assert.NoError(t, err)

		ok, err := verifier.VerifyOrthogonality(cHatBad, cyBad, proof, y)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("AggregatedPair", func(t *testing.T) {
		piEq, err := prover.ProveEquality(tVec, y, x, gamma, gammaY)
		assert.NoError(t, err)
		piY, err := prover.ProveOrthogonality(x, y, gamma, gammaY)
		assert.NoError(t, err)

		deltaEq, deltaY := prover.Oracle.AggregationChallenges(cy, cHat, cy)
		folded := prover.AggregatePair(piEq, piY, deltaEq, deltaY)

		ok, err := verifier.VerifyAggregatedPair(cHat, cy, folded, deltaEq, deltaY, tVec, y)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AggregatedPairTampered", func(t *testing.T) {
		piEq, err := prover.ProveEquality(tVec, y, x, gamma, gammaY)
		assert.NoError(t, err)
		piY, err := prover.ProveOrthogonality(x, y, gamma, gammaY)
		assert.NoError(t, err)

		deltaEq, deltaY := prover.Oracle.AggregationChallenges(cy, cHat, cy)
		folded := prover.AggregatePair(piEq, piY, deltaEq, deltaY)
		folded.Add(&folded, &folded)

		ok, err := verifier.VerifyAggregatedPair(cHat, cy, folded, deltaEq, deltaY, tVec, y)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFirstCoordinate(t *testing.T) {
	prover := vc.NewProver(params, crs)
	verifier := vc.NewVerifier(params, crs)

	n := params.N()
	var x fr.Element
	x.SetUint64(12345)
	r := prover.UniformSampler.SampleFr()
	vHat := prover.Committer.CommitInteger(x, r)

	s := make([]fr.Element, n-1)
	for i := range s {
		s[i] = prover.UniformSampler.SampleFr()
	}

	t.Run("Honest", func(t *testing.T) {
		proof, err := prover.ProveFirstCoordinate(x, r, s)
		assert.NoError(t, err)

		ok, err := verifier.VerifyFirstCoordinate(vHat, proof, s)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ExtraCoordinate", func(t *testing.T) {
		vec := make([]fr.Element, n)
		vec[0] = x
		vec[1].SetUint64(7)
		vBad, err := prover.Committer.CommitTime(vec, r)
		assert.NoError(t, err)

		proof, err := prover.ProveFirstCoordinate(x, r, s)
		assert.NoError(t, err)

		ok, err := verifier.VerifyFirstCoordinate(vBad, proof, s)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("WrongLength", func(t *testing.T) {
		_, err := prover.ProveFirstCoordinate(x, r, s[:n-2])
		assert.Error(t, err)
	})
}

func TestRange(t *testing.T) {
	prover := vc.NewProver(params, crs)
	verifier := vc.NewVerifier(params, crs)

	n := params.N()

	t.Run("Even", func(t *testing.T) {
		proof, err := prover.ProveRange(42, n)
		assert.NoError(t, err)

		ok, err := verifier.VerifyRange(proof, n)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Odd", func(t *testing.T) {
		proof, err := prover.ProveRange(43, n)
		assert.NoError(t, err)

		ok, err := verifier.VerifyRange(proof, n)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Boundary", func(t *testing.T) {
		proof, err := prover.ProveRange(1<<n-1, n)
		assert.NoError(t, err)

		ok, err := verifier.VerifyRange(proof, n)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Zero", func(t *testing.T) {
		proof, err := prover.ProveRange(0, 1)
		assert.NoError(t, err)

		ok, err := verifier.VerifyRange(proof, 1)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := prover.ProveRange(1<<n, n)
		assert.Error(t, err)
	})

	t.Run("BitLengthTooLarge", func(t *testing.T) {
		_, err := prover.ProveRange(1, n+1)
		assert.Error(t, err)
	})

	t.Run("BitLengthMismatch", func(t *testing.T) {
		proof, err := prover.ProveRange(42, n)
		assert.NoError(t, err)

		ok, err := verifier.VerifyRange(proof, n-1)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Tampered", func(t *testing.T) {
		proof, err := prover.ProveRange(42, n)
		assert.NoError(t, err)

		proof.AggregatedProof.Add(&proof.AggregatedProof, &proof.AggregatedProof)
		ok, err := verifier.VerifyRange(proof, n)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("BatchParallel", func(t *testing.T) {
		values := []uint64{0, 1, 43, 100, 254, 255}
		proofs, err := prover.ProveRangeBatchParallel(values, n)
		assert.NoError(t, err)

		for _, proof := range proofs {
			ok, err := verifier.VerifyRange(proof, n)
			assert.NoError(t, err)
			assert.True(t, ok)
		}
	})
}

func TestRangeProperty(t *testing.T) {
	prover := vc.NewProver(params, crs)
	verifier := vc.NewVerifier(params, crs)

	n := params.N()

	properties := gopter.NewProperties(gopter.DefaultTestParametersWithSeed(0x202))
	properties.Property("prove then verify", prop.ForAll(
		func(value uint64) bool {
			proof, err := prover.ProveRange(value%(1<<n), n)
			if err != nil {
				return false
			}
			ok, err := verifier.VerifyRange(proof, n)
			return err == nil && ok
		},
		gen.UInt64(),
	))
	properties.TestingRun(t)
}

func TestBitDecompose(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		properties := gopter.NewProperties(gopter.DefaultTestParametersWithSeed(0x203))
		properties.Property("compose inverts decompose", prop.ForAll(
			func(value uint64) bool {
				bits := vc.BitDecompose(value, 64)
				var want fr.Element
				want.SetUint64(value)
				got := vc.BitCompose(bits)
				return got.Equal(&want)
			},
			gen.UInt64(),
		))
		properties.TestingRun(t)
	})

	t.Run("Truncates", func(t *testing.T) {
		bits := vc.BitDecompose(0b1011, 2)
		var want fr.Element
		want.SetUint64(0b11)
		got := vc.BitCompose(bits)
		assert.True(t, got.Equal(&want))
	})
}

func BenchmarkProveRange(b *testing.B) {
	prover := vc.NewProver(params, crs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := prover.ProveRange(42, params.N())
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkVerifyRange(b *testing.B) {
	prover := vc.NewProver(params, crs)
	verifier := vc.NewVerifier(params, crs)

	proof, err := prover.ProveRange(42, params.N())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := verifier.VerifyRange(proof, params.N()); err != nil {
			b.Fatal(err)
		}
	}
}
