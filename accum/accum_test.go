package accum_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"

	"github.com/Alfred-hhy/streamCommit/accum"
	"github.com/Alfred-hhy/streamCommit/csprng"
)

func TestAccumulator(t *testing.T) {
	sk, pk, st0 := accum.Setup(csprng.NewUniformSampler())

	alice := accum.HashItem([]byte("batch-alice"))
	bob := accum.HashItem([]byte("batch-bob"))
	carol := accum.HashItem([]byte("batch-carol"))

	t.Run("EmptyBlacklist", func(t *testing.T) {
		wit, err := accum.ProveNonMembership(st0, alice)
		assert.NoError(t, err)
		assert.True(t, wit.W.IsInfinity())

		var minusOne fr.Element
		minusOne.SetOne()
		minusOne.Neg(&minusOne)
		assert.True(t, wit.U.Equal(&minusOne))

		assert.True(t, accum.Verify(pk, st0.Value, alice, wit))
	})

	st1 := sk.Add(st0, alice)

	t.Run("Versioning", func(t *testing.T) {
		assert.Equal(t, uint64(1), st1.Version)
		assert.Equal(t, 2, len(st1.ServerKeys))
		assert.Equal(t, 1, len(st1.Blacklist))

		assert.Equal(t, uint64(0), st0.Version)
		assert.Equal(t, 1, len(st0.ServerKeys))
		assert.Equal(t, 0, len(st0.Blacklist))
	})

	t.Run("RevokedItem", func(t *testing.T) {
		_, err := accum.ProveNonMembership(st1, alice)
		assert.ErrorIs(t, err, accum.ErrRevoked)
	})

	t.Run("NonMember", func(t *testing.T) {
		wit, err := accum.ProveNonMembership(st1, bob)
		assert.NoError(t, err)
		assert.True(t, accum.Verify(pk, st1.Value, bob, wit))
	})

	t.Run("StaleWitness", func(t *testing.T) {
		wit, err := accum.ProveNonMembership(st0, alice)
		assert.NoError(t, err)
		assert.False(t, accum.Verify(pk, st1.Value, alice, wit))
	})

	t.Run("StaleValue", func(t *testing.T) {
		wit, err := accum.ProveNonMembership(st1, bob)
		assert.NoError(t, err)
		assert.False(t, accum.Verify(pk, st0.Value, bob, wit))
	})

	t.Run("ZeroWitness", func(t *testing.T) {
		wit, err := accum.ProveNonMembership(st1, bob)
		assert.NoError(t, err)

		wit.U.SetZero()
		assert.False(t, accum.Verify(pk, st1.Value, bob, wit))
	})

	st2 := sk.Add(st1, bob)

	t.Run("GrowingBlacklist", func(t *testing.T) {
		wit, err := accum.ProveNonMembership(st2, carol)
		assert.NoError(t, err)
		assert.True(t, accum.Verify(pk, st2.Value, carol, wit))

		_, err = accum.ProveNonMembership(st2, alice)
		assert.ErrorIs(t, err, accum.ErrRevoked)
		_, err = accum.ProveNonMembership(st2, bob)
		assert.ErrorIs(t, err, accum.ErrRevoked)
	})

	t.Run("StaleServerKeys", func(t *testing.T) {
		stale := st2
		stale.ServerKeys = st2.ServerKeys[:1]

		_, err := accum.ProveNonMembership(stale, carol)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, accum.ErrRevoked)
	})
}

func TestHashItem(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		d0 := accum.HashItem([]byte("item"))
		d1 := accum.HashItem([]byte("item"))
		assert.True(t, d0.Equal(&d1))
	})

	t.Run("Distinct", func(t *testing.T) {
		d0 := accum.HashItem([]byte("item-0"))
		d1 := accum.HashItem([]byte("item-1"))
		assert.False(t, d0.Equal(&d1))
		assert.False(t, d0.IsZero())
		assert.False(t, d1.IsZero())
	})
}
