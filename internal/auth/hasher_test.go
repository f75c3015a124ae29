package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("secret1")
	require.NoError(t, err)
	second, err := hasher.Hash("secret1")
	require.NoError(t, err)

	// Per-call random salt: two hashes of the same plaintext differ.
	assert.NotEqual(t, first, second)

	ok, err := hasher.Verify("secret1", first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("secret1", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHasher_VerifyMismatch(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	ok, err := hasher.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	ok, err := hasher.Verify("secret1", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_NeverStoresPlaintext(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotContains(t, hash, "secret1")
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"zero falls back to default", 0, bcrypt.DefaultCost},
		{"below min falls back to default", bcrypt.MinCost - 1, bcrypt.DefaultCost},
		{"above max falls back to default", bcrypt.MaxCost + 1, bcrypt.DefaultCost},
		{"valid cost kept", bcrypt.MinCost, bcrypt.MinCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := NewBcryptHasher(tt.cost)
			assert.Equal(t, tt.want, hasher.cost)
		})
	}
}
