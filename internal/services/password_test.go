package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/services"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := services.NewBcryptHasher(bcrypt.MinCost)

	hashed, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hashed)

	assert.True(t, hasher.Verify("password123", hashed))
	assert.False(t, hasher.Verify("password124", hashed))
	assert.False(t, hasher.Verify("", hashed))
}

func TestBcryptHasher_Salted(t *testing.T) {
	hasher := services.NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("secret")
	require.NoError(t, err)
	second, err := hasher.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("secret", first))
	assert.True(t, hasher.Verify("secret", second))
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	hasher := services.NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, hasher.Verify("secret", ""))
	assert.False(t, hasher.Verify("secret", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("secret", "secret"))
}

func TestBcryptHasher_TooLong(t *testing.T) {
	hasher := services.NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"default", 0, services.DefaultBcryptCost},
		{"below minimum", 1, bcrypt.MinCost},
		{"above maximum", 99, bcrypt.MaxCost},
		{"in range", 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.NewBcryptHasher(tt.cost).Cost())
		})
	}
}
