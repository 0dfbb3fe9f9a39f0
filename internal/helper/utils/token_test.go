package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 64) // hex doubles the byte count
	assert.NotEqual(t, a, b)
}

func TestSha256HexDeterministic(t *testing.T) {
	assert.Equal(t, Sha256Hex("abc"), Sha256Hex("abc"))
	assert.NotEqual(t, Sha256Hex("abc"), Sha256Hex("abd"))
	assert.Len(t, Sha256Hex("abc"), 64)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("user@example.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail(""))
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ada", FirstName("Ada Lovelace"))
	assert.Equal(t, "Ada", FirstName("  Ada  "))
	assert.Equal(t, "", FirstName(""))
}
