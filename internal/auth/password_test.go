package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifiesRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("abc12345", 4)
	require.NoError(t, err)
	require.NotEqual(t, "abc12345", hash)

	assert.NoError(t, ComparePassword(hash, "abc12345"))
}

func TestHashPassword_SaltsEachCall(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("abc12345", 4)
	require.NoError(t, err)
	second, err := HashPassword("abc12345", 4)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestComparePassword_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("abc12345", 4)
	require.NoError(t, err)

	assert.Error(t, ComparePassword(hash, "xyz98765"))
}

func TestComparePassword_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.Error(t, ComparePassword("not-a-bcrypt-hash", "abc12345"))
	assert.Error(t, ComparePassword("", "abc12345"))
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("abc12345", 99)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "abc12345"))
}
