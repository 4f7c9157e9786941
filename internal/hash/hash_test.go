package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	encoded, err := HashPassword("password")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"))
	require.NotEqual(t, "password", encoded)

	require.True(t, CheckPassword(encoded, "password"))
	require.False(t, CheckPassword(encoded, "Password"))
	require.False(t, CheckPassword(encoded, ""))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("password")
	require.NoError(t, err)
	second, err := HashPassword("password")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.True(t, CheckPassword(first, "password"))
	require.True(t, CheckPassword(second, "password"))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("", "password"))
	require.False(t, CheckPassword("not a hash", "password"))
	require.False(t, CheckPassword("$bcrypt$v=19$m=65536,t=1,p=4$YWJj$YWJj", "password"))
	require.False(t, CheckPassword("$argon2id$v=19$m=65536,t=1,p=4$!!!$YWJj", "password"))
}
