package world

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeNickname(t *testing.T) {
	require.Equal(t, "ace_99", NormalizeNickname("Ace_99"))
	require.Equal(t, "ace", NormalizeNickname("ACE"))
	require.Equal(t, "ace", NormalizeNickname("ace"))
}

func TestIsValidNickname(t *testing.T) {
	require.True(t, IsValidNickname("abc", 3, 16))
	require.True(t, IsValidNickname("Ace_99", 3, 16))
	require.True(t, IsValidNickname("sixteen_chars_xx", 3, 16))

	require.False(t, IsValidNickname("ab", 3, 16))                 // too short
	require.False(t, IsValidNickname("seventeen_chars_x", 3, 16)) // too long
	require.False(t, IsValidNickname("has space", 3, 16))
	require.False(t, IsValidNickname("dash-ed", 3, 16))
	require.False(t, IsValidNickname("", 3, 16))
}

func TestDefaultNicknameNeverClaimable(t *testing.T) {
	// Defaults contain a space, so no client can ever register one.
	require.False(t, IsValidNickname(DefaultNickname(1), 3, 16))
	require.False(t, IsValidNickname(DefaultNickname(4294967295), 3, 32))
}
