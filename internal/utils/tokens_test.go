package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	tok, err := GenerateSecureToken(32)
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	other, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestNewParticipantCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewParticipantCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(participantAlphabet, r))
		}
		seen[code] = true
	}
	// 31^8 codes; 50 draws colliding would mean a broken generator.
	assert.Greater(t, len(seen), 1)
}
