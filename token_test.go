package sqlidentity

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintTokenShape(t *testing.T) {
	token, err := MintToken()
	require.NoError(t, err)
	assert.Len(t, token, 32)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, tokenByteLen)
	assert.True(t, validHeaderValue(token))
}

func TestMintTokenIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 256; i++ {
		token, err := MintToken()
		require.NoError(t, err)
		require.False(t, seen[token], "token minted twice: %s", token)
		seen[token] = true
	}
}

func TestValidHeaderValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"base64 token", "3zb1v9Kie0pU0LdrZBW9Y28bCRJAEy2H", true},
		{"empty", "", true},
		{"spaces and tab", "a b\tc", true},
		{"obs-text high bit", "caf\xc3\xa9", true},
		{"carriage return", "bad\rvalue", false},
		{"line feed", "bad\nvalue", false},
		{"nul byte", "bad\x00value", false},
		{"delete", "bad\x7fvalue", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validHeaderValue(tt.value))
		})
	}
}

// Tokens are validated as header values before any store work, so a session
// the client could never be told about is never persisted. The store stays
// nil here: reaching it would fail the test on its own.
func TestWriteRefusesUnsendableToken(t *testing.T) {
	identity := &Identity{
		header:  DefaultHeaderName,
		token:   "bad\r\ntoken",
		subject: "mike",
		state:   stateChanged,
	}

	headers := http.Header{}
	err := identity.Write(context.Background(), headers)
	require.ErrorIs(t, err, ErrTokenUnsendable)
	assert.Empty(t, headers.Get(DefaultHeaderName))

	// state is consumed even on refusal
	require.NoError(t, identity.Write(context.Background(), headers))
}
