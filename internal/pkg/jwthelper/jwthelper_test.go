package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	key := []byte("signing-key")

	token, err := GenerateToken(key, "0d6f1b7e-3c1f-4a0e-9d6b-8d7f6b5f2a11", "Mozilla/5.0", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, "0d6f1b7e-3c1f-4a0e-9d6b-8d7f6b5f2a11", claims.SessionID)
	assert.Equal(t, "Mozilla/5.0", claims.UserAgent)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := GenerateToken([]byte("one"), "sid", "", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("two"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	key := []byte("signing-key")
	token, err := GenerateToken(key, "sid", "", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(key, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken([]byte("k"), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
