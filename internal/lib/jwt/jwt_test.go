package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestNewTokenRoundTrip(t *testing.T) {
	token, err := NewToken(42, testSecret, TypeAccess, time.Minute)
	require.NoError(t, err)

	claims, err := Parse(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, TypeAccess, claims.TokenType)
}

func TestNewPair(t *testing.T) {
	access, refresh, err := NewPair(7, testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	ac, err := Parse(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TypeAccess, ac.TokenType)
	assert.Equal(t, 7, ac.UserID)

	rc, err := Parse(refresh, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, rc.TokenType)
	assert.Equal(t, 7, rc.UserID)
}

func TestParseWrongSecret(t *testing.T) {
	token, err := NewToken(1, testSecret, TypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, "other-secret")
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	token, err := NewToken(1, testSecret, TypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, testSecret)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("not.a.token", testSecret)
	assert.Error(t, err)
}
