package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "cafe-creme-co", GenerateSlug("  Café Crème & Co. "))
	assert.Equal(t, "nordic-threads", GenerateSlug("Nordic---Threads"))
}

func TestTokenRoundTrip(t *testing.T) {
	ti := &TokenIssuer{
		AccessSecret:  []byte("access"),
		RefreshSecret: []byte("refresh"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	tok, err := ti.GenerateAccessToken("u1", "a@b.c", "vendor")
	require.NoError(t, err)

	claims, err := ti.ValidateAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "vendor", claims.Role)

	_, err = ti.ValidateRefreshToken(tok)
	assert.Error(t, err, "access token must not validate with the refresh secret")

	r1, err := ti.GenerateRefreshToken("u1")
	require.NoError(t, err)
	r2, _ := ti.GenerateRefreshToken("u1")
	assert.NotEqual(t, r1, r2)
	assert.NotEqual(t, HashToken(r1), HashToken(r2))
	assert.Len(t, HashToken(r1), 64)
}

func TestExpiredToken(t *testing.T) {
	ti := &TokenIssuer{AccessSecret: []byte("s"), AccessTTL: -time.Minute}
	tok, err := ti.GenerateAccessToken("u1", "", "customer")
	require.NoError(t, err)
	_, err = ti.ValidateAccessToken(tok)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(h, "correct horse"))
	assert.Error(t, CheckPassword(h, "wrong"))
}

func TestQueryHelpers(t *testing.T) {
	f, err := ParseFloatQuery(" 12.5 ")
	require.NoError(t, err)
	assert.Equal(t, 12.5, *f)
	f, err = ParseFloatQuery("")
	assert.NoError(t, err)
	assert.Nil(t, f)
	_, err = ParseFloatQuery("abc")
	assert.Error(t, err)

	assert.False(t, IsDuplicateKey(nil))
	assert.True(t, IsDuplicateKey(errors.New("E11000 duplicate key error collection: dryp.orders")))
}
