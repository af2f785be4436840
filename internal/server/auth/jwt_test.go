package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("sess-1", "acc-1", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "acc-1", claims.AccountID)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("s", "a", secret, -1*time.Second)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("s", "a", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{SessionID: "s"}).SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}
