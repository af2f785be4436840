package twofa

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestNewSecret_FreshAndWellFormed(t *testing.T) {
	a := NewAuthenticator("StockKeeper", nil)

	s1, uri, err := a.NewSecret("alice")
	require.NoError(t, err)
	s2, _, err := a.NewSecret("alice")
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.Len(t, s1, 32, "20 random bytes in unpadded base32")

	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "totp", u.Host)
	assert.Equal(t, "StockKeeper", u.Query().Get("issuer"))
	assert.Equal(t, s1, u.Query().Get("secret"))
	assert.Contains(t, u.Path, "alice")
}

func TestValidate_AcceptsTwoStepsEitherSide(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 15, 0, time.UTC)
	a := NewAuthenticator("StockKeeper", fixedClock(now))
	secret, _, err := a.NewSecret("alice")
	require.NoError(t, err)

	for _, offset := range []time.Duration{-60 * time.Second, -30 * time.Second, 0, 30 * time.Second, 60 * time.Second} {
		code, err := Code(secret, now.Add(offset))
		require.NoError(t, err)
		assert.True(t, a.Validate(secret, code), "offset %s", offset)
	}

	// Three steps away is outside the window. It could collide with a valid
	// code by chance, so only assert when it differs from all of them.
	far, err := Code(secret, now.Add(-90*time.Second))
	require.NoError(t, err)
	collides := false
	for _, offset := range []time.Duration{-60 * time.Second, -30 * time.Second, 0, 30 * time.Second, 60 * time.Second} {
		c, _ := Code(secret, now.Add(offset))
		collides = collides || c == far
	}
	if !collides {
		assert.False(t, a.Validate(secret, far))
	}
}

func TestValidate_RejectsForeignSecretAndGarbage(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := NewAuthenticator("StockKeeper", fixedClock(now))
	mine, _, err := a.NewSecret("alice")
	require.NoError(t, err)
	theirs, _, err := a.NewSecret("bob")
	require.NoError(t, err)

	code, err := Code(theirs, now)
	require.NoError(t, err)
	mineCode, _ := Code(mine, now)
	if code != mineCode {
		assert.False(t, a.Validate(mine, code))
	}

	assert.False(t, a.Validate(mine, "12345"))
	assert.False(t, a.Validate(mine, "abcdef"))
	assert.False(t, a.Validate("", mineCode))
	assert.False(t, a.Validate("not base32 !!", "123456"))
}
