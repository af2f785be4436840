// Package twofa generates and checks time-based one-time passwords
// (RFC 6238): 6 digits, 30 second steps, HMAC-SHA1, accepting codes up to two
// steps either side of the current one.
package twofa

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	period     = 30
	skew       = 2
	secretSize = 20
)

var validateOpts = totp.ValidateOpts{
	Period:    period,
	Skew:      skew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Authenticator issues TOTP secrets and validates codes against them.
type Authenticator struct {
	issuer string
	now    func() time.Time
}

// NewAuthenticator returns an Authenticator labelling secrets with issuer.
// now may be nil, in which case time.Now is used.
func NewAuthenticator(issuer string, now func() time.Time) *Authenticator {
	if now == nil {
		now = time.Now
	}
	return &Authenticator{issuer: issuer, now: now}
}

// NewSecret generates a fresh random base32 secret for accountName together
// with its otpauth:// provisioning URI.
func (a *Authenticator) NewSecret(accountName string) (secret, uri string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: accountName,
		Period:      period,
		SecretSize:  secretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// Validate reports whether code is valid for secret at the current time.
// Malformed codes and secrets are simply invalid.
func (a *Authenticator) Validate(secret, code string) bool {
	if secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, a.now(), validateOpts)
	return err == nil && ok
}

// Code returns the code for secret at t.
func Code(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, validateOpts)
}
