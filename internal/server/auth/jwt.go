package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard claims plus the session and account the token
// was issued for.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string
	AccountID string
}

func GenerateToken(sessionID, accountID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		SessionID: sessionID,
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns its claims. Any failure,
// including expiry and a foreign signing method, is common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(common.ErrInvalidToken, err)
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.SessionID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
