// Package jwt mints and verifies the bearer tokens used by the API. Tokens
// come in pairs: a short-lived access token and a longer-lived refresh token,
// told apart by the typ claim.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified content of a token.
type Claims struct {
	UserID    int
	TokenType string
}

// NewToken signs a token of the given type for the user.
func NewToken(userID int, secret, tokenType string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	now := time.Now()
	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = userID
	claims["typ"] = tokenType
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	return token.SignedString([]byte(secret))
}

// NewPair signs an access and a refresh token for the user.
func NewPair(userID int, secret string, accessTTL, refreshTTL time.Duration) (access, refresh string, err error) {
	access, err = NewToken(userID, secret, TypeAccess, accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = NewToken(userID, secret, TypeRefresh, refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Parse verifies the signature and expiry and returns the claims.
func Parse(tokenString, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	typ, ok := claims["typ"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: int(uid), TokenType: typ}, nil
}
