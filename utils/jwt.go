package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var jwtKey []byte

// Claims identifies the user behind a bearer token. Tokens are issued by the account
// service; this service only verifies them.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// SetJWTKey sets the HMAC secret used to verify tokens.
func SetJWTKey(secret string) {
	jwtKey = []byte(secret)
}

// GenerateToken signs an HS256 token. Used by the capture agent's dev tooling and tests.
func GenerateToken(userID, username string, ttl time.Duration) (string, error) {
	if len(jwtKey) == 0 {
		return "", errors.New("jwt key not configured")
	}
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	if len(jwtKey) == 0 {
		return nil, errors.New("jwt key not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
