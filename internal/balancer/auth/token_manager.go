package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidAdminKey = errors.New("auth: invalid admin key")

// TokenManager issues and validates tokens for the admin API.
type TokenManager interface {
	GenerateToken(subject string) (string, error)
	ValidateToken(token string) (string, error)
}

type jwtTokenManager struct {
	secret []byte
}

// NewJWTTokenManager creates a new JWT token manager.
func NewJWTTokenManager(secret string) TokenManager {
	return &jwtTokenManager{
		secret: []byte(secret),
	}
}

func (j *jwtTokenManager) GenerateToken(subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *jwtTokenManager) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token without subject")
	}
	return sub, nil
}
