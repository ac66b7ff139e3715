package common

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gotwitter/internal/config"
)

// claim represents the data stored in the JWT token
type Claims struct {
	UserID               uint64 `json:"user_id"`
	Handle               string `json:"handle"`
	jwt.RegisteredClaims        // exp, iat, iss, sub
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    Clock
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	ttl := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.Auth.JWTSecret),
		ttl:    ttl,
		issuer: cfg.Auth.Issuer,
		now:    time.Now,
	}
}

func (m *TokenManager) GenerateToken(userID uint64, handle string) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID: userID,
		Handle: handle,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   "user-auth",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

func (m *TokenManager) ValidToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
