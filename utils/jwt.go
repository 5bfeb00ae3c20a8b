package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "FoodcourtApp"

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrBlacklistedToken = errors.New("token has been revoked")
)

type CustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens and keeps a revocation list.
type TokenManager struct {
	secret []byte
	ttl    time.Duration

	mu          sync.RWMutex
	blacklisted map[string]time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret:      []byte(secret),
		ttl:         ttl,
		blacklisted: make(map[string]time.Time),
	}
}

func (tm *TokenManager) GenerateToken(userID uint, role string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

func (tm *TokenManager) ParseToken(tokenString string) (*CustomClaims, error) {
	if tm.IsTokenBlacklisted(tokenString) {
		return nil, ErrBlacklistedToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BlacklistToken revokes a token until its own expiry.
func (tm *TokenManager) BlacklistToken(tokenString string) {
	expiry := time.Now().Add(tm.ttl)
	if claims, err := tm.ParseToken(tokenString); err == nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.blacklisted[tokenString] = expiry
}

func (tm *TokenManager) IsTokenBlacklisted(tokenString string) bool {
	tm.mu.RLock()
	expiry, exists := tm.blacklisted[tokenString]
	tm.mu.RUnlock()
	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	tm.mu.Lock()
	delete(tm.blacklisted, tokenString)
	tm.mu.Unlock()
	return false
}
