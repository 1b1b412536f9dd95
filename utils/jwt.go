package utils

import (
	"errors"
	"sync"
	"time"

	"platter/config"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	secretOnce sync.Once
	secretKey  []byte
)

// ErrInvalidToken is returned for malformed, expired or foreign tokens.
var ErrInvalidToken = errors.New("invalid token")

// getSecret reads JWT_SECRET once. Without one, a per-process secret is used,
// so console tokens do not survive a restart.
func getSecret() []byte {
	secretOnce.Do(func() {
		secret := config.AppConfig.JWTSecret
		if secret == "" {
			GetLogger().Warn("JWT_SECRET not set; using an ephemeral signing secret")
			secret = uuid.NewString()
		}
		secretKey = []byte(secret)
	})
	return secretKey
}

// ConsoleClaims are the claims carried by a console session token.
type ConsoleClaims struct {
	SessionID string
	Role      string
	ExpiresAt time.Time
}

// GenerateToken creates a signed console token for the given session id and role.
// The token expires after the specified duration.
func GenerateToken(sessionID, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  sessionID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return getSecret(), nil
	})
}

// ParseToken validates tokenString and extracts the console claims.
func ParseToken(tokenString string) (*ConsoleClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)
	out := &ConsoleClaims{SessionID: sub, Role: role}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return out, nil
}
