package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"tradewinds/config"

	"github.com/golang-jwt/jwt"
)

var (
	secretOnce sync.Once
	secretKey  []byte
)

// signingKey uses JWT_SECRET, or a per-process random key when unset so that
// tokens simply stop validating after a restart.
func signingKey() []byte {
	secretOnce.Do(func() {
		if config.AppConfig.JWTSecret != "" {
			secretKey = []byte(config.AppConfig.JWTSecret)
			return
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic("utils: cannot generate session signing key: " + err.Error())
		}
		secretKey = []byte(hex.EncodeToString(buf))
		GetLogger().Warn("JWT_SECRET not set; session tokens will not survive a restart")
	})
	return secretKey
}

// GenerateSessionToken signs a token binding a client to one session.
// kind distinguishes inquiry and concierge sessions.
func GenerateSessionToken(sessionID, kind string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sessionID,
		"kind": kind,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingKey(), nil
	})
}

// ExtractSessionFromToken returns the session id and kind of a valid token.
func ExtractSessionFromToken(tokenString string) (string, string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	kind, _ := claims["kind"].(string)
	return sub, kind, nil
}
