package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/testeddoughnut/pithos/internal/config"
)

// TokenPayload represents the validated payload data.
type TokenPayload struct {
	Sub        string
	DeviceName string
}

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type tokenClaims struct {
	DeviceName string `json:"deviceName"`
	jwt.RegisteredClaims
}

// GenerateToken creates a bearer token for a paired device.
func GenerateToken(cfg config.RemoteConfig, payload TokenPayload) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		DeviceName: payload.DeviceName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Sub,
			Issuer:    "pithos",
			Audience:  []string{"pithos-remote"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.TokenExpirySec) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.TokenSecret))
}

// VerifyToken parses and validates the JWT.
func VerifyToken(cfg config.RemoteConfig, token string) (TokenPayload, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithAudience("pithos-remote"),
		jwt.WithIssuer("pithos"),
	)

	claims := &tokenClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return []byte(cfg.TokenSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPayload{}, ErrTokenExpired
		}
		return TokenPayload{}, ErrTokenInvalid
	}
	if parsed == nil || !parsed.Valid {
		return TokenPayload{}, ErrTokenInvalid
	}

	payload := TokenPayload{
		Sub:        claims.Subject,
		DeviceName: claims.DeviceName,
	}
	if payload.Sub == "" || payload.DeviceName == "" {
		return TokenPayload{}, ErrTokenInvalid
	}

	return payload, nil
}
