// README: Platform token verification (HS256 JWTs issued by the user service).
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"unipool/internal/types"
)

// TokenClaims holds the verified token data used by downstream middleware.
type TokenClaims struct {
	UserID types.ID
	Role   string
}

// TokenVerifier verifies a raw bearer token string and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}

var ErrInvalidToken = errors.New("invalid token")

// jwtVerifier is the production implementation backed by the shared HS256 secret.
type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a TokenVerifier for HS256 tokens signed with secret.
// The user service issues these tokens with user_id and role claims on login.
func NewJWTVerifier(secret string) TokenVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(_ context.Context, raw string) (*TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	uid, ok := claims["user_id"].(float64)
	if !ok || uid <= 0 {
		return nil, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return &TokenClaims{UserID: types.ID(uid), Role: role}, nil
}

// SignToken issues an HS256 token for the given identity. Used by the devtoken
// helper and tests; the real issuer lives in the user service.
func SignToken(secret string, userID types.ID, role string, expiresAtUnix int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(userID),
		"role":    role,
		"exp":     expiresAtUnix,
	})
	return token.SignedString([]byte(secret))
}
