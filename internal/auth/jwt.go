package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	StoreID string `json:"store_id"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses an HS256 token and returns the request context it carries.
// The user id is taken from user_id, falling back to sub.
func (v *JWTVerifier) Verify(tokenString string) (RequestContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return RequestContext{}, ErrInvalidToken
	}
	if claims.StoreID == "" {
		return RequestContext{}, fmt.Errorf("%w: missing store_id", ErrInvalidToken)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	return RequestContext{StoreID: claims.StoreID, UserID: userID, Role: claims.Role}, nil
}

// Issue signs a token for rc. Used by tooling and tests.
func (v *JWTVerifier) Issue(rc RequestContext, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		StoreID: rc.StoreID,
		UserID:  rc.UserID,
		Role:    rc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rc.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
