// Package session resolves a caller identity from a bearer token
// issued by the external identity provider. Tokens are HS256 JWTs with
// the profile id as subject; redis holds a liveness marker per session
// so the provider can revoke tokens before they expire.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/pkg/redis"
)

var (
	ErrNoToken      = errors.New("no session token provided")
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevoked      = errors.New("session has been revoked")
)

const sessionKeyPrefix = "session:"

// Resolver is the narrow surface the dispatch flow depends on: given a
// bearer token, return the caller's profile id or fail.
type Resolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

type Claims struct {
	jwt.RegisteredClaims
}

// JWTResolver verifies tokens locally and checks the session marker in
// redis. It owns no session lifecycle; the identity provider writes
// and deletes the markers.
type JWTResolver struct {
	signingKey []byte
	redis      redis.RedisAdapter
}

func NewJWTResolver(signingKey string, redisAdapter redis.RedisAdapter) *JWTResolver {
	return &JWTResolver{
		signingKey: []byte(signingKey),
		redis:      redisAdapter,
	}
}

func (r *JWTResolver) Resolve(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, ErrNoToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.signingKey, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a profile id", ErrInvalidToken)
	}

	// Sessions without an id cannot be checked for revocation; refuse them.
	if claims.ID == "" {
		return uuid.Nil, fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}

	exists, err := r.redis.Exist(sessionKeyPrefix + claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("session lookup failed: %w", err)
	}
	if exists == 0 {
		return uuid.Nil, ErrRevoked
	}

	return userID, nil
}
