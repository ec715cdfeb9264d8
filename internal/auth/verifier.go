package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the verified facts about the caller.
type Claims struct {
	UID   string
	Email string
}

// Verifier checks an opaque bearer token. Implementations must not cache.
type Verifier interface {
	VerifyIDToken(ctx context.Context, token string) (*Claims, error)
}
