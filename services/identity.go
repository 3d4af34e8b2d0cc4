package services

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthorized is returned for a credential the provider rejects.
var ErrUnauthorized = errors.New("invalid credential")

// Identity resolves a bearer credential into a stable participant identity.
// The core trusts the returned ID and never re-derives it.
type Identity interface {
	Verify(ctx context.Context, credential string) (userID, displayName string, err error)
}

// TokenIdentity is the development provider: it accepts "uid:name" tokens.
// A real deployment substitutes a verifier backed by the auth service.
type TokenIdentity struct{}

func NewTokenIdentity() *TokenIdentity {
	return &TokenIdentity{}
}

func (t *TokenIdentity) Verify(ctx context.Context, credential string) (string, string, error) {
	uid, name, ok := strings.Cut(credential, ":")
	if !ok || uid == "" || name == "" {
		return "", "", ErrUnauthorized
	}
	return uid, name, nil
}
