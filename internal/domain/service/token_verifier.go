package service

import (
	"context"
)

// VerifiedToken carries the subject claims extracted from a verified bearer token.
type VerifiedToken struct {
	UID   string
	Email string
}

// TokenVerifier verifies a bearer ID token against the identity provider and
// returns the verified subject. The caller's identity is always bound to the
// result of this call, never to any client-supplied field.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error)
}
