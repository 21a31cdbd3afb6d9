package firebase

import (
	"context"

	"journal/internal/domain/service"

	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
)

type tokenVerifier struct {
	client *auth.Client
}

// NewTokenVerifier creates a TokenVerifier backed by the admin auth client.
func NewTokenVerifier(client *auth.Client) service.TokenVerifier {
	return &tokenVerifier{client: client}
}

// VerifyIDToken checks the token's signature, audience and expiry against the
// identity provider and returns its subject claims.
func (v *tokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*service.VerifiedToken, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify ID token")
	}

	email, _ := token.Claims["email"].(string)

	return &service.VerifiedToken{
		UID:   token.UID,
		Email: email,
	}, nil
}
