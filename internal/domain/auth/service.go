package auth

import (
	"context"
	"errors"
)

var ErrInvalidClientCredentials = errors.New("invalid client credentials")

// AuthService issues access tokens for registered integration clients.
type AuthService interface {
	Token(ctx context.Context, req TokenRequest) (TokenResponse, error)
}
