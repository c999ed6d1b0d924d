package auth

import (
	"context"
	"fmt"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	clientID         string
	clientSecretHash string
	jwt.Service
}

// NewAuthService builds the token issuer for the single configured API
// client. The secret is held as a bcrypt hash, never in plain text.
func NewAuthService(clientID, clientSecretHash string, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		clientID:         clientID,
		clientSecretHash: clientSecretHash,
		Service:          jwtService,
	}
}

// Token implements auth.AuthService.
func (a *AuthServiceImpl) Token(_ context.Context, req auth.TokenRequest) (auth.TokenResponse, error) {
	if req.ClientID != a.clientID {
		return auth.TokenResponse{}, auth.ErrInvalidClientCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.clientSecretHash), []byte(req.ClientSecret)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidClientCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(req.ClientID, "integration")
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}
