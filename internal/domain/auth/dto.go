package auth

import (
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/validator"
)

type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func (r *TokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClientID) {
		errs = append(errs, validator.ValidationError{Field: "client_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ClientSecret) {
		errs = append(errs, validator.ValidationError{Field: "client_secret", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
