package http

import (
	"encoding/json"
	"net/http"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-tax-backend-go/internal/handler/http/response"
)

type AuthHandler interface {
	Token(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &authHandlerImpl{authService: authService}
}

func (h *authHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	var req auth.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.authService.Token(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
