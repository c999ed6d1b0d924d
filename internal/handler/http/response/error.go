package response

import (
	"errors"
	"net/http"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/auth"
	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var cfgErr *tax.ConfigurationError
	if errors.As(err, &cfgErr) {
		ConfigurationError(w, cfgErr.Error(), map[string]string{cfgErr.Field: cfgErr.Reason})
		return
	}

	var consistencyErr *tax.DataConsistencyError
	if errors.As(err, &consistencyErr) {
		Conflict(w, consistencyErr.Error())
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidClientCredentials):
		Unauthorized(w, "Invalid client credentials")
	case errors.Is(err, tax.ErrSummaryNotFound):
		NotFound(w, "Tax year summary not found")
	case errors.Is(err, tax.ErrPeriodNotFound):
		NotFound(w, "No finalized salary periods for this year")
	case errors.Is(err, tax.ErrNotClosingPeriod):
		BadRequest(w, "Annual reconciliation requires the closing period", nil)
	case errors.Is(err, tax.ErrUnsupportedTaxMethod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, tax.ErrRebuildNeedsForce):
		Conflict(w, "Tax year summary already exists, pass force to rebuild")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
