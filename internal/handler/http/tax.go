package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gajihub/payroll-tax-backend-go/internal/domain/tax"
	"github.com/gajihub/payroll-tax-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TaxHandler interface {
	// Calculation
	Calculate(w http.ResponseWriter, r *http.Request)
	CalculateBatch(w http.ResponseWriter, r *http.Request)
	RebuildYear(w http.ResponseWriter, r *http.Request)

	// Ledger
	GetSummary(w http.ResponseWriter, r *http.Request)

	// Configuration
	GetSettings(w http.ResponseWriter, r *http.Request)

	// BPJS
	CalculateBPJS(w http.ResponseWriter, r *http.Request)
}

type taxHandlerImpl struct {
	taxService tax.TaxService
}

func NewTaxHandler(taxService tax.TaxService) TaxHandler {
	return &taxHandlerImpl{taxService: taxService}
}

// ========== CALCULATION ==========

func (h *taxHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req tax.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req tax.BatchCalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.CalculateBatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxHandlerImpl) RebuildYear(w http.ResponseWriter, r *http.Request) {
	var req tax.RebuildYearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.RebuildYear(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tax year rebuilt", result)
}

// ========== LEDGER ==========

func (h *taxHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "Year must be a number", nil)
		return
	}

	result, err := h.taxService.GetSummary(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== CONFIGURATION ==========

func (h *taxHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.taxService.Settings())
}

// ========== BPJS ==========

func (h *taxHandlerImpl) CalculateBPJS(w http.ResponseWriter, r *http.Request) {
	var req tax.BPJSCalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxService.CalculateBPJS(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
