package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Report-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/service"
	"github.com/ndewijer/Broker-Report-Importer/internal/validation"
)

// FiscalTransactionHandler handles HTTP requests for fiscal transaction endpoints.
type FiscalTransactionHandler struct {
	fiscalService *service.FiscalTransactionService
}

// NewFiscalTransactionHandler creates a new FiscalTransactionHandler with the provided service dependency.
func NewFiscalTransactionHandler(fiscalService *service.FiscalTransactionService) *FiscalTransactionHandler {
	return &FiscalTransactionHandler{
		fiscalService: fiscalService,
	}
}

// ListFiscalTransactions handles GET requests to retrieve all fiscal transactions of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/fiscal-transaction
// Response: 200 OK with array of model.StoredFiscalTransaction
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FiscalTransactionHandler) ListFiscalTransactions(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	txs, err := h.fiscalService.ListFiscalTransactions(r.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFiscal.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, txs)
}

// CreateFiscalTransaction handles POST requests to record a fiscal transaction by hand.
// Only known types are accepted; dividends must be non-negative and taxes and
// commissions non-positive.
//
// Endpoint: POST /api/portfolio/{uuid}/fiscal-transaction
// Request Body: CreateFiscalTransactionRequest
// Response: 201 Created with model.StoredFiscalTransaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if creation fails
func (h *FiscalTransactionHandler) CreateFiscalTransaction(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.CreateFiscalTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateFiscalTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	ft, err := h.fiscalService.CreateManual(r.Context(), portfolioID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateFiscal.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, ft)
}

// GetFiscalTransaction handles GET requests to retrieve a single fiscal transaction.
//
// Endpoint: GET /api/fiscal-transaction/{uuid}
// Response: 200 OK with model.StoredFiscalTransaction
// Error: 404 Not Found if fiscal transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FiscalTransactionHandler) GetFiscalTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	ft, err := h.fiscalService.GetFiscalTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrFiscalTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFiscalTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFiscal.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ft)
}

// DeleteFiscalTransaction handles DELETE requests to remove a fiscal transaction.
//
// Endpoint: DELETE /api/fiscal-transaction/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if fiscal transaction not found
// Error: 500 Internal Server Error if deletion fails
func (h *FiscalTransactionHandler) DeleteFiscalTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	if err := h.fiscalService.DeleteFiscalTransaction(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrFiscalTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFiscalTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeleteFiscal.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
