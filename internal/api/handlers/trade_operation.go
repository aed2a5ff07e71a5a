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

// TradeOperationHandler handles HTTP requests for trade operation endpoints.
type TradeOperationHandler struct {
	tradeService *service.TradeOperationService
}

// NewTradeOperationHandler creates a new TradeOperationHandler with the provided service dependency.
func NewTradeOperationHandler(tradeService *service.TradeOperationService) *TradeOperationHandler {
	return &TradeOperationHandler{
		tradeService: tradeService,
	}
}

// ListTradeOperations handles GET requests to retrieve all trades of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/trade-operation
// Response: 200 OK with array of model.StoredTradeOperation
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeOperationHandler) ListTradeOperations(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	trades, err := h.tradeService.ListTradeOperations(r.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}

// CreateTradeOperation handles POST requests to record a trade by hand.
//
// Endpoint: POST /api/portfolio/{uuid}/trade-operation
// Request Body: CreateTradeOperationRequest
// Response: 201 Created with model.StoredTradeOperation
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if creation fails
func (h *TradeOperationHandler) CreateTradeOperation(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.CreateTradeOperationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTradeOperation(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	trade, err := h.tradeService.CreateManual(r.Context(), portfolioID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateTrade.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, trade)
}
