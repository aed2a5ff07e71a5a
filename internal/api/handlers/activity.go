package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Report-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/service"
)

// ActivityHandler handles HTTP requests for the merged account history.
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler with the provided service dependency.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListActivity handles GET requests to retrieve the trades and fiscal
// transactions of a portfolio as one time-ordered list.
//
// Endpoint: GET /api/portfolio/{uuid}/activity
// Query Parameters:
//   - types: comma-separated activity types (optional)
//   - start_date, end_date: YYYY-MM-DD or RFC3339 (optional)
//   - sort_dir: asc or desc (optional, default asc)
//
// Response: 200 OK with array of model.Activity
// Error: 400 Bad Request if a query parameter is invalid
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if retrieval fails
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	q := r.URL.Query()
	filters, err := request.ParseActivityFilters(q.Get("types"), q.Get("start_date"), q.Get("end_date"), q.Get("sort_dir"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	activity, err := h.activityService.ListActivity(r.Context(), portfolioID, filters)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveActivity.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, activity)
}
