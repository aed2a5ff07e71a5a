package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Report-Importer/internal/api/response"
	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/service"
	"github.com/ndewijer/Broker-Report-Importer/internal/validation"
)

// multipartMemory is how much of an upload is buffered in memory before the
// rest spills to a temporary file.
const multipartMemory = 8 << 20

// ReportHandler handles HTTP requests for broker report uploads.
type ReportHandler struct {
	reportService  *service.ReportService
	maxUploadBytes int64
}

// NewReportHandler creates a new ReportHandler. Request bodies larger than
// maxUploadBytes are rejected.
func NewReportHandler(reportService *service.ReportService, maxUploadBytes int64) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		maxUploadBytes: maxUploadBytes,
	}
}

// ParseErrorResponse is the details payload of a rejected report.
type ParseErrorResponse struct {
	Kind    apperrors.ParseErrorKind `json:"kind"`
	Broker  string                   `json:"broker"`
	Line    int                      `json:"line,omitempty"`
	Message string                   `json:"message"`
}

// UploadReport handles POST requests that import a broker export into a portfolio.
// The whole report is rejected when any row cannot be decoded.
//
// Endpoint: POST /api/portfolio/{uuid}/report
// Request Body: multipart/form-data with broker, optional label and file
// Response: 201 Created with model.UploadResult
// Error: 400 Bad Request if the form is invalid or the report cannot be parsed
// Error: 404 Not Found if portfolio not found
// Error: 413 Request Entity Too Large if the upload exceeds the size limit
// Error: 500 Internal Server Error if persisting fails
func (h *ReportHandler) UploadReport(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.RespondError(w, http.StatusRequestEntityTooLarge, "report file is too large", err.Error())
			return
		}
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToReadReport.Error(), err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // best-effort temp file cleanup

	req := request.UploadReportRequest{
		Broker: r.FormValue("broker"),
		Label:  r.FormValue("label"),
	}
	if err := validation.ValidateUploadReport(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	broker, _ := model.ParseBroker(req.Broker)

	file, _, err := r.FormFile("file")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrMissingReportFile.Error(), err.Error())
		return
	}
	defer file.Close()

	result, err := h.reportService.UploadReport(r.Context(), service.UploadReportRequest{
		PortfolioID: portfolioID,
		Broker:      broker,
		Label:       req.Label,
		Reader:      file,
	})
	if err != nil {
		var perr *apperrors.ParseError
		switch {
		case errors.Is(err, apperrors.ErrPortfolioNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrFailedToRetrievePortfolio):
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolio.Error(), err.Error())
		case errors.As(err, &perr):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrReportParsing.Error(), ParseErrorResponse{
				Kind:    perr.Kind,
				Broker:  perr.Broker,
				Line:    perr.Line,
				Message: perr.Error(),
			})
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToPersistReport.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}

// ListReportUploads handles GET requests to list the uploads of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/report
// Response: 200 OK with array of model.ReportUpload, newest first
// Error: 404 Not Found if portfolio not found
// Error: 500 Internal Server Error if retrieval fails
func (h *ReportHandler) ListReportUploads(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	uploads, err := h.reportService.ListReportUploads(r.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveUploads.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, uploads)
}
