package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Broker-Report-Importer/internal/api/middleware"
	"github.com/ndewijer/Broker-Report-Importer/internal/config"
	"github.com/ndewijer/Broker-Report-Importer/internal/metrics"
	"github.com/ndewijer/Broker-Report-Importer/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	reportService *service.ReportService,
	activityService *service.ActivityService,
	tradeService *service.TradeOperationService,
	fiscalService *service.FiscalTransactionService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Handle("/metrics", metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)

			reportHandler := handlers.NewReportHandler(reportService, cfg.Import.MaxUploadBytes)
			r.With(custommiddleware.NewRateLimit(cfg.Import.UploadsPerMinute, cfg.Import.UploadBurst)).
				Post("/report", reportHandler.UploadReport)
			r.Get("/report", reportHandler.ListReportUploads)

			activityHandler := handlers.NewActivityHandler(activityService)
			r.Get("/activity", activityHandler.ListActivity)

			tradeHandler := handlers.NewTradeOperationHandler(tradeService)
			r.Get("/trade-operation", tradeHandler.ListTradeOperations)
			r.Post("/trade-operation", tradeHandler.CreateTradeOperation)

			fiscalHandler := handlers.NewFiscalTransactionHandler(fiscalService)
			r.Get("/fiscal-transaction", fiscalHandler.ListFiscalTransactions)
			r.Post("/fiscal-transaction", fiscalHandler.CreateFiscalTransaction)
		})

		r.Route("/fiscal-transaction/{uuid}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUUIDMiddleware)

			fiscalHandler := handlers.NewFiscalTransactionHandler(fiscalService)
			r.Get("/", fiscalHandler.GetFiscalTransaction)
			r.Delete("/", fiscalHandler.DeleteFiscalTransaction)
		})
	})

	return r
}
