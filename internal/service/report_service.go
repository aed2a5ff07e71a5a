package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/metrics"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/report"
	"github.com/ndewijer/Broker-Report-Importer/internal/repository"
)

// UploadReportRequest is one broker export to import into a portfolio.
type UploadReportRequest struct {
	PortfolioID string
	Broker      model.Broker
	Label       string
	Reader      io.Reader
}

// ReportService imports broker reports and persists their canonical records.
type ReportService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	reportRepo    *repository.ReportRepository
	tradeRepo     *repository.TradeOperationRepository
	fiscalRepo    *repository.FiscalTransactionRepository
	cache         *ActivityCache
	logger        *slog.Logger
	atomic        bool
}

// NewReportService creates a new ReportService. With atomic set, the upload row
// and both record batches of an upload commit together; otherwise the upload row
// commits with the trade batch and the fiscal batch commits on its own. The cache
// may be nil.
func NewReportService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	reportRepo *repository.ReportRepository,
	tradeRepo *repository.TradeOperationRepository,
	fiscalRepo *repository.FiscalTransactionRepository,
	cache *ActivityCache,
	logger *slog.Logger,
	atomic bool,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		db:            db,
		portfolioRepo: portfolioRepo,
		reportRepo:    reportRepo,
		tradeRepo:     tradeRepo,
		fiscalRepo:    fiscalRepo,
		cache:         cache,
		logger:        logger,
		atomic:        atomic,
	}
}

// UploadReport parses a report and upserts its records into the portfolio.
//
// The whole report is decoded before anything is written, so a structural parse
// error leaves the database untouched. Unrecognized fiscal types are stored as-is
// and logged once per occurrence. Records already imported from an earlier upload
// are overwritten with the values of this one.
//
// Returns ErrPortfolioNotFound for an unknown portfolio, an error wrapping
// ErrFailedToRetrievePortfolio when the lookup fails, a *apperrors.ParseError for
// undecodable input and an error wrapping ErrFailedToPersistReport when writing fails.
func (s *ReportService) UploadReport(ctx context.Context, req UploadReportRequest) (*model.UploadResult, error) {
	if _, err := s.portfolioRepo.GetPortfolio(ctx, req.PortfolioID); err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePortfolio, err)
	}

	start := time.Now()
	parsed, err := report.Parse(ctx, req.Broker, req.Reader)
	metrics.ParseDuration.WithLabelValues(string(req.Broker)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ReportUploadsTotal.WithLabelValues(string(req.Broker), metrics.OutcomeParseError).Inc()
		s.logger.WarnContext(ctx, "report rejected",
			"broker", string(req.Broker),
			"portfolio_id", req.PortfolioID,
			"error", err)
		return nil, err
	}

	unrecognized := s.reportUnrecognized(ctx, parsed)

	upload := model.ReportUpload{
		ID:          uuid.New().String(),
		PortfolioID: req.PortfolioID,
		Label:       req.Label,
		Broker:      req.Broker,
		CreatedAt:   time.Now().UTC(),
	}

	var trades, fiscals int64
	if s.atomic {
		trades, fiscals, err = s.persistAtomic(ctx, upload, parsed)
	} else {
		trades, fiscals, err = s.persistBatched(ctx, upload, parsed)
	}
	s.cache.Flush()
	if err != nil {
		metrics.ReportUploadsTotal.WithLabelValues(string(req.Broker), metrics.OutcomePersistError).Inc()
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToPersistReport, err)
	}

	metrics.ReportUploadsTotal.WithLabelValues(string(req.Broker), metrics.OutcomeSuccess).Inc()
	metrics.RecordsPersistedTotal.WithLabelValues(string(req.Broker), "trade_operation").Add(float64(trades))
	metrics.RecordsPersistedTotal.WithLabelValues(string(req.Broker), "fiscal_transaction").Add(float64(fiscals))

	s.logger.InfoContext(ctx, "report imported",
		"upload_id", upload.ID,
		"broker", string(req.Broker),
		"portfolio_id", req.PortfolioID,
		"trade_operations", trades,
		"fiscal_transactions", fiscals,
		"unrecognized", len(unrecognized))

	return &model.UploadResult{
		UploadID:           upload.ID,
		Broker:             req.Broker,
		TradeOperations:    trades,
		FiscalTransactions: fiscals,
		Unrecognized:       unrecognized,
	}, nil
}

// reportUnrecognized logs one warning per unrecognized fiscal type and returns
// the literal values in report order.
func (s *ReportService) reportUnrecognized(ctx context.Context, r *model.Report) []string {
	values := []string{}
	for _, u := range report.UnrecognizedValues(r) {
		s.logger.WarnContext(ctx, "unrecognized fiscal transaction type",
			"broker", string(u.Broker),
			"value", u.Value,
			"external_id", u.ExternalID)
		metrics.UnrecognizedValuesTotal.WithLabelValues(string(u.Broker)).Inc()
		values = append(values, u.Value)
	}
	return values
}

func (s *ReportService) persistAtomic(ctx context.Context, upload model.ReportUpload, r *model.Report) (int64, int64, error) {
	var trades, fiscals int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if trades, err = s.createUploadWithTrades(ctx, tx, upload, r); err != nil {
			return err
		}
		fiscals, err = s.fiscalRepo.WithTx(tx).UpsertFiscalTransactions(ctx, upload.PortfolioID, &upload.ID, r.FiscalTransactions)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return trades, fiscals, nil
}

// persistBatched commits the upload row together with the trade batch, then the
// fiscal batch on its own. A failed fiscal batch leaves the committed trades.
func (s *ReportService) persistBatched(ctx context.Context, upload model.ReportUpload, r *model.Report) (int64, int64, error) {
	var trades int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		trades, err = s.createUploadWithTrades(ctx, tx, upload, r)
		return err
	})
	if err != nil {
		return 0, 0, err
	}

	fiscals, err := s.fiscalRepo.UpsertFiscalTransactions(ctx, upload.PortfolioID, &upload.ID, r.FiscalTransactions)
	if err != nil {
		return trades, 0, err
	}
	return trades, fiscals, nil
}

func (s *ReportService) createUploadWithTrades(ctx context.Context, tx *sql.Tx, upload model.ReportUpload, r *model.Report) (int64, error) {
	if err := s.reportRepo.WithTx(tx).CreateReportUpload(ctx, upload); err != nil {
		return 0, err
	}
	return s.tradeRepo.WithTx(tx).UpsertTradeOperations(ctx, upload.PortfolioID, &upload.ID, r.TradeOperations)
}

func (s *ReportService) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListReportUploads returns the uploads of a portfolio, newest first.
func (s *ReportService) ListReportUploads(ctx context.Context, portfolioID string) ([]model.ReportUpload, error) {
	if _, err := s.portfolioRepo.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	uploads, err := s.reportRepo.ListReportUploads(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveUploads, err)
	}
	return uploads, nil
}
