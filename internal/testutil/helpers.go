package testutil

import (
	"database/sql"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/Broker-Report-Importer/internal/repository"
	"github.com/ndewijer/Broker-Report-Importer/internal/service"
)

// NewTestReportService creates a ReportService that writes every upload in a
// single transaction. Pass a nil logger to use slog.Default.
func NewTestReportService(t *testing.T, db *sql.DB, logger *slog.Logger) *service.ReportService {
	t.Helper()
	return newReportService(db, logger, true)
}

// NewTestNonAtomicReportService creates a ReportService that commits each
// record batch separately.
func NewTestNonAtomicReportService(t *testing.T, db *sql.DB, logger *slog.Logger) *service.ReportService {
	t.Helper()
	return newReportService(db, logger, false)
}

func newReportService(db *sql.DB, logger *slog.Logger, atomic bool) *service.ReportService {
	return service.NewReportService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewReportRepository(db),
		repository.NewTradeOperationRepository(db),
		repository.NewFiscalTransactionRepository(db),
		nil,
		logger,
		atomic,
	)
}

func NewTestActivityService(t *testing.T, db *sql.DB) *service.ActivityService {
	t.Helper()

	return service.NewActivityService(
		repository.NewPortfolioRepository(db),
		repository.NewTradeOperationRepository(db),
		repository.NewFiscalTransactionRepository(db),
		nil,
	)
}

func NewTestTradeOperationService(t *testing.T, db *sql.DB) *service.TradeOperationService {
	t.Helper()

	return service.NewTradeOperationService(
		repository.NewPortfolioRepository(db),
		repository.NewTradeOperationRepository(db),
		nil,
	)
}

func NewTestFiscalTransactionService(t *testing.T, db *sql.DB) *service.FiscalTransactionService {
	t.Helper()

	return service.NewFiscalTransactionService(
		repository.NewPortfolioRepository(db),
		repository.NewFiscalTransactionRepository(db),
		nil,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a realistic ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("US")
//	// Returns: "US1A2B3C4D5E"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "US"
	}
	return prefix + randomAlphanumeric(10)
}

// MakeSymbol generates an instrument symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B.NASDAQ"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4) + ".NASDAQ"
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
