package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/service"
	"github.com/ndewijer/Broker-Report-Importer/internal/testutil"
)

const orderA = "ee690bae-a737-4c7a-bba1-642a975a561a"

func exanteReport() *testutil.ExanteReport {
	return testutil.NewExanteReport().
		Trade(orderA, "1", "buy", "76.49", "2").
		Trade(orderA, "2", "buy", "76.50", "1").
		Transaction("100", "AAPL.NASDAQ", "US TAX", "-0.45", "USD").
		Transaction("101", "AAPL.NASDAQ", "DIVIDENT", "3.00", "USD").
		Transaction("102", "None", "EXCHANGE", "-10.00", "USD")
}

// TestReportService_UploadReport tests importing broker exports.
//
// WHY: Uploading is the only way records enter the system. Re-uploading an
// overlapping export must refresh rows instead of duplicating them, and unknown
// broker vocabulary must be stored and reported without aborting the import.
func TestReportService_UploadReport(t *testing.T) {
	ctx := context.Background()

	t.Run("imports an Exante export", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := testutil.NewCaptureHandler()
		svc := testutil.NewTestReportService(t, db, slog.New(handler))
		portfolio := testutil.CreatePortfolio(t, db, "Exante")

		// Execute
		result, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerExante,
			Label:       "March",
			Reader:      exanteReport().Reader(),
		})

		// Assert
		if err != nil {
			t.Fatalf("UploadReport() returned unexpected error: %v", err)
		}
		if result.TradeOperations != 2 || result.FiscalTransactions != 3 {
			t.Errorf("Expected 2 trades and 3 fiscal transactions, got %d and %d",
				result.TradeOperations, result.FiscalTransactions)
		}
		if result.UploadID == "" {
			t.Error("Expected an upload ID")
		}
		if len(result.Unrecognized) != 1 || result.Unrecognized[0] != "EXCHANGE" {
			t.Errorf("Expected unrecognized [EXCHANGE], got %v", result.Unrecognized)
		}
		testutil.AssertRowCount(t, db, "report_upload", 1)
		testutil.AssertRowCount(t, db, "trade_operation", 2)
		testutil.AssertRowCount(t, db, "fiscal_transaction", 3)
	})

	t.Run("logs exactly one warning per unrecognized value", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := testutil.NewCaptureHandler()
		svc := testutil.NewTestReportService(t, db, slog.New(handler))
		portfolio := testutil.CreatePortfolio(t, db, "Exante")

		// Execute
		_, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerExante,
			Reader:      exanteReport().Reader(),
		})
		if err != nil {
			t.Fatalf("UploadReport() returned unexpected error: %v", err)
		}

		// Assert
		warnings := handler.Records(slog.LevelWarn)
		if len(warnings) != 1 {
			t.Fatalf("Expected 1 warning, got %d: %+v", len(warnings), warnings)
		}
		if warnings[0].Attrs["broker"] != "Exante" || warnings[0].Attrs["value"] != "EXCHANGE" {
			t.Errorf("Expected broker=Exante value=EXCHANGE, got %v", warnings[0].Attrs)
		}
	})

	t.Run("re-uploading the same export does not duplicate rows", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)
		portfolio := testutil.CreatePortfolio(t, db, "Exante")
		upload := func() *model.UploadResult {
			result, err := svc.UploadReport(ctx, service.UploadReportRequest{
				PortfolioID: portfolio.ID,
				Broker:      model.BrokerExante,
				Reader:      exanteReport().Reader(),
			})
			if err != nil {
				t.Fatalf("UploadReport() returned unexpected error: %v", err)
			}
			return result
		}

		// Execute
		first := upload()
		second := upload()

		// Assert
		if second.TradeOperations != first.TradeOperations || second.FiscalTransactions != first.FiscalTransactions {
			t.Errorf("Expected identical counts, got %+v then %+v", first, second)
		}
		testutil.AssertRowCount(t, db, "report_upload", 2)
		testutil.AssertRowCount(t, db, "trade_operation", 2)
		testutil.AssertRowCount(t, db, "fiscal_transaction", 3)
	})

	t.Run("re-uploading refreshes changed fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)
		tradeSvc := testutil.NewTestTradeOperationService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Exante")

		original := testutil.NewExanteReport().Trade(orderA, "1", "buy", "76.49", "2")
		corrected := testutil.NewExanteReport().Trade(orderA, "1", "buy", "76.40", "3")

		// Execute
		for _, r := range []*testutil.ExanteReport{original, corrected} {
			if _, err := svc.UploadReport(ctx, service.UploadReportRequest{
				PortfolioID: portfolio.ID,
				Broker:      model.BrokerExante,
				Reader:      r.Reader(),
			}); err != nil {
				t.Fatalf("UploadReport() returned unexpected error: %v", err)
			}
		}

		// Assert
		trades, err := tradeSvc.ListTradeOperations(ctx, portfolio.ID)
		if err != nil {
			t.Fatalf("ListTradeOperations() returned unexpected error: %v", err)
		}
		if len(trades) != 1 {
			t.Fatalf("Expected 1 trade, got %d", len(trades))
		}
		if got := trades[0].Price.AmountString(); got != "76.40" {
			t.Errorf("Expected refreshed price 76.40, got %s", got)
		}
		if trades[0].Quantity != 3 {
			t.Errorf("Expected refreshed quantity 3, got %d", trades[0].Quantity)
		}
		if trades[0].ExternalID == nil || *trades[0].ExternalID != orderA+"/1" {
			t.Errorf("Expected external id %s/1, got %v", orderA, trades[0].ExternalID)
		}
	})

	t.Run("unrecognized text that matches a canonical label reads back unrecognized", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)
		fiscalSvc := testutil.NewTestFiscalTransactionService(t, db)
		activitySvc := testutil.NewTestActivityService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Exante")
		body := testutil.NewExanteReport().Transaction("200", "AAPL.NASDAQ", "Dividend", "1.00", "USD")

		// Execute
		result, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerExante,
			Reader:      body.Reader(),
		})
		if err != nil {
			t.Fatalf("UploadReport() returned unexpected error: %v", err)
		}

		// Assert
		if len(result.Unrecognized) != 1 || result.Unrecognized[0] != "Dividend" {
			t.Errorf("Expected unrecognized [Dividend], got %v", result.Unrecognized)
		}
		txs, err := fiscalSvc.ListFiscalTransactions(ctx, portfolio.ID)
		if err != nil {
			t.Fatalf("ListFiscalTransactions() returned unexpected error: %v", err)
		}
		if len(txs) != 1 {
			t.Fatalf("Expected 1 fiscal transaction, got %d", len(txs))
		}
		if !txs[0].Type.IsUnrecognized() || txs[0].Type.Original() != "Dividend" {
			t.Errorf("Expected Unrecognized(Dividend), got %#v", txs[0].Type)
		}
		activity, err := activitySvc.ListActivity(ctx, portfolio.ID, nil)
		if err != nil {
			t.Fatalf("ListActivity() returned unexpected error: %v", err)
		}
		if len(activity) != 1 || activity[0].Type != model.ActivityUnrecognized {
			t.Errorf("Expected one Unrecognized activity entry, got %+v", activity)
		}
	})

	t.Run("uploading to another portfolio keeps existing rows in place", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)
		tradeSvc := testutil.NewTestTradeOperationService(t, db)
		first := testutil.CreatePortfolio(t, db, "First")
		second := testutil.CreatePortfolio(t, db, "Second")

		// Execute
		for _, portfolioID := range []string{first.ID, second.ID} {
			if _, err := svc.UploadReport(ctx, service.UploadReportRequest{
				PortfolioID: portfolioID,
				Broker:      model.BrokerExante,
				Reader:      exanteReport().Reader(),
			}); err != nil {
				t.Fatalf("UploadReport() returned unexpected error: %v", err)
			}
		}

		// Assert
		kept, err := tradeSvc.ListTradeOperations(ctx, first.ID)
		if err != nil {
			t.Fatalf("ListTradeOperations() returned unexpected error: %v", err)
		}
		if len(kept) != 2 {
			t.Errorf("Expected first portfolio to keep 2 trades, got %d", len(kept))
		}
		moved, err := tradeSvc.ListTradeOperations(ctx, second.ID)
		if err != nil {
			t.Fatalf("ListTradeOperations() returned unexpected error: %v", err)
		}
		if len(moved) != 0 {
			t.Errorf("Expected no trades in second portfolio, got %d", len(moved))
		}
		testutil.AssertRowCount(t, db, "trade_operation", 2)
		testutil.AssertRowCount(t, db, "fiscal_transaction", 3)

		var fiscalOwners int
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM fiscal_transaction WHERE portfolio_id = ?", first.ID).Scan(&fiscalOwners); err != nil {
			t.Fatalf("Failed to count fiscal transactions: %v", err)
		}
		if fiscalOwners != 3 {
			t.Errorf("Expected first portfolio to keep 3 fiscal transactions, got %d", fiscalOwners)
		}
	})

	t.Run("imports a Freedom Finance export", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := testutil.NewCaptureHandler()
		svc := testutil.NewTestReportService(t, db, slog.New(handler))
		portfolio := testutil.CreatePortfolio(t, db, "Freedom")

		f, err := os.Open("../report/freedomfinance/testdata/report.json")
		if err != nil {
			t.Fatalf("Failed to open fixture: %v", err)
		}
		defer f.Close()

		// Execute
		result, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerFreedomfinance,
			Reader:      f,
		})

		// Assert
		if err != nil {
			t.Fatalf("UploadReport() returned unexpected error: %v", err)
		}
		if result.TradeOperations != 2 || result.FiscalTransactions != 4 {
			t.Errorf("Expected 2 trades and 4 fiscal transactions, got %d and %d",
				result.TradeOperations, result.FiscalTransactions)
		}
		warnings := handler.Records(slog.LevelWarn)
		if len(warnings) != 1 || warnings[0].Attrs["value"] != "bond_coupon_tax" {
			t.Errorf("Expected one warning for bond_coupon_tax, got %+v", warnings)
		}
	})

	t.Run("non-atomic mode persists the same records", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestNonAtomicReportService(t, db, nil)
		portfolio := testutil.CreatePortfolio(t, db, "Exante")

		// Execute
		result, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerExante,
			Reader:      exanteReport().Reader(),
		})

		// Assert
		if err != nil {
			t.Fatalf("UploadReport() returned unexpected error: %v", err)
		}
		if result.TradeOperations != 2 || result.FiscalTransactions != 3 {
			t.Errorf("Unexpected counts: %+v", result)
		}
		testutil.AssertRowCount(t, db, "trade_operation", 2)
		testutil.AssertRowCount(t, db, "fiscal_transaction", 3)
	})

	t.Run("non-atomic mode commits the upload row with the trade batch", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestNonAtomicReportService(t, db, nil)
		portfolio := testutil.CreatePortfolio(t, db, "Exante")
		if _, err := db.ExecContext(ctx, `
			CREATE TRIGGER reject_trades BEFORE INSERT ON trade_operation
			BEGIN SELECT RAISE(ABORT, 'trade batch rejected'); END`); err != nil {
			t.Fatalf("Failed to create trigger: %v", err)
		}

		// Execute
		_, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerExante,
			Reader:      exanteReport().Reader(),
		})

		// Assert
		if !errors.Is(err, apperrors.ErrFailedToPersistReport) {
			t.Fatalf("Expected ErrFailedToPersistReport, got %v", err)
		}
		testutil.AssertRowCount(t, db, "report_upload", 0)
		testutil.AssertRowCount(t, db, "trade_operation", 0)
		testutil.AssertRowCount(t, db, "fiscal_transaction", 0)
	})

	t.Run("non-atomic mode keeps trades when the fiscal batch fails", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestNonAtomicReportService(t, db, nil)
		portfolio := testutil.CreatePortfolio(t, db, "Exante")
		if _, err := db.ExecContext(ctx, `
			CREATE TRIGGER reject_fiscals BEFORE INSERT ON fiscal_transaction
			BEGIN SELECT RAISE(ABORT, 'fiscal batch rejected'); END`); err != nil {
			t.Fatalf("Failed to create trigger: %v", err)
		}

		// Execute
		_, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerExante,
			Reader:      exanteReport().Reader(),
		})

		// Assert
		if !errors.Is(err, apperrors.ErrFailedToPersistReport) {
			t.Fatalf("Expected ErrFailedToPersistReport, got %v", err)
		}
		testutil.AssertRowCount(t, db, "report_upload", 1)
		testutil.AssertRowCount(t, db, "trade_operation", 2)
		testutil.AssertRowCount(t, db, "fiscal_transaction", 0)
	})

	t.Run("atomic mode writes nothing when a batch fails", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)
		portfolio := testutil.CreatePortfolio(t, db, "Exante")
		if _, err := db.ExecContext(ctx, `
			CREATE TRIGGER reject_fiscals BEFORE INSERT ON fiscal_transaction
			BEGIN SELECT RAISE(ABORT, 'fiscal batch rejected'); END`); err != nil {
			t.Fatalf("Failed to create trigger: %v", err)
		}

		// Execute
		_, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerExante,
			Reader:      exanteReport().Reader(),
		})

		// Assert
		if !errors.Is(err, apperrors.ErrFailedToPersistReport) {
			t.Fatalf("Expected ErrFailedToPersistReport, got %v", err)
		}
		testutil.AssertRowCount(t, db, "report_upload", 0)
		testutil.AssertRowCount(t, db, "trade_operation", 0)
	})

	t.Run("unknown portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)

		// Execute
		_, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: testutil.MakeID(),
			Broker:      model.BrokerExante,
			Reader:      exanteReport().Reader(),
		})

		// Assert
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
		testutil.AssertRowCount(t, db, "report_upload", 0)
	})

	t.Run("parse error writes nothing", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)
		portfolio := testutil.CreatePortfolio(t, db, "Exante")
		body := exanteReport().String() + "not\ta\theader\n"

		// Execute
		_, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerExante,
			Reader:      strings.NewReader(body),
		})

		// Assert
		if !errors.Is(err, apperrors.ErrReportParsing) {
			t.Fatalf("Expected ErrReportParsing, got %v", err)
		}
		var perr *apperrors.ParseError
		if !errors.As(err, &perr) || perr.Kind != apperrors.ParseErrorFormat {
			t.Errorf("Expected a format ParseError, got %v", err)
		}
		testutil.AssertRowCount(t, db, "report_upload", 0)
		testutil.AssertRowCount(t, db, "trade_operation", 0)
		testutil.AssertRowCount(t, db, "fiscal_transaction", 0)
	})

	t.Run("malformed Freedom Finance document", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)
		portfolio := testutil.CreatePortfolio(t, db, "Freedom")

		// Execute
		_, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: portfolio.ID,
			Broker:      model.BrokerFreedomfinance,
			Reader:      strings.NewReader(`{"trades": [`),
		})

		// Assert
		if !errors.Is(err, apperrors.ErrReportParsing) {
			t.Errorf("Expected ErrReportParsing, got %v", err)
		}
	})
}

func TestReportService_ListReportUploads(t *testing.T) {
	ctx := context.Background()

	t.Run("lists uploads of the portfolio only", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)
		mine := testutil.CreatePortfolio(t, db, "Mine")
		other := testutil.CreatePortfolio(t, db, "Other")

		if _, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: mine.ID,
			Broker:      model.BrokerExante,
			Label:       "Q1",
			Reader:      exanteReport().Reader(),
		}); err != nil {
			t.Fatalf("UploadReport() returned unexpected error: %v", err)
		}
		if _, err := svc.UploadReport(ctx, service.UploadReportRequest{
			PortfolioID: other.ID,
			Broker:      model.BrokerExante,
			Reader:      strings.NewReader(""),
		}); err != nil {
			t.Fatalf("UploadReport() returned unexpected error: %v", err)
		}

		// Execute
		uploads, err := svc.ListReportUploads(ctx, mine.ID)

		// Assert
		if err != nil {
			t.Fatalf("ListReportUploads() returned unexpected error: %v", err)
		}
		if len(uploads) != 1 {
			t.Fatalf("Expected 1 upload, got %d", len(uploads))
		}
		if uploads[0].Label != "Q1" || uploads[0].Broker != model.BrokerExante {
			t.Errorf("Unexpected upload: %+v", uploads[0])
		}
	})

	t.Run("unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReportService(t, db, nil)

		_, err := svc.ListReportUploads(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}
