package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/money"
	"github.com/ndewijer/Broker-Report-Importer/internal/repository"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    Archived().
//	    Build(t, db)
type PortfolioBuilder struct {
	ID                  string
	Name                string
	Description         string
	IsArchived          bool
	ExcludeFromOverview bool
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        MakePortfolioName("Test Portfolio"),
		Description: "Test description",
	}
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// Archived marks the portfolio as archived.
func (b *PortfolioBuilder) Archived() *PortfolioBuilder {
	b.IsArchived = true
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, description, is_archived, exclude_from_overview)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.IsArchived, b.ExcludeFromOverview)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:                  b.ID,
		Name:                b.Name,
		Description:         b.Description,
		IsArchived:          b.IsArchived,
		ExcludeFromOverview: b.ExcludeFromOverview,
	}
}

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// TradeOperationBuilder provides a fluent interface for creating manual trades.
//
// Example usage:
//
//	trade := testutil.NewTradeOperation(portfolio.ID).
//	    WithSide(model.SideSell).
//	    WithDateTime(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type TradeOperationBuilder struct {
	PortfolioID string
	Op          model.TradeOperation
}

// NewTradeOperation creates a TradeOperationBuilder for a buy of 2 shares at 76.49 USD.
func NewTradeOperation(portfolioID string) *TradeOperationBuilder {
	price := money.New(decimal.RequireFromString("76.49"), "USD")
	return &TradeOperationBuilder{
		PortfolioID: portfolioID,
		Op: model.TradeOperation{
			Source:   model.SourceManual,
			DateTime: time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
			Side:     model.SideBuy,
			Symbol:   MakeSymbol("AAPL"),
			Price:    price,
			Quantity: 2,
			Summ:     price.MulInt(2),
			Metadata: model.NewMetadata(),
		},
	}
}

// WithDateTime sets the execution time.
func (b *TradeOperationBuilder) WithDateTime(dt time.Time) *TradeOperationBuilder {
	b.Op.DateTime = dt
	return b
}

// WithSide sets the trade direction.
func (b *TradeOperationBuilder) WithSide(side model.TradeSide) *TradeOperationBuilder {
	b.Op.Side = side
	return b
}

// WithExternalID marks the trade as coming from a broker report.
func (b *TradeOperationBuilder) WithExternalID(broker model.Broker, externalID string) *TradeOperationBuilder {
	b.Op.Source = model.SourceFor(broker)
	b.Op.Broker = model.BrokerPtr(broker)
	b.Op.ExternalID = model.StringPtr(externalID)
	return b
}

// Build stores the trade and returns it.
func (b *TradeOperationBuilder) Build(t *testing.T, db *sql.DB) model.StoredTradeOperation {
	t.Helper()

	stored, err := repository.NewTradeOperationRepository(db).CreateTradeOperation(context.Background(), b.PortfolioID, b.Op)
	if err != nil {
		t.Fatalf("Failed to create test trade operation: %v", err)
	}
	return stored
}

// FiscalTransactionBuilder provides a fluent interface for creating manual
// fiscal transactions.
//
// Example usage:
//
//	tax := testutil.NewFiscalTransaction(portfolio.ID).
//	    WithType(model.FiscalTax).
//	    WithAmount("-1.88", "USD").
//	    Build(t, db)
type FiscalTransactionBuilder struct {
	PortfolioID string
	Tx          model.FiscalTransaction
}

// NewFiscalTransaction creates a FiscalTransactionBuilder for a 3.00 USD dividend.
func NewFiscalTransaction(portfolioID string) *FiscalTransactionBuilder {
	return &FiscalTransactionBuilder{
		PortfolioID: portfolioID,
		Tx: model.FiscalTransaction{
			Source:   model.SourceManual,
			DateTime: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Amount:   money.New(decimal.RequireFromString("3.00"), "USD"),
			Type:     model.FiscalDividend,
			Metadata: model.NewMetadata(),
		},
	}
}

// WithDateTime sets the booking time.
func (b *FiscalTransactionBuilder) WithDateTime(dt time.Time) *FiscalTransactionBuilder {
	b.Tx.DateTime = dt
	return b
}

// WithType sets the fiscal transaction type.
func (b *FiscalTransactionBuilder) WithType(typ model.FiscalTransactionType) *FiscalTransactionBuilder {
	b.Tx.Type = typ
	return b
}

// WithAmount sets the signed amount.
func (b *FiscalTransactionBuilder) WithAmount(amount, currency string) *FiscalTransactionBuilder {
	b.Tx.Amount = money.New(decimal.RequireFromString(amount), currency)
	return b
}

// Build stores the fiscal transaction and returns it.
func (b *FiscalTransactionBuilder) Build(t *testing.T, db *sql.DB) model.StoredFiscalTransaction {
	t.Helper()

	stored, err := repository.NewFiscalTransactionRepository(db).CreateFiscalTransaction(context.Background(), b.PortfolioID, b.Tx)
	if err != nil {
		t.Fatalf("Failed to create test fiscal transaction: %v", err)
	}
	return stored
}
