package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/money"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// inTx runs fn inside tx when the repository is already scoped to one, otherwise
// inside a new transaction that is committed when fn succeeds.
func inTx(ctx context.Context, db *sql.DB, tx *sql.Tx, fn func(tx *sql.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}

	own, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer own.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(own); err != nil {
		return err
	}
	if err := own.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// formatDateTime renders t in the storage layout. Timestamps are stored in UTC.
func formatDateTime(t time.Time) string {
	return t.UTC().Format(model.DateTimeLayout)
}

// parseDateTime parses a stored timestamp.
func parseDateTime(str string) (time.Time, error) {
	t, err := time.Parse(model.DateTimeLayout, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date_time %q: %w", str, err)
	}
	return t, nil
}

// moneyArgs splits an optional amount into its two nullable columns.
func moneyArgs(m *money.Money) (any, any) {
	if m == nil {
		return nil, nil
	}
	return m.AmountString(), m.Currency
}

func scanMoney(amount, currency string) (money.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return money.Money{}, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
	}
	return money.New(d, currency), nil
}

func scanOptionalMoney(amount, currency sql.NullString) (*money.Money, error) {
	if !amount.Valid {
		return nil, nil
	}
	m, err := scanMoney(amount.String, currency.String)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanOptionalBroker(s sql.NullString) (*model.Broker, error) {
	if !s.Valid {
		return nil, nil
	}
	b, err := model.ParseBroker(s.String)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
