package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// FiscalTransactionRepository provides data access methods for the fiscal_transaction table.
type FiscalTransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFiscalTransactionRepository creates a new FiscalTransactionRepository with the provided database connection.
func NewFiscalTransactionRepository(db *sql.DB) *FiscalTransactionRepository {
	return &FiscalTransactionRepository{db: db}
}

// WithTx returns a new FiscalTransactionRepository scoped to the provided transaction.
func (r *FiscalTransactionRepository) WithTx(tx *sql.Tx) *FiscalTransactionRepository {
	return &FiscalTransactionRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *FiscalTransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const fiscalTransactionColumns = `
	id, portfolio_id, report_upload_id, operation_source, broker, external_id, date_time,
	symbol, amount_amount, amount_currency, operation_type,
	commission_amount, commission_currency, metadata`

const upsertFiscalTransactionQuery = `
	INSERT INTO fiscal_transaction (` + fiscalTransactionColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (operation_source, external_id) DO UPDATE SET
		report_upload_id = excluded.report_upload_id,
		broker = excluded.broker,
		date_time = excluded.date_time,
		symbol = excluded.symbol,
		amount_amount = excluded.amount_amount,
		amount_currency = excluded.amount_currency,
		operation_type = excluded.operation_type,
		commission_amount = excluded.commission_amount,
		commission_currency = excluded.commission_currency,
		metadata = excluded.metadata
`

// UpsertFiscalTransactions inserts the batch, overwriting every mutable column of
// rows that already exist with the same (operation_source, external_id). The batch
// is all-or-nothing. An existing row keeps
// its portfolio. Returns the number of rows inserted or updated.
func (r *FiscalTransactionRepository) UpsertFiscalTransactions(ctx context.Context, portfolioID string, uploadID *string, txs []model.FiscalTransaction) (int64, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	var affected int64
	err := inTx(ctx, r.db, r.tx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertFiscalTransactionQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare fiscal_transaction upsert: %w", err)
		}
		defer stmt.Close()

		for i := range txs {
			result, err := stmt.ExecContext(ctx, fiscalTransactionArgs(uuid.New().String(), portfolioID, uploadID, &txs[i])...)
			if err != nil {
				return fmt.Errorf("failed to upsert fiscal_transaction %s: %w", describeExternalID(txs[i].ExternalID), err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// CreateFiscalTransaction inserts a single row and returns it with its new ID.
func (r *FiscalTransactionRepository) CreateFiscalTransaction(ctx context.Context, portfolioID string, ft model.FiscalTransaction) (model.StoredFiscalTransaction, error) {
	id := uuid.New().String()
	query := `INSERT INTO fiscal_transaction (` + fiscalTransactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.getQuerier().ExecContext(ctx, query, fiscalTransactionArgs(id, portfolioID, nil, &ft)...); err != nil {
		return model.StoredFiscalTransaction{}, fmt.Errorf("failed to insert fiscal_transaction: %w", err)
	}
	return model.StoredFiscalTransaction{ID: id, PortfolioID: portfolioID, FiscalTransaction: ft}, nil
}

// ListFiscalTransactions retrieves all fiscal transactions of a portfolio ordered by time.
func (r *FiscalTransactionRepository) ListFiscalTransactions(ctx context.Context, portfolioID string) ([]model.StoredFiscalTransaction, error) {
	query := `SELECT ` + fiscalTransactionColumns + `
		FROM fiscal_transaction
		WHERE portfolio_id = ?
		ORDER BY date_time ASC, id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal_transaction table: %w", err)
	}
	defer rows.Close()

	txs := []model.StoredFiscalTransaction{}
	for rows.Next() {
		ft, err := scanFiscalTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, ft)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal_transaction table: %w", err)
	}
	return txs, nil
}

// GetFiscalTransaction retrieves a single fiscal transaction by ID.
// Returns ErrFiscalTransactionNotFound if no row with the given ID exists.
func (r *FiscalTransactionRepository) GetFiscalTransaction(ctx context.Context, id string) (model.StoredFiscalTransaction, error) {
	query := `SELECT ` + fiscalTransactionColumns + `
		FROM fiscal_transaction
		WHERE id = ?`

	rows, err := r.getQuerier().QueryContext(ctx, query, id)
	if err != nil {
		return model.StoredFiscalTransaction{}, fmt.Errorf("failed to query fiscal_transaction: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.StoredFiscalTransaction{}, fmt.Errorf("failed to query fiscal_transaction: %w", err)
		}
		return model.StoredFiscalTransaction{}, apperrors.ErrFiscalTransactionNotFound
	}
	return scanFiscalTransaction(rows)
}

// DeleteFiscalTransaction removes a fiscal transaction by ID.
// Returns ErrFiscalTransactionNotFound if no row with the given ID exists.
func (r *FiscalTransactionRepository) DeleteFiscalTransaction(ctx context.Context, id string) error {
	query := `DELETE FROM fiscal_transaction WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete fiscal_transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrFiscalTransactionNotFound
	}

	return nil
}

func fiscalTransactionArgs(id, portfolioID string, uploadID *string, ft *model.FiscalTransaction) []any {
	commissionAmount, commissionCurrency := moneyArgs(ft.Commission)
	return []any{
		id,
		portfolioID,
		uploadID,
		ft.Source,
		ft.Broker,
		ft.ExternalID,
		formatDateTime(ft.DateTime),
		ft.Symbol,
		ft.Amount.AmountString(),
		ft.Amount.Currency,
		ft.Type,
		commissionAmount,
		commissionCurrency,
		ft.Metadata,
	}
}

func scanFiscalTransaction(rows *sql.Rows) (model.StoredFiscalTransaction, error) {
	var (
		ft                                   model.StoredFiscalTransaction
		uploadID, broker, externalID, symbol sql.NullString
		commissionAmount, commissionCurrency sql.NullString
		dateTime, amount, currency           string
	)
	err := rows.Scan(
		&ft.ID,
		&ft.PortfolioID,
		&uploadID,
		&ft.Source,
		&broker,
		&externalID,
		&dateTime,
		&symbol,
		&amount,
		&currency,
		&ft.Type,
		&commissionAmount,
		&commissionCurrency,
		&ft.Metadata,
	)
	if err != nil {
		return ft, fmt.Errorf("failed to scan fiscal_transaction results: %w", err)
	}

	ft.ReportUploadID = nullableString(uploadID)
	ft.ExternalID = nullableString(externalID)
	ft.Symbol = nullableString(symbol)
	if ft.Broker, err = scanOptionalBroker(broker); err != nil {
		return ft, err
	}
	if ft.DateTime, err = parseDateTime(dateTime); err != nil {
		return ft, err
	}
	if ft.Amount, err = scanMoney(amount, currency); err != nil {
		return ft, err
	}
	if ft.Commission, err = scanOptionalMoney(commissionAmount, commissionCurrency); err != nil {
		return ft, err
	}
	return ft, nil
}

