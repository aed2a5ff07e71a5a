package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// TradeOperationRepository provides data access methods for the trade_operation table.
type TradeOperationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTradeOperationRepository creates a new TradeOperationRepository with the provided database connection.
func NewTradeOperationRepository(db *sql.DB) *TradeOperationRepository {
	return &TradeOperationRepository{db: db}
}

// WithTx returns a new TradeOperationRepository scoped to the provided transaction.
func (r *TradeOperationRepository) WithTx(tx *sql.Tx) *TradeOperationRepository {
	return &TradeOperationRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *TradeOperationRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const tradeOperationColumns = `
	id, portfolio_id, report_upload_id, operation_source, broker, external_id, date_time,
	side, instrument_symbol, isin, price_amount, price_currency, quantity,
	commission_amount, commission_currency, order_id, summ_amount, summ_currency, metadata`

const upsertTradeOperationQuery = `
	INSERT INTO trade_operation (` + tradeOperationColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (operation_source, external_id) DO UPDATE SET
		report_upload_id = excluded.report_upload_id,
		broker = excluded.broker,
		date_time = excluded.date_time,
		side = excluded.side,
		instrument_symbol = excluded.instrument_symbol,
		isin = excluded.isin,
		price_amount = excluded.price_amount,
		price_currency = excluded.price_currency,
		quantity = excluded.quantity,
		commission_amount = excluded.commission_amount,
		commission_currency = excluded.commission_currency,
		order_id = excluded.order_id,
		summ_amount = excluded.summ_amount,
		summ_currency = excluded.summ_currency,
		metadata = excluded.metadata
`

// UpsertTradeOperations inserts the batch, overwriting every mutable column of rows
// that already exist with the same (operation_source, external_id). The batch is
// all-or-nothing. An existing row keeps
// its portfolio. Returns the number of rows inserted or updated.
func (r *TradeOperationRepository) UpsertTradeOperations(ctx context.Context, portfolioID string, uploadID *string, ops []model.TradeOperation) (int64, error) {
	if len(ops) == 0 {
		return 0, nil
	}

	var affected int64
	err := inTx(ctx, r.db, r.tx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertTradeOperationQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare trade_operation upsert: %w", err)
		}
		defer stmt.Close()

		for i := range ops {
			result, err := stmt.ExecContext(ctx, tradeOperationArgs(uuid.New().String(), portfolioID, uploadID, &ops[i])...)
			if err != nil {
				return fmt.Errorf("failed to upsert trade_operation %s: %w", describeExternalID(ops[i].ExternalID), err)
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

// CreateTradeOperation inserts a single row and returns it with its new ID.
// Rows without an external id never conflict.
func (r *TradeOperationRepository) CreateTradeOperation(ctx context.Context, portfolioID string, op model.TradeOperation) (model.StoredTradeOperation, error) {
	id := uuid.New().String()
	query := `INSERT INTO trade_operation (` + tradeOperationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.getQuerier().ExecContext(ctx, query, tradeOperationArgs(id, portfolioID, nil, &op)...); err != nil {
		return model.StoredTradeOperation{}, fmt.Errorf("failed to insert trade_operation: %w", err)
	}
	return model.StoredTradeOperation{ID: id, PortfolioID: portfolioID, TradeOperation: op}, nil
}

// ListTradeOperations retrieves all trade operations of a portfolio ordered by time.
func (r *TradeOperationRepository) ListTradeOperations(ctx context.Context, portfolioID string) ([]model.StoredTradeOperation, error) {
	query := `SELECT ` + tradeOperationColumns + `
		FROM trade_operation
		WHERE portfolio_id = ?
		ORDER BY date_time ASC, id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade_operation table: %w", err)
	}
	defer rows.Close()

	ops := []model.StoredTradeOperation{}
	for rows.Next() {
		op, err := scanTradeOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade_operation table: %w", err)
	}
	return ops, nil
}

func tradeOperationArgs(id, portfolioID string, uploadID *string, op *model.TradeOperation) []any {
	commissionAmount, commissionCurrency := moneyArgs(op.Commission)
	return []any{
		id,
		portfolioID,
		uploadID,
		op.Source,
		op.Broker,
		op.ExternalID,
		formatDateTime(op.DateTime),
		op.Side,
		op.Symbol,
		op.ISIN,
		op.Price.AmountString(),
		op.Price.Currency,
		op.Quantity,
		commissionAmount,
		commissionCurrency,
		op.OrderID,
		op.Summ.AmountString(),
		op.Summ.Currency,
		op.Metadata,
	}
}

func scanTradeOperation(rows *sql.Rows) (model.StoredTradeOperation, error) {
	var (
		op                                   model.StoredTradeOperation
		uploadID, broker, externalID, isin   sql.NullString
		commissionAmount, commissionCurrency sql.NullString
		orderID                              sql.NullString
		dateTime                             string
		priceAmount, priceCurrency           string
		summAmount, summCurrency             string
	)
	err := rows.Scan(
		&op.ID,
		&op.PortfolioID,
		&uploadID,
		&op.Source,
		&broker,
		&externalID,
		&dateTime,
		&op.Side,
		&op.Symbol,
		&isin,
		&priceAmount,
		&priceCurrency,
		&op.Quantity,
		&commissionAmount,
		&commissionCurrency,
		&orderID,
		&summAmount,
		&summCurrency,
		&op.Metadata,
	)
	if err != nil {
		return op, fmt.Errorf("failed to scan trade_operation results: %w", err)
	}

	op.ReportUploadID = nullableString(uploadID)
	op.ExternalID = nullableString(externalID)
	op.ISIN = nullableString(isin)
	op.OrderID = nullableString(orderID)
	if op.Broker, err = scanOptionalBroker(broker); err != nil {
		return op, err
	}
	if op.DateTime, err = parseDateTime(dateTime); err != nil {
		return op, err
	}
	if op.Price, err = scanMoney(priceAmount, priceCurrency); err != nil {
		return op, err
	}
	if op.Summ, err = scanMoney(summAmount, summCurrency); err != nil {
		return op, err
	}
	if op.Commission, err = scanOptionalMoney(commissionAmount, commissionCurrency); err != nil {
		return op, err
	}
	return op, nil
}

func describeExternalID(id *string) string {
	if id == nil {
		return "(manual)"
	}
	return *id
}
