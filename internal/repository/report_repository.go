package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// ReportRepository provides data access methods for the report_upload table.
type ReportRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewReportRepository creates a new ReportRepository with the provided database connection.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// WithTx returns a new ReportRepository scoped to the provided transaction.
func (r *ReportRepository) WithTx(tx *sql.Tx) *ReportRepository {
	return &ReportRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *ReportRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// CreateReportUpload stores one upload record.
func (r *ReportRepository) CreateReportUpload(ctx context.Context, upload model.ReportUpload) error {
	query := `
        INSERT INTO report_upload (id, portfolio_id, label, broker, created_at)
        VALUES (?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		upload.ID,
		upload.PortfolioID,
		upload.Label,
		upload.Broker,
		formatDateTime(upload.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report_upload: %w", err)
	}

	return nil
}

// ListReportUploads retrieves the uploads of a portfolio, newest first.
func (r *ReportRepository) ListReportUploads(ctx context.Context, portfolioID string) ([]model.ReportUpload, error) {
	query := `
		SELECT id, portfolio_id, label, broker, created_at
		FROM report_upload
		WHERE portfolio_id = ?
		ORDER BY created_at DESC, id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report_upload table: %w", err)
	}
	defer rows.Close()

	uploads := []model.ReportUpload{}
	for rows.Next() {
		var (
			u         model.ReportUpload
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.PortfolioID, &u.Label, &u.Broker, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan report_upload results: %w", err)
		}
		if u.CreatedAt, err = parseDateTime(createdAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report_upload table: %w", err)
	}

	return uploads, nil
}
