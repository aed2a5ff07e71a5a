package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// PortfolioRepository provides read access to the portfolio table.
// Portfolios are owned by another service; uploads only check that one exists.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolio retrieves a single portfolio by ID.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	if portfolioID == "" {
		return model.Portfolio{}, apperrors.ErrInvalidPortfolioID
	}

	query := `
          SELECT id, name, COALESCE(description, ''), COALESCE(is_archived, FALSE), exclude_from_overview
          FROM portfolio
          WHERE id = ?
      `
	var p model.Portfolio

	err := r.db.QueryRowContext(ctx, query, portfolioID).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.IsArchived,
		&p.ExcludeFromOverview,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}
