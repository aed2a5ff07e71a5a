package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/database"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the build version, the applied schema version and
// whether migrations are pending.
func (s *SystemService) CheckVersion(ctx context.Context) (*model.VersionInfo, error) {
	provider, err := database.NewMigrator(s.db)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}
	dbVersion, err := provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}
	pending, err := provider.HasPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	return &model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       dbVersion,
		Brokers:         model.Brokers,
		MigrationNeeded: pending,
	}, nil
}
