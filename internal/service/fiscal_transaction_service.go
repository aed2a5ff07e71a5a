package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/money"
	"github.com/ndewijer/Broker-Report-Importer/internal/repository"
)

// FiscalTransactionService handles fiscal transaction listing and manual entry.
type FiscalTransactionService struct {
	portfolioRepo *repository.PortfolioRepository
	fiscalRepo    *repository.FiscalTransactionRepository
	cache         *ActivityCache
}

// NewFiscalTransactionService creates a new FiscalTransactionService with the provided repository dependencies.
func NewFiscalTransactionService(
	portfolioRepo *repository.PortfolioRepository,
	fiscalRepo *repository.FiscalTransactionRepository,
	cache *ActivityCache,
) *FiscalTransactionService {
	return &FiscalTransactionService{
		portfolioRepo: portfolioRepo,
		fiscalRepo:    fiscalRepo,
		cache:         cache,
	}
}

// ListFiscalTransactions returns every fiscal transaction of a portfolio ordered by time.
func (s *FiscalTransactionService) ListFiscalTransactions(ctx context.Context, portfolioID string) ([]model.StoredFiscalTransaction, error) {
	if _, err := s.portfolioRepo.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	txs, err := s.fiscalRepo.ListFiscalTransactions(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveFiscal, err)
	}
	return txs, nil
}

// GetFiscalTransaction returns a single fiscal transaction.
func (s *FiscalTransactionService) GetFiscalTransaction(ctx context.Context, id string) (*model.StoredFiscalTransaction, error) {
	ft, err := s.fiscalRepo.GetFiscalTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrFiscalTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveFiscal, err)
	}
	return &ft, nil
}

// CreateManual stores a fiscal transaction entered by hand. The request must
// already be validated, which guarantees a known type with the right sign.
func (s *FiscalTransactionService) CreateManual(ctx context.Context, portfolioID string, req request.CreateFiscalTransactionRequest) (*model.StoredFiscalTransaction, error) {
	if _, err := s.portfolioRepo.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	ft, err := fiscalFromRequest(req)
	if err != nil {
		return nil, err
	}

	stored, err := s.fiscalRepo.CreateFiscalTransaction(ctx, portfolioID, ft)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateFiscal, err)
	}
	s.cache.Invalidate(portfolioID)
	return &stored, nil
}

// DeleteFiscalTransaction removes a fiscal transaction. Report rows deleted this
// way come back on the next upload of the same report.
func (s *FiscalTransactionService) DeleteFiscalTransaction(ctx context.Context, id string) error {
	ft, err := s.GetFiscalTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.fiscalRepo.DeleteFiscalTransaction(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrFiscalTransactionNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToDeleteFiscal, err)
	}
	s.cache.Invalidate(ft.PortfolioID)
	return nil
}

func fiscalFromRequest(req request.CreateFiscalTransactionRequest) (model.FiscalTransaction, error) {
	dateTime, err := model.ParseDateTime(req.DateTime)
	if err != nil {
		return model.FiscalTransaction{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	amount, err := money.Parse(req.Amount, currency)
	if err != nil {
		return model.FiscalTransaction{}, err
	}

	ft := model.FiscalTransaction{
		Source:   model.SourceManual,
		DateTime: dateTime,
		Symbol:   nonEmpty(req.Symbol),
		Amount:   amount,
		Type:     model.ParseFiscalTransactionType(req.Type),
		Metadata: model.NewMetadata(),
	}

	if req.Commission != nil {
		commission, err := decimal.NewFromString(strings.TrimSpace(*req.Commission))
		if err != nil {
			return model.FiscalTransaction{}, fmt.Errorf("invalid commission %q: %w", *req.Commission, err)
		}
		if !commission.IsZero() {
			c := money.New(commission, currency)
			ft.Commission = &c
		}
	}
	return ft, nil
}
