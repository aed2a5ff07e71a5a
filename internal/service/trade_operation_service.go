package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/money"
	"github.com/ndewijer/Broker-Report-Importer/internal/repository"
)

// TradeOperationService handles trade listing and manual trade entry.
type TradeOperationService struct {
	portfolioRepo *repository.PortfolioRepository
	tradeRepo     *repository.TradeOperationRepository
	cache         *ActivityCache
}

// NewTradeOperationService creates a new TradeOperationService with the provided repository dependencies.
func NewTradeOperationService(
	portfolioRepo *repository.PortfolioRepository,
	tradeRepo *repository.TradeOperationRepository,
	cache *ActivityCache,
) *TradeOperationService {
	return &TradeOperationService{
		portfolioRepo: portfolioRepo,
		tradeRepo:     tradeRepo,
		cache:         cache,
	}
}

// ListTradeOperations returns every trade of a portfolio ordered by time.
func (s *TradeOperationService) ListTradeOperations(ctx context.Context, portfolioID string) ([]model.StoredTradeOperation, error) {
	if _, err := s.portfolioRepo.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	ops, err := s.tradeRepo.ListTradeOperations(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTrades, err)
	}
	return ops, nil
}

// CreateManual stores a trade entered by hand. The request must already be
// validated. Manual trades carry no external id, so they are never merged with
// report rows. A missing summ defaults to price * quantity.
func (s *TradeOperationService) CreateManual(ctx context.Context, portfolioID string, req request.CreateTradeOperationRequest) (*model.StoredTradeOperation, error) {
	if _, err := s.portfolioRepo.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	op, err := tradeFromRequest(req)
	if err != nil {
		return nil, err
	}

	stored, err := s.tradeRepo.CreateTradeOperation(ctx, portfolioID, op)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateTrade, err)
	}
	s.cache.Invalidate(portfolioID)
	return &stored, nil
}

func tradeFromRequest(req request.CreateTradeOperationRequest) (model.TradeOperation, error) {
	dateTime, err := model.ParseDateTime(req.DateTime)
	if err != nil {
		return model.TradeOperation{}, err
	}
	side, err := model.ParseTradeSide(req.Side)
	if err != nil {
		return model.TradeOperation{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	price, err := money.Parse(req.Price, currency)
	if err != nil {
		return model.TradeOperation{}, err
	}

	summ := price.MulInt(req.Quantity)
	if req.Summ != nil {
		if summ, err = money.Parse(*req.Summ, currency); err != nil {
			return model.TradeOperation{}, err
		}
	}

	op := model.TradeOperation{
		Source:   model.SourceManual,
		DateTime: dateTime,
		Side:     side,
		Symbol:   strings.TrimSpace(req.Symbol),
		ISIN:     nonEmpty(req.ISIN),
		Price:    price,
		Quantity: req.Quantity,
		OrderID:  nonEmpty(req.OrderID),
		Summ:     summ,
		Metadata: model.NewMetadata(),
	}

	if req.Commission != nil {
		commission, err := decimal.NewFromString(strings.TrimSpace(*req.Commission))
		if err != nil {
			return model.TradeOperation{}, fmt.Errorf("invalid commission %q: %w", *req.Commission, err)
		}
		if !commission.IsZero() {
			c := money.New(commission, currency)
			op.Commission = &c
		}
	}
	return op, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
