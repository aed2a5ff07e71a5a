package service

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/repository"
)

// ActivityService builds the merged account history of a portfolio.
type ActivityService struct {
	portfolioRepo *repository.PortfolioRepository
	tradeRepo     *repository.TradeOperationRepository
	fiscalRepo    *repository.FiscalTransactionRepository
	cache         *ActivityCache
}

// NewActivityService creates a new ActivityService with the provided repository
// dependencies. The cache may be nil.
func NewActivityService(
	portfolioRepo *repository.PortfolioRepository,
	tradeRepo *repository.TradeOperationRepository,
	fiscalRepo *repository.FiscalTransactionRepository,
	cache *ActivityCache,
) *ActivityService {
	return &ActivityService{
		portfolioRepo: portfolioRepo,
		tradeRepo:     tradeRepo,
		fiscalRepo:    fiscalRepo,
		cache:         cache,
	}
}

// ListActivity returns trades and fiscal transactions of a portfolio as one
// time-ordered list. Entries with the same timestamp keep trades before fiscal
// rows. Filters may be nil.
func (s *ActivityService) ListActivity(ctx context.Context, portfolioID string, filters *model.ActivityFilters) ([]model.Activity, error) {
	if _, err := s.portfolioRepo.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	all, found := s.cache.get(portfolioID)
	if !found {
		var err error
		if all, err = s.loadActivity(ctx, portfolioID); err != nil {
			return nil, err
		}
		s.cache.set(portfolioID, all)
	}

	activity := make([]model.Activity, 0, len(all))
	for _, a := range all {
		if filters.Matches(a) {
			activity = append(activity, a)
		}
	}
	if filters != nil && filters.SortDir == model.SortDesc {
		slices.Reverse(activity)
	}
	return activity, nil
}

// loadActivity reads both tables concurrently and merges them in ascending time order.
func (s *ActivityService) loadActivity(ctx context.Context, portfolioID string) ([]model.Activity, error) {
	var (
		trades  []model.StoredTradeOperation
		fiscals []model.StoredFiscalTransaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trades, err = s.tradeRepo.ListTradeOperations(gctx, portfolioID)
		return err
	})
	g.Go(func() error {
		var err error
		fiscals, err = s.fiscalRepo.ListFiscalTransactions(gctx, portfolioID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveActivity, err)
	}

	activity := make([]model.Activity, 0, len(trades)+len(fiscals))
	for _, t := range trades {
		activity = append(activity, model.ActivityFromTrade(t))
	}
	for _, f := range fiscals {
		activity = append(activity, model.ActivityFromFiscal(f))
	}

	slices.SortStableFunc(activity, func(a, b model.Activity) int {
		return a.DateTime.Compare(b.DateTime)
	})
	return activity, nil
}
