package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// ParseActivityFilters extracts and validates activity filters from query parameters.
//
// Validation rules:
//   - types: comma-separated activity types (Trade, Tax, Dividend, Commission,
//     FundingWithdrawal, RevertedDividend, Unrecognized), matched case-insensitively
//   - start_date/end_date: YYYY-MM-DD or RFC3339; a bare end date includes that whole day
//   - sort_dir: "asc" or "desc" (defaults to "asc")
//
// Returns an error if any parameter fails validation.
func ParseActivityFilters(typesParam, startDateParam, endDateParam, sortDirParam string) (*model.ActivityFilters, error) {
	filters := &model.ActivityFilters{SortDir: model.SortAsc}

	if typesParam != "" {
		for _, raw := range strings.Split(typesParam, ",") {
			name, ok := model.ParseActivityType(strings.TrimSpace(raw))
			if !ok {
				return nil, fmt.Errorf("invalid activity type: %s", strings.TrimSpace(raw))
			}
			filters.Types = append(filters.Types, name)
		}
	}

	if startDateParam != "" {
		start, _, err := parseFilterTime(startDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date format: %w", err)
		}
		filters.StartDate = &start
	}

	if endDateParam != "" {
		end, dateOnly, err := parseFilterTime(endDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date format: %w", err)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Second)
		}
		filters.EndDate = &end
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, fmt.Errorf("%w: end_date is before start_date", apperrors.ErrInvalidDateRange)
	}

	if sortDirParam != "" {
		sortDir := strings.ToLower(sortDirParam)
		if sortDir != model.SortAsc && sortDir != model.SortDesc {
			return nil, fmt.Errorf("invalid sort_dir: must be 'asc' or 'desc'")
		}
		filters.SortDir = sortDir
	}

	return filters, nil
}

// parseFilterTime accepts YYYY-MM-DD and RFC3339. The flag reports a bare date.
func parseFilterTime(str string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
