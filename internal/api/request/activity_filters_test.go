package request

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

func TestParseActivityFilters(t *testing.T) {
	t.Run("default values when no parameters provided", func(t *testing.T) {
		filters, err := ParseActivityFilters("", "", "", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if filters.SortDir != "asc" {
			t.Errorf("Expected default SortDir 'asc', got '%s'", filters.SortDir)
		}
		if len(filters.Types) != 0 {
			t.Errorf("Expected empty Types, got %v", filters.Types)
		}
		if filters.StartDate != nil || filters.EndDate != nil {
			t.Errorf("Expected no date bounds, got %v / %v", filters.StartDate, filters.EndDate)
		}
	})

	t.Run("multiple types are normalized", func(t *testing.T) {
		filters, err := ParseActivityFilters("trade, dividend,UNRECOGNIZED", "", "", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		expected := []string{"Trade", "Dividend", "Unrecognized"}
		if len(filters.Types) != len(expected) {
			t.Fatalf("Expected %d types, got %v", len(expected), filters.Types)
		}
		for i, typ := range filters.Types {
			if typ != expected[i] {
				t.Errorf("Expected type '%s' at index %d, got '%s'", expected[i], i, typ)
			}
		}
	})

	t.Run("invalid type returns error", func(t *testing.T) {
		_, err := ParseActivityFilters("coupon", "", "", "")
		if err == nil {
			t.Error("Expected error for invalid type, got nil")
		}
	})

	t.Run("bare end date covers the whole day", func(t *testing.T) {
		filters, err := ParseActivityFilters("", "2024-01-01", "2024-01-31", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		wantEnd := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
		if !filters.StartDate.Equal(wantStart) {
			t.Errorf("Expected start %v, got %v", wantStart, *filters.StartDate)
		}
		if !filters.EndDate.Equal(wantEnd) {
			t.Errorf("Expected end %v, got %v", wantEnd, *filters.EndDate)
		}
	})

	t.Run("RFC3339 bounds are kept exact", func(t *testing.T) {
		filters, err := ParseActivityFilters("", "", "2024-01-31T10:00:00+02:00", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		want := time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)
		if !filters.EndDate.Equal(want) {
			t.Errorf("Expected end %v, got %v", want, *filters.EndDate)
		}
	})

	t.Run("end before start returns error", func(t *testing.T) {
		_, err := ParseActivityFilters("", "2024-02-01", "2024-01-01", "")
		if !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("invalid date returns error", func(t *testing.T) {
		_, err := ParseActivityFilters("", "01/02/2024", "", "")
		if err == nil {
			t.Error("Expected error for invalid start_date, got nil")
		}
	})

	t.Run("sort direction", func(t *testing.T) {
		filters, err := ParseActivityFilters("", "", "", "DESC")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filters.SortDir != model.SortDesc {
			t.Errorf("Expected SortDir 'desc', got '%s'", filters.SortDir)
		}

		if _, err := ParseActivityFilters("", "", "", "sideways"); err == nil {
			t.Error("Expected error for invalid sort_dir, got nil")
		}
	})
}
