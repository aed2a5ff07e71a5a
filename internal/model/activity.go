package model

import (
	"slices"
	"strings"
	"time"

	"github.com/ndewijer/Broker-Report-Importer/internal/money"
)

// ActivityTrade is the activity type of trade rows. Fiscal rows use the label
// of their FiscalTransactionType, or ActivityUnrecognized.
const (
	ActivityTrade        = "Trade"
	ActivityUnrecognized = "Unrecognized"
)

// Activity is one line of the merged, time-ordered account history of a portfolio.
// Trade sums are signed by side so that buys read as outflows and sells as inflows.
type Activity struct {
	ID                  string       `json:"id"`
	Type                string       `json:"type"`
	DateTime            time.Time    `json:"dateTime"`
	Broker              *Broker      `json:"broker,omitempty"`
	Source              string       `json:"operationSource"`
	ExternalID          *string      `json:"externalId,omitempty"`
	Symbol              *string      `json:"symbol,omitempty"`
	Summ                money.Money  `json:"summ"`
	Commission          *money.Money `json:"commission,omitempty"`
	Side                *TradeSide   `json:"side,omitempty"`
	Price               *money.Money `json:"price,omitempty"`
	Quantity            *int64       `json:"quantity,omitempty"`
	UnrecognizedType    *string      `json:"unrecognizedType,omitempty"`
	TradeOperationID    *string      `json:"tradeOperationId,omitempty"`
	FiscalTransactionID *string      `json:"fiscalTransactionId,omitempty"`
}

// ActivityFromTrade builds the activity line for a stored trade.
func ActivityFromTrade(t StoredTradeOperation) Activity {
	side := t.Side
	quantity := t.Quantity
	price := t.Price
	symbol := t.Symbol
	id := t.ID
	return Activity{
		ID:               t.ID,
		Type:             ActivityTrade,
		DateTime:         t.DateTime,
		Broker:           t.Broker,
		Source:           string(t.Source),
		ExternalID:       t.ExternalID,
		Symbol:           &symbol,
		Summ:             t.Summ.MulInt(side.Sign()),
		Commission:       t.Commission,
		Side:             &side,
		Price:            &price,
		Quantity:         &quantity,
		TradeOperationID: &id,
	}
}

// ActivityFromFiscal builds the activity line for a stored fiscal transaction.
func ActivityFromFiscal(f StoredFiscalTransaction) Activity {
	id := f.ID
	a := Activity{
		ID:                  f.ID,
		Type:                f.Type.String(),
		DateTime:            f.DateTime,
		Broker:              f.Broker,
		Source:              string(f.Source),
		ExternalID:          f.ExternalID,
		Symbol:              f.Symbol,
		Summ:                f.Amount,
		Commission:          f.Commission,
		FiscalTransactionID: &id,
	}
	if f.Type.IsUnrecognized() {
		a.Type = ActivityUnrecognized
		original := f.Type.Original()
		a.UnrecognizedType = &original
	}
	return a
}

// Sort directions for activity listings.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ActivityFilters narrows an activity listing. Nil bounds are open and an empty
// Types slice matches every type.
type ActivityFilters struct {
	Types     []string
	StartDate *time.Time
	EndDate   *time.Time
	SortDir   string
}

// ParseActivityType normalizes an activity type name, ignoring case.
func ParseActivityType(s string) (string, bool) {
	names := []string{ActivityTrade, ActivityUnrecognized}
	for _, label := range fiscalKindLabels {
		names = append(names, label)
	}
	for _, name := range names {
		if strings.EqualFold(name, s) {
			return name, true
		}
	}
	return "", false
}

// Matches reports whether a passes the type and date filters. A nil receiver
// matches everything.
func (f *ActivityFilters) Matches(a Activity) bool {
	if f == nil {
		return true
	}
	if f.StartDate != nil && a.DateTime.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && a.DateTime.After(*f.EndDate) {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	return slices.Contains(f.Types, a.Type)
}
