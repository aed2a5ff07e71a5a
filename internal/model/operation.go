package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Broker-Report-Importer/internal/money"
)

// DateTimeLayout is the storage and report layout of every canonical timestamp.
const DateTimeLayout = "2006-01-02 15:04:05"

// TradeOperation is the canonical form of a single trade execution.
// Quantity is always positive and Summ is the absolute settled value; Side
// carries the direction.
type TradeOperation struct {
	Source     OperationSource `json:"operationSource"`
	Broker     *Broker         `json:"broker,omitempty"`
	ExternalID *string         `json:"externalId,omitempty"`
	DateTime   time.Time       `json:"dateTime"`
	Side       TradeSide       `json:"side"`
	Symbol     string          `json:"instrumentSymbol"`
	ISIN       *string         `json:"isin,omitempty"`
	Price      money.Money     `json:"price"`
	Quantity   int64           `json:"quantity"`
	Commission *money.Money    `json:"commission,omitempty"`
	OrderID    *string         `json:"orderId,omitempty"`
	Summ       money.Money     `json:"summ"`
	Metadata   Metadata        `json:"metadata"`
}

// FiscalTransaction is the canonical form of any non-trade cash event.
// Amount is signed: debits are negative, credits positive.
type FiscalTransaction struct {
	Source     OperationSource       `json:"operationSource"`
	Broker     *Broker               `json:"broker,omitempty"`
	ExternalID *string               `json:"externalId,omitempty"`
	DateTime   time.Time             `json:"dateTime"`
	Symbol     *string               `json:"symbol,omitempty"`
	Amount     money.Money           `json:"amount"`
	Type       FiscalTransactionType `json:"operationType"`
	Commission *money.Money          `json:"commission,omitempty"`
	Metadata   Metadata              `json:"metadata"`
}

// StoredTradeOperation is a persisted TradeOperation.
type StoredTradeOperation struct {
	ID             string  `json:"id"`
	PortfolioID    string  `json:"portfolioId"`
	ReportUploadID *string `json:"reportUploadId,omitempty"`
	TradeOperation
}

// StoredFiscalTransaction is a persisted FiscalTransaction.
type StoredFiscalTransaction struct {
	ID             string  `json:"id"`
	PortfolioID    string  `json:"portfolioId"`
	ReportUploadID *string `json:"reportUploadId,omitempty"`
	FiscalTransaction
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// BrokerPtr returns a pointer to b.
func BrokerPtr(b Broker) *Broker { return &b }

// ParseDateTime accepts DateTimeLayout, RFC3339 or a bare date. The result is
// in UTC; a bare date is midnight.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateTimeLayout, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", s)
}
