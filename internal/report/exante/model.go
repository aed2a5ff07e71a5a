package exante

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType is the native operation vocabulary of the transaction section.
// Values outside the known constants are kept verbatim.
type OperationType string

const (
	OperationUSTax             OperationType = "US TAX"
	OperationTax               OperationType = "TAX"
	OperationDivident          OperationType = "DIVIDENT"
	OperationDividend          OperationType = "DIVIDEND"
	OperationTrade             OperationType = "TRADE"
	OperationCommission        OperationType = "COMMISSION"
	OperationFundingWithdrawal OperationType = "FUNDING/WITHDRAWAL"
)

// Side is the native trade direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// noneSentinel marks an absent symbol or ISIN.
const noneSentinel = "None"

// TradeOperation is one row of the trade section.
type TradeOperation struct {
	Time               time.Time
	AccountID          string
	Side               Side
	SymbolID           string
	ISIN               string
	Type               string
	Price              decimal.Decimal
	Currency           string
	Quantity           int64
	Commission         decimal.Decimal
	CommissionCurrency string
	PnL                decimal.Decimal
	TradedVolume       decimal.Decimal
	OrderID            uuid.UUID
	OrderPos           int64
	ValueDate          string
	UTI                string
	TradeType          string
}

// Transaction is one row of the cash ledger section.
type Transaction struct {
	ID            string
	AccountID     string
	SymbolID      string
	ISIN          string
	OperationType OperationType
	When          time.Time
	Sum           decimal.Decimal
	Asset         string
	EUREquivalent decimal.Decimal
	Comment       string
	UUID          string
	ParentUUID    string
}

// Report holds every row kept from one Exante export.
type Report struct {
	TradeOperations []TradeOperation
	Transactions    []Transaction
}
