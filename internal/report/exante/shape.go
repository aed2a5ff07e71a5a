package exante

import "slices"

// Shape is a record layout that can appear as a section of an Exante export.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeTransaction
	ShapeTrade
)

func (s Shape) String() string {
	switch s {
	case ShapeTransaction:
		return "transaction"
	case ShapeTrade:
		return "trade"
	default:
		return "none"
	}
}

// Column names of the trade section.
const (
	colTime               = "Time"
	colAccountID          = "Account ID"
	colSide               = "Side"
	colSymbolID           = "Symbol ID"
	colISIN               = "ISIN"
	colType               = "Type"
	colPrice              = "Price"
	colCurrency           = "Currency"
	colQuantity           = "Quantity"
	colCommission         = "Commission"
	colCommissionCurrency = "Commission Currency"
	colPnL                = "P&L"
	colTradedVolume       = "Traded Volume"
	colOrderID            = "Order Id"
	colOrderPos           = "Order pos"
	colValueDate          = "Value Date"
	colUTI                = "Unique Transaction Identifier (UTI)"
	colTradeType          = "Trade type"
)

// Column names of the transaction (cash ledger) section.
const (
	colTransactionID = "Transaction ID"
	colOperationType = "Operation type"
	colWhen          = "When"
	colSum           = "Sum"
	colAsset         = "Asset"
	colEUREquivalent = "EUR equivalent"
	colComment       = "Comment"
	colUUID          = "UUID"
	colParentUUID    = "Parent UUID"
)

var tradeColumns = []string{
	colTime, colAccountID, colSide, colSymbolID, colISIN, colType, colPrice,
	colCurrency, colQuantity, colCommission, colCommissionCurrency, colPnL,
	colTradedVolume, colOrderID, colOrderPos, colValueDate, colUTI, colTradeType,
}

var transactionColumns = []string{
	colTransactionID, colAccountID, colSymbolID, colISIN, colOperationType,
	colWhen, colSum, colAsset, colEUREquivalent, colComment, colUUID, colParentUUID,
}

// shapePriority is the order in which header candidates are tried.
var shapePriority = []struct {
	shape   Shape
	columns []string
}{
	{ShapeTransaction, transactionColumns},
	{ShapeTrade, tradeColumns},
}

// RequiredColumns returns the column names a header row must contain to
// select shape s.
func RequiredColumns(s Shape) []string {
	for _, candidate := range shapePriority {
		if candidate.shape == s {
			return slices.Clone(candidate.columns)
		}
	}
	return nil
}

// Classify reports which shape the row is a header of, or ShapeNone when it is
// not a header. Column order is irrelevant and extra columns are tolerated.
func Classify(fields []string) Shape {
	for _, candidate := range shapePriority {
		if hasAll(fields, candidate.columns) {
			return candidate.shape
		}
	}
	return ShapeNone
}

func hasAll(fields, required []string) bool {
	for _, name := range required {
		if !slices.Contains(fields, name) {
			return false
		}
	}
	return true
}
