package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/money"
)

// ValidateCreateTradeOperation validates a manual trade entry.
//
// Required fields:
//   - dateTime: "YYYY-MM-DD HH:MM:SS", RFC3339 or YYYY-MM-DD
//   - side: Buy or Sell
//   - instrumentSymbol: Non-empty
//   - price: Positive decimal
//   - currency: ISO 4217 code
//   - quantity: Positive
//
// Optional fields (validated if provided):
//   - commission: Non-negative decimal
//   - summ: Positive decimal; defaults to price * quantity
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTradeOperation(req request.CreateTradeOperationRequest) error {
	errors := make(map[string]string)

	validateDateTime(errors, req.DateTime)

	if strings.TrimSpace(req.Side) == "" {
		errors["side"] = "side is required"
	} else if _, err := model.ParseTradeSide(req.Side); err != nil {
		errors["side"] = "side must be Buy or Sell"
	}

	if strings.TrimSpace(req.Symbol) == "" {
		errors["instrumentSymbol"] = "instrumentSymbol is required"
	}

	if d, ok := validateDecimal(errors, "price", req.Price); ok && !d.IsPositive() {
		errors["price"] = "price must be positive"
	}

	validateCurrency(errors, req.Currency)

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.Commission != nil {
		if d, ok := validateDecimal(errors, "commission", *req.Commission); ok && d.IsNegative() {
			errors["commission"] = "commission must not be negative"
		}
	}

	if req.Summ != nil {
		if d, ok := validateDecimal(errors, "summ", *req.Summ); ok && !d.IsPositive() {
			errors["summ"] = "summ must be positive"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateDateTime(errors map[string]string, value string) {
	if strings.TrimSpace(value) == "" {
		errors["dateTime"] = "dateTime is required"
		return
	}
	if _, err := model.ParseDateTime(value); err != nil {
		errors["dateTime"] = err.Error()
	}
}

func validateCurrency(errors map[string]string, code string) {
	if strings.TrimSpace(code) == "" {
		errors["currency"] = "currency is required"
	} else if !money.IsCurrencyCode(code) {
		errors["currency"] = "unknown currency code: " + code
	}
}

func validateDecimal(errors map[string]string, field, value string) (decimal.Decimal, bool) {
	if strings.TrimSpace(value) == "" {
		errors[field] = field + " is required"
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		errors[field] = field + " must be a decimal number"
		return decimal.Decimal{}, false
	}
	return d, true
}
