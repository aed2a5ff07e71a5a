package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// ValidateCreateFiscalTransaction validates a manual fiscal entry.
//
// Required fields:
//   - dateTime: "YYYY-MM-DD HH:MM:SS", RFC3339 or YYYY-MM-DD
//   - amount: Decimal; sign constrained by type
//   - currency: ISO 4217 code
//   - operationType: Tax, Dividend, Commission, FundingWithdrawal or RevertedDividend
//
// Sign rules:
//   - Dividend: amount >= 0
//   - Tax, Commission: amount <= 0
//
// Optional fields (validated if provided):
//   - commission: Non-negative decimal
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateFiscalTransaction(req request.CreateFiscalTransactionRequest) error {
	errors := make(map[string]string)

	validateDateTime(errors, req.DateTime)
	validateCurrency(errors, req.Currency)

	typ := model.ParseFiscalTransactionType(req.Type)
	if strings.TrimSpace(req.Type) == "" {
		errors["operationType"] = "operationType is required"
	} else if typ.IsUnrecognized() {
		errors["operationType"] = fmt.Sprintf("invalid operationType: %s", req.Type)
	}

	if amount, ok := validateDecimal(errors, "amount", req.Amount); ok {
		switch typ.Kind() {
		case model.KindDividend:
			if amount.IsNegative() {
				errors["amount"] = "dividend amount must not be negative"
			}
		case model.KindTax, model.KindCommission:
			if amount.IsPositive() {
				errors["amount"] = fmt.Sprintf("%s amount must not be positive", typ)
			}
		}
	}

	if req.Commission != nil {
		if d, ok := validateDecimal(errors, "commission", *req.Commission); ok && d.IsNegative() {
			errors["commission"] = "commission must not be negative"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
