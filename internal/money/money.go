// Package money provides an exact decimal amount paired with a currency code.
// Amounts keep the precision of the source they were decoded from; there is no
// binary floating point anywhere on the decode or persistence path.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned by arithmetic on two amounts of different currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an immutable amount in a given currency. The currency is usually an
// ISO 4217 code, but broker exports also denominate some cash rows in an
// instrument ticker, so any non-empty code is accepted.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// New creates a Money value.
func New(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Parse creates a Money value from a decimal string such as "76.49".
func Parse(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return New(d, currency), nil
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }
func (m Money) Neg() Money       { return Money{Amount: m.Amount.Neg(), Currency: m.Currency} }
func (m Money) Abs() Money       { return Money{Amount: m.Amount.Abs(), Currency: m.Currency} }

// MulInt multiplies the amount by an integer factor, e.g. a direction sign.
func (m Money) MulInt(n int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(n)), Currency: m.Currency}
}

// Equal reports whether both the amount and the currency are equal.
// 10.5 and 10.50 are equal.
func (m Money) Equal(n Money) bool {
	return m.Currency == n.Currency && m.Amount.Equal(n.Amount)
}

// Add returns m+n. Amounts in different currencies cannot be added.
func (m Money) Add(n Money) (Money, error) {
	if m.Currency != n.Currency {
		return Money{}, fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.Currency, n.Currency)
	}
	return Money{Amount: m.Amount.Add(n.Amount), Currency: m.Currency}, nil
}

// Sub returns m-n. Amounts in different currencies cannot be subtracted.
func (m Money) Sub(n Money) (Money, error) {
	return m.Add(n.Neg())
}

// AmountString renders the amount with exactly the number of fractional digits
// it was created with: "10.50" stays "10.50".
func (m Money) AmountString() string {
	if exp := m.Amount.Exponent(); exp < 0 {
		return m.Amount.StringFixed(-exp)
	}
	return m.Amount.String()
}

// String returns "<amount> <currency>".
func (m Money) String() string {
	return m.AmountString() + " " + m.Currency
}

// IsCurrencyCode reports whether code is a known ISO 4217 currency, ignoring case.
func IsCurrencyCode(code string) bool {
	return gomoney.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}

type jsonMoney struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON encodes the amount as a string so that precision survives clients
// that parse JSON numbers into floats.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMoney{Amount: m.AmountString(), Currency: m.Currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   json.RawMessage `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(raw.Amount); err != nil {
		return fmt.Errorf("invalid money amount: %w", err)
	}
	*m = Money{Amount: amount, Currency: raw.Currency}
	return nil
}
