package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// FiscalTransactionKind is the closed set of canonical fiscal event kinds.
type FiscalTransactionKind int

const (
	// KindUnrecognized is the fallback for broker vocabulary that has no mapping yet.
	KindUnrecognized FiscalTransactionKind = iota
	KindTax
	KindDividend
	KindCommission
	KindFundingWithdrawal
	KindRevertedDividend
)

var fiscalKindLabels = map[FiscalTransactionKind]string{
	KindTax:               "Tax",
	KindDividend:          "Dividend",
	KindCommission:        "Commission",
	KindFundingWithdrawal: "FundingWithdrawal",
	KindRevertedDividend:  "RevertedDividend",
}

// FiscalTransactionType is a known kind, or Unrecognized carrying the original
// broker string verbatim. The zero value is Unrecognized("").
type FiscalTransactionType struct {
	kind     FiscalTransactionKind
	original string
}

var (
	FiscalTax               = FiscalTransactionType{kind: KindTax}
	FiscalDividend          = FiscalTransactionType{kind: KindDividend}
	FiscalCommission        = FiscalTransactionType{kind: KindCommission}
	FiscalFundingWithdrawal = FiscalTransactionType{kind: KindFundingWithdrawal}
	FiscalRevertedDividend  = FiscalTransactionType{kind: KindRevertedDividend}
)

// Unrecognized wraps a broker value that has no canonical mapping.
func Unrecognized(original string) FiscalTransactionType {
	return FiscalTransactionType{kind: KindUnrecognized, original: original}
}

// ParseFiscalTransactionType maps a canonical label back to its kind. Any other
// text becomes Unrecognized(text).
func ParseFiscalTransactionType(s string) FiscalTransactionType {
	for kind, label := range fiscalKindLabels {
		if label == s {
			return FiscalTransactionType{kind: kind}
		}
	}
	return Unrecognized(s)
}

func (t FiscalTransactionType) Kind() FiscalTransactionKind { return t.kind }

// IsUnrecognized reports whether t is the fallback variant.
func (t FiscalTransactionType) IsUnrecognized() bool { return t.kind == KindUnrecognized }

// Original returns the broker text of an unrecognized value, or "" for known kinds.
func (t FiscalTransactionType) Original() string {
	if t.kind == KindUnrecognized {
		return t.original
	}
	return ""
}

// String returns the canonical label, or the original text when unrecognized.
func (t FiscalTransactionType) String() string {
	if t.kind == KindUnrecognized {
		return t.original
	}
	return fiscalKindLabels[t.kind]
}

// Stored and JSON forms wrap unrecognized text as "Unrecognized(<text>)", so a
// broker string equal to a canonical label still reads back as unrecognized.
const (
	unrecognizedPrefix = "Unrecognized("
	unrecognizedSuffix = ")"
)

func (t FiscalTransactionType) encode() string {
	if t.kind == KindUnrecognized {
		return unrecognizedPrefix + t.original + unrecognizedSuffix
	}
	return fiscalKindLabels[t.kind]
}

// decodeFiscalTransactionType reverses encode. Bare text that is not a canonical
// label is accepted as unrecognized.
func decodeFiscalTransactionType(s string) FiscalTransactionType {
	if inner, ok := strings.CutPrefix(s, unrecognizedPrefix); ok {
		if inner, ok := strings.CutSuffix(inner, unrecognizedSuffix); ok {
			return Unrecognized(inner)
		}
	}
	return ParseFiscalTransactionType(s)
}

func (t FiscalTransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.encode())
}

func (t *FiscalTransactionType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = decodeFiscalTransactionType(s)
	return nil
}

func (t FiscalTransactionType) Value() (driver.Value, error) { return t.encode(), nil }

func (t *FiscalTransactionType) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	*t = decodeFiscalTransactionType(s)
	return nil
}
