package freedomfinance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

// Side is the native trade direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s *Side) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch Side(raw) {
	case SideBuy, SideSell:
		*s = Side(raw)
		return nil
	}
	return fmt.Errorf("unknown trade operation %q", raw)
}

// CashInOutType is the native vocabulary of the cash in/out list. Values
// outside the known constants are kept verbatim.
type CashInOutType string

const (
	CashDividendReverted CashInOutType = "dividend_reverted"
	CashDividend         CashInOutType = "dividend"
	CashCard             CashInOutType = "card"
)

// ID is an identifier the export writes either as a JSON number or a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// DateTime is a timestamp in the export's "2006-01-02 15:04:05" layout.
type DateTime struct{ time.Time }

func (d *DateTime) UnmarshalJSON(data []byte) error {
	return unmarshalTime(data, dateTimeLayout, &d.Time)
}

// Date is a calendar day in the export's "2006-01-02" layout.
type Date struct{ time.Time }

func (d *Date) UnmarshalJSON(data []byte) error {
	return unmarshalTime(data, dateLayout, &d.Time)
}

func unmarshalTime(data []byte, layout string, dst *time.Time) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*dst = t
	return nil
}

type Trades struct {
	Detailed []DetailedTrade `json:"detailed"`
}

type CashFlows struct {
	Detailed []CashFlow `json:"detailed"`
}

// DetailedTrade is one executed trade.
type DetailedTrade struct {
	TradeID            ID              `json:"trade_id"`
	Date               DateTime        `json:"date"`
	InstrumentName     string          `json:"instr_nm"`
	InstrumentKind     string          `json:"instr_kind"`
	Operation          Side            `json:"operation"`
	Price              decimal.Decimal `json:"p"`
	Currency           string          `json:"curr_c"`
	Quantity           int64           `json:"q"`
	Summ               decimal.Decimal `json:"summ"`
	OrderID            ID              `json:"order_id"`
	Commission         decimal.Decimal `json:"commission"`
	CommissionCurrency string          `json:"commission_currency"`
	Comment            string          `json:"comment"`
	TransactionID      ID              `json:"transaction_id"`
	ISIN               string          `json:"isin"`
	TradeNumber        string          `json:"trade_nb"`
	MarketName         string          `json:"mkt_name"`
	ID                 ID              `json:"id"`
}

// CashFlow is one row of the account ledger. It repeats the cash in/out list
// and is decoded only for completeness.
type CashFlow struct {
	Date     Date            `json:"date"`
	Account  string          `json:"account"`
	Sum      string          `json:"sum"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	TypeID   string          `json:"type_id"`
	Comment  string          `json:"comment"`
}

// CashInOut is a non-trade cash event.
type CashInOut struct {
	ID                 ID              `json:"id"`
	DateTime           DateTime        `json:"datetime"`
	Ticker             *string         `json:"ticker"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	Commission         decimal.Decimal `json:"commission"`
	CommissionCurrency *string         `json:"commission_currency"`
	Type               CashInOutType   `json:"type"`
	TransactionID      ID              `json:"transaction_id"`
	Details            string          `json:"details"`
	ValueUSDDetails    string          `json:"value_usd_details"`
	Reverted           ID              `json:"reverted"`
}

// Report is the whole Freedom Finance export document.
type Report struct {
	Trades     Trades      `json:"trades"`
	CashFlows  CashFlows   `json:"cash_flows"`
	CashInOuts []CashInOut `json:"cash_in_outs"`
}
