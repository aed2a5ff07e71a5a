package testutil

import (
	"strings"
)

var exanteTradeHeader = []string{
	"Time", "Account ID", "Side", "Symbol ID", "ISIN", "Type", "Price", "Currency",
	"Quantity", "Commission", "Commission Currency", "P&L", "Traded Volume",
	"Order Id", "Order pos", "Value Date", "Unique Transaction Identifier (UTI)", "Trade type",
}

var exanteTransactionHeader = []string{
	"Transaction ID", "Account ID", "Symbol ID", "ISIN", "Operation type", "When",
	"Sum", "Asset", "EUR equivalent", "Comment", "UUID", "Parent UUID",
}

// ExanteReport builds a tab-separated Exante export. A header row is written
// whenever the section changes.
//
// Example usage:
//
//	body := testutil.NewExanteReport().
//	    Trade("ee690bae-a737-4c7a-bba1-642a975a561a", "1", "buy", "76.49", "2").
//	    Transaction("100", "AAPL.NASDAQ", "US TAX", "-0.45", "USD").
//	    String()
type ExanteReport struct {
	lines   []string
	section string
}

// NewExanteReport creates an empty ExanteReport.
func NewExanteReport() *ExanteReport {
	return &ExanteReport{}
}

func (r *ExanteReport) enter(section string, header []string) {
	if r.section != section {
		r.lines = append(r.lines, strings.Join(header, "\t"))
		r.section = section
	}
}

// Trade adds a trade fill of AAPL.NASDAQ at 2024-03-01 14:30:00. The traded
// volume is always 152.98 USD.
func (r *ExanteReport) Trade(orderID, pos, side, price, quantity string) *ExanteReport {
	r.enter("trade", exanteTradeHeader)
	r.lines = append(r.lines, strings.Join([]string{
		"2024-03-01 14:30:00", "ABC1234.001", side, "AAPL.NASDAQ", "US0378331005", "STOCK",
		price, "USD", quantity, "0.5", "USD", "0", "152.98", orderID, pos, "2024-03-05", "UTI-" + pos, "TRADE",
	}, "\t"))
	return r
}

// Transaction adds a cash ledger row booked at 2024-03-02 09:00:00 with ISIN "None".
func (r *ExanteReport) Transaction(id, symbol, operationType, sum, asset string) *ExanteReport {
	r.enter("transaction", exanteTransactionHeader)
	r.lines = append(r.lines, strings.Join([]string{
		id, "ABC1234.001", symbol, "None", operationType, "2024-03-02 09:00:00",
		sum, asset, sum, "", "uuid-" + id, "None",
	}, "\t"))
	return r
}

// String returns the export as text.
func (r *ExanteReport) String() string {
	return strings.Join(r.lines, "\n") + "\n"
}

// Reader returns the export as an io.Reader.
func (r *ExanteReport) Reader() *strings.Reader {
	return strings.NewReader(r.String())
}
