package freedomfinance

import (
	"fmt"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/money"
)

// ToCanonical maps a decoded export into canonical records. The cash flow
// section has no canonical counterpart.
func ToCanonical(r *Report) (*model.Report, error) {
	out := &model.Report{
		Broker:             model.BrokerFreedomfinance,
		TradeOperations:    make([]model.TradeOperation, 0, len(r.Trades.Detailed)),
		FiscalTransactions: make([]model.FiscalTransaction, 0, len(r.CashInOuts)),
	}
	for i, trade := range r.Trades.Detailed {
		op, err := trade.ToCanonical()
		if err != nil {
			return nil, parseError(apperrors.ParseErrorFormat, fmt.Errorf("trades.detailed[%d]: %w", i, err))
		}
		out.TradeOperations = append(out.TradeOperations, op)
	}
	for _, cash := range r.CashInOuts {
		out.FiscalTransactions = append(out.FiscalTransactions, cash.ToCanonical())
	}
	return out, nil
}

// ToCanonical converts one executed trade. A trade without a known side is an error.
func (t DetailedTrade) ToCanonical() (model.TradeOperation, error) {
	side, err := t.Operation.toCanonical()
	if err != nil {
		return model.TradeOperation{}, err
	}
	quantity := t.Quantity
	if quantity < 0 {
		quantity = -quantity
	}

	trade := model.TradeOperation{
		Source:     model.SourceFreedomfinanceReport,
		Broker:     model.BrokerPtr(model.BrokerFreedomfinance),
		ExternalID: model.StringPtr(t.ID.String()),
		DateTime:   t.Date.Time,
		Side:       side,
		Symbol:     t.InstrumentName,
		Price:      money.New(t.Price, t.Currency),
		Quantity:   quantity,
		Summ:       money.New(t.Summ, t.Currency).Abs(),
		Metadata: model.NewMetadata(
			"comment", t.Comment,
			"market", t.MarketName,
			"instr_kind", t.InstrumentKind,
			"trade_id", t.TradeID.String(),
			"transaction_id", t.TransactionID.String(),
			"trade_nb", t.TradeNumber,
		),
	}
	if t.ISIN != "" {
		trade.ISIN = model.StringPtr(t.ISIN)
	}
	if t.OrderID != "" {
		trade.OrderID = model.StringPtr(t.OrderID.String())
	}
	if !t.Commission.IsZero() {
		commission := money.New(t.Commission, t.CommissionCurrency)
		trade.Commission = &commission
	}
	return trade, nil
}

func (s Side) toCanonical() (model.TradeSide, error) {
	switch s {
	case SideBuy:
		return model.SideBuy, nil
	case SideSell:
		return model.SideSell, nil
	default:
		return "", fmt.Errorf("unknown trade operation %q", string(s))
	}
}

// ToCanonical converts one cash in/out event.
func (c CashInOut) ToCanonical() model.FiscalTransaction {
	fiscal := model.FiscalTransaction{
		Source:     model.SourceFreedomfinanceReport,
		Broker:     model.BrokerPtr(model.BrokerFreedomfinance),
		ExternalID: model.StringPtr(c.ID.String()),
		DateTime:   c.DateTime.Time,
		Amount:     money.New(c.Amount, c.Currency),
		Type:       c.Type.toCanonical(),
		Metadata: model.NewMetadata(
			"transaction_id", c.TransactionID.String(),
			"details", c.Details,
			"value_usd_details", c.ValueUSDDetails,
			"reverted", c.Reverted.String(),
		),
	}
	if c.Ticker != nil && *c.Ticker != "" {
		fiscal.Symbol = model.StringPtr(*c.Ticker)
	}
	if c.CommissionCurrency != nil && !c.Commission.IsZero() {
		commission := money.New(c.Commission, *c.CommissionCurrency)
		fiscal.Commission = &commission
	}
	return fiscal
}

func (t CashInOutType) toCanonical() model.FiscalTransactionType {
	switch t {
	case CashDividendReverted:
		return model.FiscalRevertedDividend
	case CashDividend:
		return model.FiscalDividend
	case CashCard:
		return model.FiscalFundingWithdrawal
	default:
		return model.Unrecognized(string(t))
	}
}
