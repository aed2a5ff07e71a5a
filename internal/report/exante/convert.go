package exante

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/money"
)

// ToCanonical maps a decoded Exante export into canonical records.
func ToCanonical(r *Report) *model.Report {
	out := &model.Report{
		Broker:             model.BrokerExante,
		TradeOperations:    make([]model.TradeOperation, 0, len(r.TradeOperations)),
		FiscalTransactions: make([]model.FiscalTransaction, 0, len(r.Transactions)),
	}
	for _, op := range r.TradeOperations {
		out.TradeOperations = append(out.TradeOperations, op.ToCanonical())
	}
	for _, tx := range r.Transactions {
		out.FiscalTransactions = append(out.FiscalTransactions, tx.ToCanonical())
	}
	return out
}

// ToCanonical converts a trade row. The external id joins order id and order
// position since one order may fill in several parts.
func (op TradeOperation) ToCanonical() model.TradeOperation {
	orderID := op.OrderID.String()
	quantity := op.Quantity
	if quantity < 0 {
		quantity = -quantity
	}

	trade := model.TradeOperation{
		Source:     model.SourceExanteReport,
		Broker:     model.BrokerPtr(model.BrokerExante),
		ExternalID: model.StringPtr(fmt.Sprintf("%s/%d", orderID, op.OrderPos)),
		DateTime:   op.Time,
		Side:       op.Side.toCanonical(),
		Symbol:     op.SymbolID,
		Price:      money.New(op.Price, op.Currency),
		Quantity:   quantity,
		OrderID:    &orderID,
		Summ:       money.New(op.TradedVolume, op.Currency).Abs(),
		Metadata: model.NewMetadata(
			"uti", op.UTI,
			"trade_type", op.TradeType,
			"type", op.Type,
			"order_pos", strconv.FormatInt(op.OrderPos, 10),
			"account_id", op.AccountID,
			"pnl", op.PnL.String(),
			"value_date", op.ValueDate,
		),
	}
	if !isNone(op.ISIN) {
		trade.ISIN = model.StringPtr(op.ISIN)
	}
	if !op.Commission.IsZero() {
		commission := money.New(op.Commission, op.CommissionCurrency)
		trade.Commission = &commission
	}
	return trade
}

// ToCanonical converts a cash ledger row.
func (tx Transaction) ToCanonical() model.FiscalTransaction {
	fiscal := model.FiscalTransaction{
		Source:     model.SourceExanteReport,
		Broker:     model.BrokerPtr(model.BrokerExante),
		ExternalID: model.StringPtr(tx.ID),
		DateTime:   tx.When,
		Amount:     money.New(tx.Sum, tx.Asset),
		Type:       tx.OperationType.toCanonical(),
		Metadata: model.NewMetadata(
			"account_id", tx.AccountID,
			"isin", tx.ISIN,
			"eur_equivalent", tx.EUREquivalent.String(),
			"comment", tx.Comment,
			"uuid", tx.UUID,
			"parent_uuid", tx.ParentUUID,
		),
	}
	if !isNone(tx.SymbolID) {
		fiscal.Symbol = model.StringPtr(tx.SymbolID)
	}
	return fiscal
}

func (t OperationType) toCanonical() model.FiscalTransactionType {
	switch t {
	case OperationUSTax, OperationTax:
		return model.FiscalTax
	case OperationDivident, OperationDividend:
		return model.FiscalDividend
	case OperationCommission:
		return model.FiscalCommission
	case OperationFundingWithdrawal:
		return model.FiscalFundingWithdrawal
	default:
		return model.Unrecognized(string(t))
	}
}

func (s Side) toCanonical() model.TradeSide {
	if s == SideSell {
		return model.SideSell
	}
	return model.SideBuy
}

func isNone(s string) bool {
	return s == "" || strings.EqualFold(s, noneSentinel)
}
