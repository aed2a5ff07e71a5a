package exante

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

const (
	timeLayout    = "2006-01-02 15:04:05"
	maxLineLength = 1 << 20
)

var errNoActiveHeader = errors.New("data row before any recognized header")

// decoderState is the section currently being read. The zero value means no
// header has been seen yet.
type decoderState struct {
	shape   Shape
	columns map[string]int
	width   int
}

func newDecoderState(shape Shape, header []string) decoderState {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}
	return decoderState{shape: shape, columns: columns, width: len(header)}
}

// row resolves column values of one data line by header name.
type row struct {
	fields  []string
	columns map[string]int
}

func (r row) get(name string) string {
	return r.fields[r.columns[name]]
}

// Parse reads an Exante export. Header rows switch the active section; data rows
// are decoded against the last seen header. Cash ledger rows that mirror a trade
// settlement are dropped.
func Parse(ctx context.Context, r io.Reader) (*Report, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var (
		state  decoderState
		report Report
		lineNo int
	)
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, parseError(apperrors.ParseErrorIO, lineNo, err)
		}

		line := scanner.Text()
		if strings.TrimSpace(strings.TrimPrefix(line, bom)) == "" {
			continue
		}

		fields := Tokenize(line)
		if shape := Classify(fields); shape != ShapeNone {
			state = newDecoderState(shape, fields)
			continue
		}

		if state.shape == ShapeNone {
			return nil, parseError(apperrors.ParseErrorUnknownHeader, lineNo, errNoActiveHeader)
		}
		if len(fields) != state.width {
			return nil, parseError(apperrors.ParseErrorFormat, lineNo,
				fmt.Errorf("%s row has %d fields, header has %d", state.shape, len(fields), state.width))
		}

		rec := row{fields: fields, columns: state.columns}
		switch state.shape {
		case ShapeTrade:
			op, err := decodeTradeOperation(rec)
			if err != nil {
				return nil, parseError(apperrors.ParseErrorFormat, lineNo, err)
			}
			report.TradeOperations = append(report.TradeOperations, op)
		case ShapeTransaction:
			tx, err := decodeTransaction(rec)
			if err != nil {
				return nil, parseError(apperrors.ParseErrorFormat, lineNo, err)
			}
			if isFiscal(tx) {
				report.Transactions = append(report.Transactions, tx)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, parseError(apperrors.ParseErrorFormat, lineNo+1, err)
		}
		return nil, parseError(apperrors.ParseErrorIO, lineNo+1, err)
	}

	return &report, nil
}

// isFiscal keeps ledger rows that are not tied to an instrument and are not a
// trade settlement.
func isFiscal(tx Transaction) bool {
	return strings.EqualFold(tx.ISIN, noneSentinel) && tx.OperationType != OperationTrade
}

func parseError(kind apperrors.ParseErrorKind, line int, err error) error {
	return apperrors.NewParseError(kind, string(model.BrokerExante), line, err)
}

func decodeTradeOperation(r row) (TradeOperation, error) {
	var (
		op  TradeOperation
		err error
	)
	if op.Time, err = parseTime(r, colTime); err != nil {
		return op, err
	}
	if op.Side, err = parseSide(r.get(colSide)); err != nil {
		return op, err
	}
	if op.Price, err = parseDecimal(r, colPrice); err != nil {
		return op, err
	}
	if op.Quantity, err = parseInt(r, colQuantity); err != nil {
		return op, err
	}
	if op.Quantity == 0 {
		return op, fmt.Errorf("column %q: quantity must not be zero", colQuantity)
	}
	if op.Commission, err = parseDecimal(r, colCommission); err != nil {
		return op, err
	}
	if op.PnL, err = parseDecimal(r, colPnL); err != nil {
		return op, err
	}
	if op.TradedVolume, err = parseDecimal(r, colTradedVolume); err != nil {
		return op, err
	}
	if op.OrderID, err = uuid.Parse(r.get(colOrderID)); err != nil {
		return op, fmt.Errorf("column %q: %w", colOrderID, err)
	}
	if op.OrderPos, err = parseInt(r, colOrderPos); err != nil {
		return op, err
	}
	op.AccountID = r.get(colAccountID)
	op.SymbolID = r.get(colSymbolID)
	op.ISIN = r.get(colISIN)
	op.Type = r.get(colType)
	op.Currency = r.get(colCurrency)
	op.CommissionCurrency = r.get(colCommissionCurrency)
	op.ValueDate = r.get(colValueDate)
	op.UTI = r.get(colUTI)
	op.TradeType = r.get(colTradeType)
	return op, nil
}

func decodeTransaction(r row) (Transaction, error) {
	var (
		tx  Transaction
		err error
	)
	if tx.When, err = parseTime(r, colWhen); err != nil {
		return tx, err
	}
	if tx.Sum, err = parseDecimal(r, colSum); err != nil {
		return tx, err
	}
	if tx.EUREquivalent, err = parseDecimal(r, colEUREquivalent); err != nil {
		return tx, err
	}
	tx.ID = r.get(colTransactionID)
	tx.AccountID = r.get(colAccountID)
	tx.SymbolID = r.get(colSymbolID)
	tx.ISIN = r.get(colISIN)
	tx.OperationType = OperationType(r.get(colOperationType))
	tx.Asset = r.get(colAsset)
	tx.Comment = r.get(colComment)
	tx.UUID = r.get(colUUID)
	tx.ParentUUID = r.get(colParentUUID)
	return tx, nil
}

func parseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy, SideSell:
		return Side(s), nil
	}
	return "", fmt.Errorf("column %q: unknown side %q", colSide, s)
}

func parseTime(r row, name string) (time.Time, error) {
	t, err := time.Parse(timeLayout, r.get(name))
	if err != nil {
		return time.Time{}, fmt.Errorf("column %q: %w", name, err)
	}
	return t, nil
}

func parseDecimal(r row, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(r.get(name))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("column %q: %w", name, err)
	}
	return d, nil
}

func parseInt(r row, name string) (int64, error) {
	n, err := strconv.ParseInt(r.get(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return n, nil
}
