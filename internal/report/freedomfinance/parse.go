package freedomfinance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// Parse decodes a whole Freedom Finance export. Whitespace-only input is an
// empty report.
func Parse(ctx context.Context, r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, parseError(apperrors.ParseErrorIO, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, parseError(apperrors.ParseErrorIO, err)
	}

	var report Report
	if len(bytes.TrimSpace(data)) == 0 {
		return &report, nil
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, parseError(apperrors.ParseErrorFormat, err)
	}

	for i, trade := range report.Trades.Detailed {
		if err := trade.validate(); err != nil {
			return nil, parseError(apperrors.ParseErrorFormat, fmt.Errorf("trades.detailed[%d]: %w", i, err))
		}
	}
	for i, cash := range report.CashInOuts {
		if err := cash.validate(); err != nil {
			return nil, parseError(apperrors.ParseErrorFormat, fmt.Errorf("cash_in_outs[%d]: %w", i, err))
		}
	}
	return &report, nil
}

func parseError(kind apperrors.ParseErrorKind, err error) error {
	return apperrors.NewParseError(kind, string(model.BrokerFreedomfinance), 0, err)
}

// validate rejects trades missing a field the canonical record requires.
func (t DetailedTrade) validate() error {
	switch {
	case t.ID == "":
		return errors.New("missing id")
	case t.Operation == "":
		return errors.New("missing operation")
	case t.Date.IsZero():
		return errors.New("missing date")
	case strings.TrimSpace(t.Currency) == "":
		return errors.New("missing curr_c")
	case t.Quantity == 0:
		return errors.New("quantity must not be zero")
	}
	return nil
}

func (c CashInOut) validate() error {
	switch {
	case c.ID == "":
		return errors.New("missing id")
	case c.DateTime.IsZero():
		return errors.New("missing datetime")
	case strings.TrimSpace(c.Currency) == "":
		return errors.New("missing currency")
	case c.Type == "":
		return errors.New("missing type")
	}
	return nil
}
