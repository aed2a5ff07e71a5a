// Package report turns a broker export into canonical trade operations and
// fiscal transactions.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ndewijer/Broker-Report-Importer/internal/apperrors"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/report/exante"
	"github.com/ndewijer/Broker-Report-Importer/internal/report/freedomfinance"
)

// Parser decodes one broker's export into canonical records.
type Parser func(ctx context.Context, r io.Reader) (*model.Report, error)

var parsers = map[model.Broker]Parser{
	model.BrokerExante:         parseExante,
	model.BrokerFreedomfinance: parseFreedomfinance,
}

// GetParser returns the parser registered for broker.
func GetParser(broker model.Broker) (Parser, error) {
	p, ok := parsers[broker]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownBroker, broker)
	}
	return p, nil
}

// Parse decodes a whole export of the given broker. Either the full batch is
// returned or an error; there is no partial result.
func Parse(ctx context.Context, broker model.Broker, r io.Reader) (*model.Report, error) {
	p, err := GetParser(broker)
	if err != nil {
		return nil, err
	}
	return p(ctx, r)
}

func parseExante(ctx context.Context, r io.Reader) (*model.Report, error) {
	native, err := exante.Parse(ctx, r)
	if err != nil {
		return nil, err
	}
	return exante.ToCanonical(native), nil
}

func parseFreedomfinance(ctx context.Context, r io.Reader) (*model.Report, error) {
	native, err := freedomfinance.Parse(ctx, r)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "freedom finance cash flows skipped",
		"rows", len(native.CashFlows.Detailed))
	return freedomfinance.ToCanonical(native)
}

// Unrecognized is one fiscal transaction whose broker type had no mapping.
type Unrecognized struct {
	Broker     model.Broker
	ExternalID string
	Value      string
}

// UnrecognizedValues lists every unrecognized fiscal type in the report, one
// entry per record in report order.
func UnrecognizedValues(r *model.Report) []Unrecognized {
	var out []Unrecognized
	for _, tx := range r.FiscalTransactions {
		if !tx.Type.IsUnrecognized() {
			continue
		}
		u := Unrecognized{Broker: r.Broker, Value: tx.Type.Original()}
		if tx.ExternalID != nil {
			u.ExternalID = *tx.ExternalID
		}
		out = append(out, u)
	}
	return out
}
