package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Broker identifies a supported external report provider.
type Broker string

const (
	BrokerExante         Broker = "Exante"
	BrokerFreedomfinance Broker = "Freedomfinance"
)

// Brokers lists every supported broker in a stable order.
var Brokers = []Broker{BrokerExante, BrokerFreedomfinance}

// ParseBroker resolves a broker name case-insensitively.
func ParseBroker(s string) (Broker, error) {
	for _, b := range Brokers {
		if strings.EqualFold(string(b), strings.TrimSpace(s)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown broker: %q", s)
}

func (b Broker) String() string { return string(b) }

func (b *Broker) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBroker(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b Broker) Value() (driver.Value, error) { return string(b), nil }

func (b *Broker) Scan(src any) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	parsed, err := ParseBroker(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// OperationSource records where a canonical record came from. Together with the
// external id it forms the natural key used for deduplication.
type OperationSource string

const (
	SourceExanteReport         OperationSource = "ExanteReport"
	SourceFreedomfinanceReport OperationSource = "FreedomfinanceReport"
	SourceManual               OperationSource = "Manual"
)

// SourceFor returns the operation source of reports uploaded for broker b.
func SourceFor(b Broker) OperationSource {
	switch b {
	case BrokerExante:
		return SourceExanteReport
	case BrokerFreedomfinance:
		return SourceFreedomfinanceReport
	default:
		return SourceManual
	}
}

func (s OperationSource) Value() (driver.Value, error) { return string(s), nil }

func (s *OperationSource) Scan(src any) error {
	str, err := scanString(src)
	if err != nil {
		return err
	}
	switch OperationSource(str) {
	case SourceExanteReport, SourceFreedomfinanceReport, SourceManual:
		*s = OperationSource(str)
		return nil
	}
	return fmt.Errorf("unknown operation source: %q", str)
}

// TradeSide is the direction of a trade. Quantities and settled sums are always
// positive; the side carries the direction.
type TradeSide string

const (
	SideBuy  TradeSide = "Buy"
	SideSell TradeSide = "Sell"
)

// ParseTradeSide accepts "buy"/"sell" in any case.
func ParseTradeSide(s string) (TradeSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	}
	return "", fmt.Errorf("unknown trade side: %q", s)
}

// Sign is the direction of the cash movement caused by the trade:
// buying spends cash (-1), selling receives it (+1).
func (s TradeSide) Sign() int64 {
	if s == SideBuy {
		return -1
	}
	return 1
}

func (s TradeSide) Value() (driver.Value, error) { return string(s), nil }

func (s *TradeSide) Scan(src any) error {
	str, err := scanString(src)
	if err != nil {
		return err
	}
	side, err := ParseTradeSide(str)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

func (s *TradeSide) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	side, err := ParseTradeSide(str)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

func scanString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", fmt.Errorf("cannot scan %T into string", src)
}
