package apperrors

import (
	"fmt"
	"strings"
)

// ParseErrorKind classifies a report decoding failure.
type ParseErrorKind string

const (
	// ParseErrorIO is a failure to read the input stream.
	ParseErrorIO ParseErrorKind = "io"
	// ParseErrorFormat is a malformed row or document.
	ParseErrorFormat ParseErrorKind = "format"
	// ParseErrorUnknownHeader is a data row seen before any recognized header row.
	ParseErrorUnknownHeader ParseErrorKind = "unknown_header"
)

// ParseError describes why a broker report could not be decoded.
// Line is the 1-based input line for line-oriented formats and 0 otherwise.
type ParseError struct {
	Kind   ParseErrorKind
	Broker string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s report: %s error", e.Broker, e.Kind)
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrReportParsing) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrReportParsing }

// NewParseError builds a ParseError.
func NewParseError(kind ParseErrorKind, broker string, line int, err error) *ParseError {
	return &ParseError{Kind: kind, Broker: broker, Line: line, Err: err}
}
