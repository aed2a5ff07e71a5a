package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrFiscalTransactionNotFound indicates that a fiscal transaction with the given ID does not exist.
	ErrFiscalTransactionNotFound = errors.New("fiscal transaction not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrUnknownBroker indicates that an upload named a broker with no decoder.
	ErrUnknownBroker = errors.New("unknown broker")

	// ErrReportParsing is matched by every ParseError.
	ErrReportParsing = errors.New("failed to parse report")

	// ErrMissingReportFile indicates that an upload request carried no file part.
	ErrMissingReportFile = errors.New("report file is required")

	// ErrInvalidDateRange indicates an end date before the start date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// Validation errors for required fields
	ErrInvalidPortfolioID = errors.New("portfolio ID is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Report operation errors
	ErrFailedToPersistReport     = errors.New("failed to persist report")
	ErrFailedToRetrievePortfolio = errors.New("failed to retrieve portfolio")
	ErrFailedToRetrieveUploads   = errors.New("failed to retrieve report uploads")
	ErrFailedToRetrieveActivity  = errors.New("failed to retrieve activity")
	ErrFailedToReadReport        = errors.New("failed to read report")
	ErrFailedToCreateTrade       = errors.New("failed to create trade operation")
	ErrFailedToCreateFiscal      = errors.New("failed to create fiscal transaction")
	ErrFailedToDeleteFiscal      = errors.New("failed to delete fiscal transaction")
	ErrFailedToRetrieveTrades    = errors.New("failed to retrieve trade operations")
	ErrFailedToRetrieveFiscal    = errors.New("failed to retrieve fiscal transactions")
	ErrFailedToGetVersionInfo    = errors.New("failed to get version information")
)
