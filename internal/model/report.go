package model

import "time"

// Report is the normalized output of one broker export.
type Report struct {
	Broker             Broker
	TradeOperations    []TradeOperation
	FiscalTransactions []FiscalTransaction
}

// ReportUpload records a single uploaded report file.
type ReportUpload struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	Label       string    `json:"label"`
	Broker      Broker    `json:"broker"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UploadResult summarizes a persisted upload. The counts are the number of rows
// inserted or refreshed.
type UploadResult struct {
	UploadID           string   `json:"uploadId"`
	Broker             Broker   `json:"broker"`
	TradeOperations    int64    `json:"tradeOperations"`
	FiscalTransactions int64    `json:"fiscalTransactions"`
	Unrecognized       []string `json:"unrecognized"`
}
