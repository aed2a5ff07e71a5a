package request

// CreateFiscalTransactionRequest is the body of a manual fiscal entry.
// Commission, when present, is in the same currency as the amount.
type CreateFiscalTransactionRequest struct {
	DateTime   string  `json:"dateTime"`
	Symbol     *string `json:"symbol,omitempty"`
	Amount     string  `json:"amount"`
	Currency   string  `json:"currency"`
	Type       string  `json:"operationType"`
	Commission *string `json:"commission,omitempty"`
}
