package request

// CreateTradeOperationRequest is the body of a manual trade entry. Decimal
// values are sent as strings to keep their precision.
type CreateTradeOperationRequest struct {
	DateTime   string  `json:"dateTime"`
	Side       string  `json:"side"`
	Symbol     string  `json:"instrumentSymbol"`
	ISIN       *string `json:"isin,omitempty"`
	Price      string  `json:"price"`
	Currency   string  `json:"currency"`
	Quantity   int64   `json:"quantity"`
	Commission *string `json:"commission,omitempty"`
	OrderID    *string `json:"orderId,omitempty"`
	Summ       *string `json:"summ,omitempty"`
}
