package request_models

// VerifyPaymentRequest is the client-initiated pull alternative to the
// provider webhook. RequestID/RequestType/AmountMinor are only needed
// when the payment record does not exist yet.
type VerifyPaymentRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
	Provider      string `json:"provider"`
	RequestID     string `json:"requestId"`
	RequestType   string `json:"requestType"`
	AmountMinor   int64  `json:"amount"`
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
}
