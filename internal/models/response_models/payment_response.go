package response_models

// ReconcileResponse is what webhooks and verify calls get back. It is
// deliberately 200-friendly: even a logically-orphaned event answers
// success=true so the provider does not enter a retry storm over
// something it cannot fix.
type ReconcileResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	PaymentStatus string `json:"paymentStatus"`
	RequestStatus string `json:"requestStatus,omitempty"`
	Warning       string `json:"warning,omitempty"`
}
