package response_models

// TrackedRequest carries the minimal fields a customer needs to follow
// their own request. No PII beyond what the owner already knows from
// having typed their own phone number.
type TrackedRequest struct {
	ID             string `json:"id"`
	Type           string `json:"type"` // company | service
	Label          string `json:"label"`
	TrackingNumber string `json:"trackingNumber"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	CreatedAt      int64  `json:"createdAt"`
}
