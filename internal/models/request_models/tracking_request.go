package request_models

type TrackingRequest struct {
	Phone string `json:"phone" binding:"required"`
}
