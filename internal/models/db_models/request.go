package db_models

import (
	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusRejected   RequestStatus = "rejected"
)

type RequestPaymentStatus string

const (
	RequestPaymentUnpaid RequestPaymentStatus = "unpaid"
	RequestPaymentPaid   RequestPaymentStatus = "paid"
	RequestPaymentFailed RequestPaymentStatus = "failed"
)

// RequestBase carries the fields shared by both request variants. The
// reconciliation core is the only writer of PaymentStatus/PaymentID;
// Status past in_progress belongs to the back-office workflow.
type RequestBase struct {
	BaseModel
	TrackingNumber string        `gorm:"uniqueIndex;size:64"`
	Status         RequestStatus `gorm:"size:32;index"`

	CustomerName  string `gorm:"size:255"`
	CustomerEmail string `gorm:"size:255"`
	CustomerPhone string `gorm:"index;size:32"`

	AmountMinor int64
	Currency    string `gorm:"size:3"`

	PaymentStatus RequestPaymentStatus `gorm:"size:16;index"`
	// Payment whose transaction caused the last status change. Stale once
	// a newer transaction supersedes it (retried payment).
	PaymentID *uuid.UUID `gorm:"index"`
}

// CompanyRequest is a business-incorporation request.
type CompanyRequest struct {
	RequestBase
	CompanyName string `gorm:"size:255"`
	CompanyType string `gorm:"size:64"` // SARL, SARLU, SAS, ...
}

// ServiceRequest is an ancillary formality request (RCCM extract,
// declaration, amendment, ...).
type ServiceRequest struct {
	RequestBase
	ServiceName string `gorm:"size:255"`
}
