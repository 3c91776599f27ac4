package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Terminal reports whether no further transition is expected for s
// under normal operation. A later authoritative event may still
// correct approved into failed (charge-back).
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusFailed
}

type RequestType string

const (
	RequestTypeCompany RequestType = "company"
	RequestTypeService RequestType = "service"
)

// Payment is one attempted or completed transaction. At most one row
// exists per provider transaction id; the unique index is what keeps two
// concurrent webhook deliveries from creating duplicates.
type Payment struct {
	BaseModel
	TransactionID string `gorm:"uniqueIndex;size:128;not null"`
	Provider      string `gorm:"index;size:32"`

	// Owning request. Nullable: a webhook can race ahead of the client's
	// own payment-record creation, in which case the event itself must
	// carry enough context to attach later.
	RequestID   *uuid.UUID  `gorm:"index"`
	RequestType RequestType `gorm:"size:16"`

	AmountMinor int64
	Currency    string        `gorm:"size:3"` // ISO 4217, XOF in practice
	Status      PaymentStatus `gorm:"size:16;index"`

	// Denormalized snapshot for notifications, captured at creation and
	// never re-derived.
	CustomerEmail  string `gorm:"size:255"`
	CustomerName   string `gorm:"size:255"`
	CustomerPhone  string `gorm:"size:32"`
	TrackingNumber string `gorm:"size:64"`

	// Attribution from the bearer token on client-initiated verify calls.
	CreatedBy *uuid.UUID

	PaidAt   *int64
	FailedAt *int64

	// Raw provider payload snapshot from the event that created the row.
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
