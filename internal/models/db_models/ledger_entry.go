package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LedgerEntry is the append-only audit trail. Every event handled by the
// reconciliation core produces exactly one entry, successful or not.
// Entries are never updated or deleted; disputes are resolved by reading
// the history, not by rewriting it.
type LedgerEntry struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Nullable: orphan events have no payment to attach to.
	PaymentID *uuid.UUID `gorm:"index"`

	// Encodes source + outcome, e.g. "webhook_kkiapay_approved",
	// "verify_failed_new", "webhook_kkiapay_approved_orphan".
	EventType string `gorm:"size:64;index;not null"`

	EventData datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	CreatedAt int64 `gorm:"autoCreateTime;index"`
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now().Unix()
	return nil
}
