package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"regpay/internal/models/db_models"
)

type LedgerRepositoryInterface interface {
	Append(ctx context.Context, entry *db_models.LedgerEntry) error
	// HasEntry reports whether the payment already carries an entry of the
	// given type. This is the notification dedup scan: "was an approved
	// notification ever recorded" is answered from the ledger, not from a
	// mutable flag on the payment row.
	HasEntry(ctx context.Context, paymentID uuid.UUID, eventType string) (bool, error)
	ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]db_models.LedgerEntry, error)
}

func NewLedgerRepository(db *gorm.DB) LedgerRepositoryInterface {
	return &LedgerRepository{db: db}
}

type LedgerRepository struct {
	db *gorm.DB
}

func (r *LedgerRepository) Append(ctx context.Context, entry *db_models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *LedgerRepository) HasEntry(ctx context.Context, paymentID uuid.UUID, eventType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db_models.LedgerEntry{}).
		Where("payment_id = ? AND event_type = ?", paymentID, eventType).
		Count(&count).Error
	return count > 0, err
}

// ListByPayment returns the full history for one payment, oldest first.
// Dispute resolution and replay tooling read this; nothing in the hot
// path does.
func (r *LedgerRepository) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]db_models.LedgerEntry, error) {
	var entries []db_models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
