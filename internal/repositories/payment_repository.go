package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"regpay/internal/models/db_models"
)

type PaymentRepositoryInterface interface {
	FindByTransactionID(ctx context.Context, transactionID string) (*db_models.Payment, error)
	Create(ctx context.Context, payment *db_models.Payment) error
	// UpdateStatus applies a conditional transition: the row moves from
	// `from` to `to` only if it still holds `from` at write time. Returns
	// false when a concurrent writer got there first.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to db_models.PaymentStatus) (bool, error)
}

func NewPaymentRepository(db *gorm.DB) PaymentRepositoryInterface {
	return &PaymentRepository{db: db}
}

type PaymentRepository struct {
	db *gorm.DB
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Create(ctx context.Context, payment *db_models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to db_models.PaymentStatus) (bool, error) {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	switch to {
	case db_models.PaymentStatusApproved:
		updates["paid_at"] = now
	case db_models.PaymentStatusFailed:
		updates["failed_at"] = now
	}

	res := r.db.WithContext(ctx).Model(&db_models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
