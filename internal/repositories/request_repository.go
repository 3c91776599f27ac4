package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"regpay/internal/models/db_models"
	"regpay/pkg/utils"
)

type RequestRepositoryInterface interface {
	// SetPaymentOutcome mirrors a payment outcome onto the owning request:
	// payment_status, payment_id and, on success, the business status.
	SetPaymentOutcome(ctx context.Context, requestType db_models.RequestType, requestID uuid.UUID,
		paymentID uuid.UUID, outcome db_models.RequestPaymentStatus) error

	SearchCompaniesByPhone(ctx context.Context, variants []string) ([]db_models.CompanyRequest, error)
	SearchServicesByPhone(ctx context.Context, variants []string) ([]db_models.ServiceRequest, error)
}

func NewRequestRepository(db *gorm.DB) RequestRepositoryInterface {
	return &RequestRepository{db: db}
}

type RequestRepository struct {
	db *gorm.DB
}

func (r *RequestRepository) SetPaymentOutcome(ctx context.Context, requestType db_models.RequestType,
	requestID uuid.UUID, paymentID uuid.UUID, outcome db_models.RequestPaymentStatus) error {

	updates := map[string]interface{}{
		"payment_status": outcome,
		"payment_id":     paymentID,
	}
	// A paid request moves into processing; a failed payment leaves the
	// business status alone so the customer can retry.
	if outcome == db_models.RequestPaymentPaid {
		updates["status"] = db_models.RequestStatusInProgress
	}

	var res *gorm.DB
	switch requestType {
	case db_models.RequestTypeService:
		res = r.db.WithContext(ctx).Model(&db_models.ServiceRequest{}).
			Where("id = ?", requestID).Updates(updates)
	default:
		res = r.db.WithContext(ctx).Model(&db_models.CompanyRequest{}).
			Where("id = ?", requestID).Updates(updates)
	}

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %s", utils.ErrRequestNotFound, requestType, requestID)
	}
	return nil
}

func (r *RequestRepository) SearchCompaniesByPhone(ctx context.Context, variants []string) ([]db_models.CompanyRequest, error) {
	var requests []db_models.CompanyRequest
	err := r.db.WithContext(ctx).
		Where("customer_phone ILIKE ANY (?)", pq.Array(phonePatterns(variants))).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepository) SearchServicesByPhone(ctx context.Context, variants []string) ([]db_models.ServiceRequest, error) {
	var requests []db_models.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("customer_phone ILIKE ANY (?)", pq.Array(phonePatterns(variants))).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// phonePatterns widens each variant to a partial match: stored numbers
// occasionally carry formatting the variant generator cannot predict.
func phonePatterns(variants []string) []string {
	patterns := make([]string, 0, len(variants))
	for _, v := range variants {
		patterns = append(patterns, "%"+v+"%")
	}
	return patterns
}
