package services

import (
	"context"
	"fmt"
	"sort"

	"regpay/internal/models/db_models"
	"regpay/internal/models/response_models"
	"regpay/internal/repositories"
	"regpay/pkg/utils"
)

type TrackingServiceInterface interface {
	// TrackByPhone resolves a free-form phone string to the requests it
	// owns, merged across both request types, newest first.
	TrackByPhone(ctx context.Context, phone string) ([]response_models.TrackedRequest, error)
}

type trackingService struct {
	requests repositories.RequestRepositoryInterface
}

func NewTrackingService(requests repositories.RequestRepositoryInterface) TrackingServiceInterface {
	return &trackingService{requests: requests}
}

func (s *trackingService) TrackByPhone(ctx context.Context, phone string) ([]response_models.TrackedRequest, error) {
	variants, err := utils.PhoneVariants(phone)
	if err != nil {
		return nil, err
	}

	companies, err := s.requests.SearchCompaniesByPhone(ctx, variants)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	services, err := s.requests.SearchServicesByPhone(ctx, variants)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	// Merge, dedup by record id (a number can match several variants),
	// newest first across both types.
	seen := make(map[string]struct{}, len(companies)+len(services))
	merged := make([]response_models.TrackedRequest, 0, len(companies)+len(services))

	for _, c := range companies {
		id := c.ID.String()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, response_models.TrackedRequest{
			ID:             id,
			Type:           string(db_models.RequestTypeCompany),
			Label:          c.CompanyName,
			TrackingNumber: c.TrackingNumber,
			Status:         string(c.Status),
			PaymentStatus:  string(c.PaymentStatus),
			CreatedAt:      c.CreatedAt,
		})
	}
	for _, r := range services {
		id := r.ID.String()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, response_models.TrackedRequest{
			ID:             id,
			Type:           string(db_models.RequestTypeService),
			Label:          r.ServiceName,
			TrackingNumber: r.TrackingNumber,
			Status:         string(r.Status),
			PaymentStatus:  string(r.PaymentStatus),
			CreatedAt:      r.CreatedAt,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt > merged[j].CreatedAt
	})

	return merged, nil
}
