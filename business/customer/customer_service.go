package customer

import (
	"context"
	"fmt"
	"steezestore/domain"
	"steezestore/pkg/logger"
	"strings"
	"time"
)

const recentCustomersLimit = 200

// CustomerRepository contract interface
type CustomerRepository interface {
	FindByCID(ctx context.Context, cid string) (domain.Customer, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Customer, error)
}

// OrdersRepository contract interface
type OrdersRepository interface {
	FindByCustomerID(ctx context.Context, customerID uint64) ([]domain.Order, error)
}

// TimelineEntry renders one order as an activity item, e.g. ORDER_PENDING.
type TimelineEntry struct {
	Type string    `json:"type"`
	TS   time.Time `json:"ts"`
}

type Profile struct {
	Profile  domain.Customer `json:"profile"`
	Rollups  domain.Rollups  `json:"rollups"`
	Timeline []TimelineEntry `json:"timeline"`
}

type CustomerService struct {
	customerRepo CustomerRepository
	orderRepo    OrdersRepository
}

func NewCustomerService(customerRepo CustomerRepository, orderRepo OrdersRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
	}
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	customers, err := s.customerRepo.FindRecent(ctx, recentCustomersLimit)
	if err != nil {
		logger.Error("Failed to list customers", err)
		return nil, err
	}

	return customers, nil
}

// GetProfile returns the customer record, its rollup block and the order
// timeline, with orders joined through the customer reference stored at
// order creation.
func (s *CustomerService) GetProfile(ctx context.Context, cid string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, fmt.Errorf("context error: %w", err)
	}

	profile, err := s.customerRepo.FindByCID(ctx, cid)
	if err != nil {
		return Profile{}, err
	}

	orders, err := s.orderRepo.FindByCustomerID(ctx, profile.ID)
	if err != nil {
		logger.Error("Failed to load customer orders", err, "cid", cid)
		return Profile{}, err
	}

	timeline := make([]TimelineEntry, 0, len(orders))
	for _, o := range orders {
		timeline = append(timeline, TimelineEntry{
			Type: "ORDER_" + strings.ToUpper(o.Status),
			TS:   o.CreatedAt,
		})
	}

	return Profile{
		Profile:  profile,
		Rollups:  profile.RollupView(),
		Timeline: timeline,
	}, nil
}
