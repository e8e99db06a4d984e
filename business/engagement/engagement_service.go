package engagement

import (
	"context"
	"fmt"
	"steezestore/domain"
	"steezestore/pkg/logger"
	"time"

	"gorm.io/datatypes"
)

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	IncrementLikes(ctx context.Context, id uint64) (int, error)
}

// EventRepository guards the at-most-once insert.
type EventRepository interface {
	InsertOnce(ctx context.Context, event *domain.Event) (bool, error)
}

// IdentityService resolves interactions to customer records.
type IdentityService interface {
	Resolve(ctx context.Context, cid, phone, name string) (domain.Customer, error)
}

// CustomerRepository is the slice of the customer store engagement touches.
type CustomerRepository interface {
	BumpLikeCount(ctx context.Context, id uint64, when time.Time) error
}

type EngagementService struct {
	productRepo  ProductRepository
	eventRepo    EventRepository
	identity     IdentityService
	customerRepo CustomerRepository
	now          func() time.Time
}

func NewEngagementService(productRepo ProductRepository, eventRepo EventRepository, identity IdentityService, customerRepo CustomerRepository) *EngagementService {
	return &EngagementService{
		productRepo:  productRepo,
		eventRepo:    eventRepo,
		identity:     identity,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// RecordLike counts a like at most once per (customer, product) pair.
//
// The insert of the LIKE event is optimistic: the store's unique index
// decides the race. Exactly one of two concurrent first-likes wins the
// insert and increments the counter; the loser gets the current count back
// with firstTime=false, which is the normal double-click path and not an
// error.
func (s *EngagementService) RecordLike(ctx context.Context, cid string, productID uint64) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return 0, false, err
	}

	customer, err := s.identity.Resolve(ctx, cid, "", "")
	if err != nil {
		logger.Error("Failed to resolve customer for like", err)
		return 0, false, err
	}

	pid := productID
	event := domain.Event{
		CustomerCID: customer.CID,
		DeviceID:    cid,
		EventType:   domain.EventLike,
		ProductID:   &pid,
		Data:        datatypes.JSON(fmt.Sprintf(`{"productId":%d}`, productID)),
		Size:        domain.SizeNotSure,
		TS:          s.now(),
	}

	created, err := s.eventRepo.InsertOnce(ctx, &event)
	if err != nil {
		logger.Error("Failed to record like event", err, "cid", customer.CID, "product_id", productID)
		return 0, false, err
	}

	if !created {
		return product.Likes, false, nil
	}

	likes, err := s.productRepo.IncrementLikes(ctx, productID)
	if err != nil {
		logger.Error("Failed to increment product likes", err, "product_id", productID)
		return 0, false, err
	}

	if err := s.customerRepo.BumpLikeCount(ctx, customer.ID, event.TS); err != nil {
		logger.Warn("Failed to bump customer like count", err, "cid", customer.CID)
	}

	return likes, true, nil
}
