package identity

import (
	"context"
	"errors"
	"fmt"
	"steezestore/domain"
	"steezestore/internal/repository/postgres"
	"steezestore/pkg/logger"
	"time"

	"github.com/google/uuid"
)

// CustomerRepository contract interface
type CustomerRepository interface {
	FindByPhone(ctx context.Context, phone string) (domain.Customer, error)
	FindByCID(ctx context.Context, cid string) (domain.Customer, error)
	CreateIfAbsent(ctx context.Context, customer *domain.Customer) error
	SaveIdentity(ctx context.Context, customer *domain.Customer) error
}

type IdentityService struct {
	customerRepo CustomerRepository
	now          func() time.Time
}

func NewIdentityService(customerRepo CustomerRepository) *IdentityService {
	return &IdentityService{
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// Resolve finds the customer an interaction belongs to, or creates one.
// Matching is exact-value only, first match wins: phone (primary or known),
// then client token (cid or known device), then a fresh record. The incoming
// signals are merged into whichever record wins.
//
// A phone seen for the first time on two concurrent requests can still
// produce two records, since phone carries no uniqueness constraint; only
// the cid key is guarded by a conditional insert.
func (s *IdentityService) Resolve(ctx context.Context, cid, phone, name string) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, fmt.Errorf("context error: %w", err)
	}

	customer, found, err := s.lookup(ctx, cid, phone)
	if err != nil {
		return domain.Customer{}, err
	}

	now := s.now()

	if !found {
		assigned := cid
		if assigned == "" {
			assigned = "cust-" + uuid.NewString()
		}
		customer = domain.Customer{CID: assigned}
		customer.MergeIdentity(name, phone, cid, now)

		if err := s.customerRepo.CreateIfAbsent(ctx, &customer); err != nil {
			logger.Error("Failed to create customer", err)
			return domain.Customer{}, err
		}

		// CreateIfAbsent may have handed back a row a concurrent request
		// inserted first; fold the signals into that one.
		if customer.LastSeenAt.Before(now) {
			customer.MergeIdentity(name, phone, cid, now)
			if err := s.customerRepo.SaveIdentity(ctx, &customer); err != nil {
				logger.Error("Failed to save merged identity", err)
				return domain.Customer{}, err
			}
		}

		return customer, nil
	}

	customer.MergeIdentity(name, phone, cid, now)
	if err := s.customerRepo.SaveIdentity(ctx, &customer); err != nil {
		logger.Error("Failed to save merged identity", err)
		return domain.Customer{}, err
	}

	return customer, nil
}

// GetByCID loads a profile without mutating it.
func (s *IdentityService) GetByCID(ctx context.Context, cid string) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, fmt.Errorf("context error: %w", err)
	}

	customer, err := s.customerRepo.FindByCID(ctx, cid)
	if err != nil {
		if errors.Is(err, postgres.ErrCustomerNotFound) {
			return domain.Customer{}, err
		}
		logger.Error("Failed to find customer by cid", err)
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *IdentityService) lookup(ctx context.Context, cid, phone string) (domain.Customer, bool, error) {
	if phone != "" {
		customer, err := s.customerRepo.FindByPhone(ctx, phone)
		if err == nil {
			return customer, true, nil
		}
		if !errors.Is(err, postgres.ErrCustomerNotFound) {
			logger.Error("Failed to find customer by phone", err)
			return domain.Customer{}, false, err
		}
	}

	if cid != "" {
		customer, err := s.customerRepo.FindByCID(ctx, cid)
		if err == nil {
			return customer, true, nil
		}
		if !errors.Is(err, postgres.ErrCustomerNotFound) {
			logger.Error("Failed to find customer by cid", err)
			return domain.Customer{}, false, err
		}
	}

	return domain.Customer{}, false, nil
}
