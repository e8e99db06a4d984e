package postgres

import (
	"context"
	"errors"
	"fmt"
	"steezestore/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{
		DB: db,
	}
}

// FindByPhone matches either the primary phone or any phone in the known set.
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, fmt.Errorf("context error: %w", err)
	}

	var customer domain.Customer

	err := r.DB.WithContext(ctx).
		Where("primary_phone = ? OR phones @> to_jsonb(?::text)", phone, phone).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to find customer by phone: %w", err)
	}

	return customer, nil
}

// FindByCID matches the assigned cid or any known device token.
func (r *CustomerRepository) FindByCID(ctx context.Context, cid string) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, fmt.Errorf("context error: %w", err)
	}

	var customer domain.Customer

	err := r.DB.WithContext(ctx).
		Where("cid = ? OR device_ids @> to_jsonb(?::text)", cid, cid).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to find customer by cid: %w", err)
	}

	return customer, nil
}

// CreateIfAbsent inserts the customer keyed on the unique cid column. When a
// concurrent request already inserted the same cid, the existing row is
// loaded instead, so two racing first interactions converge on one record.
func (r *CustomerRepository) CreateIfAbsent(ctx context.Context, customer *domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cid"}},
			DoNothing: true,
		}).
		Create(customer)
	if result.Error != nil {
		return fmt.Errorf("failed to create customer: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := r.FindByCID(ctx, customer.CID)
		if err != nil {
			return fmt.Errorf("failed to load existing customer after conflict: %w", err)
		}
		*customer = existing
	}

	return nil
}

// SaveIdentity persists the columns MergeIdentity touches.
func (r *CustomerRepository) SaveIdentity(ctx context.Context, customer *domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updates := map[string]interface{}{
		"latest_name":   customer.LatestName,
		"aliases":       customer.Aliases,
		"phones":        customer.Phones,
		"primary_phone": customer.PrimaryPhone,
		"device_ids":    customer.DeviceIDs,
		"first_seen_at": customer.FirstSeenAt,
		"last_seen_at":  customer.LastSeenAt,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", customer.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to save customer identity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// ApplyOrderRollup persists one order's effect on the rollups in a single
// UPDATE. The counters and the basket average are SQL expressions over the
// stored values, so concurrent orders serialize at the row without lost
// updates. The leaderboards are written from the caller's computed value.
func (r *CustomerRepository) ApplyOrderRollup(ctx context.Context, customer *domain.Customer, orderTotal float64, itemCount int, when time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updates := map[string]interface{}{
		"order_count": gorm.Expr("order_count + 1"),
		"total_spent": gorm.Expr("total_spent + ?", orderTotal),
		"avg_basket_size": gorm.Expr(
			"ROUND((CASE WHEN order_count = 0 THEN ? ELSE (avg_basket_size * order_count + ?) / (order_count + 1) END)::numeric, 2)",
			float64(itemCount), float64(itemCount),
		),
		"last_order_at":  when,
		"last_seen_at":   when,
		"top_categories": customer.TopCategories,
		"top_products":   customer.TopProducts,
	}

	result := r.DB.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", customer.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to apply order rollup: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// BumpLikeCount atomically increments the engagement counter.
func (r *CustomerRepository) BumpLikeCount(ctx context.Context, id uint64, when time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"like_count":   gorm.Expr("like_count + 1"),
		"last_seen_at": when,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to bump like count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// FindRecent returns the most recently updated profiles for the dashboard.
func (r *CustomerRepository) FindRecent(ctx context.Context, limit int) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var customers []domain.Customer
	err := r.DB.WithContext(ctx).Order("updated_at DESC").Limit(limit).Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find customers: %w", err)
	}

	return customers, nil
}
