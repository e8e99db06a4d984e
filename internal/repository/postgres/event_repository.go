package postgres

import (
	"context"
	"errors"
	"fmt"
	"steezestore/domain"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		DB: db,
	}
}

// InsertOnce appends the event, relying on the unique index across
// (customer_cid, event_type, product_id). A duplicate-key violation is the
// expected idempotent-retry outcome, reported as created=false rather than
// an error; anything else is a genuine storage failure.
func (r *EventRepository) InsertOnce(ctx context.Context, event *domain.Event) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Create(event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert event: %w", err)
	}

	return true, nil
}

// Append writes a log-only event where duplicates are not a concern.
func (r *EventRepository) Append(ctx context.Context, event *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}
