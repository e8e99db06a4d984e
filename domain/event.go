package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.events (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     customer_cid TEXT,
//     device_id    TEXT,
//     event_type   TEXT NOT NULL,
//     product_id   BIGINT,
//     data         JSONB,
//     size         TEXT DEFAULT 'NOT_SURE',
//     ts           TIMESTAMPTZ DEFAULT NOW()
// );
// CREATE UNIQUE INDEX idx_events_like_once ON events (customer_cid, event_type, product_id);

const (
	EventLike         = "LIKE"
	EventOrderCreated = "ORDER_CREATED"
)

// Event is an append-only engagement log entry. The unique index across
// (customer_cid, event_type, product_id) is the sole mechanism preventing a
// LIKE from being counted twice; rows without a product id never collide
// because NULLs compare distinct.
type Event struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"-"`
	CustomerCID string         `gorm:"column:customer_cid;uniqueIndex:idx_events_like_once" json:"customerCid"`
	DeviceID    string         `gorm:"column:device_id;type:text" json:"deviceId,omitempty"`
	EventType   string         `gorm:"column:event_type;uniqueIndex:idx_events_like_once;not null" json:"type"`
	ProductID   *uint64        `gorm:"column:product_id;uniqueIndex:idx_events_like_once" json:"productId,omitempty"`
	Data        datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	Size        string         `gorm:"column:size;type:text;default:'NOT_SURE'" json:"size"`
	TS          time.Time      `gorm:"column:ts" json:"ts"`
}

func (Event) TableName() string {
	return "events"
}
