package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.orders (
//     id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     customer_id    BIGINT REFERENCES customers(id),
//     customer_name  TEXT NOT NULL,
//     customer_phone TEXT DEFAULT '',
//     items          JSONB NOT NULL DEFAULT '[]',
//     total          NUMERIC DEFAULT 0,
//     status         TEXT DEFAULT 'Pending',
//     source         TEXT DEFAULT 'WhatsApp',
//     created_at     TIMESTAMPTZ DEFAULT NOW(),
//     updated_at     TIMESTAMPTZ DEFAULT NOW()
// );

// Order statuses move forward only: Pending -> Shipped -> Delivered.
const (
	OrderStatusPending   = "Pending"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
)

// StatusRank gives each status its position in the forward-only chain.
// Unknown statuses rank as -1.
func StatusRank(status string) int {
	switch status {
	case OrderStatusPending:
		return 0
	case OrderStatusShipped:
		return 1
	case OrderStatusDelivered:
		return 2
	default:
		return -1
	}
}

// Sizes accepted on order line items. Products themselves only carry the
// first three; NOT_SURE exists so checkout can defer the choice to the
// WhatsApp conversation.
const (
	SizeXL      = "XL"
	SizeXXL     = "XXL"
	SizeXXXL    = "XXXL"
	SizeNotSure = "NOT_SURE"
)

var ProductSizes = []string{SizeXL, SizeXXL, SizeXXXL}

type OrderItem struct {
	ProductID uint64  `json:"productId,omitempty"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Size      string  `json:"size"`
}

// Order is immutable once created except for status.
type Order struct {
	ID            uint64                         `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    uint64                         `gorm:"column:customer_id;index" json:"-"`
	CustomerName  string                         `gorm:"column:customer_name;type:text;not null" json:"customerName"`
	CustomerPhone string                         `gorm:"column:customer_phone;type:text;default:''" json:"customerPhone"`
	Items         datatypes.JSONSlice[OrderItem] `gorm:"column:items" json:"items"`
	Total         float64                        `gorm:"column:total;type:numeric;default:0" json:"total"`
	Status        string                         `gorm:"column:status;type:text;default:'Pending'" json:"status"`
	Source        string                         `gorm:"column:source;type:text;default:'WhatsApp'" json:"source"`
	CreatedAt     time.Time                      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time                      `gorm:"column:updated_at" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}
