package domain

import (
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.customers (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     cid              TEXT NOT NULL UNIQUE,
//     latest_name      TEXT DEFAULT '',
//     aliases          JSONB DEFAULT '[]',
//     phones           JSONB DEFAULT '[]',
//     primary_phone    TEXT DEFAULT '',
//     device_ids       JSONB DEFAULT '[]',
//     first_seen_at    TIMESTAMPTZ,
//     last_seen_at     TIMESTAMPTZ,
//     last_order_at    TIMESTAMPTZ,
//     order_count      BIGINT DEFAULT 0,
//     total_spent      NUMERIC DEFAULT 0,
//     avg_basket_size  NUMERIC DEFAULT 0,
//     like_count       BIGINT DEFAULT 0,
//     top_categories   JSONB DEFAULT '[]',
//     top_products     JSONB DEFAULT '[]',
//     created_at       TIMESTAMPTZ DEFAULT NOW(),
//     updated_at       TIMESTAMPTZ DEFAULT NOW()
// );

const (
	TopCategoriesLimit = 20
	TopProductsLimit   = 50
)

// TopCategory is one leaderboard entry on a customer profile.
type TopCategory struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TopProduct struct {
	ProductID uint64 `json:"productId,omitempty"`
	Title     string `json:"title"`
	Count     int    `json:"count"`
}

// Customer is the canonical record for one resolved real-world customer.
// cid is immutable once assigned; aliases/phones/device_ids are sets kept
// in insertion order; primary_phone keeps the first phone ever seen.
type Customer struct {
	ID           uint64                      `gorm:"primaryKey;autoIncrement" json:"-"`
	CID          string                      `gorm:"column:cid;uniqueIndex;not null" json:"cid"`
	LatestName   string                      `gorm:"column:latest_name;type:text;default:''" json:"latestName"`
	Aliases      datatypes.JSONSlice[string] `gorm:"column:aliases" json:"aliases"`
	Phones       datatypes.JSONSlice[string] `gorm:"column:phones" json:"phones"`
	PrimaryPhone string                      `gorm:"column:primary_phone;type:text;default:''" json:"primaryPhone"`
	DeviceIDs    datatypes.JSONSlice[string] `gorm:"column:device_ids" json:"deviceIds"`

	FirstSeenAt time.Time  `gorm:"column:first_seen_at" json:"firstSeenAt"`
	LastSeenAt  time.Time  `gorm:"column:last_seen_at" json:"lastSeenAt"`
	LastOrderAt *time.Time `gorm:"column:last_order_at" json:"lastOrderAt,omitempty"`

	OrderCount    int     `gorm:"column:order_count;default:0" json:"orderCount"`
	TotalSpent    float64 `gorm:"column:total_spent;type:numeric;default:0" json:"totalSpent"`
	AvgBasketSize float64 `gorm:"column:avg_basket_size;type:numeric;default:0" json:"avgBasketSize"`
	LikeCount     int     `gorm:"column:like_count;default:0" json:"likeCount"`

	TopCategories datatypes.JSONSlice[TopCategory] `gorm:"column:top_categories" json:"topCategories"`
	TopProducts   datatypes.JSONSlice[TopProduct]  `gorm:"column:top_products" json:"topProducts"`

	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// OrderLine carries the per-line-item signals that feed the leaderboards.
type OrderLine struct {
	Category  string
	ProductID uint64
	Title     string
	Qty       int
}

// MergeIdentity folds partial identity signals into the record with set
// semantics. Applying the same signals twice is a no-op apart from
// last_seen_at, which is always refreshed.
func (c *Customer) MergeIdentity(name, phone, deviceID string, now time.Time) {
	if n := strings.TrimSpace(name); n != "" {
		c.LatestName = n
		c.Aliases = appendUnique(c.Aliases, n)
	}
	if p := strings.TrimSpace(phone); p != "" {
		c.Phones = appendUnique(c.Phones, p)
		if c.PrimaryPhone == "" {
			c.PrimaryPhone = p
		}
	}
	if d := strings.TrimSpace(deviceID); d != "" {
		c.DeviceIDs = appendUnique(c.DeviceIDs, d)
	}
	if c.FirstSeenAt.IsZero() {
		c.FirstSeenAt = now
	}
	c.LastSeenAt = now
}

// RecordOrder applies one order to the rollups and leaderboards. The basket
// average is maintained incrementally so no order history is re-scanned:
//
//	newAvg = (prevAvg*prevCount + itemCount) / (prevCount + 1)
//
// rounded to two decimals, non-finite results clamped to 0.
func (c *Customer) RecordOrder(orderTotal float64, itemCount int, when time.Time, lines []OrderLine) {
	prevCount := c.OrderCount
	c.OrderCount++
	c.TotalSpent += orderTotal

	var newAvg float64
	if prevCount <= 0 {
		newAvg = float64(itemCount)
	} else {
		newAvg = (c.AvgBasketSize*float64(prevCount) + float64(itemCount)) / float64(prevCount+1)
	}
	if math.IsNaN(newAvg) || math.IsInf(newAvg, 0) {
		newAvg = 0
	}
	c.AvgBasketSize = math.Round(newAvg*100) / 100

	c.LastOrderAt = &when
	c.LastSeenAt = when

	for _, line := range lines {
		qty := line.Qty
		if qty <= 0 {
			qty = 1
		}
		if line.Category != "" {
			c.BumpCategory(line.Category, qty)
		}
		if line.ProductID != 0 || line.Title != "" {
			c.BumpProduct(line.ProductID, line.Title, qty)
		}
	}
}

// BumpCategory adds qty to the category's count, then re-sorts and truncates
// the leaderboard. The sort is stable so ties keep insertion order.
func (c *Customer) BumpCategory(category string, qty int) {
	found := false
	for i := range c.TopCategories {
		if c.TopCategories[i].Category == category {
			c.TopCategories[i].Count += qty
			found = true
			break
		}
	}
	if !found {
		c.TopCategories = append(c.TopCategories, TopCategory{Category: category, Count: qty})
	}

	entries := []TopCategory(c.TopCategories)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	if len(entries) > TopCategoriesLimit {
		entries = entries[:TopCategoriesLimit]
	}
	c.TopCategories = entries
}

// BumpProduct matches an entry by product id when both sides have one,
// falling back to the persisted title.
func (c *Customer) BumpProduct(productID uint64, title string, qty int) {
	found := false
	for i := range c.TopProducts {
		p := c.TopProducts[i]
		if (productID != 0 && p.ProductID == productID) || (title != "" && p.Title == title) {
			c.TopProducts[i].Count += qty
			found = true
			break
		}
	}
	if !found {
		c.TopProducts = append(c.TopProducts, TopProduct{ProductID: productID, Title: title, Count: qty})
	}

	entries := []TopProduct(c.TopProducts)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	if len(entries) > TopProductsLimit {
		entries = entries[:TopProductsLimit]
	}
	c.TopProducts = entries
}

// Rollups is the nested aggregate block exposed on profile responses.
type Rollups struct {
	OrderCount    int     `json:"orderCount"`
	TotalSpent    float64 `json:"totalSpent"`
	AvgBasketSize float64 `json:"avgBasketSize"`
	LikeCount     int     `json:"likeCount"`
}

func (c *Customer) RollupView() Rollups {
	return Rollups{
		OrderCount:    c.OrderCount,
		TotalSpent:    c.TotalSpent,
		AvgBasketSize: c.AvgBasketSize,
		LikeCount:     c.LikeCount,
	}
}

func appendUnique(list datatypes.JSONSlice[string], value string) datatypes.JSONSlice[string] {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
