package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.products (
//     id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     title      TEXT NOT NULL,
//     category   TEXT DEFAULT 'Standard',
//     price      NUMERIC NOT NULL,
//     images     JSONB DEFAULT '[]',
//     likes      BIGINT DEFAULT 0,
//     sizes      JSONB DEFAULT '["XL","XXL","XXXL"]',
//     created_at TIMESTAMPTZ DEFAULT NOW(),
//     updated_at TIMESTAMPTZ DEFAULT NOW()
// );

const DefaultCategory = "Standard"

type ProductImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Product is a catalog entry. likes counts distinct liking customers and is
// only ever moved through the engagement dedup path.
type Product struct {
	ID        uint64                            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string                            `gorm:"column:title;type:text;not null" json:"title"`
	Category  string                            `gorm:"column:category;type:text;default:'Standard'" json:"category"`
	Price     float64                           `gorm:"column:price;type:numeric;not null" json:"price"`
	Images    datatypes.JSONSlice[ProductImage] `gorm:"column:images" json:"images"`
	Likes     int                               `gorm:"column:likes;default:0" json:"likes"`
	Sizes     datatypes.JSONSlice[string]       `gorm:"column:sizes" json:"sizes"`
	CreatedAt time.Time                         `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time                         `gorm:"column:updated_at" json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// CategoryCount is one row of the catalog-by-category grouping.
type CategoryCount struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
}
