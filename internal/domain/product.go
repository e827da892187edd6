package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category represents a product category in the storefront.
// Categories are created on demand by the catalog importer when a feed
// record carries a label that has not been seen before; they are never
// deleted by the importer.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"` // Pointer for nullable fields, omitempty to exclude if nil
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product represents a product in the catalog.
// Price uses decimal.Decimal rather than float64 so money survives
// round-trips through the database without drift.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"` // Sanitized plain text, capped at 4000 runes
	Price         decimal.Decimal `json:"price"`
	StockQuantity int32           `json:"stock_quantity"`
	CategoryID    *int64          `json:"category_id,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
