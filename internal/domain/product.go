package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	// Price is the base price for the catalog's reference sizing area.
	// Per-size line prices are derived from it by the pricing engine.
	Price     float64   `json:"price"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductRepository interface {
	GetProductByID(ctx context.Context, id int) (*Product, error)
}
