package domain

import (
	"context"
	"time"
)

type CartItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      PrintSize `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartRepository interface {
	CreateCartItem(ctx context.Context, item *CartItem) (*CartItem, error)
	GetCartItemByID(ctx context.Context, id int) (*CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID int) (*CartItem, error)
	// FindByUserID returns only rows with a positive quantity; zero or
	// negative quantities are treated as logically absent.
	FindByUserID(ctx context.Context, userID int) ([]CartItem, error)
	DeleteCartItem(ctx context.Context, id int) error
	DeleteAllByUserID(ctx context.Context, userID int) (int64, error)
}
