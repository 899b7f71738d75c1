package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusComplete OrderStatus = "COMPLETE"
	StatusFailed   OrderStatus = "FAILED"
)

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusComplete, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// PrintSize is one of the fixed physical sizes a print can be ordered in.
type PrintSize string

const (
	Size8x12  PrintSize = "8x12"
	Size12x18 PrintSize = "12x18"
	Size16x24 PrintSize = "16x24"
	Size20x30 PrintSize = "20x30"
	Size24x36 PrintSize = "24x36"
)

func IsValidSize(size PrintSize) bool {
	switch size {
	case Size8x12, Size12x18, Size16x24, Size20x30, Size24x36:
		return true
	default:
		return false
	}
}

type LineItem struct {
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      PrintSize `json:"size"`
	Price     float64   `json:"price"`
}

// ShippingDetails is an address snapshot captured at order-creation time.
// It is intentionally decoupled from the user's live address book so that
// historical orders are not altered by later address edits.
type ShippingDetails struct {
	HouseNumber  string `json:"house_number"`
	BuildingName string `json:"building_name"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Pin          string `json:"pin"`
	Contact      string `json:"contact"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          int             `json:"user_id"`
	Products        []LineItem      `json:"products"`
	ShippingDetails ShippingDetails `json:"shipping_details"`
	Status          OrderStatus     `json:"status"`
	Amount          float64         `json:"amount"`
	PaymentID       string          `json:"payment_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	SetPaymentID(ctx context.Context, id string, paymentID string) error
	// UpdateStatusIfPending applies the transition only when the current
	// status is PENDING. It returns ErrOrderAlreadyFinal when the order
	// exists but has already reached a terminal state, so that concurrent
	// duplicate callbacks serialize on the persisted state rather than on
	// an in-process lock.
	UpdateStatusIfPending(ctx context.Context, id string, status OrderStatus) (*Order, error)
	ListCompletedByUserID(ctx context.Context, userID int) ([]Order, error)
}
