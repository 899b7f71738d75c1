package domain

import (
	"context"
	"time"
)

type Address struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	HouseNumber  string    `json:"house_number"`
	BuildingName string    `json:"building_name,omitempty"`
	Street       string    `json:"street"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Pin          string    `json:"pin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AddressRepository interface {
	CreateAddress(ctx context.Context, address *Address) (*Address, error)
	GetAddressByID(ctx context.Context, id int) (*Address, error)
	ListByUserID(ctx context.Context, userID int) ([]Address, error)
	UpdateAddress(ctx context.Context, address *Address) (*Address, error)
	DeleteAddress(ctx context.Context, id int) error
}
