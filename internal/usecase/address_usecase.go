package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
)

type AddressUseCase interface {
	AddAddress(ctx context.Context, address *domain.Address) (*domain.Address, error)
	GetAddresses(ctx context.Context, userID int) ([]domain.Address, error)
	UpdateAddress(ctx context.Context, userID int, address *domain.Address) (*domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID int) error
}

var _ AddressUseCase = (*addressUseCase)(nil)

type addressUseCase struct {
	addressRepo domain.AddressRepository
	userRepo    domain.UserRepository
	log         *logrus.Logger
}

func NewAddressUseCase(addressRepo domain.AddressRepository, userRepo domain.UserRepository, logger *logrus.Logger) AddressUseCase {
	return &addressUseCase{
		addressRepo: addressRepo,
		userRepo:    userRepo,
		log:         logger,
	}
}

func validateAddress(address *domain.Address) error {
	if address.HouseNumber == "" || address.Street == "" || address.City == "" ||
		address.State == "" || address.Country == "" || address.Pin == "" {
		return fmt.Errorf("house number, street, city, state, country and pin are all required")
	}
	return nil
}

func (uc *addressUseCase) AddAddress(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.GetUserByID(ctx, address.UserID); err != nil {
		return nil, err
	}

	created, err := uc.addressRepo.CreateAddress(ctx, address)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to save address for user %d: %v", address.UserID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Address %d saved for user %d", created.ID, created.UserID)
	return created, nil
}

func (uc *addressUseCase) GetAddresses(ctx context.Context, userID int) ([]domain.Address, error) {
	if _, err := uc.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.addressRepo.ListByUserID(ctx, userID)
}

func (uc *addressUseCase) UpdateAddress(ctx context.Context, userID int, address *domain.Address) (*domain.Address, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	existing, err := uc.addressRepo.GetAddressByID(ctx, address.ID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		uc.log.Warnf("Use Case: User %d attempted to update address %d owned by user %d", userID, address.ID, existing.UserID)
		return nil, domain.ErrForbidden
	}

	address.UserID = existing.UserID
	updated, err := uc.addressRepo.UpdateAddress(ctx, address)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update address %d: %v", address.ID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Address %d updated for user %d", updated.ID, userID)
	return updated, nil
}

func (uc *addressUseCase) DeleteAddress(ctx context.Context, userID, addressID int) error {
	existing, err := uc.addressRepo.GetAddressByID(ctx, addressID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		uc.log.Warnf("Use Case: User %d attempted to delete address %d owned by user %d", userID, addressID, existing.UserID)
		return domain.ErrForbidden
	}

	if err := uc.addressRepo.DeleteAddress(ctx, addressID); err != nil {
		return err
	}

	uc.log.Infof("Use Case: Address %d deleted for user %d", addressID, userID)
	return nil
}
