package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
)

type CartUseCase interface {
	// AddItem puts a product into the user's cart. Adding a product that is
	// already in the cart is a success no-op; the existing item is returned
	// with created=false.
	AddItem(ctx context.Context, userID, productID, quantity int, size domain.PrintSize) (*domain.CartItem, bool, error)
	RemoveItem(ctx context.Context, userID, cartItemID int) (*domain.CartItem, error)
	ListItems(ctx context.Context, userID int) ([]domain.CartItem, error)
	EmptyCart(ctx context.Context, userID int) (int64, error)
}

var _ CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	userRepo    domain.UserRepository
	log         *logrus.Logger
}

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, userRepo domain.UserRepository, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		log:         logger,
	}
}

func (uc *cartUseCase) AddItem(ctx context.Context, userID, productID, quantity int, size domain.PrintSize) (*domain.CartItem, bool, error) {
	if quantity < 1 {
		return nil, false, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}
	if !domain.IsValidSize(size) {
		return nil, false, fmt.Errorf("%w: %q", domain.ErrInvalidSize, size)
	}

	if _, err := uc.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, false, err
	}
	if _, err := uc.productRepo.GetProductByID(ctx, productID); err != nil {
		uc.log.Warnf("Use Case: Cannot add unknown product %d to cart of user %d", productID, userID)
		return nil, false, err
	}

	existing, err := uc.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err == nil {
		uc.log.Infof("Use Case: Product %d is already in cart of user %d", productID, userID)
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrCartItemNotFound) {
		return nil, false, err
	}

	item := &domain.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Size:      size,
	}
	created, err := uc.cartRepo.CreateCartItem(ctx, item)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to add product %d to cart of user %d: %v", productID, userID, err)
		return nil, false, fmt.Errorf("could not add item to cart: %w", err)
	}

	uc.log.Infof("Use Case: Product %d added to cart of user %d (item %d)", productID, userID, created.ID)
	return created, true, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, userID, cartItemID int) (*domain.CartItem, error) {
	item, err := uc.cartRepo.GetCartItemByID(ctx, cartItemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		uc.log.Warnf("Use Case: User %d attempted to remove cart item %d owned by user %d", userID, cartItemID, item.UserID)
		return nil, domain.ErrForbidden
	}

	if err := uc.cartRepo.DeleteCartItem(ctx, cartItemID); err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Cart item %d removed for user %d", cartItemID, userID)
	return item, nil
}

func (uc *cartUseCase) ListItems(ctx context.Context, userID int) ([]domain.CartItem, error) {
	if _, err := uc.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return uc.cartRepo.FindByUserID(ctx, userID)
}

func (uc *cartUseCase) EmptyCart(ctx context.Context, userID int) (int64, error) {
	if _, err := uc.userRepo.GetUserByID(ctx, userID); err != nil {
		return 0, err
	}

	removed, err := uc.cartRepo.DeleteAllByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	uc.log.Infof("Use Case: Emptied cart of user %d (%d items)", userID, removed)
	return removed, nil
}
