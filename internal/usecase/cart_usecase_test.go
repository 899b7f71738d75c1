package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
)

type cartFixture struct {
	uc       CartUseCase
	cartRepo *fakeCartRepo
}

func newCartFixture() *cartFixture {
	userRepo := &fakeUserRepo{users: map[int]*domain.User{
		1: {ID: 1, FirstName: "Asha", LastName: "Rao", Email: "asha@example.com"},
		2: {ID: 2, FirstName: "Ravi", LastName: "Iyer", Email: "ravi@example.com"},
	}}
	productRepo := &fakeProductRepo{products: map[int]*domain.Product{
		7: {ID: 7, Name: "Dunes at dusk", Price: 960},
	}}
	cartRepo := newFakeCartRepo()
	uc := NewCartUseCase(cartRepo, productRepo, userRepo, testLogger())
	return &cartFixture{uc: uc, cartRepo: cartRepo}
}

func TestAddItem(t *testing.T) {
	f := newCartFixture()

	item, created, err := f.uc.AddItem(context.Background(), 1, 7, 2, domain.Size8x12)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, domain.Size8x12, item.Size)

	// Adding the same product again is a no-op that returns the
	// existing item.
	again, created, err := f.uc.AddItem(context.Background(), 1, 7, 5, domain.Size24x36)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item.ID, again.ID)
	assert.Equal(t, 2, again.Quantity)

	items, err := f.uc.ListItems(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddItem_Validation(t *testing.T) {
	f := newCartFixture()

	_, _, err := f.uc.AddItem(context.Background(), 1, 7, 0, domain.Size8x12)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, _, err = f.uc.AddItem(context.Background(), 1, 7, 1, "9x13")
	assert.ErrorIs(t, err, domain.ErrInvalidSize)

	_, _, err = f.uc.AddItem(context.Background(), 1, 999, 1, domain.Size8x12)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, _, err = f.uc.AddItem(context.Background(), 42, 7, 1, domain.Size8x12)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRemoveItem(t *testing.T) {
	f := newCartFixture()
	item, _, err := f.uc.AddItem(context.Background(), 1, 7, 1, domain.Size8x12)
	require.NoError(t, err)

	// Another user may not remove it.
	_, err = f.uc.RemoveItem(context.Background(), 2, item.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	removed, err := f.uc.RemoveItem(context.Background(), 1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, removed.ID)

	_, err = f.uc.RemoveItem(context.Background(), 1, item.ID)
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestEmptyCart(t *testing.T) {
	f := newCartFixture()
	_, _, err := f.uc.AddItem(context.Background(), 1, 7, 1, domain.Size8x12)
	require.NoError(t, err)

	removed, err := f.uc.EmptyCart(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	items, err := f.uc.ListItems(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Emptying an already empty cart reports zero removals.
	removed, err = f.uc.EmptyCart(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
