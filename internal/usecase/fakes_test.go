package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/payment"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeUserRepo struct {
	users map[int]*domain.User
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
	}
	return user, nil
}

type fakeProductRepo struct {
	products map[int]*domain.Product
}

func (f *fakeProductRepo) GetProductByID(_ context.Context, id int) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	}
	return product, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *order
	f.orders[order.ID] = &stored
	return order, nil
}

func (f *fakeOrderRepo) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) SetPaymentID(_ context.Context, id string, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
	}
	if order.PaymentID != "" {
		return fmt.Errorf("payment id already set for order %s", id)
	}
	order.PaymentID = paymentID
	return nil
}

func (f *fakeOrderRepo) UpdateStatusIfPending(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
	}
	if order.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: order %s", domain.ErrOrderAlreadyFinal, id)
	}
	order.Status = status
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) ListCompletedByUserID(_ context.Context, userID int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []domain.Order
	for _, order := range f.orders {
		if order.UserID == userID && order.Status == domain.StatusComplete {
			orders = append(orders, *order)
		}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

type fakeCartRepo struct {
	mu         sync.Mutex
	items      map[int]*domain.CartItem
	nextID     int
	clearCalls int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: make(map[int]*domain.CartItem), nextID: 1}
}

func (f *fakeCartRepo) CreateCartItem(_ context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = f.nextID
	f.nextID++
	stored := *item
	f.items[item.ID] = &stored
	return item, nil
}

func (f *fakeCartRepo) GetCartItemByID(_ context.Context, id int) (*domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrCartItemNotFound, id)
	}
	copied := *item
	return &copied, nil
}

func (f *fakeCartRepo) FindByUserAndProduct(_ context.Context, userID, productID int) (*domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: product %d", domain.ErrCartItemNotFound, productID)
}

func (f *fakeCartRepo) FindByUserID(_ context.Context, userID int) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.CartItem
	for _, item := range f.items {
		if item.UserID == userID && item.Quantity > 0 {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (f *fakeCartRepo) DeleteCartItem(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return fmt.Errorf("%w: id %d", domain.ErrCartItemNotFound, id)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCartRepo) DeleteAllByUserID(_ context.Context, userID int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	var removed int64
	for id, item := range f.items {
		if item.UserID == userID {
			delete(f.items, id)
			removed++
		}
	}
	return removed, nil
}

// fakeGateway records created transactions and lets tests steer the
// reported payment state.
type fakeGateway struct {
	mu           sync.Mutex
	transactions map[string]*payment.Transaction
	receipts     []string
	nextID       int
	failCreate   bool
	failFetch    bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{transactions: make(map[string]*payment.Transaction), nextID: 1}
}

func (f *fakeGateway) CreateTransaction(_ context.Context, amount int64, currency, receipt string) (*payment.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, fmt.Errorf("%w: connection refused", domain.ErrGatewayUnavailable)
	}
	tx := &payment.Transaction{
		ID:          fmt.Sprintf("plink_%d", f.nextID),
		Amount:      amount,
		Currency:    currency,
		ReferenceID: receipt,
		Status:      "created",
		ShortURL:    "https://rzp.test/" + receipt,
	}
	f.nextID++
	f.transactions[tx.ID] = tx
	f.receipts = append(f.receipts, receipt)
	return tx, nil
}

func (f *fakeGateway) FetchTransaction(_ context.Context, transactionID string) (*payment.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFetch {
		return nil, fmt.Errorf("%w: connection refused", domain.ErrGatewayUnavailable)
	}
	tx, ok := f.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found at gateway", transactionID)
	}
	copied := *tx
	return &copied, nil
}

// markPaid sets the gateway-reported paid amount for a transaction.
func (f *fakeGateway) markPaid(transactionID string, amountPaid int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx, ok := f.transactions[transactionID]; ok {
		tx.AmountPaid = amountPaid
		if tx.AmountPaid == tx.Amount {
			tx.Status = "paid"
		}
	}
}
