package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/payment"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/pricing"
)

// CheckoutResult carries the persisted order together with the gateway
// transaction the client drives the payment UI with. Transaction is nil
// when the gateway could not be reached; the order is then PENDING with
// no payment_id and the payment can be retried.
type CheckoutResult struct {
	Order       *domain.Order        `json:"order_details"`
	Transaction *payment.Transaction `json:"payment_details,omitempty"`
}

type OrderUseCase interface {
	CreateCheckout(ctx context.Context, userID int, items []domain.LineItem, shipping domain.ShippingDetails) (*CheckoutResult, error)
	CheckoutFromCart(ctx context.Context, userID int, shipping domain.ShippingDetails) (*CheckoutResult, error)
	RetryPayment(ctx context.Context, userID int, orderID string) (*CheckoutResult, error)
	VerifyCheckout(ctx context.Context, orderID, gatewayOrderRef, gatewayPaymentRef, signature string) (*domain.Order, error)
	GetPlacedOrder(ctx context.Context, userID int, orderID string) (*domain.Order, error)
	ListPlacedOrders(ctx context.Context, userID int) ([]domain.Order, error)
}

var _ OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo     domain.OrderRepository
	userRepo      domain.UserRepository
	productRepo   domain.ProductRepository
	cartRepo      domain.CartRepository
	gateway       payment.Gateway
	currency      string
	gatewaySecret string
	log           *logrus.Logger
}

func NewOrderUseCase(
	orderRepo domain.OrderRepository,
	userRepo domain.UserRepository,
	productRepo domain.ProductRepository,
	cartRepo domain.CartRepository,
	gateway payment.Gateway,
	currency string,
	gatewaySecret string,
	logger *logrus.Logger,
) OrderUseCase {
	return &orderUseCase{
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		productRepo:   productRepo,
		cartRepo:      cartRepo,
		gateway:       gateway,
		currency:      currency,
		gatewaySecret: gatewaySecret,
		log:           logger,
	}
}

// receiptFor derives the gateway idempotency receipt from the order ID, so
// a retried transaction creation cannot duplicate the remote transaction.
func receiptFor(orderID string) string {
	return "rcpt_" + orderID
}

func (uc *orderUseCase) CreateCheckout(ctx context.Context, userID int, items []domain.LineItem, shipping domain.ShippingDetails) (*CheckoutResult, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id %d", domain.ErrUserNotFound, userID)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	if _, err := uc.userRepo.GetUserByID(ctx, userID); err != nil {
		uc.log.Warnf("Use Case: Checkout rejected, user %d lookup failed: %v", userID, err)
		return nil, err
	}

	// Price every line before any write; a single invalid line fails the
	// whole checkout so no partial order is ever persisted.
	var totalAmount float64
	priced := make([]domain.LineItem, len(items))
	for i, item := range items {
		if item.ProductID <= 0 {
			return nil, fmt.Errorf("%w: missing product id at index %d", domain.ErrProductNotFound, i)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: at index %d", domain.ErrInvalidQuantity, i)
		}
		if !domain.IsValidSize(item.Size) {
			return nil, fmt.Errorf("%w: %q at index %d", domain.ErrInvalidSize, item.Size, i)
		}

		product, err := uc.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			uc.log.Warnf("Use Case: Product lookup failed for ID %d at index %d: %v", item.ProductID, i, err)
			return nil, err
		}

		linePrice, err := pricing.LinePrice(product.Price, item.Size, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("pricing failed at index %d: %w", i, err)
		}

		priced[i] = domain.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Price:     linePrice,
		}
		totalAmount += linePrice
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Products:        priced,
		ShippingDetails: shipping,
		Status:          domain.StatusPending,
		Amount:          totalAmount,
	}

	uc.log.Infof("Use Case: Creating order %s for user %d with %d items, amount %.2f", order.ID, userID, len(priced), totalAmount)
	created, err := uc.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist order for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	return uc.initiatePayment(ctx, created)
}

// initiatePayment requests a gateway transaction for a PENDING order and
// records its ID. A gateway failure leaves the order PENDING with no
// payment_id, which is a recoverable state: the same order can be retried.
func (uc *orderUseCase) initiatePayment(ctx context.Context, order *domain.Order) (*CheckoutResult, error) {
	tx, err := uc.gateway.CreateTransaction(ctx, payment.ToMinorUnits(order.Amount), uc.currency, receiptFor(order.ID))
	if err != nil {
		uc.log.Errorf("Use Case: Gateway transaction creation failed for order %s: %v", order.ID, err)
		return &CheckoutResult{Order: order}, fmt.Errorf("payment initiation failed for order %s: %w", order.ID, err)
	}

	if err := uc.orderRepo.SetPaymentID(ctx, order.ID, tx.ID); err != nil {
		uc.log.Errorf("Use Case: Failed to record payment ID %s on order %s: %v", tx.ID, order.ID, err)
		return &CheckoutResult{Order: order}, fmt.Errorf("failed to record payment id: %w", err)
	}
	order.PaymentID = tx.ID

	uc.log.Infof("Use Case: Order %s linked to gateway transaction %s", order.ID, tx.ID)
	return &CheckoutResult{Order: order, Transaction: tx}, nil
}

func (uc *orderUseCase) CheckoutFromCart(ctx context.Context, userID int, shipping domain.ShippingDetails) (*CheckoutResult, error) {
	cartItems, err := uc.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to read cart for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not read cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, domain.ErrCartEmpty
	}

	items := make([]domain.LineItem, len(cartItems))
	for i, cartItem := range cartItems {
		items[i] = domain.LineItem{
			ProductID: cartItem.ProductID,
			Quantity:  cartItem.Quantity,
			Size:      cartItem.Size,
		}
	}

	uc.log.Infof("Use Case: Checking out cart of user %d with %d items", userID, len(items))
	return uc.CreateCheckout(ctx, userID, items, shipping)
}

func (uc *orderUseCase) RetryPayment(ctx context.Context, userID int, orderID string) (*CheckoutResult, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		uc.log.Warnf("Use Case: User %d attempted payment retry on order %s owned by user %d", userID, orderID, order.UserID)
		return nil, domain.ErrForbidden
	}
	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order %s", domain.ErrOrderAlreadyFinal, orderID)
	}

	if order.PaymentID != "" {
		// A transaction already exists; surface it again instead of
		// creating a second one.
		tx, err := uc.gateway.FetchTransaction(ctx, order.PaymentID)
		if err != nil {
			return &CheckoutResult{Order: order}, fmt.Errorf("could not fetch existing transaction: %w", err)
		}
		return &CheckoutResult{Order: order, Transaction: tx}, nil
	}

	uc.log.Infof("Use Case: Retrying payment initiation for order %s", orderID)
	return uc.initiatePayment(ctx, order)
}

// VerifyCheckout reconciles an asynchronous payment callback into a
// terminal order state. The returned order carries the outcome: COMPLETE
// when the signature checks out and the paid amount matches, FAILED
// otherwise. Errors are reserved for requests that could not be
// reconciled at all (unknown order, already-terminal order, mismatched
// gateway reference, unreachable gateway).
func (uc *orderUseCase) VerifyCheckout(ctx context.Context, orderID, gatewayOrderRef, gatewayPaymentRef, signature string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		uc.log.Warnf("Use Case: Duplicate verification for order %s (status %s)", orderID, order.Status)
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrOrderAlreadyFinal, orderID, order.Status)
	}
	if order.PaymentID == "" {
		uc.log.Warnf("Use Case: Verification attempted for order %s before payment initiation", orderID)
		return nil, fmt.Errorf("%w: order %s", domain.ErrPaymentNotInitiated, orderID)
	}
	if gatewayOrderRef != order.PaymentID {
		uc.log.Warnf("Use Case: Gateway reference %s does not match transaction %s on order %s", gatewayOrderRef, order.PaymentID, orderID)
		return nil, fmt.Errorf("%w: order %s", domain.ErrPaymentRefMismatch, orderID)
	}

	if !payment.VerifySignature(gatewayOrderRef, gatewayPaymentRef, signature, uc.gatewaySecret) {
		// Recorded for fraud review; the order fails, it is never retried.
		uc.log.Warnf("Use Case: SIGNATURE MISMATCH for order %s (gateway refs %s / %s). Marking FAILED.", orderID, gatewayOrderRef, gatewayPaymentRef)
		return uc.orderRepo.UpdateStatusIfPending(ctx, orderID, domain.StatusFailed)
	}

	tx, err := uc.gateway.FetchTransaction(ctx, order.PaymentID)
	if err != nil {
		// The order stays PENDING; the callback can be delivered again.
		uc.log.Errorf("Use Case: Could not fetch transaction %s for order %s: %v", order.PaymentID, orderID, err)
		return nil, fmt.Errorf("could not confirm payment: %w", err)
	}

	if tx.AmountPaid != tx.Amount {
		uc.log.Warnf("Use Case: Amount mismatch for order %s: expected %d, paid %d. Marking FAILED.", orderID, tx.Amount, tx.AmountPaid)
		return uc.orderRepo.UpdateStatusIfPending(ctx, orderID, domain.StatusFailed)
	}

	completed, err := uc.orderRepo.UpdateStatusIfPending(ctx, orderID, domain.StatusComplete)
	if err != nil {
		// A concurrent duplicate callback won the race; nothing to redo.
		return nil, err
	}

	// The cart is cleared only after the order is COMPLETE. A clear
	// failure is logged but does not undo the completed payment.
	if removed, err := uc.cartRepo.DeleteAllByUserID(ctx, completed.UserID); err != nil {
		uc.log.Errorf("Use Case: Order %s completed but cart clear failed for user %d: %v", orderID, completed.UserID, err)
	} else {
		uc.log.Infof("Use Case: Order %s COMPLETE, cleared %d cart items for user %d", orderID, removed, completed.UserID)
	}

	return completed, nil
}

func (uc *orderUseCase) GetPlacedOrder(ctx context.Context, userID int, orderID string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		uc.log.Warnf("Use Case: User %d attempted to access order %s owned by user %d", userID, orderID, order.UserID)
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.StatusComplete {
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrOrderNotPlaced, orderID, order.Status)
	}
	return order, nil
}

func (uc *orderUseCase) ListPlacedOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	if _, err := uc.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	orders, err := uc.orderRepo.ListCompletedByUserID(ctx, userID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list placed orders for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	return orders, nil
}
