package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Repository: Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			r.log.Warnf("Repository: Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("Repository: Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("Repository: Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (id, user_id, status, amount,
            house_number, building_name, street, city, state, country, pin, contact)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING created_at, updated_at
    `
	s := order.ShippingDetails
	err = tx.QueryRowContext(ctx, orderQuery,
		order.ID, order.UserID, order.Status, order.Amount,
		s.HouseNumber, s.BuildingName, s.Street, s.City, s.State, s.Country, s.Pin, s.Contact,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Order references non-existent user %d", order.UserID)
			return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, order.UserID)
		}
		r.log.Errorf("Repository: Failed to insert order for user %d: %v", order.UserID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}
	r.log.Infof("Repository: Order entry created with ID: %s for user: %d", order.ID, order.UserID)

	itemQuery := `
        INSERT INTO order_items (order_id, product_id, quantity, size, price)
        VALUES ($1, $2, $3, $4, $5)
    `
	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		r.log.Errorf("Repository: Failed to prepare order item statement: %v", err)
		return nil, fmt.Errorf("could not prepare item statement: %w", err)
	}
	defer stmt.Close()

	for i := range order.Products {
		item := &order.Products[i]
		_, err = stmt.ExecContext(ctx, order.ID, item.ProductID, item.Quantity, item.Size, item.Price)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
				return nil, fmt.Errorf("invalid item data (product_id: %d): %s", item.ProductID, pqErr.Message)
			}
			r.log.Errorf("Repository: Failed to insert order item (product_id: %d) for order %s: %v", item.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create order item (product_id: %d): %w", item.ProductID, err)
		}
	}

	r.log.Infof("Repository: Order %s created successfully with %d items.", order.ID, len(order.Products))
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}
	var paymentID sql.NullString
	s := &order.ShippingDetails

	orderQuery := `
        SELECT id, user_id, status, amount, payment_id,
            house_number, building_name, street, city, state, country, pin, contact,
            created_at, updated_at
        FROM orders
        WHERE id = $1
    `
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(
		&order.ID, &order.UserID, &order.Status, &order.Amount, &paymentID,
		&s.HouseNumber, &s.BuildingName, &s.Street, &s.City, &s.State, &s.Country, &s.Pin, &s.Contact,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %s not found", id)
			return nil, fmt.Errorf("%w: id %s", domain.ErrOrderNotFound, id)
		}
		r.log.Errorf("Repository: Failed to get order by ID %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}
	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Products = items

	return order, nil
}

func (r *postgresOrderRepository) getOrderItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	itemsQuery := `
        SELECT product_id, quantity, size, price
        FROM order_items
        WHERE order_id = $1
        ORDER BY id
    `
	rows, err := r.db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		r.log.Errorf("Repository: Failed to query order items for order ID %s: %v", orderID, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Size, &item.Price); err != nil {
			r.log.Errorf("Repository: Failed to scan order item row for order ID %s: %v", orderID, err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during order items iteration for order ID %s: %v", orderID, err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

func (r *postgresOrderRepository) SetPaymentID(ctx context.Context, id string, paymentID string) error {
	// payment_id is write-once; the IS NULL guard makes a retried write
	// against an already-linked order a detectable no-op.
	query := `
        UPDATE orders
        SET payment_id = $1, updated_at = NOW()
        WHERE id = $2 AND payment_id IS NULL
    `
	result, err := r.db.ExecContext(ctx, query, paymentID, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to set payment ID for order %s: %v", id, err)
		return fmt.Errorf("could not set payment id: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		if _, getErr := r.GetOrderByID(ctx, id); getErr != nil {
			return getErr
		}
		r.log.Warnf("Repository: Payment ID already set for order %s", id)
		return fmt.Errorf("payment id already set for order %s", id)
	}

	r.log.Infof("Repository: Payment ID %s recorded for order %s", paymentID, id)
	return nil
}

func (r *postgresOrderRepository) UpdateStatusIfPending(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("invalid target order status: %s", status)
	}

	// Conditional transition: the WHERE clause is the concurrency guard.
	// Two racing verification calls both reach here, but only one matches
	// a PENDING row; the loser observes zero rows and reports the conflict.
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
        RETURNING id, user_id, status, amount, payment_id,
            house_number, building_name, street, city, state, country, pin, contact,
            created_at, updated_at
    `
	order := &domain.Order{}
	var paymentID sql.NullString
	s := &order.ShippingDetails

	err := r.db.QueryRowContext(ctx, query, status, id, domain.StatusPending).Scan(
		&order.ID, &order.UserID, &order.Status, &order.Amount, &paymentID,
		&s.HouseNumber, &s.BuildingName, &s.Street, &s.City, &s.State, &s.Country, &s.Pin, &s.Contact,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetOrderByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			r.log.Warnf("Repository: Order %s is no longer PENDING, transition to %s rejected", id, status)
			return nil, fmt.Errorf("%w: order %s", domain.ErrOrderAlreadyFinal, id)
		}
		r.log.Errorf("Repository: Failed conditional status update for order %s: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}
	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}

	items, err := r.getOrderItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order status updated, but failed to retrieve items: %w", err)
	}
	order.Products = items

	r.log.Infof("Repository: Order %s transitioned to '%s'.", order.ID, order.Status)
	return order, nil
}

func (r *postgresOrderRepository) ListCompletedByUserID(ctx context.Context, userID int) ([]domain.Order, error) {
	ordersQuery := `
        SELECT id, user_id, status, amount, payment_id,
            house_number, building_name, street, city, state, country, pin, contact,
            created_at, updated_at
        FROM orders
        WHERE user_id = $1 AND status = $2
        ORDER BY created_at DESC
    `
	rows, err := r.db.QueryContext(ctx, ordersQuery, userID, domain.StatusComplete)
	if err != nil {
		r.log.Errorf("Repository: Failed to list completed orders for user ID %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	orderIDs := []string{}

	for rows.Next() {
		var order domain.Order
		var paymentID sql.NullString
		s := &order.ShippingDetails
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.Status, &order.Amount, &paymentID,
			&s.HouseNumber, &s.BuildingName, &s.Street, &s.City, &s.State, &s.Country, &s.Pin, &s.Contact,
			&order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan order row for user ID %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		if paymentID.Valid {
			order.PaymentID = paymentID.String
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during orders iteration for user ID %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	itemsQuery := `
        SELECT order_id, product_id, quantity, size, price
        FROM order_items
        WHERE order_id = ANY($1::text[])
        ORDER BY order_id, id
    `
	itemRows, err := r.db.QueryContext(ctx, itemsQuery, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query items for orders (%v): %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items for list: %w", err)
	}
	defer itemRows.Close()

	itemsMap := make(map[string][]domain.LineItem)
	for itemRows.Next() {
		var item domain.LineItem
		var orderID string
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Size, &item.Price); err != nil {
			r.log.Errorf("Repository: Failed to scan order item row during multi-order fetch: %v", err)
			return nil, fmt.Errorf("error scanning order item data for list: %w", err)
		}
		itemsMap[orderID] = append(itemsMap[orderID], item)
	}
	if err = itemRows.Err(); err != nil {
		r.log.Errorf("Repository: Error during multi-order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items for list: %w", err)
	}

	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Products = items
		} else {
			orders[i].Products = []domain.LineItem{}
		}
	}

	r.log.Infof("Repository: Retrieved %d completed orders for user ID %d", len(orders), userID)
	return orders, nil
}
