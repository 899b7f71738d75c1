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

type postgresCartRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *logrus.Logger) domain.CartRepository {
	return &postgresCartRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCartRepository) CreateCartItem(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	query := `
        INSERT INTO cart_items (user_id, product_id, quantity, size)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, item.UserID, item.ProductID, item.Quantity, item.Size).Scan(
		&item.ID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Cart item references non-existent product %d or user %d", item.ProductID, item.UserID)
			return nil, fmt.Errorf("%w: id %d", domain.ErrProductNotFound, item.ProductID)
		}
		r.log.Errorf("Repository: Failed to create cart item for user %d: %v", item.UserID, err)
		return nil, fmt.Errorf("could not create cart item: %w", err)
	}

	r.log.Infof("Repository: Cart item %d created for user %d (product %d)", item.ID, item.UserID, item.ProductID)
	return item, nil
}

func (r *postgresCartRepository) GetCartItemByID(ctx context.Context, id int) (*domain.CartItem, error) {
	query := `
        SELECT id, user_id, product_id, quantity, size, created_at, updated_at
        FROM cart_items
        WHERE id = $1`
	item := &domain.CartItem{}

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.Size,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Cart item with ID %d not found", id)
			return nil, fmt.Errorf("%w: id %d", domain.ErrCartItemNotFound, id)
		}
		r.log.Errorf("Repository: Failed to get cart item by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get cart item: %w", err)
	}

	return item, nil
}

func (r *postgresCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID int) (*domain.CartItem, error) {
	query := `
        SELECT id, user_id, product_id, quantity, size, created_at, updated_at
        FROM cart_items
        WHERE user_id = $1 AND product_id = $2`
	item := &domain.CartItem{}

	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.Size,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %d", domain.ErrCartItemNotFound, productID)
		}
		r.log.Errorf("Repository: Failed to look up cart item for user %d, product %d: %v", userID, productID, err)
		return nil, fmt.Errorf("could not look up cart item: %w", err)
	}

	return item, nil
}

func (r *postgresCartRepository) FindByUserID(ctx context.Context, userID int) ([]domain.CartItem, error) {
	// Zero or negative quantities are logically absent rows, not errors.
	query := `
        SELECT id, user_id, product_id, quantity, size, created_at, updated_at
        FROM cart_items
        WHERE user_id = $1 AND quantity > 0
        ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list cart items for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.Size,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan cart item row for user %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during cart items iteration for user %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

func (r *postgresCartRepository) DeleteCartItem(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete cart item %d: %v", id, err)
		return fmt.Errorf("could not delete cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrCartItemNotFound, id)
	}

	r.log.Infof("Repository: Cart item %d deleted", id)
	return nil
}

func (r *postgresCartRepository) DeleteAllByUserID(ctx context.Context, userID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to clear cart for user %d: %v", userID, err)
		return 0, fmt.Errorf("could not clear cart: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not read affected rows: %w", err)
	}

	r.log.Infof("Repository: Cleared %d cart items for user %d", affected, userID)
	return affected, nil
}
