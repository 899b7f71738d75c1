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

type postgresAddressRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresAddressRepository(db *sql.DB, logger *logrus.Logger) domain.AddressRepository {
	return &postgresAddressRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresAddressRepository) CreateAddress(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	query := `
        INSERT INTO addresses (user_id, house_number, building_name, street, city, state, country, pin)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		address.UserID, address.HouseNumber, address.BuildingName,
		address.Street, address.City, address.State, address.Country, address.Pin,
	).Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Repository: Address references non-existent user %d", address.UserID)
			return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, address.UserID)
		}
		r.log.Errorf("Repository: Failed to create address for user %d: %v", address.UserID, err)
		return nil, fmt.Errorf("could not create address: %w", err)
	}

	r.log.Infof("Repository: Address %d created for user %d", address.ID, address.UserID)
	return address, nil
}

func (r *postgresAddressRepository) GetAddressByID(ctx context.Context, id int) (*domain.Address, error) {
	query := `
        SELECT id, user_id, house_number, COALESCE(building_name, ''), street, city, state, country, pin, created_at, updated_at
        FROM addresses
        WHERE id = $1`
	address := &domain.Address{}

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&address.ID, &address.UserID, &address.HouseNumber, &address.BuildingName,
		&address.Street, &address.City, &address.State, &address.Country, &address.Pin,
		&address.CreatedAt, &address.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Address with ID %d not found", id)
			return nil, fmt.Errorf("%w: id %d", domain.ErrAddressNotFound, id)
		}
		r.log.Errorf("Repository: Failed to get address by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get address: %w", err)
	}

	return address, nil
}

func (r *postgresAddressRepository) ListByUserID(ctx context.Context, userID int) ([]domain.Address, error) {
	query := `
        SELECT id, user_id, house_number, COALESCE(building_name, ''), street, city, state, country, pin, created_at, updated_at
        FROM addresses
        WHERE user_id = $1
        ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list addresses for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve addresses: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var address domain.Address
		if err := rows.Scan(
			&address.ID, &address.UserID, &address.HouseNumber, &address.BuildingName,
			&address.Street, &address.City, &address.State, &address.Country, &address.Pin,
			&address.CreatedAt, &address.UpdatedAt,
		); err != nil {
			r.log.Errorf("Repository: Failed to scan address row for user %d: %v", userID, err)
			return nil, fmt.Errorf("error scanning address: %w", err)
		}
		addresses = append(addresses, address)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during address iteration for user %d: %v", userID, err)
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

func (r *postgresAddressRepository) UpdateAddress(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	query := `
        UPDATE addresses
        SET house_number = $1, building_name = $2, street = $3, city = $4,
            state = $5, country = $6, pin = $7, updated_at = NOW()
        WHERE id = $8
        RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		address.HouseNumber, address.BuildingName, address.Street, address.City,
		address.State, address.Country, address.Pin, address.ID,
	).Scan(&address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Address with ID %d not found for update", address.ID)
			return nil, fmt.Errorf("%w: id %d", domain.ErrAddressNotFound, address.ID)
		}
		r.log.Errorf("Repository: Failed to update address %d: %v", address.ID, err)
		return nil, fmt.Errorf("could not update address: %w", err)
	}

	r.log.Infof("Repository: Address %d updated", address.ID)
	return address, nil
}

func (r *postgresAddressRepository) DeleteAddress(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete address %d: %v", id, err)
		return fmt.Errorf("could not delete address: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrAddressNotFound, id)
	}

	r.log.Infof("Repository: Address %d deleted", id)
	return nil
}
