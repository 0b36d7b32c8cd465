// README: Fleet store backed by PostgreSQL.
package fleet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"unipool/internal/types"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateDriver(ctx context.Context, d Driver) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO drivers (name, email, phone_number, license_number, gender, approved)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		d.Name, d.Email, d.PhoneNumber, d.LicenseNumber, d.Gender, d.Approved,
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) Driver(ctx context.Context, id types.ID) (Driver, error) {
	var d Driver
	err := s.db.QueryRow(ctx, `
		SELECT id, name, email, phone_number, license_number, gender, approved
		FROM drivers
		WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Email, &d.PhoneNumber, &d.LicenseNumber, &d.Gender, &d.Approved)
	if errors.Is(err, pgx.ErrNoRows) {
		return Driver{}, ErrNotFound
	}
	return d, err
}

func (s *PostgresStore) SetApproved(ctx context.Context, id types.ID, approved bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers
		SET approved = $2
		WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateCar(ctx context.Context, c Car) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO cars (driver_id, model, color, plate_number, total_seats)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.DriverID, c.Model, c.Color, c.PlateNumber, c.TotalSeats,
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) Car(ctx context.Context, id types.ID) (Car, error) {
	var c Car
	err := s.db.QueryRow(ctx, `
		SELECT id, driver_id, model, color, plate_number, total_seats
		FROM cars
		WHERE id = $1`, id,
	).Scan(&c.ID, &c.DriverID, &c.Model, &c.Color, &c.PlateNumber, &c.TotalSeats)
	if errors.Is(err, pgx.ErrNoRows) {
		return Car{}, ErrNotFound
	}
	return c, err
}

func (s *PostgresStore) CarsByDriver(ctx context.Context, driverID types.ID) ([]Car, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, driver_id, model, color, plate_number, total_seats
		FROM cars
		WHERE driver_id = $1
		ORDER BY id`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Car
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.DriverID, &c.Model, &c.Color, &c.PlateNumber, &c.TotalSeats); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
