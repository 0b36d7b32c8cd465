// README: Ride store backed by PostgreSQL. Seat updates are a single
// conditional UPDATE so concurrent bookings serialize on the row.
package ride

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fleet"
	"unipool/internal/types"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const rideColumns = `
	r.id, r.driver_id, r.car_id, r.origin_id, r.destination_id, r.from_giu, r.girls_only,
	r.price, r.seats_left, r.active, r.departure_time, r.estimated_time, r.distance, r.created_at,
	d.id, d.name, d.email, d.phone_number, d.license_number, d.gender, d.approved,
	c.id, c.driver_id, c.model, c.color, c.plate_number, c.total_seats,
	o.id, o.name, o.route_id, o.subzone_id, o.distance_to_giu, o.time_to_giu, o.latitude, o.longitude,
	x.id, x.name, x.route_id, x.subzone_id, x.distance_to_giu, x.time_to_giu, x.latitude, x.longitude`

const rideJoins = `
	FROM rides r
	JOIN drivers d ON d.id = r.driver_id
	JOIN cars c ON c.id = r.car_id
	JOIN meeting_points o ON o.id = r.origin_id
	JOIN meeting_points x ON x.id = r.destination_id`

func scanRide(row pgx.Row) (Ride, error) {
	var r Ride
	r.Driver = &fleet.Driver{}
	r.Car = &fleet.Car{}
	r.Origin = &catalog.MeetingPoint{}
	r.Destination = &catalog.MeetingPoint{}
	err := row.Scan(
		&r.ID, &r.DriverID, &r.CarID, &r.OriginID, &r.DestinationID, &r.FromGiu, &r.GirlsOnly,
		&r.Price, &r.SeatsLeft, &r.Active, &r.DepartureTime, &r.EstimatedTime, &r.Distance, &r.CreatedAt,
		&r.Driver.ID, &r.Driver.Name, &r.Driver.Email, &r.Driver.PhoneNumber, &r.Driver.LicenseNumber, &r.Driver.Gender, &r.Driver.Approved,
		&r.Car.ID, &r.Car.DriverID, &r.Car.Model, &r.Car.Color, &r.Car.PlateNumber, &r.Car.TotalSeats,
		&r.Origin.ID, &r.Origin.Name, &r.Origin.RouteID, &r.Origin.SubzoneID, &r.Origin.DistanceToGiu, &r.Origin.TimeToGiu, &r.Origin.Latitude, &r.Origin.Longitude,
		&r.Destination.ID, &r.Destination.Name, &r.Destination.RouteID, &r.Destination.SubzoneID, &r.Destination.DistanceToGiu, &r.Destination.TimeToGiu, &r.Destination.Latitude, &r.Destination.Longitude,
	)
	return r, err
}

func (s *PostgresStore) Create(ctx context.Context, r Ride) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO rides (driver_id, car_id, origin_id, destination_id, from_giu, girls_only,
			price, seats_left, active, departure_time, estimated_time, distance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		r.DriverID, r.CarID, r.OriginID, r.DestinationID, r.FromGiu, r.GirlsOnly,
		r.Price, r.SeatsLeft, r.Active, r.DepartureTime, r.EstimatedTime, r.Distance, r.CreatedAt,
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) Ride(ctx context.Context, id types.ID) (Ride, error) {
	r, err := scanRide(s.db.QueryRow(ctx, `SELECT`+rideColumns+rideJoins+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Ride{}, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Ride, error) {
	conds := []string{"r.active"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.FromGiu != nil {
		conds = append(conds, "r.from_giu = "+arg(*f.FromGiu))
	}
	if f.GirlsOnly != nil {
		conds = append(conds, "r.girls_only = "+arg(*f.GirlsOnly))
	}
	if f.ZoneID != nil {
		conds = append(conds, "o.route_id IN (SELECT id FROM routes WHERE zone_id = "+arg(*f.ZoneID)+")")
	}
	if f.RouteID != nil {
		conds = append(conds, "o.route_id = "+arg(*f.RouteID))
	}
	if f.OriginID != nil {
		conds = append(conds, "r.origin_id = "+arg(*f.OriginID))
	}
	if f.DestinationID != nil {
		conds = append(conds, "r.destination_id = "+arg(*f.DestinationID))
	}
	if f.DepartureFrom != nil {
		conds = append(conds, "r.departure_time >= "+arg(*f.DepartureFrom))
	}
	if f.DepartureTo != nil {
		conds = append(conds, "r.departure_time <= "+arg(*f.DepartureTo))
	}
	if f.MinSeatsLeft != nil {
		conds = append(conds, "r.seats_left >= "+arg(*f.MinSeatsLeft))
	}

	query := `SELECT` + rideColumns + rideJoins +
		` WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY r.departure_time ASC`
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

func (s *PostgresStore) ByDriver(ctx context.Context, driverID types.ID) ([]Ride, error) {
	rows, err := s.db.Query(ctx,
		`SELECT`+rideColumns+rideJoins+` WHERE r.driver_id = $1 ORDER BY r.created_at DESC`,
		driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

func collectRides(rows pgx.Rows) ([]Ride, error) {
	var out []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ApplySeatDelta is the one write path for seat counts. The WHERE clause
// rejects inactive rides and deltas that would push seats below zero, and the
// SET clause flips active off when the count lands on zero, all in one
// statement.
func (s *PostgresStore) ApplySeatDelta(ctx context.Context, id types.ID, delta int) (Ride, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET seats_left = seats_left + $2,
		    active = seats_left + $2 > 0
		WHERE id = $1 AND active AND seats_left + $2 >= 0`,
		id, delta)
	if err != nil {
		return Ride{}, err
	}
	if tag.RowsAffected() == 0 {
		return Ride{}, ErrSeatsUnavailable
	}
	return s.Ride(ctx, id)
}

func (s *PostgresStore) SetInactive(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET active = false
		WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
