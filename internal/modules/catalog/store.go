// README: Catalog store backed by PostgreSQL.
package catalog

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

func (s *PostgresStore) CreateZone(ctx context.Context, z Zone) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO zones (name, base_fare, cost_per_min, cost_per_km)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		z.Name, z.BaseFare, z.CostPerMin, z.CostPerKm,
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) Zones(ctx context.Context) ([]Zone, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, base_fare, cost_per_min, cost_per_km
		FROM zones
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.BaseFare, &z.CostPerMin, &z.CostPerKm); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Zone(ctx context.Context, id types.ID) (Zone, error) {
	var z Zone
	err := s.db.QueryRow(ctx, `
		SELECT id, name, base_fare, cost_per_min, cost_per_km
		FROM zones
		WHERE id = $1`, id,
	).Scan(&z.ID, &z.Name, &z.BaseFare, &z.CostPerMin, &z.CostPerKm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Zone{}, ErrNotFound
	}
	return z, err
}

func (s *PostgresStore) CreateRoute(ctx context.Context, r Route) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO routes (name, zone_id)
		VALUES ($1, $2)
		RETURNING id`,
		r.Name, r.ZoneID,
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) RoutesByZone(ctx context.Context, zoneID types.ID) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, zone_id
		FROM routes
		WHERE zone_id = $1
		ORDER BY id`, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Route
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.Name, &r.ZoneID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Route(ctx context.Context, id types.ID) (Route, error) {
	var r Route
	err := s.db.QueryRow(ctx, `
		SELECT id, name, zone_id
		FROM routes
		WHERE id = $1`, id,
	).Scan(&r.ID, &r.Name, &r.ZoneID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Route{}, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) CreateSubzone(ctx context.Context, sz Subzone) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO subzones (name, route_id, base_fare, cost_per_min, cost_per_km)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		sz.Name, sz.RouteID, sz.BaseFare, sz.CostPerMin, sz.CostPerKm,
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) SubzonesByRoute(ctx context.Context, routeID types.ID) ([]Subzone, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, route_id, base_fare, cost_per_min, cost_per_km
		FROM subzones
		WHERE route_id = $1
		ORDER BY id`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subzone
	for rows.Next() {
		var sz Subzone
		if err := rows.Scan(&sz.ID, &sz.Name, &sz.RouteID, &sz.BaseFare, &sz.CostPerMin, &sz.CostPerKm); err != nil {
			return nil, err
		}
		out = append(out, sz)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Subzone(ctx context.Context, id types.ID) (Subzone, error) {
	var sz Subzone
	err := s.db.QueryRow(ctx, `
		SELECT id, name, route_id, base_fare, cost_per_min, cost_per_km
		FROM subzones
		WHERE id = $1`, id,
	).Scan(&sz.ID, &sz.Name, &sz.RouteID, &sz.BaseFare, &sz.CostPerMin, &sz.CostPerKm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Subzone{}, ErrNotFound
	}
	return sz, err
}

func (s *PostgresStore) CreateMeetingPoint(ctx context.Context, p MeetingPoint) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO meeting_points (name, route_id, subzone_id, distance_to_giu, time_to_giu, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		p.Name, p.RouteID, p.SubzoneID, p.DistanceToGiu, p.TimeToGiu, p.Latitude, p.Longitude,
	).Scan(&id)
	return id, err
}

func (s *PostgresStore) MeetingPointsByRoute(ctx context.Context, routeID types.ID) ([]MeetingPoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, route_id, subzone_id, distance_to_giu, time_to_giu, latitude, longitude
		FROM meeting_points
		WHERE route_id = $1
		ORDER BY id`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MeetingPoint
	for rows.Next() {
		var p MeetingPoint
		if err := rows.Scan(&p.ID, &p.Name, &p.RouteID, &p.SubzoneID, &p.DistanceToGiu, &p.TimeToGiu, &p.Latitude, &p.Longitude); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MeetingPoint(ctx context.Context, id types.ID) (MeetingPoint, error) {
	var p MeetingPoint
	err := s.db.QueryRow(ctx, `
		SELECT id, name, route_id, subzone_id, distance_to_giu, time_to_giu, latitude, longitude
		FROM meeting_points
		WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.RouteID, &p.SubzoneID, &p.DistanceToGiu, &p.TimeToGiu, &p.Latitude, &p.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return MeetingPoint{}, ErrNotFound
	}
	return p, err
}

func (s *PostgresStore) AssignSubzone(ctx context.Context, pointID, subzoneID types.ID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE meeting_points
		SET subzone_id = $2
		WHERE id = $1`, pointID, subzoneID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PricedPoint eager-loads the point with both candidate tariff tiers in one
// round trip: the route's zone tariff always, the subzone tariff when assigned.
func (s *PostgresStore) PricedPoint(ctx context.Context, id types.ID) (PricedPoint, error) {
	var (
		p          PricedPoint
		szBase     *float64
		szPerMin   *float64
		szPerKm    *float64
	)
	err := s.db.QueryRow(ctx, `
		SELECT mp.id, mp.name, mp.route_id, mp.subzone_id,
		       mp.distance_to_giu, mp.time_to_giu, mp.latitude, mp.longitude,
		       z.base_fare, z.cost_per_min, z.cost_per_km,
		       sz.base_fare, sz.cost_per_min, sz.cost_per_km
		FROM meeting_points mp
		JOIN routes r ON r.id = mp.route_id
		JOIN zones z ON z.id = r.zone_id
		LEFT JOIN subzones sz ON sz.id = mp.subzone_id
		WHERE mp.id = $1`, id,
	).Scan(
		&p.ID, &p.Name, &p.RouteID, &p.SubzoneID,
		&p.DistanceToGiu, &p.TimeToGiu, &p.Latitude, &p.Longitude,
		&p.ZoneTariff.BaseFare, &p.ZoneTariff.CostPerMin, &p.ZoneTariff.CostPerKm,
		&szBase, &szPerMin, &szPerKm,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return PricedPoint{}, ErrNotFound
	}
	if err != nil {
		return PricedPoint{}, err
	}
	if szBase != nil && szPerMin != nil && szPerKm != nil {
		p.SubzoneTariff = &Tariff{BaseFare: *szBase, CostPerMin: *szPerMin, CostPerKm: *szPerKm}
	}
	return p, nil
}
