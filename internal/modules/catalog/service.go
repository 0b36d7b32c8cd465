// README: Catalog service: admin CRUD over the tariff hierarchy plus point lookups.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"unipool/internal/types"
)

var (
	ErrNotFound     = errors.New("catalog entity not found")
	ErrInvalidInput = errors.New("invalid catalog input")
	ErrDatabase     = errors.New("catalog storage failure")
)

// Store is the persistence contract for the catalog. Implemented by the
// Postgres store and by the in-memory store used in tests and seeding.
type Store interface {
	CreateZone(ctx context.Context, z Zone) (types.ID, error)
	Zones(ctx context.Context) ([]Zone, error)
	Zone(ctx context.Context, id types.ID) (Zone, error)

	CreateRoute(ctx context.Context, r Route) (types.ID, error)
	RoutesByZone(ctx context.Context, zoneID types.ID) ([]Route, error)
	Route(ctx context.Context, id types.ID) (Route, error)

	CreateSubzone(ctx context.Context, s Subzone) (types.ID, error)
	SubzonesByRoute(ctx context.Context, routeID types.ID) ([]Subzone, error)
	Subzone(ctx context.Context, id types.ID) (Subzone, error)

	CreateMeetingPoint(ctx context.Context, p MeetingPoint) (types.ID, error)
	MeetingPointsByRoute(ctx context.Context, routeID types.ID) ([]MeetingPoint, error)
	MeetingPoint(ctx context.Context, id types.ID) (MeetingPoint, error)
	AssignSubzone(ctx context.Context, pointID, subzoneID types.ID) error

	// PricedPoint loads a meeting point with its zone tariff and, when
	// assigned, its subzone tariff.
	PricedPoint(ctx context.Context, id types.ID) (PricedPoint, error)
}

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) CreateZone(ctx context.Context, name string, baseFare, costPerMin, costPerKm float64) (Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" || baseFare < 0 || costPerMin < 0 || costPerKm < 0 {
		return Zone{}, ErrInvalidInput
	}
	z := Zone{Name: name, BaseFare: baseFare, CostPerMin: costPerMin, CostPerKm: costPerKm}
	id, err := s.store.CreateZone(ctx, z)
	if err != nil {
		return Zone{}, s.storeErr("create zone", err)
	}
	z.ID = id
	return z, nil
}

func (s *Service) Zones(ctx context.Context) ([]Zone, error) {
	zs, err := s.store.Zones(ctx)
	if err != nil {
		return nil, s.storeErr("list zones", err)
	}
	return zs, nil
}

func (s *Service) Zone(ctx context.Context, id types.ID) (Zone, error) {
	z, err := s.store.Zone(ctx, id)
	if err != nil {
		return Zone{}, s.storeErr("get zone", err)
	}
	return z, nil
}

func (s *Service) CreateRoute(ctx context.Context, zoneID types.ID, name string) (Route, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Route{}, ErrInvalidInput
	}
	if _, err := s.store.Zone(ctx, zoneID); err != nil {
		return Route{}, s.storeErr("get zone", err)
	}
	r := Route{Name: name, ZoneID: zoneID}
	id, err := s.store.CreateRoute(ctx, r)
	if err != nil {
		return Route{}, s.storeErr("create route", err)
	}
	r.ID = id
	return r, nil
}

func (s *Service) RoutesByZone(ctx context.Context, zoneID types.ID) ([]Route, error) {
	rs, err := s.store.RoutesByZone(ctx, zoneID)
	if err != nil {
		return nil, s.storeErr("list routes", err)
	}
	return rs, nil
}

func (s *Service) CreateSubzone(ctx context.Context, routeID types.ID, name string, baseFare, costPerMin, costPerKm float64) (Subzone, error) {
	name = strings.TrimSpace(name)
	if name == "" || baseFare < 0 || costPerMin < 0 || costPerKm < 0 {
		return Subzone{}, ErrInvalidInput
	}
	if _, err := s.store.Route(ctx, routeID); err != nil {
		return Subzone{}, s.storeErr("get route", err)
	}
	sz := Subzone{Name: name, RouteID: routeID, BaseFare: baseFare, CostPerMin: costPerMin, CostPerKm: costPerKm}
	id, err := s.store.CreateSubzone(ctx, sz)
	if err != nil {
		return Subzone{}, s.storeErr("create subzone", err)
	}
	sz.ID = id
	return sz, nil
}

func (s *Service) SubzonesByRoute(ctx context.Context, routeID types.ID) ([]Subzone, error) {
	szs, err := s.store.SubzonesByRoute(ctx, routeID)
	if err != nil {
		return nil, s.storeErr("list subzones", err)
	}
	return szs, nil
}

func (s *Service) Subzone(ctx context.Context, id types.ID) (Subzone, error) {
	sz, err := s.store.Subzone(ctx, id)
	if err != nil {
		return Subzone{}, s.storeErr("get subzone", err)
	}
	return sz, nil
}

func (s *Service) CreateMeetingPoint(ctx context.Context, routeID types.ID, name string, distanceToGiu, timeToGiu float64, lat, lng *float64) (MeetingPoint, error) {
	name = strings.TrimSpace(name)
	if name == "" || distanceToGiu < 0 || timeToGiu < 0 {
		return MeetingPoint{}, ErrInvalidInput
	}
	if _, err := s.store.Route(ctx, routeID); err != nil {
		return MeetingPoint{}, s.storeErr("get route", err)
	}
	p := MeetingPoint{
		Name:          name,
		RouteID:       routeID,
		DistanceToGiu: distanceToGiu,
		TimeToGiu:     timeToGiu,
		Latitude:      lat,
		Longitude:     lng,
	}
	id, err := s.store.CreateMeetingPoint(ctx, p)
	if err != nil {
		return MeetingPoint{}, s.storeErr("create meeting point", err)
	}
	p.ID = id
	return p, nil
}

func (s *Service) MeetingPointsByRoute(ctx context.Context, routeID types.ID) ([]MeetingPoint, error) {
	ps, err := s.store.MeetingPointsByRoute(ctx, routeID)
	if err != nil {
		return nil, s.storeErr("list meeting points", err)
	}
	return ps, nil
}

func (s *Service) MeetingPoint(ctx context.Context, id types.ID) (MeetingPoint, error) {
	p, err := s.store.MeetingPoint(ctx, id)
	if err != nil {
		return MeetingPoint{}, s.storeErr("get meeting point", err)
	}
	return p, nil
}

// AssignMeetingPointToSubzone moves a point under a subzone. The subzone must
// belong to the point's own route; tariffs never cross routes.
func (s *Service) AssignMeetingPointToSubzone(ctx context.Context, pointID, subzoneID types.ID) (MeetingPoint, error) {
	p, err := s.store.MeetingPoint(ctx, pointID)
	if err != nil {
		return MeetingPoint{}, s.storeErr("get meeting point", err)
	}
	sz, err := s.store.Subzone(ctx, subzoneID)
	if err != nil {
		return MeetingPoint{}, s.storeErr("get subzone", err)
	}
	if sz.RouteID != p.RouteID {
		return MeetingPoint{}, ErrInvalidInput
	}
	if err := s.store.AssignSubzone(ctx, pointID, subzoneID); err != nil {
		return MeetingPoint{}, s.storeErr("assign subzone", err)
	}
	p.SubzoneID = &subzoneID
	return p, nil
}

// PricedPoint exposes the tariff-resolved point lookup to the fare calculator.
func (s *Service) PricedPoint(ctx context.Context, id types.ID) (PricedPoint, error) {
	p, err := s.store.PricedPoint(ctx, id)
	if err != nil {
		return PricedPoint{}, s.storeErr("get priced point", err)
	}
	return p, nil
}

// storeErr passes through catalog sentinels and downgrades anything else to
// ErrDatabase with the cause logged, never surfaced.
func (s *Service) storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	if s.log != nil {
		s.log.Error("catalog store error", "op", op, "error", err)
	}
	return ErrDatabase
}
