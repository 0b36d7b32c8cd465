// README: Ride lifecycle: create with eligibility gates, atomic seat updates,
// one-way deactivation, listing and history.
package ride

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"unipool/internal/modules/fare"
	"unipool/internal/modules/fleet"
	"unipool/internal/types"
)

var (
	ErrNotFound         = errors.New("ride not found")
	ErrInvalidInput     = errors.New("invalid ride input")
	ErrInvalidDate      = errors.New("departure time is invalid or not in the future")
	ErrInvalidCar       = errors.New("car does not exist or does not belong to the driver")
	ErrRideInactive     = errors.New("ride is inactive")
	ErrUnauthorized     = errors.New("driver is not allowed to perform this action")
	ErrSeatsUnavailable = errors.New("not enough seats left")
	ErrDatabase         = errors.New("ride storage failure")
)

type Store interface {
	Create(ctx context.Context, r Ride) (types.ID, error)
	Ride(ctx context.Context, id types.ID) (Ride, error)
	List(ctx context.Context, f Filter) ([]Ride, error)
	ByDriver(ctx context.Context, driverID types.ID) ([]Ride, error)

	// ApplySeatDelta adjusts seats_left by delta in a single conditional
	// write: it only touches active rides whose seat count stays >= 0, and
	// flips active off when the count reaches exactly 0. Returns
	// ErrSeatsUnavailable when the condition does not hold.
	ApplySeatDelta(ctx context.Context, id types.ID, delta int) (Ride, error)

	// SetInactive unconditionally marks the ride inactive. Idempotent.
	SetInactive(ctx context.Context, id types.ID) error
}

// FleetSource is the slice of the fleet service ride creation needs.
type FleetSource interface {
	Driver(ctx context.Context, id types.ID) (fleet.Driver, error)
	Car(ctx context.Context, id types.ID) (fleet.Car, error)
}

// Quoter prices the offered ride at creation time.
type Quoter interface {
	QuoteByID(ctx context.Context, originID, destinationID types.ID, seatsTotal int) (fare.Quote, error)
}

type Service struct {
	store Store
	fleet FleetSource
	fares Quoter
	cache *Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewService wires the ride module. cache may be nil; listings then always hit
// the store.
func NewService(store Store, fleetSrc FleetSource, fares Quoter, cache *Cache, log *slog.Logger) *Service {
	return &Service{
		store: store,
		fleet: fleetSrc,
		fares: fares,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

type CreateCommand struct {
	DriverID      types.ID
	CarID         types.ID
	OriginID      types.ID
	DestinationID types.ID
	FromGiu       bool
	GirlsOnly     bool
	// DepartureTime is RFC3339 as sent over the wire.
	DepartureTime string
}

// Create offers a new ride. The driver must be approved, the car must belong
// to them, and departure must parse as RFC3339 and lie in the future. The
// car's seat count seeds the ride and the per-seat price is computed once
// here and stored with the ride.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (Ride, error) {
	departure, err := time.Parse(time.RFC3339, cmd.DepartureTime)
	if err != nil {
		return Ride{}, ErrInvalidDate
	}
	if !departure.After(s.now()) {
		return Ride{}, ErrInvalidDate
	}

	driver, err := s.fleet.Driver(ctx, cmd.DriverID)
	if err != nil {
		return Ride{}, s.fleetErr("get driver", err)
	}
	if !driver.Approved {
		return Ride{}, ErrUnauthorized
	}

	car, err := s.fleet.Car(ctx, cmd.CarID)
	if errors.Is(err, fleet.ErrNotFound) {
		return Ride{}, ErrInvalidCar
	}
	if err != nil {
		return Ride{}, s.fleetErr("get car", err)
	}
	if car.DriverID != cmd.DriverID {
		return Ride{}, ErrInvalidCar
	}

	quote, err := s.fares.QuoteByID(ctx, cmd.OriginID, cmd.DestinationID, car.TotalSeats)
	if err != nil {
		return Ride{}, s.fareErr(err)
	}

	r := Ride{
		DriverID:      cmd.DriverID,
		CarID:         cmd.CarID,
		OriginID:      cmd.OriginID,
		DestinationID: cmd.DestinationID,
		FromGiu:       cmd.FromGiu,
		GirlsOnly:     cmd.GirlsOnly,
		Price:         quote.Price,
		SeatsLeft:     car.TotalSeats,
		Active:        true,
		DepartureTime: departure,
		EstimatedTime: quote.EstimatedTime,
		Distance:      quote.Distance,
		CreatedAt:     s.now(),
	}
	id, err := s.store.Create(ctx, r)
	if err != nil {
		return Ride{}, s.storeErr("create ride", err)
	}
	s.cache.Invalidate(ctx)
	if s.log != nil {
		s.log.Info("ride created", "ride_id", id, "driver_id", cmd.DriverID, "price", r.Price)
	}
	// Read back through the store so the response carries the driver, car,
	// and meeting point associations like every other read.
	created, err := s.store.Ride(ctx, id)
	if err != nil {
		return Ride{}, s.storeErr("get ride", err)
	}
	return created, nil
}

func (s *Service) Ride(ctx context.Context, id types.ID) (Ride, error) {
	r, err := s.store.Ride(ctx, id)
	if err != nil {
		return Ride{}, s.storeErr("get ride", err)
	}
	return r, nil
}

// UpdateSeats adjusts the remaining seats by delta (negative for bookings,
// positive for cancellations). The write is a single conditional update, so
// two concurrent bookings can never oversell; reaching 0 deactivates the ride
// in the same statement. Freeing seats on an already inactive ride does not
// reactivate it.
func (s *Service) UpdateSeats(ctx context.Context, id types.ID, delta int) (Ride, error) {
	r, err := s.store.ApplySeatDelta(ctx, id, delta)
	if err == nil {
		s.cache.Invalidate(ctx)
		return r, nil
	}
	if !errors.Is(err, ErrSeatsUnavailable) {
		return Ride{}, s.storeErr("update seats", err)
	}
	// The conditional write missed: distinguish missing, inactive, and a
	// real seat shortage.
	cur, gerr := s.store.Ride(ctx, id)
	if gerr != nil {
		return Ride{}, s.storeErr("get ride", gerr)
	}
	if !cur.Active {
		return Ride{}, ErrRideInactive
	}
	return Ride{}, ErrSeatsUnavailable
}

// Deactivate retires a ride. Idempotent: deactivating an inactive ride
// succeeds and returns it unchanged. There is no way back to active.
func (s *Service) Deactivate(ctx context.Context, id types.ID) (Ride, error) {
	if err := s.store.SetInactive(ctx, id); err != nil {
		return Ride{}, s.storeErr("deactivate ride", err)
	}
	s.cache.Invalidate(ctx)
	r, err := s.store.Ride(ctx, id)
	if err != nil {
		return Ride{}, s.storeErr("get ride", err)
	}
	return r, nil
}

// CancelByDriver deactivates a ride on behalf of its driver. Only the offering
// driver may cancel.
func (s *Service) CancelByDriver(ctx context.Context, id, driverID types.ID) (Ride, error) {
	r, err := s.store.Ride(ctx, id)
	if err != nil {
		return Ride{}, s.storeErr("get ride", err)
	}
	if r.DriverID != driverID {
		return Ride{}, ErrUnauthorized
	}
	return s.Deactivate(ctx, id)
}

// List returns active rides matching the filter, soonest departure first.
// Results may be served from the listing cache within its TTL.
func (s *Service) List(ctx context.Context, f Filter) ([]Ride, error) {
	if rs, ok := s.cache.Get(ctx, f); ok {
		return rs, nil
	}
	rs, err := s.store.List(ctx, f)
	if err != nil {
		return nil, s.storeErr("list rides", err)
	}
	s.cache.Set(ctx, f, rs)
	return rs, nil
}

// DriverHistory returns all of a driver's rides, active or not, newest first.
func (s *Service) DriverHistory(ctx context.Context, driverID types.ID) ([]Ride, error) {
	rs, err := s.store.ByDriver(ctx, driverID)
	if err != nil {
		return nil, s.storeErr("driver history", err)
	}
	return rs, nil
}

func (s *Service) storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSeatsUnavailable) {
		return err
	}
	if s.log != nil {
		s.log.Error("ride store error", "op", op, "error", err)
	}
	return ErrDatabase
}

func (s *Service) fleetErr(op string, err error) error {
	if errors.Is(err, fleet.ErrNotFound) {
		return ErrNotFound
	}
	if s.log != nil {
		s.log.Error("ride fleet error", "op", op, "error", err)
	}
	return ErrDatabase
}

func (s *Service) fareErr(err error) error {
	switch {
	case errors.Is(err, fare.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, fare.ErrSamePoint),
		errors.Is(err, fare.ErrNotCampusRide),
		errors.Is(err, fare.ErrInvalidSeats):
		return ErrInvalidInput
	}
	if s.log != nil {
		s.log.Error("ride fare error", "error", err)
	}
	return ErrDatabase
}
