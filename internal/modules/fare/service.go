// README: Fare calculator: tiered tariff resolution and per-seat pricing.
package fare

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"unipool/internal/modules/catalog"
	"unipool/internal/types"
)

var (
	ErrNotFound      = errors.New("meeting point not found")
	ErrSamePoint     = errors.New("origin and destination are the same point")
	ErrNotCampusRide = errors.New("exactly one endpoint must be the campus")
	ErrInvalidSeats  = errors.New("seat count must be at least 1")
	ErrDatabase      = errors.New("fare storage failure")
)

// Catalog is the slice of the catalog service the calculator needs.
type Catalog interface {
	PricedPoint(ctx context.Context, id types.ID) (catalog.PricedPoint, error)
}

type Service struct {
	catalog Catalog
	log     *slog.Logger
}

func NewService(cat Catalog, log *slog.Logger) *Service {
	return &Service{catalog: cat, log: log}
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute prices a ride between two resolved points. Every ride has the campus
// on exactly one end; distance, time, and tariff all come from the off-campus
// point, and the total is split evenly across seats.
func Compute(origin, destination catalog.PricedPoint, seatsTotal int) (Quote, error) {
	if seatsTotal < 1 {
		return Quote{}, ErrInvalidSeats
	}
	if origin.ID == destination.ID {
		return Quote{}, ErrSamePoint
	}
	if origin.IsCampus() == destination.IsCampus() {
		return Quote{}, ErrNotCampusRide
	}

	priced := origin
	if origin.IsCampus() {
		priced = destination
	}
	tariff := priced.Tariff()
	total := tariff.BaseFare +
		tariff.CostPerMin*priced.TimeToGiu +
		tariff.CostPerKm*priced.DistanceToGiu

	return Quote{
		Price:         Round2(total / float64(seatsTotal)),
		Distance:      priced.DistanceToGiu,
		EstimatedTime: priced.TimeToGiu,
		Origin:        origin.MeetingPoint,
		Destination:   destination.MeetingPoint,
	}, nil
}

// QuoteByID resolves both points through the catalog and prices the ride.
func (s *Service) QuoteByID(ctx context.Context, originID, destinationID types.ID, seatsTotal int) (Quote, error) {
	origin, err := s.catalog.PricedPoint(ctx, originID)
	if err != nil {
		return Quote{}, s.catalogErr(err)
	}
	destination, err := s.catalog.PricedPoint(ctx, destinationID)
	if err != nil {
		return Quote{}, s.catalogErr(err)
	}
	return Compute(origin, destination, seatsTotal)
}

func (s *Service) catalogErr(err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return ErrNotFound
	}
	if s.log != nil {
		s.log.Error("fare catalog error", "error", err)
	}
	return ErrDatabase
}
