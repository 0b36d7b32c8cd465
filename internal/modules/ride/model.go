// README: Ride offer model: seats, pricing snapshot, and lifecycle state.
package ride

import (
	"time"

	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fleet"
	"unipool/internal/types"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Ride is a driver's offer. Price, distance, and estimated time are the fare
// quote snapshotted at creation; later tariff edits never reprice an existing
// ride. Active transitions one way only, from true to false.
type Ride struct {
	ID            types.ID  `json:"id"`
	DriverID      types.ID  `json:"driverId"`
	CarID         types.ID  `json:"carId"`
	OriginID      types.ID  `json:"originId"`
	DestinationID types.ID  `json:"destinationId"`
	FromGiu       bool      `json:"fromGiu"`
	GirlsOnly     bool      `json:"girlsOnly"`
	Price         float64   `json:"price"`
	SeatsLeft     int       `json:"seatsLeft"`
	Active        bool      `json:"active"`
	DepartureTime time.Time `json:"departureTime"`
	EstimatedTime float64   `json:"estimatedTime"`
	Distance      float64   `json:"distance"`
	CreatedAt     time.Time `json:"createdAt"`

	// Eager-loaded associations, populated by reads that include them.
	Driver      *fleet.Driver         `json:"driver,omitempty"`
	Car         *fleet.Car            `json:"car,omitempty"`
	Origin      *catalog.MeetingPoint `json:"origin,omitempty"`
	Destination *catalog.MeetingPoint `json:"destination,omitempty"`
}

// Status derives the lifecycle state from the active flag.
func (r Ride) Status() Status {
	if r.Active {
		return StatusActive
	}
	return StatusInactive
}

// Filter narrows ride listings. Listings only ever return active rides;
// Zone and Route match through the origin meeting point.
type Filter struct {
	FromGiu       *bool
	GirlsOnly     *bool
	ZoneID        *types.ID
	RouteID       *types.ID
	OriginID      *types.ID
	DestinationID *types.ID
	DepartureFrom *time.Time
	DepartureTo   *time.Time
	MinSeatsLeft  *int
}
