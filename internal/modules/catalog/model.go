// README: Zone/route/subzone hierarchy and meeting point reference data.
package catalog

import "unipool/internal/types"

// Zone is the top-level tariff tier. Every route belongs to one zone.
type Zone struct {
	ID         types.ID `json:"id"`
	Name       string   `json:"name"`
	BaseFare   float64  `json:"baseFare"`
	CostPerMin float64  `json:"costPerMin"`
	CostPerKm  float64  `json:"costPerKm"`
}

type Route struct {
	ID     types.ID `json:"id"`
	Name   string   `json:"name"`
	ZoneID types.ID `json:"zoneId"`
}

// Subzone is an optional finer-grained tariff tier under a route. When a
// meeting point is assigned to a subzone, the subzone tariff overrides the
// zone tariff for that point.
type Subzone struct {
	ID         types.ID `json:"id"`
	Name       string   `json:"name"`
	RouteID    types.ID `json:"routeId"`
	BaseFare   float64  `json:"baseFare"`
	CostPerMin float64  `json:"costPerMin"`
	CostPerKm  float64  `json:"costPerKm"`
}

// MeetingPoint is a pickup/drop-off location on a route. The campus itself is
// stored as a meeting point with DistanceToGiu == 0.
type MeetingPoint struct {
	ID            types.ID  `json:"id"`
	Name          string    `json:"name"`
	RouteID       types.ID  `json:"routeId"`
	SubzoneID     *types.ID `json:"subzoneId,omitempty"`
	DistanceToGiu float64   `json:"distanceToGiu"`
	TimeToGiu     float64   `json:"timeToGiu"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
}

// IsCampus reports whether the point is the campus endpoint.
func (p MeetingPoint) IsCampus() bool {
	return p.DistanceToGiu == 0
}

// Tariff is one pricing triple, regardless of which tier it came from.
type Tariff struct {
	BaseFare   float64
	CostPerMin float64
	CostPerKm  float64
}

// PricedPoint is a meeting point with both candidate tariff tiers resolved.
// Exactly one tier applies: the subzone tariff when the point is assigned to a
// subzone, the route's zone tariff otherwise.
type PricedPoint struct {
	MeetingPoint
	ZoneTariff    Tariff
	SubzoneTariff *Tariff
}

// Tariff returns the tier that governs this point's pricing.
func (p PricedPoint) Tariff() Tariff {
	if p.SubzoneTariff != nil {
		return *p.SubzoneTariff
	}
	return p.ZoneTariff
}
