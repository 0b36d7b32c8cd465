// README: In-memory ride store for tests. Mirrors the conditional seat write.
package ride

import (
	"context"
	"sort"
	"sync"

	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fleet"
	"unipool/internal/types"
)

type MemStore struct {
	mu      sync.Mutex
	nextID  types.ID
	rides   map[types.ID]Ride
	fleet   *fleet.MemStore
	catalog *catalog.MemStore
}

// NewMemStore creates a ride store that resolves driver, car, and meeting
// point includes from the given in-memory stores. Either may be nil, in which
// case the includes stay nil.
func NewMemStore(fleetStore *fleet.MemStore, catalogStore *catalog.MemStore) *MemStore {
	return &MemStore{
		nextID:  1,
		rides:   make(map[types.ID]Ride),
		fleet:   fleetStore,
		catalog: catalogStore,
	}
}

func (m *MemStore) Create(_ context.Context, r Ride) (types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	m.rides[r.ID] = r
	return r.ID, nil
}

func (m *MemStore) Ride(ctx context.Context, id types.ID) (Ride, error) {
	m.mu.Lock()
	r, ok := m.rides[id]
	m.mu.Unlock()
	if !ok {
		return Ride{}, ErrNotFound
	}
	return m.withIncludes(ctx, r), nil
}

func (m *MemStore) List(ctx context.Context, f Filter) ([]Ride, error) {
	m.mu.Lock()
	var out []Ride
	for _, r := range m.rides {
		if r.Active && m.matches(ctx, r, f) {
			out = append(out, r)
		}
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].DepartureTime.Before(out[j].DepartureTime)
	})
	for i := range out {
		out[i] = m.withIncludes(ctx, out[i])
	}
	return out, nil
}

func (m *MemStore) ByDriver(ctx context.Context, driverID types.ID) ([]Ride, error) {
	m.mu.Lock()
	var out []Ride
	for _, r := range m.rides {
		if r.DriverID == driverID {
			out = append(out, r)
		}
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	for i := range out {
		out[i] = m.withIncludes(ctx, out[i])
	}
	return out, nil
}

func (m *MemStore) ApplySeatDelta(ctx context.Context, id types.ID, delta int) (Ride, error) {
	m.mu.Lock()
	r, ok := m.rides[id]
	if !ok || !r.Active || r.SeatsLeft+delta < 0 {
		m.mu.Unlock()
		return Ride{}, ErrSeatsUnavailable
	}
	r.SeatsLeft += delta
	if r.SeatsLeft == 0 {
		r.Active = false
	}
	m.rides[id] = r
	m.mu.Unlock()
	return m.withIncludes(ctx, r), nil
}

func (m *MemStore) SetInactive(_ context.Context, id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return ErrNotFound
	}
	r.Active = false
	m.rides[id] = r
	return nil
}

func (m *MemStore) matches(ctx context.Context, r Ride, f Filter) bool {
	if f.FromGiu != nil && r.FromGiu != *f.FromGiu {
		return false
	}
	if f.GirlsOnly != nil && r.GirlsOnly != *f.GirlsOnly {
		return false
	}
	if f.OriginID != nil && r.OriginID != *f.OriginID {
		return false
	}
	if f.DestinationID != nil && r.DestinationID != *f.DestinationID {
		return false
	}
	if f.DepartureFrom != nil && r.DepartureTime.Before(*f.DepartureFrom) {
		return false
	}
	if f.DepartureTo != nil && r.DepartureTime.After(*f.DepartureTo) {
		return false
	}
	if f.MinSeatsLeft != nil && r.SeatsLeft < *f.MinSeatsLeft {
		return false
	}
	if (f.RouteID != nil || f.ZoneID != nil) && m.catalog != nil {
		origin, err := m.catalog.MeetingPoint(ctx, r.OriginID)
		if err != nil {
			return false
		}
		if f.RouteID != nil && origin.RouteID != *f.RouteID {
			return false
		}
		if f.ZoneID != nil {
			route, err := m.catalog.Route(ctx, origin.RouteID)
			if err != nil || route.ZoneID != *f.ZoneID {
				return false
			}
		}
	}
	return true
}

func (m *MemStore) withIncludes(ctx context.Context, r Ride) Ride {
	if m.fleet != nil {
		if d, err := m.fleet.Driver(ctx, r.DriverID); err == nil {
			r.Driver = &d
		}
		if c, err := m.fleet.Car(ctx, r.CarID); err == nil {
			r.Car = &c
		}
	}
	if m.catalog != nil {
		if p, err := m.catalog.MeetingPoint(ctx, r.OriginID); err == nil {
			r.Origin = &p
		}
		if p, err := m.catalog.MeetingPoint(ctx, r.DestinationID); err == nil {
			r.Destination = &p
		}
	}
	return r
}
