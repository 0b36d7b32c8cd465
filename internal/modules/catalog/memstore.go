// README: In-memory catalog store for tests and seeding dry runs.
package catalog

import (
	"context"
	"sync"

	"unipool/internal/types"
)

// MemStore implements Store with plain maps. Safe for concurrent use.
type MemStore struct {
	mu            sync.RWMutex
	nextID        types.ID
	zones         map[types.ID]Zone
	routes        map[types.ID]Route
	subzones      map[types.ID]Subzone
	meetingPoints map[types.ID]MeetingPoint
}

func NewMemStore() *MemStore {
	return &MemStore{
		nextID:        1,
		zones:         make(map[types.ID]Zone),
		routes:        make(map[types.ID]Route),
		subzones:      make(map[types.ID]Subzone),
		meetingPoints: make(map[types.ID]MeetingPoint),
	}
}

func (m *MemStore) allocID() types.ID {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MemStore) CreateZone(_ context.Context, z Zone) (types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z.ID = m.allocID()
	m.zones[z.ID] = z
	return z.ID, nil
}

func (m *MemStore) Zones(_ context.Context) ([]Zone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Zone, 0, len(m.zones))
	for id := types.ID(1); id < m.nextID; id++ {
		if z, ok := m.zones[id]; ok {
			out = append(out, z)
		}
	}
	return out, nil
}

func (m *MemStore) Zone(_ context.Context, id types.ID) (Zone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	z, ok := m.zones[id]
	if !ok {
		return Zone{}, ErrNotFound
	}
	return z, nil
}

func (m *MemStore) CreateRoute(_ context.Context, r Route) (types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.allocID()
	m.routes[r.ID] = r
	return r.ID, nil
}

func (m *MemStore) RoutesByZone(_ context.Context, zoneID types.ID) ([]Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Route
	for id := types.ID(1); id < m.nextID; id++ {
		if r, ok := m.routes[id]; ok && r.ZoneID == zoneID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemStore) Route(_ context.Context, id types.ID) (Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.routes[id]
	if !ok {
		return Route{}, ErrNotFound
	}
	return r, nil
}

func (m *MemStore) CreateSubzone(_ context.Context, sz Subzone) (types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sz.ID = m.allocID()
	m.subzones[sz.ID] = sz
	return sz.ID, nil
}

func (m *MemStore) SubzonesByRoute(_ context.Context, routeID types.ID) ([]Subzone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Subzone
	for id := types.ID(1); id < m.nextID; id++ {
		if sz, ok := m.subzones[id]; ok && sz.RouteID == routeID {
			out = append(out, sz)
		}
	}
	return out, nil
}

func (m *MemStore) Subzone(_ context.Context, id types.ID) (Subzone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sz, ok := m.subzones[id]
	if !ok {
		return Subzone{}, ErrNotFound
	}
	return sz, nil
}

func (m *MemStore) CreateMeetingPoint(_ context.Context, p MeetingPoint) (types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.allocID()
	m.meetingPoints[p.ID] = p
	return p.ID, nil
}

func (m *MemStore) MeetingPointsByRoute(_ context.Context, routeID types.ID) ([]MeetingPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []MeetingPoint
	for id := types.ID(1); id < m.nextID; id++ {
		if p, ok := m.meetingPoints[id]; ok && p.RouteID == routeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemStore) MeetingPoint(_ context.Context, id types.ID) (MeetingPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.meetingPoints[id]
	if !ok {
		return MeetingPoint{}, ErrNotFound
	}
	return p, nil
}

func (m *MemStore) AssignSubzone(_ context.Context, pointID, subzoneID types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.meetingPoints[pointID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m.subzones[subzoneID]; !ok {
		return ErrNotFound
	}
	p.SubzoneID = &subzoneID
	m.meetingPoints[pointID] = p
	return nil
}

func (m *MemStore) PricedPoint(_ context.Context, id types.ID) (PricedPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.meetingPoints[id]
	if !ok {
		return PricedPoint{}, ErrNotFound
	}
	r, ok := m.routes[p.RouteID]
	if !ok {
		return PricedPoint{}, ErrNotFound
	}
	z, ok := m.zones[r.ZoneID]
	if !ok {
		return PricedPoint{}, ErrNotFound
	}
	pp := PricedPoint{
		MeetingPoint: p,
		ZoneTariff:   Tariff{BaseFare: z.BaseFare, CostPerMin: z.CostPerMin, CostPerKm: z.CostPerKm},
	}
	if p.SubzoneID != nil {
		if sz, ok := m.subzones[*p.SubzoneID]; ok {
			pp.SubzoneTariff = &Tariff{BaseFare: sz.BaseFare, CostPerMin: sz.CostPerMin, CostPerKm: sz.CostPerKm}
		}
	}
	return pp, nil
}
