// README: In-memory fleet store for tests.
package fleet

import (
	"context"
	"sync"

	"unipool/internal/types"
)

type MemStore struct {
	mu      sync.RWMutex
	nextID  types.ID
	drivers map[types.ID]Driver
	cars    map[types.ID]Car
}

func NewMemStore() *MemStore {
	return &MemStore{
		nextID:  1,
		drivers: make(map[types.ID]Driver),
		cars:    make(map[types.ID]Car),
	}
}

func (m *MemStore) allocID() types.ID {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MemStore) CreateDriver(_ context.Context, d Driver) (types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = m.allocID()
	m.drivers[d.ID] = d
	return d.ID, nil
}

func (m *MemStore) Driver(_ context.Context, id types.ID) (Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drivers[id]
	if !ok {
		return Driver{}, ErrNotFound
	}
	return d, nil
}

func (m *MemStore) SetApproved(_ context.Context, id types.ID, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return ErrNotFound
	}
	d.Approved = approved
	m.drivers[id] = d
	return nil
}

func (m *MemStore) CreateCar(_ context.Context, c Car) (types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.allocID()
	m.cars[c.ID] = c
	return c.ID, nil
}

func (m *MemStore) Car(_ context.Context, id types.ID) (Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cars[id]
	if !ok {
		return Car{}, ErrNotFound
	}
	return c, nil
}

func (m *MemStore) CarsByDriver(_ context.Context, driverID types.ID) ([]Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Car
	for id := types.ID(1); id < m.nextID; id++ {
		if c, ok := m.cars[id]; ok && c.DriverID == driverID {
			out = append(out, c)
		}
	}
	return out, nil
}
