package ride

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fare"
	"unipool/internal/modules/fleet"
	"unipool/internal/types"
)

type fixture struct {
	svc     *Service
	fleet   *fleet.Service
	catalog *catalog.Service

	driver fleet.Driver
	car    fleet.Car
	zone   catalog.Zone
	route  catalog.Route
	campus catalog.MeetingPoint
	roxy   catalog.MeetingPoint

	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	catStore := catalog.NewMemStore()
	catSvc := catalog.NewService(catStore, log)
	fleetStore := fleet.NewMemStore()
	fleetSvc := fleet.NewService(fleetStore, log)
	fareSvc := fare.NewService(catSvc, log)
	rideStore := NewMemStore(fleetStore, catStore)

	svc := NewService(rideStore, fleetSvc, fareSvc, nil, log)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	f := &fixture{svc: svc, fleet: fleetSvc, catalog: catSvc, now: now}

	f.zone, _ = catSvc.CreateZone(ctx, "North", 20, 1, 2)
	f.route, _ = catSvc.CreateRoute(ctx, f.zone.ID, "Heliopolis Line")
	f.campus, _ = catSvc.CreateMeetingPoint(ctx, f.route.ID, "GIU Campus", 0, 0, nil, nil)
	f.roxy, _ = catSvc.CreateMeetingPoint(ctx, f.route.ID, "Roxy Square", 10, 20, nil, nil)

	f.driver, _ = fleetSvc.RegisterDriver(ctx, fleet.RegisterDriverCommand{Name: "Omar", LicenseNumber: "CAI-1"})
	f.driver, _ = fleetSvc.ApproveDriver(ctx, f.driver.ID)
	f.car, _ = fleetSvc.RegisterCar(ctx, fleet.RegisterCarCommand{
		DriverID: f.driver.ID, Model: "Corolla", PlateNumber: "ABC 123", TotalSeats: 2,
	})
	return f
}

func (f *fixture) cmd() CreateCommand {
	return CreateCommand{
		DriverID:      f.driver.ID,
		CarID:         f.car.ID,
		OriginID:      f.roxy.ID,
		DestinationID: f.campus.ID,
		DepartureTime: f.now.Add(2 * time.Hour).Format(time.RFC3339),
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.svc.Create(ctx, f.cmd())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	// 20 + 1*20 + 2*10 = 60 across the car's 2 seats.
	if r.Price != 30.00 {
		t.Errorf("price = %v, want 30.00", r.Price)
	}
	if r.SeatsLeft != f.car.TotalSeats {
		t.Errorf("seatsLeft = %d, want car capacity %d", r.SeatsLeft, f.car.TotalSeats)
	}
	if r.Distance != 10 || r.EstimatedTime != 20 {
		t.Errorf("quote snapshot = (%v, %v), want (10, 20)", r.Distance, r.EstimatedTime)
	}
	if !r.Active || r.Status() != StatusActive {
		t.Errorf("new ride must be active")
	}
	// The create response carries the same associations as any other read.
	if r.Driver == nil || r.Driver.ID != f.driver.ID {
		t.Errorf("create response missing driver include")
	}
	if r.Car == nil || r.Car.ID != f.car.ID {
		t.Errorf("create response missing car include")
	}
	if r.Origin == nil || r.Origin.ID != f.roxy.ID || r.Destination == nil || r.Destination.ID != f.campus.ID {
		t.Errorf("create response missing meeting point includes")
	}
}

func TestService_Create_Gates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unapproved, _ := f.fleet.RegisterDriver(ctx, fleet.RegisterDriverCommand{Name: "Sara", LicenseNumber: "GIZ-2"})
	unapprovedCar, _ := f.fleet.RegisterCar(ctx, fleet.RegisterCarCommand{
		DriverID: unapproved.ID, Model: "Lancer", PlateNumber: "XYZ 9", TotalSeats: 4,
	})

	tests := []struct {
		name    string
		mutate  func(*CreateCommand)
		wantErr error
	}{
		{
			name:    "unapproved driver",
			mutate:  func(c *CreateCommand) { c.DriverID = unapproved.ID; c.CarID = unapprovedCar.ID },
			wantErr: ErrUnauthorized,
		},
		{
			name:    "unknown driver",
			mutate:  func(c *CreateCommand) { c.DriverID = 999 },
			wantErr: ErrNotFound,
		},
		{
			name:    "car owned by someone else",
			mutate:  func(c *CreateCommand) { c.CarID = unapprovedCar.ID },
			wantErr: ErrInvalidCar,
		},
		{
			name:    "unknown car",
			mutate:  func(c *CreateCommand) { c.CarID = 999 },
			wantErr: ErrInvalidCar,
		},
		{
			name:    "malformed departure",
			mutate:  func(c *CreateCommand) { c.DepartureTime = "tomorrow at noon" },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "departure in the past",
			mutate:  func(c *CreateCommand) { c.DepartureTime = f.now.Add(-time.Hour).Format(time.RFC3339) },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "departure exactly now",
			mutate:  func(c *CreateCommand) { c.DepartureTime = f.now.Format(time.RFC3339) },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "same origin and destination",
			mutate:  func(c *CreateCommand) { c.DestinationID = c.OriginID },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown origin",
			mutate:  func(c *CreateCommand) { c.OriginID = 999 },
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := f.cmd()
			tt.mutate(&cmd)
			_, err := f.svc.Create(context.Background(), cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Create_OffCampusPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, _ := f.catalog.CreateMeetingPoint(ctx, f.route.ID, "Korba", 8, 15, nil, nil)
	cmd := f.cmd()
	cmd.DestinationID = other.ID

	if _, err := f.svc.Create(ctx, cmd); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Create() error = %v, want ErrInvalidInput", err)
	}
}

func TestService_UpdateSeats_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, _ := f.svc.Create(ctx, f.cmd()) // 2 seats

	r, err := f.svc.UpdateSeats(ctx, r.ID, -1)
	if err != nil {
		t.Fatalf("book one seat: %v", err)
	}
	if r.SeatsLeft != 1 || !r.Active {
		t.Errorf("after one booking: seatsLeft=%d active=%v", r.SeatsLeft, r.Active)
	}

	// Last seat deactivates the ride in the same write.
	r, err = f.svc.UpdateSeats(ctx, r.ID, -1)
	if err != nil {
		t.Fatalf("book last seat: %v", err)
	}
	if r.SeatsLeft != 0 || r.Active {
		t.Errorf("after selling out: seatsLeft=%d active=%v", r.SeatsLeft, r.Active)
	}

	// Inactive rides reject all seat updates, including frees.
	if _, err := f.svc.UpdateSeats(ctx, r.ID, -1); !errors.Is(err, ErrRideInactive) {
		t.Errorf("booking sold-out ride: error = %v, want ErrRideInactive", err)
	}
	if _, err := f.svc.UpdateSeats(ctx, r.ID, +1); !errors.Is(err, ErrRideInactive) {
		t.Errorf("freeing a seat must not reactivate: error = %v, want ErrRideInactive", err)
	}
	got, _ := f.svc.Ride(ctx, r.ID)
	if got.Active {
		t.Errorf("ride reactivated")
	}
}

func TestService_UpdateSeats_Floor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, _ := f.svc.Create(ctx, f.cmd()) // 2 seats

	if _, err := f.svc.UpdateSeats(ctx, r.ID, -3); !errors.Is(err, ErrSeatsUnavailable) {
		t.Errorf("overbooking error = %v, want ErrSeatsUnavailable", err)
	}
	got, _ := f.svc.Ride(ctx, r.ID)
	if got.SeatsLeft != 2 || !got.Active {
		t.Errorf("failed update mutated the ride: seatsLeft=%d active=%v", got.SeatsLeft, got.Active)
	}

	if _, err := f.svc.UpdateSeats(ctx, 999, -1); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown ride error = %v, want ErrNotFound", err)
	}
}

// Nothing caps seats_left at seats_total: freeing more seats than were ever
// booked inflates the count past the car's capacity. Kept as-is to match
// current booking-side behavior; the booking service owns the pairing of
// reserve and release.
func TestService_UpdateSeats_NoUpperBound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, _ := f.svc.Create(ctx, f.cmd()) // 2 seats

	r, err := f.svc.UpdateSeats(ctx, r.ID, +5)
	if err != nil {
		t.Fatalf("UpdateSeats(+5) error = %v", err)
	}
	if r.SeatsLeft != 7 {
		t.Errorf("seatsLeft = %d, want 7 (no upper bound is enforced)", r.SeatsLeft)
	}
}

func TestService_UpdateSeats_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	van, err := f.fleet.RegisterCar(ctx, fleet.RegisterCarCommand{
		DriverID: f.driver.ID, Model: "HiAce", PlateNumber: "VAN 3", TotalSeats: 3,
	})
	if err != nil {
		t.Fatalf("register van: %v", err)
	}
	cmd := f.cmd()
	cmd.CarID = van.ID
	r, _ := f.svc.Create(ctx, cmd)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.UpdateSeats(ctx, r.ID, -1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var booked int
	for err := range results {
		if err == nil {
			booked++
		}
	}
	if booked != 3 {
		t.Errorf("booked = %d, want exactly 3", booked)
	}
	got, _ := f.svc.Ride(ctx, r.ID)
	if got.SeatsLeft != 0 || got.Active {
		t.Errorf("after the rush: seatsLeft=%d active=%v", got.SeatsLeft, got.Active)
	}
}

func TestService_Deactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, _ := f.svc.Create(ctx, f.cmd())

	r, err := f.svc.Deactivate(ctx, r.ID)
	if err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if r.Active {
		t.Errorf("ride still active")
	}

	// Idempotent.
	r, err = f.svc.Deactivate(ctx, r.ID)
	if err != nil {
		t.Fatalf("second Deactivate() error = %v", err)
	}
	if r.Active {
		t.Errorf("ride reactivated")
	}

	if _, err := f.svc.Deactivate(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Deactivate(missing) error = %v, want ErrNotFound", err)
	}
}

func TestService_CancelByDriver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, _ := f.svc.Create(ctx, f.cmd())

	other, _ := f.fleet.RegisterDriver(ctx, fleet.RegisterDriverCommand{Name: "Nour", LicenseNumber: "GIZ-3"})
	if _, err := f.svc.CancelByDriver(ctx, r.ID, other.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("foreign cancel error = %v, want ErrUnauthorized", err)
	}
	got, _ := f.svc.Ride(ctx, r.ID)
	if !got.Active {
		t.Errorf("foreign cancel deactivated the ride")
	}

	r, err := f.svc.CancelByDriver(ctx, r.ID, f.driver.ID)
	if err != nil {
		t.Fatalf("CancelByDriver() error = %v", err)
	}
	if r.Active {
		t.Errorf("cancel did not deactivate")
	}

	if _, err := f.svc.CancelByDriver(ctx, 999, f.driver.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cancel missing ride error = %v, want ErrNotFound", err)
	}
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	later := f.cmd()
	later.DepartureTime = f.now.Add(5 * time.Hour).Format(time.RFC3339)
	later.GirlsOnly = true
	sooner := f.cmd()
	sooner.DepartureTime = f.now.Add(1 * time.Hour).Format(time.RFC3339)
	retired := f.cmd()

	r1, _ := f.svc.Create(ctx, later)
	r2, _ := f.svc.Create(ctx, sooner)
	r3, _ := f.svc.Create(ctx, retired)
	if _, err := f.svc.Deactivate(ctx, r3.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	rs, err := f.svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("List() len = %d, want 2 (inactive excluded)", len(rs))
	}
	if rs[0].ID != r2.ID || rs[1].ID != r1.ID {
		t.Errorf("List() not ordered by departure time ascending")
	}

	zoneID := f.zone.ID
	rs, err = f.svc.List(ctx, Filter{ZoneID: &zoneID})
	if err != nil {
		t.Fatalf("List(zone) error = %v", err)
	}
	if len(rs) != 2 {
		t.Errorf("List(zone) len = %d, want 2", len(rs))
	}

	otherZone := types.ID(999)
	rs, _ = f.svc.List(ctx, Filter{ZoneID: &otherZone})
	if len(rs) != 0 {
		t.Errorf("List(unknown zone) len = %d, want 0", len(rs))
	}

	routeID := f.route.ID
	rs, _ = f.svc.List(ctx, Filter{RouteID: &routeID})
	if len(rs) != 2 {
		t.Errorf("List(route) len = %d, want 2", len(rs))
	}

	minSeats := 3
	rs, _ = f.svc.List(ctx, Filter{MinSeatsLeft: &minSeats})
	if len(rs) != 0 {
		t.Errorf("List(minSeats=3) len = %d, want 0", len(rs))
	}

	yes := true
	rs, _ = f.svc.List(ctx, Filter{GirlsOnly: &yes})
	if len(rs) != 1 || rs[0].ID != r1.ID {
		t.Errorf("List(girlsOnly) = %d rides, want the girls-only one", len(rs))
	}
	rs, _ = f.svc.List(ctx, Filter{FromGiu: &yes})
	if len(rs) != 0 {
		t.Errorf("List(fromGiu) len = %d, want 0", len(rs))
	}
}

func TestService_DriverHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r1, _ := f.svc.Create(ctx, f.cmd())
	r2, _ := f.svc.Create(ctx, f.cmd())
	if _, err := f.svc.Deactivate(ctx, r1.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	rs, err := f.svc.DriverHistory(ctx, f.driver.ID)
	if err != nil {
		t.Fatalf("DriverHistory() error = %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("history len = %d, want 2 (inactive included)", len(rs))
	}
	if rs[0].ID != r2.ID {
		t.Errorf("history not ordered newest first")
	}
}

func TestService_Ride_Includes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, _ := f.svc.Create(ctx, f.cmd())
	r, err := f.svc.Ride(ctx, created.ID)
	if err != nil {
		t.Fatalf("Ride() error = %v", err)
	}
	if r.Driver == nil || r.Driver.ID != f.driver.ID {
		t.Errorf("driver include missing")
	}
	if r.Car == nil || r.Car.ID != f.car.ID {
		t.Errorf("car include missing")
	}
	if r.Origin == nil || r.Origin.ID != f.roxy.ID || r.Destination == nil || r.Destination.ID != f.campus.ID {
		t.Errorf("meeting point includes missing")
	}
}
