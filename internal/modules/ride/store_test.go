// README: DB-backed tests for the conditional seat write (run with -race).
package ride

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fleet"
	"unipool/internal/types"
)

type dbFixture struct {
	store  *PostgresStore
	driver types.ID
	car    types.ID
	campus types.ID
	point  types.ID
}

func (f *dbFixture) newRide(t *testing.T, store *PostgresStore, seats int) types.ID {
	t.Helper()
	id, err := store.Create(context.Background(), Ride{
		DriverID:      f.driver,
		CarID:         f.car,
		OriginID:      f.point,
		DestinationID: f.campus,
		Price:         30,
		SeatsLeft:     seats,
		Active:        true,
		DepartureTime: time.Now().Add(2 * time.Hour).UTC(),
		EstimatedTime: 20,
		Distance:      10,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return id
}

func TestStore_ApplySeatDelta(t *testing.T) {
	ctx := context.Background()
	f := setupTestStore(t)
	id := f.newRide(t, f.store, 2)

	r, err := f.store.ApplySeatDelta(ctx, id, -1)
	if err != nil {
		t.Fatalf("ApplySeatDelta(-1): %v", err)
	}
	if r.SeatsLeft != 1 || !r.Active {
		t.Fatalf("after -1: seatsLeft=%d active=%v", r.SeatsLeft, r.Active)
	}

	// Going below zero leaves the row untouched.
	if _, err := f.store.ApplySeatDelta(ctx, id, -2); !errors.Is(err, ErrSeatsUnavailable) {
		t.Fatalf("below-floor error = %v, want ErrSeatsUnavailable", err)
	}

	// Landing on zero flips active in the same statement.
	r, err = f.store.ApplySeatDelta(ctx, id, -1)
	if err != nil {
		t.Fatalf("ApplySeatDelta(last seat): %v", err)
	}
	if r.SeatsLeft != 0 || r.Active {
		t.Fatalf("after sellout: seatsLeft=%d active=%v", r.SeatsLeft, r.Active)
	}

	// Inactive rows reject every delta, positive included.
	if _, err := f.store.ApplySeatDelta(ctx, id, +1); !errors.Is(err, ErrSeatsUnavailable) {
		t.Fatalf("inactive error = %v, want ErrSeatsUnavailable", err)
	}
}

// seats_left has no ceiling; a positive delta can exceed seats_total.
func TestStore_ApplySeatDelta_NoCeiling(t *testing.T) {
	ctx := context.Background()
	f := setupTestStore(t)
	id := f.newRide(t, f.store, 2)

	r, err := f.store.ApplySeatDelta(ctx, id, +5)
	if err != nil {
		t.Fatalf("ApplySeatDelta(+5): %v", err)
	}
	if r.SeatsLeft != 7 {
		t.Fatalf("seatsLeft = %d, want 7", r.SeatsLeft)
	}
}

func TestConcurrentSeatBooking(t *testing.T) {
	ctx := context.Background()
	f := setupTestStore(t)
	id := f.newRide(t, f.store, 3)

	const attempts = 12
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.store.ApplySeatDelta(ctx, id, -1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if !errors.Is(err, ErrSeatsUnavailable) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 3 {
		t.Fatalf("expected exactly 3 successful bookings, got %d", success)
	}

	r, err := f.store.Ride(ctx, id)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if r.SeatsLeft != 0 || r.Active {
		t.Fatalf("after the rush: seatsLeft=%d active=%v", r.SeatsLeft, r.Active)
	}
}

func TestStore_List_ActiveOnlyOrdered(t *testing.T) {
	ctx := context.Background()
	f := setupTestStore(t)

	later := f.newRide(t, f.store, 2)
	sooner := f.newRide(t, f.store, 2)
	retired := f.newRide(t, f.store, 2)

	base := time.Now().UTC()
	if _, err := f.store.db.Exec(ctx, `UPDATE rides SET departure_time = $2 WHERE id = $1`, later, base.Add(5*time.Hour)); err != nil {
		t.Fatalf("set departure: %v", err)
	}
	if _, err := f.store.db.Exec(ctx, `UPDATE rides SET departure_time = $2 WHERE id = $1`, sooner, base.Add(time.Hour)); err != nil {
		t.Fatalf("set departure: %v", err)
	}
	if err := f.store.SetInactive(ctx, retired); err != nil {
		t.Fatalf("set inactive: %v", err)
	}

	rs, err := f.store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("List len = %d, want 2", len(rs))
	}
	if rs[0].ID != sooner || rs[1].ID != later {
		t.Fatalf("List not ordered by departure ascending")
	}
	if rs[0].Driver == nil || rs[0].Origin == nil {
		t.Fatalf("List did not load includes")
	}
}

func setupTestStore(t *testing.T) *dbFixture {
	t.Helper()

	dsn := os.Getenv("UNIPOOL_TEST_DSN")
	if dsn == "" {
		t.Skip("UNIPOOL_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE rides, cars, drivers, meeting_points, subzones, routes, zones RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	f := &dbFixture{store: NewStore(db)}

	catStore := catalog.NewStore(db)
	zoneID, err := catStore.CreateZone(ctx, catalog.Zone{Name: "North", BaseFare: 20, CostPerMin: 1, CostPerKm: 2})
	if err != nil {
		t.Fatalf("seed zone: %v", err)
	}
	routeID, err := catStore.CreateRoute(ctx, catalog.Route{Name: "Heliopolis Line", ZoneID: zoneID})
	if err != nil {
		t.Fatalf("seed route: %v", err)
	}
	f.campus, err = catStore.CreateMeetingPoint(ctx, catalog.MeetingPoint{Name: "GIU Campus", RouteID: routeID})
	if err != nil {
		t.Fatalf("seed campus: %v", err)
	}
	f.point, err = catStore.CreateMeetingPoint(ctx, catalog.MeetingPoint{Name: "Roxy Square", RouteID: routeID, DistanceToGiu: 10, TimeToGiu: 20})
	if err != nil {
		t.Fatalf("seed point: %v", err)
	}

	fleetStore := fleet.NewStore(db)
	f.driver, err = fleetStore.CreateDriver(ctx, fleet.Driver{Name: "Omar", LicenseNumber: "CAI-1", Approved: true})
	if err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	f.car, err = fleetStore.CreateCar(ctx, fleet.Car{DriverID: f.driver, Model: "Corolla", PlateNumber: "ABC 123", TotalSeats: 4})
	if err != nil {
		t.Fatalf("seed car: %v", err)
	}
	return f
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}
	for _, stmt := range splitSQL(stripSQLComments(string(content))) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
