// README: Seeds a development database with zones, routes, points, drivers,
// cars, and a spread of rides.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"unipool/internal/config"
	"unipool/internal/infra"
	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fleet"
	"unipool/internal/modules/ride"
	"unipool/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	catStore := catalog.NewStore(db)
	fleetStore := fleet.NewStore(db)
	rideStore := ride.NewStore(db)

	log.Println("seeding zones")
	zoneSpecs := []catalog.Zone{
		{Name: "Nasr City", BaseFare: 20, CostPerMin: 1, CostPerKm: 2},
		{Name: "New Cairo", BaseFare: 30, CostPerMin: 2, CostPerKm: 3},
		{Name: "6th October", BaseFare: 50, CostPerMin: 3, CostPerKm: 4},
	}
	var zoneIDs []types.ID
	for _, z := range zoneSpecs {
		id, err := catStore.CreateZone(ctx, z)
		if err != nil {
			log.Fatalf("seed zone: %v", err)
		}
		zoneIDs = append(zoneIDs, id)
	}

	log.Println("seeding routes, subzones, meeting points")
	var pointIDs []types.ID
	var campusID types.ID
	for zi, zoneID := range zoneIDs {
		for i := 1; i <= 2; i++ {
			routeID, err := catStore.CreateRoute(ctx, catalog.Route{
				Name:   fmt.Sprintf("Route %d-%d", zoneID, i),
				ZoneID: zoneID,
			})
			if err != nil {
				log.Fatalf("seed route: %v", err)
			}

			subzoneID, err := catStore.CreateSubzone(ctx, catalog.Subzone{
				Name: fmt.Sprintf("Subzone %d", routeID), RouteID: routeID,
				BaseFare: 10, CostPerMin: 1, CostPerKm: 1,
			})
			if err != nil {
				log.Fatalf("seed subzone: %v", err)
			}

			// The campus itself lives on the first route as a zero-distance point.
			if zi == 0 && i == 1 {
				campusID, err = catStore.CreateMeetingPoint(ctx, catalog.MeetingPoint{
					Name: "GIU Campus", RouteID: routeID,
				})
				if err != nil {
					log.Fatalf("seed campus: %v", err)
				}
			}

			for j := 1; j <= 3; j++ {
				lat := 30 + rand.Float64()
				lng := 31 + rand.Float64()
				p := catalog.MeetingPoint{
					Name:          fmt.Sprintf("Point %d-%d", routeID, j),
					RouteID:       routeID,
					DistanceToGiu: float64(j) * 5,
					TimeToGiu:     float64(j) * 10,
					Latitude:      &lat,
					Longitude:     &lng,
				}
				// First point of each route sits in its subzone.
				if j == 1 {
					p.SubzoneID = &subzoneID
				}
				id, err := catStore.CreateMeetingPoint(ctx, p)
				if err != nil {
					log.Fatalf("seed meeting point: %v", err)
				}
				pointIDs = append(pointIDs, id)
			}
		}
	}

	log.Println("seeding drivers and cars")
	var driverIDs []types.ID
	carByDriver := make(map[types.ID]types.ID)
	for i := 1; i <= 4; i++ {
		gender := "Male"
		if i%2 == 0 {
			gender = "Female"
		}
		driverID, err := fleetStore.CreateDriver(ctx, fleet.Driver{
			Name:          fmt.Sprintf("Driver %d", i),
			Email:         fmt.Sprintf("driver%d@gmail.com", i),
			PhoneNumber:   fmt.Sprintf("0100000000%d", i),
			LicenseNumber: fmt.Sprintf("LIC00%d", i),
			Gender:        gender,
			Approved:      i%2 == 1,
		})
		if err != nil {
			log.Fatalf("seed driver: %v", err)
		}
		driverIDs = append(driverIDs, driverID)

		for j := 1; j <= 2; j++ {
			color := "White"
			if j%2 == 0 {
				color = "Black"
			}
			carID, err := fleetStore.CreateCar(ctx, fleet.Car{
				DriverID:    driverID,
				Model:       fmt.Sprintf("Model %d", j),
				Color:       color,
				PlateNumber: fmt.Sprintf("PLATE%d%d", driverID, j),
				TotalSeats:  4,
			})
			if err != nil {
				log.Fatalf("seed car: %v", err)
			}
			if j == 1 {
				carByDriver[driverID] = carID
			}
		}
	}

	log.Println("seeding rides")
	now := time.Now().UTC()
	for i := 1; i <= 20; i++ {
		driverID := driverIDs[rand.Intn(len(driverIDs))]
		origin := pointIDs[rand.Intn(len(pointIDs))]
		destination := campusID
		fromGiu := i%2 == 0
		if fromGiu {
			origin, destination = campusID, origin
		}

		seats := 4
		if i%5 == 0 {
			seats = 0
		}
		_, err := rideStore.Create(ctx, ride.Ride{
			DriverID:      driverID,
			CarID:         carByDriver[driverID],
			OriginID:      origin,
			DestinationID: destination,
			FromGiu:       fromGiu,
			GirlsOnly:     i%3 == 0,
			Price:         float64(50 + i),
			SeatsLeft:     seats,
			Active:        i%7 != 0 && seats > 0,
			DepartureTime: now.Add(time.Duration(i-10) * 24 * time.Hour),
			EstimatedTime: 20,
			Distance:      10,
			CreatedAt:     now,
		})
		if err != nil {
			log.Fatalf("seed ride: %v", err)
		}
	}

	log.Println("seeding completed")
}
