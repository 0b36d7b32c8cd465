// README: Driver and car records used to gate ride creation.
package fleet

import "unipool/internal/types"

// Driver is a platform user who registered as a driver. Approved is flipped by
// an admin after the license is reviewed; unapproved drivers cannot offer rides.
type Driver struct {
	ID            types.ID `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	PhoneNumber   string   `json:"phoneNumber"`
	LicenseNumber string   `json:"licenseNumber"`
	Gender        string   `json:"gender"`
	Approved      bool     `json:"approved"`
}

type Car struct {
	ID          types.ID `json:"id"`
	DriverID    types.ID `json:"driverId"`
	Model       string   `json:"model"`
	Color       string   `json:"color"`
	PlateNumber string   `json:"plateNumber"`
	TotalSeats  int      `json:"totalSeats"`
}
