// README: Fare quote model.
package fare

import "unipool/internal/modules/catalog"

// Quote is the priced result for a campus ride between two meeting points.
// Price is per seat, rounded to two decimal places.
type Quote struct {
	Price         float64              `json:"price"`
	Distance      float64              `json:"distance"`
	EstimatedTime float64              `json:"estimatedTime"`
	Origin        catalog.MeetingPoint `json:"origin"`
	Destination   catalog.MeetingPoint `json:"destination"`
}
