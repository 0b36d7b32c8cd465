// README: Ride handlers: offer, list, seats, cancel, history.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"unipool/internal/http/middleware"
	"unipool/internal/modules/ride"
	"unipool/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

type createRideReq struct {
	CarID         int64  `json:"carId"`
	OriginID      int64  `json:"originId"`
	DestinationID int64  `json:"destinationId"`
	FromGiu       bool   `json:"fromGiu"`
	GirlsOnly     bool   `json:"girlsOnly"`
	DepartureTime string `json:"departureTime"`
}

// Create offers a ride on behalf of the authenticated driver.
func (h *RideHandler) Create(c *gin.Context) {
	var req createRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.rides.Create(c.Request.Context(), ride.CreateCommand{
		DriverID:      middleware.CallerID(c),
		CarID:         types.ID(req.CarID),
		OriginID:      types.ID(req.OriginID),
		DestinationID: types.ID(req.DestinationID),
		FromGiu:       req.FromGiu,
		GirlsOnly:     req.GirlsOnly,
		DepartureTime: req.DepartureTime,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *RideHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.rides.Ride(c.Request.Context(), id)
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

// List returns active rides, optionally filtered.
// GET /api/rides?fromGiu=&girlsOnly=&zone=&route=&origin=&destination=&from=&to=&minSeats=
func (h *RideHandler) List(c *gin.Context) {
	var f ride.Filter
	if v := c.Query("fromGiu"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid fromGiu")
			return
		}
		f.FromGiu = &b
	}
	if v := c.Query("girlsOnly"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid girlsOnly")
			return
		}
		f.GirlsOnly = &b
	}
	if v := c.Query("zone"); v != "" {
		id, ok := types.ParseID(v)
		if !ok {
			writeError(c, http.StatusBadRequest, "invalid zone")
			return
		}
		f.ZoneID = &id
	}
	if v := c.Query("route"); v != "" {
		id, ok := types.ParseID(v)
		if !ok {
			writeError(c, http.StatusBadRequest, "invalid route")
			return
		}
		f.RouteID = &id
	}
	if v := c.Query("origin"); v != "" {
		id, ok := types.ParseID(v)
		if !ok {
			writeError(c, http.StatusBadRequest, "invalid origin")
			return
		}
		f.OriginID = &id
	}
	if v := c.Query("destination"); v != "" {
		id, ok := types.ParseID(v)
		if !ok {
			writeError(c, http.StatusBadRequest, "invalid destination")
			return
		}
		f.DestinationID = &id
	}
	if v := c.Query("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid from")
			return
		}
		f.DepartureFrom = &ts
	}
	if v := c.Query("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid to")
			return
		}
		f.DepartureTo = &ts
	}
	if v := c.Query("minSeats"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "invalid minSeats")
			return
		}
		f.MinSeatsLeft = &n
	}

	rs, err := h.rides.List(c.Request.Context(), f)
	if err != nil {
		writeRideError(c, err)
		return
	}
	if rs == nil {
		rs = []ride.Ride{}
	}
	writeJSON(c, http.StatusOK, rs)
}

type updateSeatsReq struct {
	Delta int `json:"delta"`
}

// UpdateSeats adjusts remaining seats; the booking service calls this when
// reservations are made or released.
func (h *RideHandler) UpdateSeats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateSeatsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.rides.UpdateSeats(c.Request.Context(), id, req.Delta)
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

// Cancel deactivates the ride; only its driver may call this.
func (h *RideHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.rides.CancelByDriver(c.Request.Context(), id, middleware.CallerID(c))
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

// Deactivate retires a ride without a driver check; used by internal tooling
// and the booking service after departure.
func (h *RideHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.rides.Deactivate(c.Request.Context(), id)
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

// History lists the authenticated driver's rides, newest first.
func (h *RideHandler) History(c *gin.Context) {
	rs, err := h.rides.DriverHistory(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeRideError(c, err)
		return
	}
	if rs == nil {
		rs = []ride.Ride{}
	}
	writeJSON(c, http.StatusOK, rs)
}
