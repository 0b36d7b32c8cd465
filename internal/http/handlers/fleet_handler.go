// README: Fleet handlers: driver registration/approval and cars.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unipool/internal/http/middleware"
	"unipool/internal/modules/fleet"
)

type FleetHandler struct {
	fleet *fleet.Service
}

func NewFleetHandler(svc *fleet.Service) *FleetHandler {
	return &FleetHandler{fleet: svc}
}

type registerDriverReq struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	LicenseNumber string `json:"licenseNumber"`
	Gender        string `json:"gender"`
}

func (h *FleetHandler) RegisterDriver(c *gin.Context) {
	var req registerDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.fleet.RegisterDriver(c.Request.Context(), fleet.RegisterDriverCommand{
		Name:          req.Name,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		LicenseNumber: req.LicenseNumber,
		Gender:        req.Gender,
	})
	if err != nil {
		writeFleetError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, d)
}

func (h *FleetHandler) GetDriver(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.fleet.Driver(c.Request.Context(), id)
	if err != nil {
		writeFleetError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

func (h *FleetHandler) ApproveDriver(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.fleet.ApproveDriver(c.Request.Context(), id)
	if err != nil {
		writeFleetError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

type registerCarReq struct {
	Model       string `json:"model"`
	Color       string `json:"color"`
	PlateNumber string `json:"plateNumber"`
	TotalSeats  int    `json:"totalSeats"`
}

// RegisterCar registers a car for the authenticated driver.
func (h *FleetHandler) RegisterCar(c *gin.Context) {
	var req registerCarReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	car, err := h.fleet.RegisterCar(c.Request.Context(), fleet.RegisterCarCommand{
		DriverID:    middleware.CallerID(c),
		Model:       req.Model,
		Color:       req.Color,
		PlateNumber: req.PlateNumber,
		TotalSeats:  req.TotalSeats,
	})
	if err != nil {
		writeFleetError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, car)
}

func (h *FleetHandler) MyCars(c *gin.Context) {
	cars, err := h.fleet.CarsByDriver(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeFleetError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, cars)
}
