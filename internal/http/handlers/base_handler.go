// README: Base handler utilities (JSON helpers, error mapping, id parsing).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unipool/internal/modules/catalog"
	"unipool/internal/modules/fare"
	"unipool/internal/modules/fleet"
	"unipool/internal/modules/ride"
	"unipool/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// pathID parses a positive int64 path parameter; writes a 400 and returns
// false otherwise.
func pathID(c *gin.Context, name string) (types.ID, bool) {
	id, ok := types.ParseID(c.Param(name))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func writeCatalogError(c *gin.Context, err error) {
	switch err {
	case catalog.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case catalog.ErrInvalidInput:
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeFleetError(c *gin.Context, err error) {
	switch err {
	case fleet.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case fleet.ErrInvalidInput:
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeFareError(c *gin.Context, err error) {
	switch err {
	case fare.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case fare.ErrSamePoint, fare.ErrNotCampusRide, fare.ErrInvalidSeats:
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeRideError(c *gin.Context, err error) {
	switch err {
	case ride.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case ride.ErrInvalidInput, ride.ErrInvalidDate, ride.ErrInvalidCar:
		writeError(c, http.StatusBadRequest, err.Error())
	case ride.ErrUnauthorized:
		writeError(c, http.StatusForbidden, err.Error())
	case ride.ErrSeatsUnavailable, ride.ErrRideInactive:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
