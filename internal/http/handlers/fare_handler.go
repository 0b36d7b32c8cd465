// README: Fare quote handler.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"unipool/internal/modules/fare"
	"unipool/internal/types"
)

type FareHandler struct {
	fares *fare.Service
}

func NewFareHandler(svc *fare.Service) *FareHandler {
	return &FareHandler{fares: svc}
}

// Quote prices a prospective ride without creating anything.
// GET /api/fares/quote?origin=<id>&destination=<id>&seats=<n>
func (h *FareHandler) Quote(c *gin.Context) {
	origin, ok := types.ParseID(c.Query("origin"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid origin")
		return
	}
	destination, ok := types.ParseID(c.Query("destination"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid destination")
		return
	}
	seats, err := strconv.Atoi(c.DefaultQuery("seats", "1"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid seats")
		return
	}
	q, qerr := h.fares.QuoteByID(c.Request.Context(), origin, destination, seats)
	if qerr != nil {
		writeFareError(c, qerr)
		return
	}
	writeJSON(c, http.StatusOK, q)
}
