// README: Catalog handlers: zones, routes, subzones, meeting points.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unipool/internal/modules/catalog"
	"unipool/internal/types"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

type createZoneReq struct {
	Name       string  `json:"name"`
	BaseFare   float64 `json:"baseFare"`
	CostPerMin float64 `json:"costPerMin"`
	CostPerKm  float64 `json:"costPerKm"`
}

func (h *CatalogHandler) CreateZone(c *gin.Context) {
	var req createZoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	z, err := h.catalog.CreateZone(c.Request.Context(), req.Name, req.BaseFare, req.CostPerMin, req.CostPerKm)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, z)
}

func (h *CatalogHandler) ListZones(c *gin.Context) {
	zs, err := h.catalog.Zones(c.Request.Context())
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, zs)
}

type createRouteReq struct {
	Name string `json:"name"`
}

func (h *CatalogHandler) CreateRoute(c *gin.Context) {
	zoneID, ok := pathID(c, "zoneId")
	if !ok {
		return
	}
	var req createRouteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.catalog.CreateRoute(c.Request.Context(), zoneID, req.Name)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *CatalogHandler) ListRoutes(c *gin.Context) {
	zoneID, ok := pathID(c, "zoneId")
	if !ok {
		return
	}
	rs, err := h.catalog.RoutesByZone(c.Request.Context(), zoneID)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rs)
}

type createSubzoneReq struct {
	Name       string  `json:"name"`
	BaseFare   float64 `json:"baseFare"`
	CostPerMin float64 `json:"costPerMin"`
	CostPerKm  float64 `json:"costPerKm"`
}

func (h *CatalogHandler) CreateSubzone(c *gin.Context) {
	routeID, ok := pathID(c, "routeId")
	if !ok {
		return
	}
	var req createSubzoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	sz, err := h.catalog.CreateSubzone(c.Request.Context(), routeID, req.Name, req.BaseFare, req.CostPerMin, req.CostPerKm)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, sz)
}

func (h *CatalogHandler) ListSubzones(c *gin.Context) {
	routeID, ok := pathID(c, "routeId")
	if !ok {
		return
	}
	szs, err := h.catalog.SubzonesByRoute(c.Request.Context(), routeID)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, szs)
}

type createPointReq struct {
	Name          string   `json:"name"`
	DistanceToGiu float64  `json:"distanceToGiu"`
	TimeToGiu     float64  `json:"timeToGiu"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

func (h *CatalogHandler) CreateMeetingPoint(c *gin.Context) {
	routeID, ok := pathID(c, "routeId")
	if !ok {
		return
	}
	var req createPointReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.catalog.CreateMeetingPoint(c.Request.Context(), routeID, req.Name, req.DistanceToGiu, req.TimeToGiu, req.Latitude, req.Longitude)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, p)
}

func (h *CatalogHandler) ListMeetingPoints(c *gin.Context) {
	routeID, ok := pathID(c, "routeId")
	if !ok {
		return
	}
	ps, err := h.catalog.MeetingPointsByRoute(c.Request.Context(), routeID)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, ps)
}

type assignSubzoneReq struct {
	SubzoneID int64 `json:"subzoneId"`
}

func (h *CatalogHandler) AssignSubzone(c *gin.Context) {
	pointID, ok := pathID(c, "pointId")
	if !ok {
		return
	}
	var req assignSubzoneReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SubzoneID < 1 {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.catalog.AssignMeetingPointToSubzone(c.Request.Context(), pointID, types.ID(req.SubzoneID))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}
