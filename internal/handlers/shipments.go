package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HCD2016-hash/shippo-missive/internal/logger"
	"github.com/HCD2016-hash/shippo-missive/internal/repos"
	"github.com/HCD2016-hash/shippo-missive/internal/services"
)

type ShipmentHandler struct {
	log          *logger.Logger
	shipments    services.ShipmentService
	defaultDays  int
	defaultLimit int
}

// defaultDays and defaultLimit apply when the query string leaves days/limit
// unset; main reads them from SHIPMENT_LIST_DAYS and SHIPMENT_LIST_LIMIT.
func NewShipmentHandler(log *logger.Logger, shipments services.ShipmentService, defaultDays, defaultLimit int) *ShipmentHandler {
	return &ShipmentHandler{
		log:          log.With("handler", "ShipmentHandler"),
		shipments:    shipments,
		defaultDays:  defaultDays,
		defaultLimit: defaultLimit,
	}
}

// List handles GET /api/shippo/shipments?status=&search=&days=&limit=.
func (h *ShipmentHandler) List(c *gin.Context) {
	filter := repos.ShipmentFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Days:   queryInt(c, "days", h.defaultDays),
		Limit:  queryInt(c, "limit", h.defaultLimit),
	}

	views, err := h.shipments.List(c.Request.Context(), nil, filter)
	if err != nil {
		h.log.Error("List shipments failed", "error", err)
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{
		"success":   true,
		"count":     len(views),
		"shipments": views,
	})
}

// Get handles GET /api/shippo/shipments/:id; the key matches row id,
// tracking number or transaction id.
func (h *ShipmentHandler) Get(c *gin.Context) {
	view, err := h.shipments.Get(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrShipmentNotFound) {
			RespondError(c, http.StatusNotFound, errors.New("Not found"))
			return
		}
		h.log.Error("Get shipment failed", "key", c.Param("id"), "error", err)
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "shipment": view})
}

// Stats handles GET /api/shippo/stats?days=.
func (h *ShipmentHandler) Stats(c *gin.Context) {
	stats, err := h.shipments.Stats(c.Request.Context(), nil, queryInt(c, "days", h.defaultDays))
	if err != nil {
		h.log.Error("Stats failed", "error", err)
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{
		"success":   true,
		"total":     stats.Total,
		"by_status": stats.ByStatus,
	})
}

func queryInt(c *gin.Context, key string, defaultVal int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return v
}
