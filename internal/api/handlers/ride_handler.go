package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/registry"
	"carpool/internal/repository"
)

// RideHandler exposes read-only inspection endpoints over the stores. These
// are operator windows; no mutation ever happens through them.
type RideHandler struct {
	rideStore repository.RideStore
	registry  *registry.Registry
}

func NewRideHandler(rideStore repository.RideStore, reg *registry.Registry) *RideHandler {
	return &RideHandler{
		rideStore: rideStore,
		registry:  reg,
	}
}

// ListOpen handles GET /rides.
func (h *RideHandler) ListOpen(c *gin.Context) {
	rides, err := h.rideStore.OpenRides(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"open":  rides,
		"total": h.rideStore.Count(c.Request.Context()),
	})
}

// GetRide handles GET /rides/:id.
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideStore.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ride not found"})
		return
	}

	c.JSON(http.StatusOK, ride)
}

// ListLocations handles GET /locations.
func (h *RideHandler) ListLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pickups": h.registry.Pickups.All(),
		"drops":   h.registry.Drops.All(),
	})
}
