package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all v1 API routes. The auth middleware guards
// everything except the health check.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth ...gin.HandlerFunc) {
	protected := api.Group("", auth...)

	// Citizen report submission
	protected.POST("/reports", h.submitReport)

	// Incident reads and lifecycle transitions
	incidents := protected.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PATCH("/:id/status", h.updateStatus)
		incidents.POST("/status", h.bulkUpdateStatus)
	}

	// Risk-zone membership tracking
	safety := protected.Group("/safety")
	{
		safety.GET("", h.listSafety)
		safety.POST("/position", h.handlePosition)
		safety.POST("/response", h.respondSafety)
	}

	// Risk zone administration
	zones := protected.Group("/zones")
	{
		zones.GET("", h.listZones)
		zones.POST("", h.createZone)
		zones.DELETE("/:id", h.deactivateZone)
	}

	// Health-check route
	api.GET("/system/health", h.healthCheck)
}
