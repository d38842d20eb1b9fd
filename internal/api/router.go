package api

import (
	routes "nearmark/internal/api/handlers"
	"nearmark/internal/service/tracker"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, registry *tracker.Registry, sessions routes.SessionReader) {
	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""))

	// Setup location and session handlers
	routes.SetupLocationHandlers(api, registry)
	routes.SetupSessionHandlers(api, sessions)
}
