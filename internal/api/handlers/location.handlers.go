package routes

import (
	"log"

	"github.com/gin-gonic/gin"

	"nearmark/internal/model"
	"nearmark/internal/service/tracker"
)

// LocationPayload is one location sample from a device. Live sensor samples
// and manual overrides arrive through the same endpoint.
type LocationPayload struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

// SetupLocationHandlers registers the location ingest endpoints
func SetupLocationHandlers(router *gin.RouterGroup, registry *tracker.Registry) {
	users := router.Group("/users")

	users.POST("/:userId/location", func(c *gin.Context) {
		userID := c.Param("userId")

		t, ok := registry.Get(userID)
		if !ok {
			c.JSON(404, gin.H{"error": "user is not tracked here"})
			return
		}

		var payload LocationPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		coordinate := model.Coordinate{Lat: *payload.Latitude, Lng: *payload.Longitude}
		if err := t.Sampler.SetCoordinate(coordinate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		log.Printf("Location sample accepted for %s", userID)

		// Report the sampling regime back so the device can reconfigure.
		c.JSON(200, gin.H{
			"accuracy":       t.Sampler.CurrentAccuracy().String(),
			"maxErrorMeters": t.Sampler.CurrentAccuracy().MaxErrorMeters(),
			"continuous":     t.Sampler.Continuous(),
		})
	})
}
