package routes

import (
	"context"

	"github.com/gin-gonic/gin"

	"nearmark/internal/model"
)

// SessionReader is the read-only session history surface.
type SessionReader interface {
	SessionsForUser(ctx context.Context, userID string) ([]model.ProximitySession, error)
	OpenSessionsForUser(ctx context.Context, userID string) ([]model.ProximitySession, error)
}

// SetupSessionHandlers registers the session history endpoints
func SetupSessionHandlers(router *gin.RouterGroup, sessions SessionReader) {
	users := router.Group("/users")

	users.GET("/:userId/sessions", func(c *gin.Context) {
		list, err := sessions.SessionsForUser(c.Request.Context(), c.Param("userId"))
		if err != nil {
			c.JSON(500, gin.H{"error": "failed to load sessions"})
			return
		}
		c.JSON(200, list)
	})

	users.GET("/:userId/sessions/open", func(c *gin.Context) {
		list, err := sessions.OpenSessionsForUser(c.Request.Context(), c.Param("userId"))
		if err != nil {
			c.JSON(500, gin.H{"error": "failed to load open sessions"})
			return
		}
		c.JSON(200, list)
	})
}
