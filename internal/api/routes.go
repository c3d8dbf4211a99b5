package api

import (
	"github.com/gin-gonic/gin"

	"carpool/internal/api/handlers"
)

type Router struct {
	messageHandler *handlers.MessageHandler
	rideHandler    *handlers.RideHandler
}

func NewRouter(messageHandler *handlers.MessageHandler, rideHandler *handlers.RideHandler) *Router {
	return &Router{
		messageHandler: messageHandler,
		rideHandler:    rideHandler,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Transport edge: inbound turns and the outbound socket
	engine.POST("/messages", r.messageHandler.Receive)
	engine.GET("/ws/:user_id", r.messageHandler.Connect)

	// Read-only inspection endpoints
	engine.GET("/rides", r.rideHandler.ListOpen)
	engine.GET("/rides/:id", r.rideHandler.GetRide)
	engine.GET("/locations", r.rideHandler.ListLocations)
}
