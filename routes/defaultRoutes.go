package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/controllers"
	"github.com/medikart/medikart-api/realtime"
)

func DefaultRoutes(server *gin.Engine, hub *realtime.Hub) {
	server.GET("/", controllers.GetHome)
	server.GET("/ws", controllers.RealtimeHandler(hub))
}
