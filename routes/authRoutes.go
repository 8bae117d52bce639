package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/controllers"
	"github.com/medikart/medikart-api/middlewares"
	"gorm.io/gorm"
)

func AuthRoutes(server *gin.Engine, db *gorm.DB) {
	server.GET("/api/auth/check-auth", middlewares.RequireAuth(), controllers.CheckAuth(db))
}
