package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/controllers"
	"github.com/medikart/medikart-api/middlewares"
	"gorm.io/gorm"
)

func FeatureRoutes(server *gin.Engine, db *gorm.DB) {
	feature := server.Group("/api/common/feature")
	{
		feature.GET("/get", controllers.GetFeatureImages(db))
		feature.POST("/add", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.AddFeatureImage(db))
		feature.DELETE("/delete/:id", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.DeleteFeatureImage(db))
	}
}
