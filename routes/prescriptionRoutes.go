package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/controllers"
	"github.com/medikart/medikart-api/middlewares"
	"github.com/medikart/medikart-api/services"
)

func PrescriptionRoutes(server *gin.Engine, prescriptions *services.PrescriptionService) {
	server.POST("/api/shop/prescriptions", middlewares.RequireAuth(), controllers.SubmitPrescription(prescriptions))
}
