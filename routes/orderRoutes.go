package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/controllers"
	"github.com/medikart/medikart-api/middlewares"
	"github.com/medikart/medikart-api/services"
)

func OrderRoutes(server *gin.Engine, orders *services.OrderService) {
	shop := server.Group("/api/shop/order", middlewares.RequireAuth())
	{
		shop.POST("/create", controllers.CreateOrder(orders))
		shop.POST("/capture", controllers.CapturePayment(orders))
		shop.GET("/list/:userId", controllers.GetOrdersByCustomer(orders))
		shop.GET("/details/:id", controllers.GetOrderDetails(orders))
	}
}
