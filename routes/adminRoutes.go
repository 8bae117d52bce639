package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/controllers"
	"github.com/medikart/medikart-api/middlewares"
	"github.com/medikart/medikart-api/services"
)

func AdminRoutes(server *gin.Engine, orders *services.OrderService, prescriptions *services.PrescriptionService) {
	admin := server.Group("/api/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())

	adminOrders := admin.Group("/orders")
	{
		adminOrders.GET("/get", controllers.GetAllOrders(orders))
		adminOrders.GET("/details/:id", controllers.GetOrderDetails(orders))
		adminOrders.GET("/unassigned", controllers.GetUnassignedOrders(orders))
		adminOrders.PUT("/accept/:id", controllers.AcceptOrder(orders))
		adminOrders.GET("/accepted", controllers.GetAcceptedOrders(orders))
		adminOrders.PUT("/delivered/:id", controllers.MarkOrderDelivered(orders))
		adminOrders.PUT("/update/:id", controllers.UpdateOrderStatus(orders))
	}

	adminPrescriptions := admin.Group("/prescriptions")
	{
		adminPrescriptions.GET("/unassigned", controllers.GetUnassignedPrescriptions(prescriptions))
		adminPrescriptions.PUT("/accept/:id", controllers.AcceptPrescription(prescriptions))
		adminPrescriptions.GET("/assigned", controllers.GetAcceptedPrescriptions(prescriptions))
		adminPrescriptions.PUT("/complete/:id", controllers.CompletePrescription(prescriptions))
	}
}
