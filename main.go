package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/initializers"
	"github.com/medikart/medikart-api/payments"
	"github.com/medikart/medikart-api/realtime"
	"github.com/medikart/medikart-api/routes"
	"github.com/medikart/medikart-api/services"
)

func main() {
	initializers.LoadEnv()

	db := initializers.ConnectToDB()
	initializers.SyncDatabase(db)

	// Single gateway client and broadcast hub for the process lifetime,
	// handed to the services explicitly.
	gateway := payments.NewClient(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
	hub := realtime.NewHub()

	orderService := services.NewOrderService(db, gateway, hub)
	prescriptionService := services.NewPrescriptionService(db, hub)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "https://www.medikart.store"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.DefaultRoutes(server, hub)
	routes.AuthRoutes(server, db)
	routes.OrderRoutes(server, orderService)
	routes.PrescriptionRoutes(server, prescriptionService)
	routes.AdminRoutes(server, orderService, prescriptionService)
	routes.FeatureRoutes(server, db)

	server.Run()
}
