package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/services"
)

// Customer-facing order handlers. Each handler is a thin adapter over the
// order service; all state-machine rules live there.

type capturePaymentRequest struct {
	RazorpayOrderID string `json:"razorpayOrderId"`
	PaymentID       string `json:"razorpayPaymentId"`
	Signature       string `json:"razorpaySignature"`
	OrderID         uint   `json:"orderId"`
}

func CreateOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var input services.CreateOrderInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			log.Println("JSON binding error:", err)
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}

		result, err := svc.Create(input)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusCreated, result)
	}
}

func CapturePayment(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req capturePaymentRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			log.Println("JSON binding error:", err)
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}

		order, err := svc.Capture(req.RazorpayOrderID, req.PaymentID, req.Signature, req.OrderID)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, order)
	}
}

func GetOrdersByCustomer(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		orders, err := svc.ListByCustomer(ctx.Param("userId"))
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, orders)
	}
}

func GetOrderDetails(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidOrderID)
			return
		}

		order, err := svc.GetByID(uint(orderID))
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, order)
	}
}
