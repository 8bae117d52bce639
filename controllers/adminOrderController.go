package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/middlewares"
	"github.com/medikart/medikart-api/models"
	"github.com/medikart/medikart-api/services"
)

// Back-office order handlers. The acting admin id always comes from the
// verified session token, never from the request body.

type updateOrderStatusRequest struct {
	OrderStatus string `json:"orderStatus" binding:"required"`
}

func GetAllOrders(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		orders, err := svc.ListAll()
		if err != nil {
			sendServiceError(ctx, err)
			return
		}
		sendSuccessResponse(ctx, http.StatusOK, orders)
	}
}

func GetUnassignedOrders(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		orders, err := svc.ListUnassigned()
		if err != nil {
			sendServiceError(ctx, err)
			return
		}
		sendSuccessResponse(ctx, http.StatusOK, orders)
	}
}

func GetAcceptedOrders(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}

		orders, err := svc.ListAssignedTo(adminID)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}
		sendSuccessResponse(ctx, http.StatusOK, orders)
	}
}

func AcceptOrder(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}

		orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidOrderID)
			return
		}

		order, err := svc.Assign(uint(orderID), adminID)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, order)
	}
}

func MarkOrderDelivered(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}

		orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidOrderID)
			return
		}

		order, err := svc.MarkDelivered(uint(orderID), adminID)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, order)
	}
}

func UpdateOrderStatus(svc *services.OrderService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req updateOrderStatusRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			log.Println("JSON binding error:", err)
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}

		orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidOrderID)
			return
		}

		order, err := svc.UpdateStatus(uint(orderID), models.OrderStatus(req.OrderStatus))
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, order)
	}
}
