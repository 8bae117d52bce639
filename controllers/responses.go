package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/payments"
	"github.com/medikart/medikart-api/services"
)

const (
	msgInvalidInput   = "Invalid request body"
	msgInvalidOrderID = "Failed to parse order id"
	msgInternalError  = "Some error occurred!"
	msgGatewayError   = "Error while talking to the payment gateway"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendSuccessResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, gin.H{"success": true, "data": data})
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"success": false, "message": message})
}

// sendServiceError translates a lifecycle-service failure into the structured
// error envelope. Business-rule failures keep their message; anything
// unexpected is logged server-side and answered generically.
func sendServiceError(ctx *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.ProductNotFoundError
	var stockErr *services.InsufficientStockError
	var gatewayErr *payments.GatewayError

	switch {
	case errors.As(err, &validationErr):
		sendErrorResponse(ctx, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, services.ErrInvalidSignature),
		errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrAlreadyAssigned),
		errors.Is(err, services.ErrTerminalStatus):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotAuthorized):
		sendErrorResponse(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrPrescriptionNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.As(err, &notFoundErr):
		sendErrorResponse(ctx, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &stockErr):
		sendErrorResponse(ctx, http.StatusConflict, stockErr.Error())
	case errors.As(err, &gatewayErr):
		log.Println("payment gateway error:", gatewayErr.Message)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgGatewayError)
	default:
		log.Println("internal error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalError)
	}
}
