package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/middlewares"
	"github.com/medikart/medikart-api/services"
)

func SubmitPrescription(svc *services.PrescriptionService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var input services.SubmitPrescriptionInput
		if err := ctx.ShouldBindJSON(&input); err != nil {
			log.Println("JSON binding error:", err)
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}

		prescription, err := svc.Submit(input)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusCreated, prescription)
	}
}

func GetUnassignedPrescriptions(svc *services.PrescriptionService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		prescriptions, err := svc.ListUnassigned()
		if err != nil {
			sendServiceError(ctx, err)
			return
		}
		sendSuccessResponse(ctx, http.StatusOK, prescriptions)
	}
}

func GetAcceptedPrescriptions(svc *services.PrescriptionService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}

		prescriptions, err := svc.ListAssignedTo(adminID)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}
		sendSuccessResponse(ctx, http.StatusOK, prescriptions)
	}
}

func AcceptPrescription(svc *services.PrescriptionService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}

		prescriptionID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse prescription id")
			return
		}

		prescription, err := svc.Accept(uint(prescriptionID), adminID)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, prescription)
	}
}

func CompletePrescription(svc *services.PrescriptionService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		adminID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}

		prescriptionID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse prescription id")
			return
		}

		prescription, err := svc.Complete(uint(prescriptionID), adminID)
		if err != nil {
			sendServiceError(ctx, err)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, prescription)
	}
}
