package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/models"
	"gorm.io/gorm"
)

// Feature-image curation for the storefront banner carousel.

type addFeatureRequest struct {
	Image string `json:"image" binding:"required"`
}

func AddFeatureImage(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req addFeatureRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			log.Println("JSON binding error:", err)
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
			return
		}

		feature := models.Feature{Image: req.Image}
		if err := db.Create(&feature).Error; err != nil {
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalError)
			return
		}

		sendSuccessResponse(ctx, http.StatusCreated, feature)
	}
}

func GetFeatureImages(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var features []models.Feature
		if err := db.Order("created_at DESC").Find(&features).Error; err != nil {
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalError)
			return
		}

		sendSuccessResponse(ctx, http.StatusOK, features)
	}
}

func DeleteFeatureImage(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		featureID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse image id")
			return
		}

		var feature models.Feature
		if err := db.First(&feature, featureID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				sendErrorResponse(ctx, http.StatusNotFound, "Image not found")
				return
			}
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalError)
			return
		}

		if err := db.Delete(&feature).Error; err != nil {
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalError)
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"success": true, "message": "Image deleted successfully"})
	}
}
