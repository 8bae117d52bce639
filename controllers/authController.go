package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medikart/medikart-api/middlewares"
	"github.com/medikart/medikart-api/models"
	"gorm.io/gorm"
)

// CheckAuth answers session introspection for the clients. Tokens are issued
// by the separate auth service; this endpoint only confirms the bearer still
// maps to a live user.
func CheckAuth(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := middlewares.UserIDFromContext(ctx)
		if !ok {
			sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				sendErrorResponse(ctx, http.StatusUnauthorized, "User not found")
				return
			}
			log.Println(err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalError)
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{
			"success": true,
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"role":     user.Role,
				"userName": user.Username,
			},
		})
	}
}
