package controllers

import (
	"fmt"
	"net/http"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/dto"
	"github.com/dryp/marketplace/middleware"
	"github.com/dryp/marketplace/utils"
	"github.com/gin-gonic/gin"
)

func (a *App) GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}
		user, err := a.Users.FindByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ChangeMyPassword also revokes every refresh token of the user.
func (a *App) ChangeMyPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}

		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}
		if body.CurrentPassword == body.NewPassword {
			badRequest(c, "New password must be different from current password")
			return
		}

		user, err := a.Users.FindByID(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"message": "Account disabled"})
			return
		}
		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Current password is incorrect"})
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			respondError(c, fmt.Errorf("hash password: %w", err))
			return
		}
		if err := a.Users.UpdatePassword(ctx, userID, newHash); err != nil {
			respondError(c, err)
			return
		}
		if err := a.Tokens.RevokeAll(ctx, userID); err != nil {
			respondError(c, err)
			return
		}

		a.clearRefreshCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "Password updated. Please log in again."})
	}
}
