package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/dto"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/utils"
	"github.com/gin-gonic/gin"
)

const (
	refreshCookie     = "refreshToken"
	refreshCookiePath = "/api/auth"
)

func (a *App) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			respondError(c, fmt.Errorf("hash password: %w", err))
			return
		}
		user := &models.User{
			Name:         strings.TrimSpace(body.Name),
			Email:        normalizeEmail(body.Email),
			PasswordHash: hash,
			Role:         models.RoleCustomer,
			IsActive:     true,
		}
		if err := a.Users.Create(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}

		a.issueSession(c, http.StatusCreated, user)
	}
}

func (a *App) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}

		user, err := a.Users.FindByEmail(c.Request.Context(), normalizeEmail(body.Email))
		if err != nil {
			if apperror.IsNotFound(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
				return
			}
			respondError(c, err)
			return
		}
		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"message": "Account disabled"})
			return
		}

		a.issueSession(c, http.StatusOK, user)
	}
}

// Refresh rotates the refresh cookie and returns a new access token.
func (a *App) Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, err := c.Cookie(refreshCookie)
		if err != nil || raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Missing refresh token"})
			return
		}
		if _, err := a.Issuer.ValidateRefreshToken(raw); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid refresh token"})
			return
		}

		rt, err := a.Tokens.FindByHash(ctx, utils.HashToken(raw))
		if err != nil || rt.RevokedAt != nil || time.Now().After(rt.ExpiresAt) {
			if rt != nil && rt.RevokedAt != nil {
				// A rotated token came back: treat the whole family as stolen.
				_ = a.Tokens.RevokeAll(ctx, rt.UserID)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid refresh token"})
			return
		}

		user, err := a.Users.FindByID(ctx, rt.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid user"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"message": "Account disabled"})
			return
		}

		refresh, err := a.saveRefreshToken(ctx, user)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := a.Tokens.Revoke(ctx, rt.ID, utils.HashToken(refresh)); err != nil {
			respondError(c, err)
			return
		}
		access, err := a.Issuer.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role))
		if err != nil {
			respondError(c, fmt.Errorf("generate access token: %w", err))
			return
		}

		a.setRefreshCookie(c, refresh)
		c.JSON(http.StatusOK, gin.H{"accessToken": access})
	}
}

func (a *App) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(refreshCookie)
		a.clearRefreshCookie(c)

		// best effort revoke
		if raw != "" {
			if rt, err := a.Tokens.FindByHash(c.Request.Context(), utils.HashToken(raw)); err == nil {
				_ = a.Tokens.Revoke(c.Request.Context(), rt.ID, "")
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func (a *App) issueSession(c *gin.Context, status int, user *models.User) {
	access, err := a.Issuer.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role))
	if err != nil {
		respondError(c, fmt.Errorf("generate access token: %w", err))
		return
	}
	refresh, err := a.saveRefreshToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	a.setRefreshCookie(c, refresh)
	c.JSON(status, gin.H{"accessToken": access, "user": user})
}

func (a *App) saveRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refresh, err := a.Issuer.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	now := time.Now().UTC()
	err = a.Tokens.Save(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refresh),
		ExpiresAt: now.Add(a.Issuer.RefreshTTL),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return refresh, nil
}

func (a *App) setRefreshCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     refreshCookiePath,
		Domain:   a.Cookies.Domain,
		MaxAge:   int(a.Issuer.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.Cookies.Secure,
		SameSite: sameSite(a.Cookies.Secure),
	})
}

func (a *App) clearRefreshCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     refreshCookiePath,
		Domain:   a.Cookies.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.Cookies.Secure,
		SameSite: sameSite(a.Cookies.Secure),
	})
}

// SameSite=None is only accepted on secure cookies.
func sameSite(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
