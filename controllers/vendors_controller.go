package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/catalog"
	"github.com/dryp/marketplace/dto"
	"github.com/dryp/marketplace/media"
	"github.com/dryp/marketplace/middleware"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/utils"
	"github.com/gin-gonic/gin"
)

// RegisterVendor creates a vendor user and its store profile. The user is
// removed again if the store cannot be created.
func (a *App) RegisterVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.RegisterVendorDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}
		slug := utils.GenerateSlug(body.VendorName)
		if slug == "" {
			respondError(c, apperror.Validation("vendorName", "Store name must contain letters or digits"))
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			respondError(c, fmt.Errorf("hash password: %w", err))
			return
		}
		email := normalizeEmail(body.Email)
		user := &models.User{
			Name:         strings.TrimSpace(body.OwnerName),
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleVendor,
			IsActive:     true,
		}
		if err := a.Users.Create(ctx, user); err != nil {
			if apperror.IsConflict(err) {
				respondError(c, apperror.Conflict("email", "User with this email already exists"))
				return
			}
			respondError(c, err)
			return
		}

		vendor := &models.Vendor{
			Owner:       user.ID,
			Name:        strings.TrimSpace(body.VendorName),
			Slug:        slug,
			Email:       email,
			Description: body.Description,
			Phone:       body.Phone,
			Website:     body.Website,
			Address:     body.Address,
		}
		if err := a.Vendors.Create(ctx, vendor); err != nil {
			if delErr := a.Users.Delete(ctx, user.ID); delErr != nil {
				log.Printf("vendor register: rollback user %s: %v", user.ID.Hex(), delErr)
			}
			respondError(c, err)
			return
		}

		access, err := a.Issuer.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role))
		if err != nil {
			respondError(c, fmt.Errorf("generate access token: %w", err))
			return
		}
		refresh, err := a.saveRefreshToken(ctx, user)
		if err != nil {
			respondError(c, err)
			return
		}
		a.setRefreshCookie(c, refresh)
		c.JSON(http.StatusCreated, gin.H{"accessToken": access, "user": user, "vendor": vendor})
	}
}

func (a *App) GetMyVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := a.myVendor(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, vendor)
	}
}

func (a *App) UpdateMyVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := a.myVendor(c)
		if !ok {
			return
		}

		var body dto.UpdateVendorDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			slug := utils.GenerateSlug(name)
			if slug == "" {
				respondError(c, apperror.Validation("name", "Store name must contain letters or digits"))
				return
			}
			vendor.Name, vendor.Slug = name, slug
		}
		if body.Description != nil {
			vendor.Description = *body.Description
		}
		if body.Phone != nil {
			vendor.Phone = *body.Phone
		}
		if body.Website != nil {
			vendor.Website = *body.Website
		}
		if body.Address != nil {
			vendor.Address = *body.Address
		}
		var oldLogo *models.Image
		if body.Logo != nil {
			if body.Logo.URL == "" || body.Logo.PublicID == "" {
				respondError(c, apperror.Validation("logo", "Logo needs url and publicId"))
				return
			}
			if vendor.Logo != nil && vendor.Logo.PublicID != body.Logo.PublicID {
				oldLogo = vendor.Logo
			}
			vendor.Logo = body.Logo
		}

		if err := a.Vendors.Update(c.Request.Context(), vendor); err != nil {
			respondError(c, err)
			return
		}
		if oldLogo != nil {
			media.DeleteAll(c.Request.Context(), a.Media, []models.Image{*oldLogo})
		}
		c.JSON(http.StatusOK, vendor)
	}
}

// GetMyVendorProducts lists every product of the caller, inactive included.
func (a *App) GetMyVendorProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, ok := a.myVendor(c)
		if !ok {
			return
		}
		products, err := a.Products.List(c.Request.Context(), catalog.ProductFilter{Vendor: &vendor.Owner})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetVendor is public. The id is the owning user's id, the one products carry.
func (a *App) GetVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := objectIDParam(c, "id", "Vendor")
		if !ok {
			return
		}
		vendor, err := a.Vendors.FindByOwner(c.Request.Context(), owner)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vendor)
	}
}

func (a *App) GetVendorProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := objectIDParam(c, "id", "Vendor")
		if !ok {
			return
		}
		if _, err := a.Vendors.FindByOwner(c.Request.Context(), owner); err != nil {
			respondError(c, err)
			return
		}
		products, err := a.Products.List(c.Request.Context(), catalog.ProductFilter{Vendor: &owner, ActiveOnly: true})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// myVendor loads the caller's store profile, answering the request itself on failure.
func (a *App) myVendor(c *gin.Context) (*models.Vendor, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, apperror.Unauthenticated("Not authorized"))
		return nil, false
	}
	vendor, err := a.Vendors.FindByOwner(c.Request.Context(), userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Vendor profile not found for this user"})
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	return vendor, true
}
