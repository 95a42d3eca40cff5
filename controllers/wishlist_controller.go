package controllers

import (
	"net/http"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/middleware"
	"github.com/dryp/marketplace/models"
	"github.com/gin-gonic/gin"
)

// GetWishlist returns the wished products that still exist, newest first.
func (a *App) GetWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}
		items, err := a.Wishlist.List(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		products := make([]models.Product, 0, len(items))
		for _, it := range items {
			p, err := a.Products.FindByID(ctx, it.Product)
			if apperror.IsNotFound(err) {
				continue
			}
			if err != nil {
				respondError(c, err)
				return
			}
			products = append(products, *p)
		}
		c.JSON(http.StatusOK, products)
	}
}

func (a *App) AddToWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}
		id, ok := objectIDParam(c, "productId", "Product")
		if !ok {
			return
		}
		if _, err := a.Products.FindByID(ctx, id); err != nil {
			respondError(c, err)
			return
		}
		if err := a.Wishlist.Add(ctx, userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Added to wishlist"})
	}
}

func (a *App) RemoveFromWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}
		id, ok := objectIDParam(c, "productId", "Product")
		if !ok {
			return
		}
		if err := a.Wishlist.Remove(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
	}
}
