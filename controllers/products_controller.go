package controllers

import (
	"fmt"
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
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	facetPrefix     = "facets:"
	suggestionLimit = 10
	suggestedNames  = 5
)

// GetProducts lists active products, newest first.
func (a *App) GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		f := catalog.ProductFilter{
			Brands:     catalog.SplitList(c.Query("brand")),
			Categories: catalog.SplitList(c.Query("category")),
			Colors:     catalog.SplitList(c.Query("color")),
			Search:     strings.TrimSpace(c.Query("search")),
			ActiveOnly: true,
			Limit:      a.ListLimit,
		}

		if v := c.Query("vendor"); v != "" {
			vendor, err := bson.ObjectIDFromHex(v)
			if err != nil {
				badRequest(c, "Invalid vendor id")
				return
			}
			f.Vendor = &vendor
		}
		var err error
		if f.MinPrice, err = utils.ParseFloatQuery(c.Query("minPrice")); err != nil {
			badRequest(c, "Invalid minPrice")
			return
		}
		if f.MaxPrice, err = utils.ParseFloatQuery(c.Query("maxPrice")); err != nil {
			badRequest(c, "Invalid maxPrice")
			return
		}

		products, err := a.Products.List(c.Request.Context(), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetFacet serves the distinct values of one product field.
func (a *App) GetFacet(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := a.facet(c, field)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, values)
	}
}

// GetColors lists the values declared for the Color option.
func (a *App) GetColors() gin.HandlerFunc {
	return a.GetFacet("colors")
}

func (a *App) facet(c *gin.Context, field string) ([]string, error) {
	key := facetPrefix + field
	if values, ok := a.Facets.Strings(key); ok {
		return values, nil
	}

	var (
		values []string
		err    error
	)
	if field == "colors" {
		var lists [][]models.Option
		if lists, err = a.Products.OptionLists(c.Request.Context()); err == nil {
			values = catalog.OptionValues(lists, catalog.ColorOption)
		}
	} else {
		values, err = a.Products.Distinct(c.Request.Context(), field)
	}
	if err != nil {
		return nil, fmt.Errorf("facet %s: %w", field, err)
	}

	a.Facets.Set(key, values)
	return values, nil
}

// GetSuggestions mixes matching product names, categories and brands.
func (a *App) GetSuggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			c.JSON(http.StatusOK, []string{})
			return
		}

		names, err := a.Products.Names(c.Request.Context(), query, suggestedNames)
		if err != nil {
			respondError(c, err)
			return
		}
		categories, err := a.facet(c, "category")
		if err != nil {
			respondError(c, err)
			return
		}
		brands, err := a.facet(c, "brand")
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, catalog.MergeSuggestions(suggestionLimit,
			names, containing(categories, query), containing(brands, query)))
	}
}

func containing(values []string, query string) []string {
	q := strings.ToLower(query)
	out := make([]string, 0)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			out = append(out, v)
		}
	}
	return out
}

func (a *App) GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id", "Product")
		if !ok {
			return
		}
		p, err := a.Products.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// CreateProduct stores a product owned by the calling vendor.
func (a *App) CreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}

		var body dto.ProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}

		p := body.Product()
		p.Vendor = userID
		catalog.Normalize(&p)
		if err := catalog.ValidateProduct(&p); err != nil {
			respondError(c, err)
			return
		}
		if err := a.Products.Create(c.Request.Context(), &p); err != nil {
			respondError(c, err)
			return
		}

		a.Facets.DeleteByPrefix(facetPrefix)
		c.JSON(http.StatusCreated, p)
	}
}

// ValidateProductDraft cleans a draft the way the product form does and
// reports whether it would be accepted. Nothing is stored.
func (a *App) ValidateProductDraft() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}

		p := body.Product()
		if userID, ok := middleware.UserID(c); ok {
			p.Vendor = userID
		}
		catalog.Prepare(&p)
		if err := catalog.ValidateProduct(&p); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true, "product": p})
	}
}

func (a *App) UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := a.ownedProduct(c, "Not authorized to edit this product")
		if !ok {
			return
		}

		var body dto.UpdateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}

		removed := body.Apply(p)
		catalog.Normalize(p)
		if err := catalog.ValidateProduct(p); err != nil {
			respondError(c, err)
			return
		}
		if err := a.Products.Update(c.Request.Context(), p); err != nil {
			respondError(c, err)
			return
		}

		media.DeleteAll(c.Request.Context(), a.Media, removed)
		a.Facets.DeleteByPrefix(facetPrefix)
		c.JSON(http.StatusOK, p)
	}
}

// DeleteProduct removes the product from carts, wishlists and likes before
// deleting it. Image cleanup failures are logged only.
func (a *App) DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		p, ok := a.ownedProduct(c, "Not authorized to delete this product")
		if !ok {
			return
		}

		media.DeleteAll(ctx, a.Media, p.AllImages())

		if err := a.Carts.PullProduct(ctx, p.ID); err != nil {
			respondError(c, err)
			return
		}
		if err := a.Wishlist.RemoveProduct(ctx, p.ID); err != nil {
			respondError(c, err)
			return
		}
		if err := a.Likes.RemoveProduct(ctx, p.ID); err != nil {
			respondError(c, err)
			return
		}
		if err := a.Products.Delete(ctx, p.ID); err != nil {
			respondError(c, err)
			return
		}

		a.Facets.DeleteByPrefix(facetPrefix)
		c.JSON(http.StatusOK, gin.H{"message": "Product and all associated data have been removed"})
	}
}

func (a *App) LikeProduct() gin.HandlerFunc {
	return a.toggleLike(true)
}

func (a *App) UnlikeProduct() gin.HandlerFunc {
	return a.toggleLike(false)
}

func (a *App) toggleLike(like bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}
		id, ok := objectIDParam(c, "id", "Product")
		if !ok {
			return
		}
		if _, err := a.Products.FindByID(ctx, id); err != nil {
			respondError(c, err)
			return
		}

		var (
			changed bool
			err     error
			delta   = 1
		)
		if like {
			changed, err = a.Likes.Add(ctx, userID, id)
		} else {
			changed, err = a.Likes.Remove(ctx, userID, id)
			delta = -1
		}
		if err != nil {
			respondError(c, err)
			return
		}
		if changed {
			if err := a.Products.AddLikes(ctx, id, delta); err != nil {
				respondError(c, err)
				return
			}
		}

		p, err := a.Products.FindByID(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": like, "likes": p.Likes})
	}
}

// ownedProduct loads the :id product and checks the caller is its vendor.
func (a *App) ownedProduct(c *gin.Context, forbidden string) (*models.Product, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, apperror.Unauthenticated("Not authorized"))
		return nil, false
	}
	id, ok := objectIDParam(c, "id", "Product")
	if !ok {
		return nil, false
	}
	p, err := a.Products.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if p.Vendor != userID {
		respondError(c, apperror.Forbidden(forbidden))
		return nil, false
	}
	return p, true
}
