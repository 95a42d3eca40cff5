package controllers

import (
	"errors"
	"net/http"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/cart"
	"github.com/dryp/marketplace/catalog"
	"github.com/dryp/marketplace/dto"
	"github.com/dryp/marketplace/middleware"
	"github.com/dryp/marketplace/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// cartOwner keys carts by user id, or by guest id with a "guest:" prefix.
func cartOwner(userID *bson.ObjectID, guestID string) string {
	if userID != nil {
		return userID.Hex()
	}
	if guestID != "" {
		return "guest:" + guestID
	}
	return ""
}

func requestCartOwner(c *gin.Context) (string, error) {
	var user *bson.ObjectID
	if id, ok := middleware.UserID(c); ok {
		user = &id
	}
	owner := cartOwner(user, middleware.GuestID(c))
	if owner == "" {
		return "", apperror.Unauthenticated("Not authorized")
	}
	return owner, nil
}

func (a *App) GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := requestCartOwner(c)
		if err != nil {
			respondError(c, err)
			return
		}
		stored, err := a.Carts.Get(c.Request.Context(), owner)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(fromStored(stored)))
	}
}

// AddCartItem resolves price and stock from the catalog. Adding a line
// that already exists increases its quantity.
func (a *App) AddCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.AddCartItemDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := bson.ObjectIDFromHex(body.ProductID)
		if err != nil {
			respondError(c, apperror.NotFound("Product"))
			return
		}

		a.mutateCart(c, http.StatusCreated, func(ct *cart.Cart) error {
			p, err := a.Products.FindByID(c.Request.Context(), id)
			if err != nil {
				return err
			}
			if !p.IsActive {
				return apperror.Validation("productId", "Product is not available")
			}
			_, err = ct.Add(p, body.Options, body.Quantity)
			return err
		})
	}
}

// UpdateCartItem can switch the variant and set the quantity of a line.
// A quantity of zero removes it.
func (a *App) UpdateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateCartItemDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}

		a.mutateCart(c, http.StatusOK, func(ct *cart.Cart) error {
			lineID := c.Param("lineId")
			line, ok := ct.Get(lineID)
			if !ok {
				return cart.ErrLineNotFound
			}
			pid, err := bson.ObjectIDFromHex(line.ProductID)
			if err != nil {
				return cart.ErrLineNotFound
			}
			p, err := a.Products.FindByID(c.Request.Context(), pid)
			if err != nil {
				return err
			}

			if body.Options != nil {
				if line, err = ct.UpdateOptions(lineID, p, body.Options); err != nil {
					return err
				}
				lineID = line.ID
			}
			if body.Quantity == nil {
				return nil
			}
			if *body.Quantity > line.Quantity {
				res, err := catalog.Resolve(p, line.Options)
				if err != nil {
					return err
				}
				if !res.Purchasable(*body.Quantity) {
					return cart.ErrOutOfStock
				}
			}
			return ct.SetQuantity(lineID, *body.Quantity)
		})
	}
}

func (a *App) RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.mutateCart(c, http.StatusOK, func(ct *cart.Cart) error {
			if !ct.Remove(c.Param("lineId")) {
				return cart.ErrLineNotFound
			}
			return nil
		})
	}
}

func (a *App) ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := requestCartOwner(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := a.Carts.Delete(c.Request.Context(), owner); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(cart.New()))
	}
}

// maxCartAttempts bounds the reload and retry loop of mutateCart when
// another request writes the same cart concurrently.
const maxCartAttempts = 3

// mutateCart loads the caller's cart, applies fn and saves the result. A
// stale save is retried from a fresh load, so fn may run more than once.
func (a *App) mutateCart(c *gin.Context, status int, fn func(*cart.Cart) error) {
	ctx := c.Request.Context()

	owner, err := requestCartOwner(c)
	if err != nil {
		respondError(c, err)
		return
	}

	for attempt := 1; ; attempt++ {
		stored, err := a.Carts.Get(ctx, owner)
		if err != nil {
			respondError(c, err)
			return
		}

		ct := fromStored(stored)
		if err := fn(ct); err != nil {
			respondError(c, cartError(err))
			return
		}

		stored.Lines = toStored(ct)
		err = a.Carts.Save(ctx, stored)
		if errors.Is(err, cart.ErrStale) && attempt < maxCartAttempts {
			continue
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(status, cartView(ct))
		return
	}
}

func cartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		return apperror.NotFound("Cart item")
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrBadQuantity),
		errors.Is(err, catalog.ErrIncompleteSelection),
		errors.Is(err, catalog.ErrVariantNotFound):
		return apperror.Validation("options", err.Error())
	}
	return err
}

func cartView(ct *cart.Cart) gin.H {
	return gin.H{
		"items":    ct.Lines(),
		"count":    ct.Len(),
		"subtotal": ct.Subtotal(),
	}
}

func fromStored(stored *models.Cart) *cart.Cart {
	lines := make([]cart.Line, 0, len(stored.Lines))
	for _, l := range stored.Lines {
		lines = append(lines, cart.Line{
			ID:        l.LineID,
			ProductID: l.Product.Hex(),
			Name:      l.Name,
			Options:   l.Options,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Image:     l.Image,
		})
	}
	return cart.New(lines...)
}

func toStored(ct *cart.Cart) []models.CartLine {
	lines := make([]models.CartLine, 0, ct.Len())
	for _, l := range ct.Lines() {
		pid, err := bson.ObjectIDFromHex(l.ProductID)
		if err != nil {
			continue
		}
		lines = append(lines, models.CartLine{
			LineID:   l.ID,
			Product:  pid,
			Name:     l.Name,
			Options:  l.Options,
			Quantity: l.Quantity,
			Price:    l.Price,
			Image:    l.Image,
		})
	}
	return lines
}
