package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/dto"
	"github.com/dryp/marketplace/middleware"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/orders"
	"github.com/gin-gonic/gin"
)

// DroppedHeader lists product ids left out of a checkout because they no
// longer exist.
const DroppedHeader = "X-Dropped-Products"

// CreateOrders splits the checkout into one order per vendor.
// 201 carries the orders, 207 a partial result and 500 a full failure.
func (a *App) CreateOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CheckoutDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err.Error())
			return
		}

		req := orders.CheckoutRequest{
			GuestID:         middleware.GuestID(c),
			Items:           body.Items,
			ShippingAddress: body.ShippingAddress,
		}
		if userID, ok := middleware.UserID(c); ok {
			req.UserID = &userID
		}

		res, err := a.Checkout.Checkout(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(res.Dropped) > 0 {
			c.Header(DroppedHeader, strings.Join(res.Dropped, ","))
		}

		switch res.Outcome {
		case orders.OutcomeSucceeded:
			if len(res.Orders) == 0 {
				c.JSON(http.StatusCreated, res.Orders)
				return
			}
			if err := a.Carts.Delete(c.Request.Context(), cartOwner(req.UserID, req.GuestID)); err != nil {
				log.Printf("checkout: clear cart: %v", err)
			}
			c.JSON(http.StatusCreated, res.Orders)
		case orders.OutcomePartial:
			c.JSON(http.StatusMultiStatus, gin.H{
				"message": "Some vendor orders could not be placed",
				"orders":  res.Orders,
				"failed":  res.Failed,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Order creation failed",
				"failed":  res.Failed,
			})
		}
	}
}

// GetMyOrders lists the orders of the signed in user or of the guest id.
func (a *App) GetMyOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			list []models.Order
			err  error
		)
		if userID, ok := middleware.UserID(c); ok {
			list, err = a.Orders.ListByUser(c.Request.Context(), userID)
		} else if guest := middleware.GuestID(c); guest != "" {
			list, err = a.Orders.ListByGuest(c.Request.Context(), guest)
		} else {
			err = apperror.Unauthenticated("Not authorized")
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func (a *App) GetVendorOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}
		list, err := a.Orders.ListByVendor(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func (a *App) GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id", "Order")
		if !ok {
			return
		}
		o, err := a.Orders.FindByID(c.Request.Context(), id)
		a.respondOrder(c, o, err)
	}
}

func (a *App) GetOrderByNumber() gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := a.Orders.FindByNumber(c.Request.Context(), c.Param("orderNumber"))
		a.respondOrder(c, o, err)
	}
}

func (a *App) respondOrder(c *gin.Context, o *models.Order, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if err := canView(c, o); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// canView allows the buyer, the guest who placed the order and any vendor
// with a line in it.
func canView(c *gin.Context, o *models.Order) error {
	userID, hasUser := middleware.UserID(c)
	guest := middleware.GuestID(c)
	switch {
	case hasUser && o.User != nil && *o.User == userID:
		return nil
	case hasUser && c.GetString("role") == string(models.RoleVendor) && o.HasVendor(userID):
		return nil
	case guest != "" && o.User == nil && o.GuestID == guest:
		return nil
	case !hasUser && guest == "":
		return apperror.Unauthenticated("Not authorized")
	default:
		return apperror.Forbidden("Not authorized to view this order")
	}
}

// UpdateOrderStatus lets a vendor with a line in the order change its status.
func (a *App) UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			respondError(c, apperror.Unauthenticated("Not authorized"))
			return
		}
		id, ok := objectIDParam(c, "id", "Order")
		if !ok {
			return
		}

		var body dto.UpdateOrderStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "Invalid status")
			return
		}

		o, err := a.Checkout.SetStatus(c.Request.Context(), id, models.OrderStatus(body.Status), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
