package orders

import (
	"context"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// lifecycle is the linear order of non-cancelled states.
var lifecycle = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
}

// Settable lists the statuses a vendor may set. Pending is only ever
// assigned at checkout.
var Settable = []models.OrderStatus{
	models.OrderStatusConfirmed,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.OrderStatusDelivered || s == models.OrderStatusCancelled
}

// Workflow checks vendor status changes. With Strict unset any settable
// status may be applied directly, including moving backwards. With Strict
// set, terminal orders are frozen, cancellation is allowed from any other
// state and every other change must move forward along the lifecycle.
type Workflow struct {
	Strict bool
}

func (w Workflow) Check(o *models.Order, next models.OrderStatus, vendor bson.ObjectID) error {
	if !o.HasVendor(vendor) {
		return apperror.Forbidden("Forbidden: You are not associated with this order")
	}
	if !isSettable(next) {
		return apperror.Validationf("status", "Invalid status %q", next)
	}
	if !w.Strict {
		return nil
	}
	if IsTerminal(o.Status) {
		return apperror.Validationf("status", "order is already %s", o.Status)
	}
	if next == models.OrderStatusCancelled {
		return nil
	}
	if rank(next) <= rank(o.Status) {
		return apperror.Validationf("status", "cannot move order from %s to %s", o.Status, next)
	}
	return nil
}

// SetStatus loads the order, checks the change for the acting vendor and
// persists it immediately.
func (s *Service) SetStatus(ctx context.Context, orderID bson.ObjectID, next models.OrderStatus, vendor bson.ObjectID) (*models.Order, error) {
	o, err := s.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.Workflow.Check(o, next, vendor); err != nil {
		return nil, err
	}
	return s.Orders.UpdateStatus(ctx, orderID, next, s.now())
}

func isSettable(s models.OrderStatus) bool {
	for _, v := range Settable {
		if v == s {
			return true
		}
	}
	return false
}

func rank(s models.OrderStatus) int {
	for i, v := range lifecycle {
		if v == s {
			return i
		}
	}
	return -1
}
