package dto

import "github.com/dryp/marketplace/models"

// CheckoutDTO line rules are enforced by the order service so the
// messages stay the same for every caller.
type CheckoutDTO struct {
	Items           []models.CheckoutItem `json:"items"`
	ShippingAddress models.Address        `json:"shippingAddress"`
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status" binding:"required"`
}
