package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type Address struct {
	FullName   string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Street     string `bson:"street,omitempty" json:"street,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type OrderItem struct {
	Product  bson.ObjectID     `bson:"product" json:"product"`
	Quantity int               `bson:"quantity" json:"quantity"`
	Price    float64           `bson:"price" json:"price"`
	Size     string            `bson:"size,omitempty" json:"size,omitempty"`
	Options  map[string]string `bson:"options,omitempty" json:"options,omitempty"`
	Vendor   bson.ObjectID     `bson:"vendor" json:"vendor"`
}

// Order holds the lines of one vendor from one checkout.
type Order struct {
	ID              bson.ObjectID  `bson:"_id,omitempty" json:"_id"`
	User            *bson.ObjectID `bson:"user" json:"user"`
	GuestID         string         `bson:"guestId,omitempty" json:"guestId,omitempty"`
	Vendor          bson.ObjectID  `bson:"vendor" json:"vendor"`
	Items           []OrderItem    `bson:"items" json:"items"`
	Subtotal        float64        `bson:"subtotal" json:"subtotal"`
	Tax             float64        `bson:"tax" json:"tax"`
	ShippingCost    float64        `bson:"shippingCost" json:"shippingCost"`
	TotalAmount     float64        `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress Address        `bson:"shippingAddress" json:"shippingAddress"`
	Status          OrderStatus    `bson:"status" json:"status"`
	OrderNumber     string         `bson:"orderNumber" json:"orderNumber"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// HasVendor reports whether any line of the order belongs to vendor.
func (o *Order) HasVendor(vendor bson.ObjectID) bool {
	for _, it := range o.Items {
		if it.Vendor == vendor {
			return true
		}
	}
	return false
}

// CheckoutItem is one cart line as submitted at checkout.
type CheckoutItem struct {
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Price     float64           `json:"price"`
	Options   map[string]string `json:"options,omitempty"`
}
