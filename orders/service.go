// Package orders splits a checkout into one order per vendor and drives the
// vendor-side status workflow of existing orders.
package orders

import (
	"context"
	"fmt"
	"log"
	"maps"
	"strings"
	"time"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const maxNumberAttempts = 3

// VendorLookup resolves the owning vendor of each product id in one call.
// Ids with no product are absent from the result.
type VendorLookup interface {
	VendorsOf(ctx context.Context, productIDs []bson.ObjectID) (map[bson.ObjectID]bson.ObjectID, error)
}

type Store interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id bson.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error)
}

type Service struct {
	Products VendorLookup
	Orders   Store
	Numbers  *NumberGenerator
	Workflow Workflow
	Now      func() time.Time
}

// CheckoutRequest carries exactly one identity: an authenticated user or a guest id.
type CheckoutRequest struct {
	UserID          *bson.ObjectID
	GuestID         string
	Items           []models.CheckoutItem
	ShippingAddress models.Address
}

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomePartial   Outcome = "partial"
	OutcomeFailed    Outcome = "failed"
)

// VendorFailure describes a vendor order that could not be persisted.
type VendorFailure struct {
	Vendor bson.ObjectID `json:"vendor"`
	Items  int           `json:"items"`
	Error  string        `json:"error"`
}

type CheckoutResult struct {
	Outcome Outcome
	Orders  []models.Order
	Failed  []VendorFailure
	// Dropped lists the product ids whose lines were left out because the
	// product no longer exists.
	Dropped []string
}

// Checkout groups the lines by vendor and persists one order per group.
// Orders are written one after another with no cross-vendor transaction;
// a failed write is recorded and the remaining vendors are still attempted.
// A request whose products are all gone succeeds with no orders.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.UserID == nil && strings.TrimSpace(req.GuestID) == "" {
		return nil, apperror.Unauthenticated("Not authorized")
	}
	if len(req.Items) == 0 {
		return nil, apperror.Validation("items", "No items in order")
	}

	ids := make([]bson.ObjectID, 0, len(req.Items))
	parsed := make([]bson.ObjectID, len(req.Items))
	seen := make(map[bson.ObjectID]struct{}, len(req.Items))
	for i, it := range req.Items {
		id, err := bson.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return nil, apperror.Validationf("items", "invalid product id %q", it.ProductID)
		}
		if it.Quantity < 1 {
			return nil, apperror.Validationf("items", "quantity for product %s must be at least 1", it.ProductID)
		}
		if it.Price < 0 {
			return nil, apperror.Validationf("items", "price for product %s cannot be negative", it.ProductID)
		}
		parsed[i] = id
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	vendors, err := s.Products.VendorsOf(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve vendors: %w", err)
	}

	res := &CheckoutResult{Orders: []models.Order{}, Failed: []VendorFailure{}, Dropped: []string{}}
	groups := make(map[bson.ObjectID][]models.OrderItem)
	var order []bson.ObjectID
	for i, it := range req.Items {
		vendor, ok := vendors[parsed[i]]
		if !ok {
			res.Dropped = append(res.Dropped, it.ProductID)
			continue
		}
		if _, ok := groups[vendor]; !ok {
			order = append(order, vendor)
		}
		groups[vendor] = append(groups[vendor], toOrderItem(parsed[i], vendor, it))
	}
	if len(res.Dropped) > 0 {
		log.Printf("checkout: dropped %d line(s) for missing products %v", len(res.Dropped), res.Dropped)
	}
	now := s.now()
	next := s.Numbers.Batch()
	for _, vendor := range order {
		o := buildOrder(req, vendor, groups[vendor], now)
		if err := s.create(ctx, &o, next); err != nil {
			log.Printf("checkout: vendor %s order failed: %v", vendor.Hex(), err)
			res.Failed = append(res.Failed, VendorFailure{Vendor: vendor, Items: len(o.Items), Error: err.Error()})
			continue
		}
		res.Orders = append(res.Orders, o)
	}

	switch {
	case len(res.Failed) == 0:
		res.Outcome = OutcomeSucceeded
	case len(res.Orders) == 0:
		res.Outcome = OutcomeFailed
	default:
		res.Outcome = OutcomePartial
	}
	return res, nil
}

// create inserts o, drawing a fresh order number when the previous one
// collides with an existing order.
func (s *Service) create(ctx context.Context, o *models.Order, next func() string) error {
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		o.OrderNumber = next()
		if err = s.Orders.Create(ctx, o); err == nil || !apperror.IsConflict(err) {
			return err
		}
	}
	return err
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func toOrderItem(product, vendor bson.ObjectID, it models.CheckoutItem) models.OrderItem {
	item := models.OrderItem{
		Product:  product,
		Quantity: it.Quantity,
		Price:    it.Price,
		Vendor:   vendor,
	}
	if len(it.Options) > 0 {
		item.Options = maps.Clone(it.Options)
		item.Size = sizeOf(it.Options)
	}
	return item
}

func sizeOf(options map[string]string) string {
	if v, ok := options["Size"]; ok {
		return v
	}
	return options["size"]
}

func buildOrder(req CheckoutRequest, vendor bson.ObjectID, items []models.OrderItem, now time.Time) models.Order {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	// Tax and shipping are not computed yet.
	tax, shipping := 0.0, 0.0

	o := models.Order{
		ID:              bson.NewObjectID(),
		Vendor:          vendor,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCost:    shipping,
		TotalAmount:     subtotal + tax + shipping,
		ShippingAddress: req.ShippingAddress,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.UserID != nil {
		uid := *req.UserID
		o.User = &uid
	} else {
		o.GuestID = strings.TrimSpace(req.GuestID)
	}
	return o
}
