package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Orders struct {
	mu    sync.RWMutex
	items []models.Order
}

func NewOrders() *Orders {
	return &Orders{}
}

func (s *Orders) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.OrderNumber == o.OrderNumber {
			return apperror.Conflict("orderNumber", "Order number already exists")
		}
	}
	if o.ID.IsZero() {
		o.ID = bson.NewObjectID()
	}
	s.items = append(s.items, *o)
	return nil
}

func (s *Orders) FindByID(_ context.Context, id bson.ObjectID) (*models.Order, error) {
	return s.find(func(o models.Order) bool { return o.ID == id })
}

func (s *Orders) FindByNumber(_ context.Context, number string) (*models.Order, error) {
	return s.find(func(o models.Order) bool { return o.OrderNumber == number })
}

func (s *Orders) find(match func(models.Order) bool) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.items, match)
	if i < 0 {
		return nil, apperror.NotFound("Order")
	}
	o := s.items[i]
	return &o, nil
}

func (s *Orders) UpdateStatus(_ context.Context, id bson.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(o models.Order) bool { return o.ID == id })
	if i < 0 {
		return nil, apperror.NotFound("Order")
	}
	s.items[i].Status = status
	s.items[i].UpdatedAt = at
	o := s.items[i]
	return &o, nil
}

func (s *Orders) ListByUser(_ context.Context, user bson.ObjectID) ([]models.Order, error) {
	return s.list(func(o models.Order) bool { return o.User != nil && *o.User == user }), nil
}

func (s *Orders) ListByGuest(_ context.Context, guestID string) ([]models.Order, error) {
	return s.list(func(o models.Order) bool { return o.User == nil && o.GuestID == guestID }), nil
}

func (s *Orders) ListByVendor(_ context.Context, vendor bson.ObjectID) ([]models.Order, error) {
	return s.list(func(o models.Order) bool { return o.HasVendor(vendor) }), nil
}

// list returns matches newest first.
func (s *Orders) list(match func(models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0)
	for i := len(s.items) - 1; i >= 0; i-- {
		if match(s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	return out
}
