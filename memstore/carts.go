package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dryp/marketplace/cart"
	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Carts struct {
	mu    sync.Mutex
	items map[string]models.Cart
}

func NewCarts() *Carts {
	return &Carts{items: make(map[string]models.Cart)}
}

func (s *Carts) Get(_ context.Context, owner string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[owner]
	if !ok {
		return &models.Cart{Owner: owner, Lines: []models.CartLine{}}, nil
	}
	c.Lines = slices.Clone(c.Lines)
	return &c, nil
}

// Save fails with cart.ErrStale when the stored cart moved past c.Version.
func (s *Carts) Save(_ context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.items[c.Owner]; ok {
		if existing.Version != c.Version {
			return cart.ErrStale
		}
		c.ID = existing.ID
	} else if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	c.Version++
	c.UpdatedAt = time.Now().UTC()
	stored := *c
	stored.Lines = slices.Clone(c.Lines)
	s.items[c.Owner] = stored
	return nil
}

func (s *Carts) Delete(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, owner)
	return nil
}

func (s *Carts) PullProduct(_ context.Context, product bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for owner, c := range s.items {
		n := len(c.Lines)
		c.Lines = slices.DeleteFunc(c.Lines, func(l models.CartLine) bool { return l.Product == product })
		if len(c.Lines) != n {
			c.Version++
		}
		s.items[owner] = c
	}
	return nil
}

type pair struct {
	user, product bson.ObjectID
}

// pairs is the shared (user, product) set behind Wishlist and Likes.
type pairs struct {
	mu    sync.Mutex
	order []pair
	at    map[pair]time.Time
}

func (s *pairs) add(user, product bson.ObjectID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pair{user, product}
	if _, ok := s.at[k]; ok {
		return false
	}
	s.at[k] = time.Now().UTC()
	s.order = append(s.order, k)
	return true
}

func (s *pairs) remove(user, product bson.ObjectID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := pair{user, product}
	if _, ok := s.at[k]; !ok {
		return false
	}
	delete(s.at, k)
	s.order = slices.DeleteFunc(s.order, func(p pair) bool { return p == k })
	return true
}

func (s *pairs) RemoveProduct(_ context.Context, product bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = slices.DeleteFunc(s.order, func(p pair) bool {
		if p.product == product {
			delete(s.at, p)
			return true
		}
		return false
	})
	return nil
}

type Wishlist struct {
	pairs
}

func NewWishlist() *Wishlist {
	return &Wishlist{pairs{at: make(map[pair]time.Time)}}
}

func (s *Wishlist) Add(_ context.Context, user, product bson.ObjectID) error {
	s.add(user, product)
	return nil
}

func (s *Wishlist) Remove(_ context.Context, user, product bson.ObjectID) error {
	s.remove(user, product)
	return nil
}

// List returns the user's items, most recently added first.
func (s *Wishlist) List(_ context.Context, user bson.ObjectID) ([]models.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.WishlistItem, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		p := s.order[i]
		if p.user == user {
			out = append(out, models.WishlistItem{User: p.user, Product: p.product, CreatedAt: s.at[p]})
		}
	}
	return out, nil
}

type Likes struct {
	pairs
}

func NewLikes() *Likes {
	return &Likes{pairs{at: make(map[pair]time.Time)}}
}

func (s *Likes) Add(_ context.Context, user, product bson.ObjectID) (bool, error) {
	return s.add(user, product), nil
}

func (s *Likes) Remove(_ context.Context, user, product bson.ObjectID) (bool, error) {
	return s.remove(user, product), nil
}
