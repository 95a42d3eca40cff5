// Package memstore keeps every store in process memory. It backs DEV_MODE
// and the handler tests.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/catalog"
	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Products struct {
	mu    sync.RWMutex
	items []models.Product // insertion order
}

func NewProducts() *Products {
	return &Products{}
}

func (s *Products) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.skuTaken(p, bson.NilObjectID); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.ID = bson.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.items = append(s.items, cloneProduct(*p))
	return nil
}

func (s *Products) FindByID(_ context.Context, id bson.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return nil, apperror.NotFound("Product")
	}
	p := cloneProduct(s.items[i])
	return &p, nil
}

func (s *Products) Update(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(p.ID)
	if i < 0 {
		return apperror.NotFound("Product")
	}
	if err := s.skuTaken(p, p.ID); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	s.items[i] = cloneProduct(*p)
	return nil
}

func (s *Products) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return apperror.NotFound("Product")
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

// List returns matching products, newest first.
func (s *Products) List(_ context.Context, f catalog.ProductFilter) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0)
	for i := len(s.items) - 1; i >= 0; i-- {
		if !f.Match(&s.items[i]) {
			continue
		}
		out = append(out, cloneProduct(s.items[i]))
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *Products) Distinct(_ context.Context, field string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, p := range s.items {
		if !p.IsActive {
			continue
		}
		switch field {
		case "brand":
			add(p.Brand)
		case "category":
			add(p.Category)
		case "tags":
			for _, t := range p.Tags {
				add(t)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func (s *Products) OptionLists(_ context.Context) ([][]models.Option, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]models.Option, 0)
	for _, p := range s.items {
		if p.IsActive && len(p.Options) > 0 {
			out = append(out, slices.Clone(p.Options))
		}
	}
	return out, nil
}

func (s *Products) Names(_ context.Context, query string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]string, 0, limit)
	for _, p := range s.items {
		if len(out) == limit {
			break
		}
		if p.IsActive && strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p.Name)
		}
	}
	return out, nil
}

func (s *Products) AddLikes(_ context.Context, id bson.ObjectID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(id); i >= 0 && s.items[i].Likes+delta >= 0 {
		s.items[i].Likes += delta
	}
	return nil
}

func (s *Products) VendorsOf(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]bson.ObjectID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[bson.ObjectID]bson.ObjectID, len(ids))
	for _, id := range ids {
		if i := s.index(id); i >= 0 {
			out[id] = s.items[i].Vendor
		}
	}
	return out, nil
}

// skuTaken checks p's SKUs against every stored product except self.
func (s *Products) skuTaken(p *models.Product, self bson.ObjectID) error {
	variantSKUs := catalog.VariantSKUs(p)
	for i := range s.items {
		other := &s.items[i]
		if other.ID == self {
			continue
		}
		if p.SKU != "" && other.SKU == p.SKU {
			return catalog.ErrProductSKUTaken
		}
		for _, v := range other.Variants {
			if v.SKU != "" && slices.Contains(variantSKUs, v.SKU) {
				return catalog.ErrVariantSKUTaken
			}
		}
	}
	return nil
}

func (s *Products) index(id bson.ObjectID) int {
	return slices.IndexFunc(s.items, func(p models.Product) bool { return p.ID == id })
}

func cloneProduct(p models.Product) models.Product {
	p.Tags = slices.Clone(p.Tags)
	p.Images = slices.Clone(p.Images)
	p.Options = slices.Clone(p.Options)
	variants := make([]models.Variant, len(p.Variants))
	for i, v := range p.Variants {
		v.Options = cloneMap(v.Options)
		v.Images = slices.Clone(v.Images)
		if v.Price != nil {
			price := *v.Price
			v.Price = &price
		}
		variants[i] = v
	}
	if p.Variants != nil {
		p.Variants = variants
	}
	return p
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
