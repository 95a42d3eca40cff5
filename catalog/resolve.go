// Package catalog holds the product variant rules: resolving a selection to
// sale terms, validating variant lists at write time and matching filters.
package catalog

import (
	"errors"
	"strings"

	"github.com/dryp/marketplace/models"
)

var (
	ErrIncompleteSelection = errors.New("select a value for every option")
	ErrVariantNotFound     = errors.New("selected variant is not available")
)

// Resolution is the effective sale terms of a product for one selection.
// Variant is nil for simple products.
type Resolution struct {
	Price   float64
	Stock   int
	Images  []models.Image
	Variant *models.Variant
}

// Purchasable reports whether qty units can be added given the advisory stock.
func (r Resolution) Purchasable(qty int) bool {
	return qty > 0 && r.Stock >= qty
}

// Resolve maps a selection of optionName -> value to price, stock and images.
// Products without declared options or without variants resolve to their own
// terms. Otherwise every declared option must be selected before a variant
// is looked up.
func Resolve(p *models.Product, selection map[string]string) (Resolution, error) {
	if len(p.Options) == 0 || p.IsSimple() {
		return Resolution{Price: p.BasePrice, Stock: p.Stock, Images: p.Images}, nil
	}

	for _, opt := range p.Options {
		if strings.TrimSpace(selection[opt.Name]) == "" {
			return Resolution{}, ErrIncompleteSelection
		}
	}

	for i := range p.Variants {
		v := &p.Variants[i]
		if !matches(v, selection) {
			continue
		}
		res := Resolution{Price: p.BasePrice, Stock: v.Stock, Images: p.Images, Variant: v}
		if v.Price != nil {
			res.Price = *v.Price
		}
		if len(v.Images) > 0 {
			res.Images = v.Images
		}
		return res, nil
	}
	return Resolution{}, ErrVariantNotFound
}

func matches(v *models.Variant, selection map[string]string) bool {
	for k, want := range selection {
		got, ok := v.Options[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}
