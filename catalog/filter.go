package catalog

import (
	"strings"

	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ColorOption is the option name the color filter and facet look at.
const ColorOption = "Color"

// ProductFilter is the listing query. Empty slices and nil pointers do not
// restrict. Limit <= 0 means no limit.
type ProductFilter struct {
	Brands     []string
	Categories []string
	Colors     []string
	Search     string
	Vendor     *bson.ObjectID
	MinPrice   *float64
	MaxPrice   *float64
	ActiveOnly bool
	Limit      int
}

// Match applies the filter to a single product.
func (f ProductFilter) Match(p *models.Product) bool {
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	if len(f.Brands) > 0 && !contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Colors) > 0 && !hasVariantColor(p, f.Colors) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Vendor != nil && p.Vendor != *f.Vendor {
		return false
	}
	if f.MinPrice != nil && p.BasePrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.BasePrice > *f.MaxPrice {
		return false
	}
	return true
}

func hasVariantColor(p *models.Product, colors []string) bool {
	for _, v := range p.Variants {
		if c, ok := v.Options[ColorOption]; ok && contains(colors, c) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// SplitList parses a comma separated query value, dropping blanks.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
