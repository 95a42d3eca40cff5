package catalog

import (
	"strings"

	"github.com/dryp/marketplace/models"
)

// CleanOptions trims option names and values and discards options whose name
// is blank or which have no non-blank value left.
func CleanOptions(options []models.Option) []models.Option {
	out := make([]models.Option, 0, len(options))
	for _, opt := range options {
		name := strings.TrimSpace(opt.Name)
		if name == "" {
			continue
		}
		values := make([]string, 0, len(opt.Values))
		for _, v := range opt.Values {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, models.Option{Name: name, Values: values})
	}
	return out
}

// CleanVariants drops blank option entries and discards variants left with no
// options or with negative stock. Undeclared option names are kept so that
// ValidateProduct can reject them.
func CleanVariants(variants []models.Variant) []models.Variant {
	out := make([]models.Variant, 0, len(variants))
	for _, v := range variants {
		if v.Stock < 0 {
			continue
		}
		opts := make(map[string]string, len(v.Options))
		for k, val := range v.Options {
			k, val = strings.TrimSpace(k), strings.TrimSpace(val)
			if k == "" || val == "" {
				continue
			}
			opts[k] = val
		}
		if len(opts) == 0 {
			continue
		}
		v.Options = opts
		v.SKU = strings.TrimSpace(v.SKU)
		out = append(out, v)
	}
	return out
}

// Normalize trims the product's identifying fields and SKUs and cleans its
// option declarations. Variants are otherwise left as submitted so that
// ValidateProduct sees them.
func Normalize(p *models.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Brand = strings.TrimSpace(p.Brand)
	p.Category = strings.TrimSpace(p.Category)
	p.SKU = strings.TrimSpace(p.SKU)
	p.Options = CleanOptions(p.Options)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	if p.Variants == nil {
		p.Variants = []models.Variant{}
	}
	for i := range p.Variants {
		p.Variants[i].SKU = strings.TrimSpace(p.Variants[i].SKU)
	}
}

// Prepare is Normalize plus the draft variant filtering of CleanVariants.
func Prepare(p *models.Product) {
	Normalize(p)
	p.Variants = CleanVariants(p.Variants)
}
