package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/models"
)

// SKUs are unique across products, separately for product and variant SKUs.
var (
	ErrProductSKUTaken = apperror.Conflict("sku", "A product with this SKU already exists")
	ErrVariantSKUTaken = apperror.Conflict("variants.sku", "A variant SKU is already used by another product")
)

// CanonicalKey renders an option map with sorted keys. It is only used to
// compare variant combinations; stored maps stay unordered.
func CanonicalKey(options map[string]string) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		b.WriteString(strconv.Quote(options[k]))
	}
	return b.String()
}

// ValidateProduct enforces the product invariants on create and update.
func ValidateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.Validation("name", "name is required")
	}
	if strings.TrimSpace(p.Brand) == "" {
		return apperror.Validation("brand", "brand is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return apperror.Validation("category", "category is required")
	}
	if p.BasePrice < 0 {
		return apperror.Validation("basePrice", "basePrice cannot be negative")
	}
	if p.Stock < 0 {
		return apperror.Validation("stock", "stock cannot be negative")
	}
	if err := validateImages("images", p.Images); err != nil {
		return err
	}

	declared := make(map[string]struct{}, len(p.Options))
	for _, opt := range p.Options {
		name := strings.TrimSpace(opt.Name)
		if name == "" {
			return apperror.Validation("options", "option name is required")
		}
		if _, dup := declared[opt.Name]; dup {
			return apperror.Validationf("options", "option %q is declared twice", opt.Name)
		}
		declared[opt.Name] = struct{}{}
	}

	seen := make(map[string]int, len(p.Variants))
	skus := make(map[string]int, len(p.Variants))
	for i, v := range p.Variants {
		field := "variants." + strconv.Itoa(i)
		if len(v.Options) == 0 {
			return apperror.Validationf(field, "variant %d has no options", i)
		}
		for k := range v.Options {
			if _, ok := declared[k]; !ok {
				return apperror.Validationf(field, "variant %d uses undeclared option %q", i, k)
			}
		}
		if v.Stock < 0 {
			return apperror.Validationf(field, "variant %d stock cannot be negative", i)
		}
		if v.Price != nil && *v.Price < 0 {
			return apperror.Validationf(field, "variant %d price cannot be negative", i)
		}
		if err := validateImages(field+".images", v.Images); err != nil {
			return err
		}
		if sku := strings.TrimSpace(v.SKU); sku != "" {
			if j, dup := skus[sku]; dup {
				return apperror.Validationf(field, "variant %d repeats SKU %q of variant %d", i, sku, j)
			}
			skus[sku] = i
		}
		key := CanonicalKey(v.Options)
		if j, dup := seen[key]; dup {
			return apperror.Validationf("variants",
				"Product variants must have unique option combinations (variants %d and %d)", j, i)
		}
		seen[key] = i
	}
	return nil
}

// VariantSKUs returns the distinct non-blank variant SKUs of p.
func VariantSKUs(p *models.Product) []string {
	var out []string
	seen := make(map[string]bool, len(p.Variants))
	for _, v := range p.Variants {
		sku := strings.TrimSpace(v.SKU)
		if sku == "" || seen[sku] {
			continue
		}
		seen[sku] = true
		out = append(out, sku)
	}
	return out
}

func validateImages(field string, images []models.Image) error {
	for _, img := range images {
		if strings.TrimSpace(img.URL) == "" || strings.TrimSpace(img.PublicID) == "" {
			return apperror.Validation(field, "image url and publicId are required")
		}
	}
	return nil
}
