// Package cart implements cart line identity and an explicit cart container
// whose prices come from the catalog resolver.
package cart

import (
	"sort"
	"strings"
)

// LineID identifies a (product, options) pair. With no options it is the
// product id; otherwise the product id followed by "_key-value" entries in
// lexicographic key order.
func LineID(productID string, options map[string]string) string {
	if len(options) == 0 {
		return productID
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"-"+options[k])
	}
	return productID + "_" + strings.Join(parts, "_")
}
