package catalog

import (
	"strings"

	"github.com/dryp/marketplace/models"
)

// OptionValues collects the distinct values declared for the named option
// across products, in first-seen order.
func OptionValues(optionLists [][]models.Option, name string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, opts := range optionLists {
		for _, opt := range opts {
			if opt.Name != name {
				continue
			}
			for _, v := range opt.Values {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	return out
}

// MergeSuggestions concatenates product names, categories and brands,
// removing duplicates case-insensitively and keeping at most limit entries.
func MergeSuggestions(limit int, groups ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, limit)
	for _, g := range groups {
		for _, s := range g {
			key := strings.ToLower(s)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, s)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
