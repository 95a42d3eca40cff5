package catalog

import (
	"testing"

	"github.com/dryp/marketplace/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestProductFilterMatch(t *testing.T) {
	vendor := bson.NewObjectID()
	p := &models.Product{
		Name:      "Summer Dress",
		Brand:     "Aurora",
		Category:  "Dresses",
		BasePrice: 60,
		Vendor:    vendor,
		IsActive:  true,
		Variants: []models.Variant{
			{Options: map[string]string{"Color": "Red", "Size": "S"}},
		},
	}
	lo, hi, low := 50.0, 70.0, 10.0
	other := bson.NewObjectID()

	cases := []struct {
		name string
		f    ProductFilter
		want bool
	}{
		{"empty", ProductFilter{}, true},
		{"brand list", ProductFilter{Brands: []string{"X", "Aurora"}}, true},
		{"brand miss", ProductFilter{Brands: []string{"X"}}, false},
		{"category", ProductFilter{Categories: []string{"Dresses"}}, true},
		{"color", ProductFilter{Colors: []string{"Blue", "Red"}}, true},
		{"color miss", ProductFilter{Colors: []string{"Blue"}}, false},
		{"search case insensitive", ProductFilter{Search: "sUmMeR"}, true},
		{"search miss", ProductFilter{Search: "winter"}, false},
		{"vendor", ProductFilter{Vendor: &vendor}, true},
		{"vendor miss", ProductFilter{Vendor: &other}, false},
		{"price range", ProductFilter{MinPrice: &lo, MaxPrice: &hi}, true},
		{"below min", ProductFilter{MaxPrice: &low}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.f.Match(p))
		})
	}

	p.IsActive = false
	assert.False(t, ProductFilter{ActiveOnly: true}.Match(p))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("  "))
	assert.Equal(t, []string{"a", "b"}, SplitList("a, ,b,"))
}

func TestFacetHelpers(t *testing.T) {
	colors := OptionValues([][]models.Option{
		{{Name: "Color", Values: []string{"Red", "Blue"}}, {Name: "Size", Values: []string{"S"}}},
		{{Name: "Color", Values: []string{"Blue", "Green"}}},
	}, ColorOption)
	assert.Equal(t, []string{"Red", "Blue", "Green"}, colors)

	got := MergeSuggestions(3, []string{"Red Dress", "red dress"}, []string{"Dresses"}, []string{"Aurora", "Zen"})
	assert.Equal(t, []string{"Red Dress", "Dresses", "Aurora"}, got)
}
