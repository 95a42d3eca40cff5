package repository

import (
	"testing"

	"github.com/dryp/marketplace/catalog"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestProductFilterDoc(t *testing.T) {
	vendor := bson.NewObjectID()
	lo, hi := 10.0, 99.5

	got := productFilterDoc(catalog.ProductFilter{
		Brands:     []string{"Aurora"},
		Categories: []string{"Dresses", "Tops"},
		Colors:     []string{"Red"},
		Search:     "a.b",
		Vendor:     &vendor,
		MinPrice:   &lo,
		MaxPrice:   &hi,
		ActiveOnly: true,
	})

	assert.Equal(t, bson.M{
		"isActive": true,
		"brand":    bson.M{"$in": []string{"Aurora"}},
		"category": bson.M{"$in": []string{"Dresses", "Tops"}},
		"variants": bson.M{"$elemMatch": bson.M{"options.Color": bson.M{"$in": []string{"Red"}}}},
		"name":     bson.M{"$regex": `a\.b`, "$options": "i"},
		"vendor":   vendor,
		"basePrice": bson.M{
			"$gte": 10.0,
			"$lte": 99.5,
		},
	}, got)
}

func TestProductFilterDocEmpty(t *testing.T) {
	assert.Empty(t, productFilterDoc(catalog.ProductFilter{}))

	hi := 5.0
	assert.Equal(t, bson.M{"basePrice": bson.M{"$lte": 5.0}}, productFilterDoc(catalog.ProductFilter{MaxPrice: &hi}))
}
