package repository

import (
	"regexp"

	"github.com/dryp/marketplace/catalog"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// productFilterDoc translates a listing filter into a Mongo query document.
func productFilterDoc(f catalog.ProductFilter) bson.M {
	filter := bson.M{}
	if f.ActiveOnly {
		filter["isActive"] = true
	}
	if len(f.Brands) > 0 {
		filter["brand"] = bson.M{"$in": f.Brands}
	}
	if len(f.Categories) > 0 {
		filter["category"] = bson.M{"$in": f.Categories}
	}
	if len(f.Colors) > 0 {
		filter["variants"] = bson.M{"$elemMatch": bson.M{"options." + catalog.ColorOption: bson.M{"$in": f.Colors}}}
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.Vendor != nil {
		filter["vendor"] = *f.Vendor
	}
	addPriceFilter(filter, f.MinPrice, f.MaxPrice)
	return filter
}

func addPriceFilter(filter bson.M, minPrice, maxPrice *float64) {
	if minPrice == nil && maxPrice == nil {
		return
	}
	price := bson.M{}
	if minPrice != nil {
		price["$gte"] = *minPrice
	}
	if maxPrice != nil {
		price["$lte"] = *maxPrice
	}
	filter["basePrice"] = price
}
