package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

// Option declares one axis of variation, e.g. {Size, [S M L]}.
type Option struct {
	Name   string   `bson:"name" json:"name"`
	Values []string `bson:"values" json:"values"`
}

// Variant is one purchasable combination of option values.
// A nil Price means the product's BasePrice applies.
type Variant struct {
	Options map[string]string `bson:"options" json:"options"`
	SKU     string            `bson:"sku,omitempty" json:"sku,omitempty"`
	Stock   int               `bson:"stock" json:"stock"`
	Price   *float64          `bson:"price,omitempty" json:"price,omitempty"`
	Images  []Image           `bson:"images,omitempty" json:"images,omitempty"`
}

type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Brand       string        `bson:"brand" json:"brand"`
	Category    string        `bson:"category" json:"category"`
	Tags        []string      `bson:"tags" json:"tags"`

	BasePrice float64 `bson:"basePrice" json:"basePrice"`
	SKU       string  `bson:"sku,omitempty" json:"sku,omitempty"`
	Stock     int     `bson:"stock" json:"stock"`

	Options  []Option  `bson:"options" json:"options"`
	Variants []Variant `bson:"variants" json:"variants"`
	Images   []Image   `bson:"images" json:"images"`

	Vendor   bson.ObjectID `bson:"vendor" json:"vendor"`
	IsActive bool          `bson:"isActive" json:"isActive"`

	Rating  float64 `bson:"rating" json:"rating"`
	Reviews int     `bson:"reviews" json:"reviews"`
	Likes   int     `bson:"likes" json:"likes"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsSimple reports whether availability and price come from the product itself.
func (p *Product) IsSimple() bool {
	return len(p.Variants) == 0
}

// AllImages returns the product images followed by every variant's images.
func (p *Product) AllImages() []Image {
	images := append([]Image{}, p.Images...)
	for _, v := range p.Variants {
		images = append(images, v.Images...)
	}
	return images
}

type WishlistItem struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Product   bson.ObjectID `bson:"product" json:"product"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type Like struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	User      bson.ObjectID `bson:"user" json:"user"`
	Product   bson.ObjectID `bson:"product" json:"product"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
