package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type CartLine struct {
	LineID   string            `bson:"lineId" json:"lineId"`
	Product  bson.ObjectID     `bson:"product" json:"product"`
	Name     string            `bson:"name" json:"name"`
	Options  map[string]string `bson:"options,omitempty" json:"options,omitempty"`
	Quantity int               `bson:"quantity" json:"quantity"`
	Price    float64           `bson:"price" json:"price"`
	Image    *Image            `bson:"image,omitempty" json:"image,omitempty"`
}

// Cart is the persisted copy of a shopper's cart. Owner is a user id hex
// or "guest:<guestId>". Version counts writes; zero means never stored.
type Cart struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner     string        `bson:"owner" json:"owner"`
	Lines     []CartLine    `bson:"lines" json:"lines"`
	Version   int64         `bson:"version" json:"-"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
