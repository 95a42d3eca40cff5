package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Vendor is the store profile of a user with the vendor role.
type Vendor struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Owner       bson.ObjectID `bson:"owner" json:"owner"`
	Name        string        `bson:"name" json:"name"`
	Slug        string        `bson:"slug" json:"slug"`
	Email       string        `bson:"email" json:"email"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Phone       string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Website     string        `bson:"website,omitempty" json:"website,omitempty"`
	Address     Address       `bson:"address" json:"address"`
	Logo        *Image        `bson:"logo,omitempty" json:"logo,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
