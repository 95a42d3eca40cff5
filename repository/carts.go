package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dryp/marketplace/cart"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(collection *mongo.Collection) *CartRepository {
	return &CartRepository{collection: collection}
}

// Get returns the owner's cart, or an empty one when none is stored.
func (r *CartRepository) Get(ctx context.Context, owner string) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var c models.Cart
	err := r.collection.FindOne(ctx, bson.M{"owner": owner}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.Cart{Owner: owner, Lines: []models.CartLine{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &c, nil
}

// Save writes c if the stored cart still has c.Version, and fails with
// cart.ErrStale otherwise. A version mismatch makes the upsert insert a
// second cart for the owner, which the unique owner index rejects.
func (r *CartRepository) Save(ctx context.Context, c *models.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"owner": c.Owner, "version": c.Version}
	if c.Version == 0 {
		// carts written before versioning have no version field
		filter["version"] = bson.M{"$in": bson.A{0, nil}}
	}
	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"lines": c.Lines, "updatedAt": now, "version": c.Version + 1},
		"$setOnInsert": bson.M{"owner": c.Owner},
	}
	if _, err := r.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true)); err != nil {
		if utils.IsDuplicateKey(err) {
			return cart.ErrStale
		}
		return fmt.Errorf("save cart: %w", err)
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, owner string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"owner": owner}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// PullProduct removes every line of product from every cart.
func (r *CartRepository) PullProduct(ctx context.Context, product bson.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"lines": bson.M{"product": product}},
		"$inc":  bson.M{"version": 1},
	}
	if _, err := r.collection.UpdateMany(ctx, bson.M{"lines.product": product}, update); err != nil {
		return fmt.Errorf("pull product from carts: %w", err)
	}
	return nil
}
