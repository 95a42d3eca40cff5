package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// pairRepository stores unique (user, product) documents. Wishlists and
// likes share it.
type pairRepository struct {
	collection *mongo.Collection
}

// add reports false when the pair already existed.
func (r *pairRepository) add(ctx context.Context, user, product bson.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, bson.M{
		"_id":       bson.NewObjectID(),
		"user":      user,
		"product":   product,
		"createdAt": time.Now().UTC(),
	})
	if utils.IsDuplicateKey(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", r.collection.Name(), err)
	}
	return true, nil
}

func (r *pairRepository) remove(ctx context.Context, user, product bson.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"user": user, "product": product})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", r.collection.Name(), err)
	}
	return res.DeletedCount > 0, nil
}

func (r *pairRepository) RemoveProduct(ctx context.Context, product bson.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"product": product}); err != nil {
		return fmt.Errorf("delete %s: %w", r.collection.Name(), err)
	}
	return nil
}

type WishlistRepository struct {
	pairRepository
}

func NewWishlistRepository(collection *mongo.Collection) *WishlistRepository {
	return &WishlistRepository{pairRepository{collection: collection}}
}

func (r *WishlistRepository) Add(ctx context.Context, user, product bson.ObjectID) error {
	_, err := r.add(ctx, user, product)
	return err
}

func (r *WishlistRepository) Remove(ctx context.Context, user, product bson.ObjectID) error {
	_, err := r.remove(ctx, user, product)
	return err
}

func (r *WishlistRepository) List(ctx context.Context, user bson.ObjectID) ([]models.WishlistItem, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, fmt.Errorf("find wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.WishlistItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	return items, nil
}

type LikeRepository struct {
	pairRepository
}

func NewLikeRepository(collection *mongo.Collection) *LikeRepository {
	return &LikeRepository{pairRepository{collection: collection}}
}

func (r *LikeRepository) Add(ctx context.Context, user, product bson.ObjectID) (bool, error) {
	return r.add(ctx, user, product)
}

func (r *LikeRepository) Remove(ctx context.Context, user, product bson.ObjectID) (bool, error) {
	return r.remove(ctx, user, product)
}
