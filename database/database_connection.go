package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names.
const (
	Products      = "products"
	Orders        = "orders"
	Users         = "users"
	RefreshTokens = "refresh_tokens"
	Vendors       = "vendors"
	Carts         = "carts"
	Wishlists     = "wishlists"
	Likes         = "likes"
)

// Connect opens one client and pings the primary before returning it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("missing MONGODB_URI")
	}
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Println("Pinged your deployment. You successfully connected to MongoDB!")
	return client, nil
}

type index struct {
	collection string
	keys       bson.D
	unique     bool
	partial    bson.M
}

// Only string SKUs are indexed, so products without one never collide.
var hasSKU = bson.M{"sku": bson.M{"$type": "string"}}

var indexes = []index{
	{Orders, bson.D{{Key: "orderNumber", Value: 1}}, true, nil},
	{Orders, bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}, false, nil},
	{Orders, bson.D{{Key: "items.vendor", Value: 1}, {Key: "createdAt", Value: -1}}, false, nil},
	{Users, bson.D{{Key: "email", Value: 1}}, true, nil},
	{RefreshTokens, bson.D{{Key: "tokenHash", Value: 1}}, true, nil},
	{Vendors, bson.D{{Key: "slug", Value: 1}}, true, nil},
	{Vendors, bson.D{{Key: "owner", Value: 1}}, true, nil},
	{Carts, bson.D{{Key: "owner", Value: 1}}, true, nil},
	{Wishlists, bson.D{{Key: "user", Value: 1}, {Key: "product", Value: 1}}, true, nil},
	{Likes, bson.D{{Key: "user", Value: 1}, {Key: "product", Value: 1}}, true, nil},
	{Products, bson.D{{Key: "vendor", Value: 1}}, false, nil},
	{Products, bson.D{{Key: "createdAt", Value: -1}}, false, nil},
	{Products, bson.D{{Key: "sku", Value: 1}}, true, hasSKU},
	{Products, bson.D{{Key: "variants.sku", Value: 1}}, false, nil},
}

// EnsureIndexes creates the indexes the stores rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ix := range indexes {
		model := mongo.IndexModel{Keys: ix.keys}
		if ix.unique || ix.partial != nil {
			opts := options.Index()
			if ix.unique {
				opts.SetUnique(true)
			}
			if ix.partial != nil {
				opts.SetPartialFilterExpression(ix.partial)
			}
			model.Options = opts
		}
		if _, err := db.Collection(ix.collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", ix.collection, err)
		}
	}
	return nil
}
