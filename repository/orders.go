package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(collection *mongo.Collection) *OrderRepository {
	return &OrderRepository{collection: collection}
}

// Create inserts o. A taken order number surfaces as a ConflictError.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if o.ID.IsZero() {
		o.ID = bson.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return conflict(err, "orderNumber", "Order number already exists")
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *OrderRepository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"orderNumber": number})
}

func (r *OrderRepository) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var o models.Order
	if err := r.collection.FindOne(ctx, filter).Decode(&o); err != nil {
		return nil, notFound(err, "Order")
	}
	return &o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id bson.ObjectID, status models.OrderStatus, at time.Time) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o models.Order
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&o); err != nil {
		return nil, notFound(err, "Order")
	}
	return &o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, user bson.ObjectID) ([]models.Order, error) {
	return r.list(ctx, bson.M{"user": user})
}

func (r *OrderRepository) ListByGuest(ctx context.Context, guestID string) ([]models.Order, error) {
	return r.list(ctx, bson.M{"guestId": guestID, "user": nil})
}

// ListByVendor returns the orders holding at least one line of vendor.
func (r *OrderRepository) ListByVendor(ctx context.Context, vendor bson.ObjectID) ([]models.Order, error) {
	return r.list(ctx, bson.M{"items.vendor": vendor})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
