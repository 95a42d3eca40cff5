package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type VendorRepository struct {
	collection *mongo.Collection
}

func NewVendorRepository(collection *mongo.Collection) *VendorRepository {
	return &VendorRepository{collection: collection}
}

func (r *VendorRepository) Create(ctx context.Context, v *models.Vendor) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	v.ID = bson.NewObjectID()
	v.CreatedAt = now
	v.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, v); err != nil {
		return vendorConflict(err)
	}
	return nil
}

// vendorConflict tells the owner and slug unique indexes apart.
func vendorConflict(err error) error {
	if utils.IsDuplicateKey(err) && strings.Contains(err.Error(), "owner_1") {
		return apperror.Conflict("owner", "This user already has a store")
	}
	return conflict(err, "name", "A store with this name already exists")
}

func (r *VendorRepository) FindByOwner(ctx context.Context, owner bson.ObjectID) (*models.Vendor, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var v models.Vendor
	if err := r.collection.FindOne(ctx, bson.M{"owner": owner}).Decode(&v); err != nil {
		return nil, notFound(err, "Vendor")
	}
	return &v, nil
}

func (r *VendorRepository) Update(ctx context.Context, v *models.Vendor) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	v.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return vendorConflict(err)
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "Vendor")
	}
	return nil
}

// Exists reports whether a vendor profile with the given owner exists.
func (r *VendorRepository) Exists(ctx context.Context, owner bson.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"owner": owner})
	if err != nil {
		return false, fmt.Errorf("count vendors: %w", err)
	}
	return n > 0, nil
}
