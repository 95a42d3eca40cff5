package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/dryp/marketplace/catalog"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{collection: collection}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := r.variantSKUTaken(ctx, p, bson.NilObjectID); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.ID = bson.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		if utils.IsDuplicateKey(err) {
			return catalog.ErrProductSKUTaken
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var p models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err, "Product")
	}
	return &p, nil
}

// Update replaces the stored document with p.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := r.variantSKUTaken(ctx, p, p.ID); err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return catalog.ErrProductSKUTaken
		}
		return fmt.Errorf("replace product: %w", err)
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "Product")
	}
	return nil
}

// variantSKUTaken looks for another product using one of p's variant SKUs.
// Product SKUs are covered by a unique index; variant SKUs cannot be, since
// variants without a SKU would all index as null. The check and the write
// are not atomic.
func (r *ProductRepository) variantSKUTaken(ctx context.Context, p *models.Product, self bson.ObjectID) error {
	skus := catalog.VariantSKUs(p)
	if len(skus) == 0 {
		return nil
	}
	filter := bson.M{"variants.sku": bson.M{"$in": skus}}
	if !self.IsZero() {
		filter["_id"] = bson.M{"$ne": self}
	}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("check variant skus: %w", err)
	}
	if n > 0 {
		return catalog.ErrVariantSKUTaken
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "Product")
	}
	return nil
}

// List returns matching products, newest first.
func (r *ProductRepository) List(ctx context.Context, f catalog.ProductFilter) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cursor, err := r.collection.Find(ctx, productFilterDoc(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Distinct returns the distinct values of field over active products.
func (r *ProductRepository) Distinct(ctx context.Context, field string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	res := r.collection.Distinct(ctx, field, bson.M{"isActive": true})
	values := make([]string, 0)
	if err := res.Decode(&values); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	return values, nil
}

// OptionLists returns the declared options of every active product.
func (r *ProductRepository) OptionLists(ctx context.Context) ([][]models.Option, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"options": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true, "options.0": bson.M{"$exists": true}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find options: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Options []models.Option `bson:"options"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	out := make([][]models.Option, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Options)
	}
	return out, nil
}

// Names returns up to limit active product names containing query.
func (r *ProductRepository) Names(ctx context.Context, query string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter := bson.M{
		"isActive": true,
		"name":     bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"},
	}
	opts := options.Find().SetProjection(bson.M{"name": 1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find names: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Name string `bson:"name"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode names: %w", err)
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	return names, nil
}

// AddLikes moves the likes counter by delta without letting it go negative.
func (r *ProductRepository) AddLikes(ctx context.Context, id bson.ObjectID, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["likes"] = bson.M{"$gte": -delta}
	}
	if _, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"likes": delta}}); err != nil {
		return fmt.Errorf("update likes: %w", err)
	}
	return nil
}

// VendorsOf maps each existing product id to its vendor in one query.
func (r *ProductRepository) VendorsOf(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]bson.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"vendor": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find product vendors: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID     bson.ObjectID `bson:"_id"`
		Vendor bson.ObjectID `bson:"vendor"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode product vendors: %w", err)
	}
	out := make(map[bson.ObjectID]bson.ObjectID, len(docs))
	for _, d := range docs {
		out[d.ID] = d.Vendor
	}
	return out, nil
}
