package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dryp/marketplace/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) *UserRepository {
	return &UserRepository{collection: collection}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	u.ID = bson.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, u); err != nil {
		return conflict(err, "email", "User already exists")
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var u models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, notFound(err, "User")
	}
	return &u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id bson.ObjectID, hash string) error {
	return r.set(ctx, id, bson.M{"passwordHash": hash})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id bson.ObjectID, role models.Role) error {
	return r.set(ctx, id, bson.M{"role": role})
}

func (r *UserRepository) set(ctx context.Context, id bson.ObjectID, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	fields["updatedAt"] = time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return notFound(mongo.ErrNoDocuments, "User")
	}
	return nil
}

// EnsureUser inserts u only if no user has its email and returns the stored user.
func (r *UserRepository) EnsureUser(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"email": u.Email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":         u.Name,
			"email":        u.Email,
			"passwordHash": u.PasswordHash,
			"role":         u.Role,
			"isActive":     true,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("seed user upsert failed: %w", err)
	}
	if res.UpsertedCount == 1 {
		log.Println("User seeded:", u.Email)
	} else {
		log.Println("User already exists:", u.Email)
	}

	var stored models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&stored); err != nil {
		return nil, notFound(err, "User")
	}
	return &stored, nil
}

type RefreshTokenRepository struct {
	collection *mongo.Collection
}

func NewRefreshTokenRepository(collection *mongo.Collection) *RefreshTokenRepository {
	return &RefreshTokenRepository{collection: collection}
}

func (r *RefreshTokenRepository) Save(ctx context.Context, t *models.RefreshToken) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	t.ID = bson.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var t models.RefreshToken
	if err := r.collection.FindOne(ctx, bson.M{"tokenHash": hash}).Decode(&t); err != nil {
		return nil, notFound(err, "Refresh token")
	}
	return &t, nil
}

// Revoke marks one token revoked, recording the hash of its successor if any.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, id bson.ObjectID, replacedBy string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	set := bson.M{"revokedAt": time.Now().UTC()}
	if replacedBy != "" {
		set["replacedBy"] = replacedBy
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "revokedAt": nil}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, user bson.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter := bson.M{"userId": user, "revokedAt": nil}
	if _, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"revokedAt": time.Now().UTC()}}); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
