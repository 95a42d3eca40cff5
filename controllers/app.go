package controllers

import (
	"context"

	"github.com/dryp/marketplace/cache"
	"github.com/dryp/marketplace/catalog"
	"github.com/dryp/marketplace/media"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/orders"
	"github.com/dryp/marketplace/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ProductStore interface {
	orders.VendorLookup
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id bson.ObjectID) error
	List(ctx context.Context, f catalog.ProductFilter) ([]models.Product, error)
	Distinct(ctx context.Context, field string) ([]string, error)
	OptionLists(ctx context.Context) ([][]models.Option, error)
	Names(ctx context.Context, query string, limit int) ([]string, error)
	AddLikes(ctx context.Context, id bson.ObjectID, delta int) error
}

type OrderStore interface {
	orders.Store
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	ListByUser(ctx context.Context, user bson.ObjectID) ([]models.Order, error)
	ListByGuest(ctx context.Context, guestID string) ([]models.Order, error)
	ListByVendor(ctx context.Context, vendor bson.ObjectID) ([]models.Order, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id bson.ObjectID) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id bson.ObjectID, hash string) error
	UpdateRole(ctx context.Context, id bson.ObjectID, role models.Role) error
	EnsureUser(ctx context.Context, u *models.User) (*models.User, error)
}

type TokenStore interface {
	Save(ctx context.Context, t *models.RefreshToken) error
	FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id bson.ObjectID, replacedBy string) error
	RevokeAll(ctx context.Context, user bson.ObjectID) error
}

type VendorStore interface {
	Create(ctx context.Context, v *models.Vendor) error
	FindByOwner(ctx context.Context, owner bson.ObjectID) (*models.Vendor, error)
	Update(ctx context.Context, v *models.Vendor) error
	Exists(ctx context.Context, owner bson.ObjectID) (bool, error)
}

type CartStore interface {
	Get(ctx context.Context, owner string) (*models.Cart, error)
	Save(ctx context.Context, c *models.Cart) error
	Delete(ctx context.Context, owner string) error
	PullProduct(ctx context.Context, product bson.ObjectID) error
}

type WishlistStore interface {
	Add(ctx context.Context, user, product bson.ObjectID) error
	Remove(ctx context.Context, user, product bson.ObjectID) error
	List(ctx context.Context, user bson.ObjectID) ([]models.WishlistItem, error)
	RemoveProduct(ctx context.Context, product bson.ObjectID) error
}

type LikeStore interface {
	Add(ctx context.Context, user, product bson.ObjectID) (bool, error)
	Remove(ctx context.Context, user, product bson.ObjectID) (bool, error)
	RemoveProduct(ctx context.Context, product bson.ObjectID) error
}

// App holds the dependencies of every handler.
type App struct {
	Products ProductStore
	Orders   OrderStore
	Users    UserStore
	Tokens   TokenStore
	Vendors  VendorStore
	Carts    CartStore
	Wishlist WishlistStore
	Likes    LikeStore

	Media     media.Store
	Validator *media.FileValidator
	Facets    *cache.Cache
	Checkout  *orders.Service
	Issuer    *utils.TokenIssuer

	Cookies   CookieConfig
	ListLimit int
}

type CookieConfig struct {
	Secure bool
	Domain string
}
