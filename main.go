package main

import (
	"context"
	"log"

	"github.com/dryp/marketplace/cache"
	"github.com/dryp/marketplace/config"
	"github.com/dryp/marketplace/controllers"
	"github.com/dryp/marketplace/database"
	"github.com/dryp/marketplace/media"
	"github.com/dryp/marketplace/memstore"
	"github.com/dryp/marketplace/orders"
	"github.com/dryp/marketplace/repository"
	"github.com/dryp/marketplace/routes"
	"github.com/dryp/marketplace/utils"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		if !cfg.DevMode {
			log.Fatal("JWT_SECRET and JWT_REFRESH_SECRET must be set")
		}
		log.Println("DEV_MODE: using built-in JWT secrets")
		cfg.JWTSecret, cfg.JWTRefreshSecret = "dev-access-secret", "dev-refresh-secret"
	}

	app := &controllers.App{
		Issuer: &utils.TokenIssuer{
			AccessSecret:  []byte(cfg.JWTSecret),
			RefreshSecret: []byte(cfg.JWTRefreshSecret),
			AccessTTL:     cfg.AccessTTL,
			RefreshTTL:    cfg.RefreshTTL,
		},
		Validator: media.NewImageValidator(cfg.Media),
		Facets:    cache.New(cfg.FacetCacheTTL),
		Cookies:   controllers.CookieConfig{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain},
		ListLimit: cfg.ProductListLimit,
	}

	if cfg.DevMode {
		log.Println("DEV_MODE enabled: using in-memory stores")
		useMemory(app)
	} else {
		client, err := database.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Disconnect(context.Background())

		db := client.Database(cfg.DatabaseName)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			log.Fatal(err)
		}
		log.Println("DATABASE_NAME:", cfg.DatabaseName)

		app.Products = repository.NewProductRepository(db.Collection(database.Products))
		app.Orders = repository.NewOrderRepository(db.Collection(database.Orders))
		app.Users = repository.NewUserRepository(db.Collection(database.Users))
		app.Tokens = repository.NewRefreshTokenRepository(db.Collection(database.RefreshTokens))
		app.Vendors = repository.NewVendorRepository(db.Collection(database.Vendors))
		app.Carts = repository.NewCartRepository(db.Collection(database.Carts))
		app.Wishlist = repository.NewWishlistRepository(db.Collection(database.Wishlists))
		app.Likes = repository.NewLikeRepository(db.Collection(database.Likes))
	}

	store, err := media.New(ctx, cfg.Media)
	if err != nil {
		log.Fatal(err)
	}
	app.Media = store
	log.Printf("Media backend: %s", cfg.Media.Backend)

	numbers := orders.NewNumberGenerator(cfg.OrderNumberPrefix)
	app.Checkout = &orders.Service{
		Products: app.Products,
		Orders:   app.Orders,
		Numbers:  numbers,
		Workflow: orders.Workflow{Strict: cfg.OrderStatusStrict},
	}
	log.Printf("Order status workflow strict: %v", cfg.OrderStatusStrict)

	if cfg.SeedVendorEmail != "" {
		if err := seedVendor(ctx, app, cfg.SeedVendorEmail, cfg.SeedVendorPassword, cfg.SeedVendorName); err != nil {
			log.Fatal(err)
		}
	}

	r := routes.NewRouter(cfg.AllowedOrigins)
	routes.RegisterRoutes(r, app)

	log.Println("Server running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func useMemory(app *controllers.App) {
	app.Products = memstore.NewProducts()
	app.Orders = memstore.NewOrders()
	app.Users = memstore.NewUsers()
	app.Tokens = memstore.NewRefreshTokens()
	app.Vendors = memstore.NewVendors()
	app.Carts = memstore.NewCarts()
	app.Wishlist = memstore.NewWishlist()
	app.Likes = memstore.NewLikes()
}
