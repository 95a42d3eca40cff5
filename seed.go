package main

import (
	"context"
	"fmt"
	"log"

	"github.com/dryp/marketplace/controllers"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/utils"
)

// seedVendor makes sure a vendor account and its store exist. Existing
// records are left alone apart from promoting the user to vendor.
func seedVendor(ctx context.Context, app *controllers.App, email, password, storeName string) error {
	if password == "" {
		return fmt.Errorf("missing SEED_VENDOR_PASSWORD for %s", email)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed vendor password: %w", err)
	}

	user, err := app.Users.EnsureUser(ctx, &models.User{
		Name:         storeName,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleVendor,
	})
	if err != nil {
		return err
	}
	if user.Role != models.RoleVendor {
		if err := app.Users.UpdateRole(ctx, user.ID, models.RoleVendor); err != nil {
			return fmt.Errorf("promote seed vendor: %w", err)
		}
	}

	exists, err := app.Vendors.Exists(ctx, user.ID)
	if err != nil {
		return err
	}
	if exists {
		log.Println("Seed vendor store already exists:", email)
		return nil
	}
	err = app.Vendors.Create(ctx, &models.Vendor{
		Owner: user.ID,
		Name:  storeName,
		Slug:  utils.GenerateSlug(storeName),
		Email: email,
	})
	if err != nil {
		return fmt.Errorf("seed vendor store: %w", err)
	}
	log.Println("Seed vendor store created:", storeName)
	return nil
}
