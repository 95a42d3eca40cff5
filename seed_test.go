package main

import (
	"context"
	"testing"

	"github.com/dryp/marketplace/controllers"
	"github.com/dryp/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedVendorIsIdempotent(t *testing.T) {
	ctx := context.Background()
	app := &controllers.App{}
	useMemory(app)

	require.NoError(t, seedVendor(ctx, app, "demo@dryp.test", "secret123", "DRYP Demo Store"))
	require.NoError(t, seedVendor(ctx, app, "demo@dryp.test", "secret123", "DRYP Demo Store"))

	user, err := app.Users.FindByEmail(ctx, "demo@dryp.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, user.Role)

	vendor, err := app.Vendors.FindByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dryp-demo-store", vendor.Slug)
}

func TestSeedVendorPromotesCustomer(t *testing.T) {
	ctx := context.Background()
	app := &controllers.App{}
	useMemory(app)
	require.NoError(t, app.Users.Create(ctx, &models.User{Email: "shop@dryp.test", Role: models.RoleCustomer}))

	require.NoError(t, seedVendor(ctx, app, "shop@dryp.test", "secret123", "Shop"))

	user, err := app.Users.FindByEmail(ctx, "shop@dryp.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, user.Role)
}

func TestSeedVendorNeedsPassword(t *testing.T) {
	app := &controllers.App{}
	useMemory(app)
	assert.Error(t, seedVendor(context.Background(), app, "x@y.z", "", "X"))
}
