package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dryp/marketplace/middleware"
	"github.com/dryp/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func dressPayload() map[string]any {
	return map[string]any{
		"name":      "Summer Dress",
		"brand":     "Aurora",
		"category":  "Dresses",
		"basePrice": 45,
		"options":   []map[string]any{{"name": "Size", "values": []string{"S", "M"}}, {"name": "Color", "values": []string{"Red"}}},
		"variants": []map[string]any{
			{"options": map[string]string{"Size": "S", "Color": "Red"}, "stock": 10, "price": 45},
			{"options": map[string]string{"Size": "M", "Color": "Red"}, "stock": 0},
		},
	}
}

func TestCreateProduct(t *testing.T) {
	s := newServer(t)
	vendor := bson.NewObjectID()

	w := s.do(t, http.MethodPost, "/api/products", dressPayload(), s.token(t, vendor, models.RoleVendor))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[models.Product](t, w)
	assert.Equal(t, vendor, p.Vendor)
	assert.True(t, p.IsActive)
	assert.Len(t, p.Variants, 2)

	w = s.do(t, http.MethodPost, "/api/products", dressPayload(), s.token(t, vendor, models.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/products", dressPayload(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProductRejectsDuplicateVariants(t *testing.T) {
	s := newServer(t)
	body := dressPayload()
	body["variants"] = []map[string]any{
		{"options": map[string]string{"Size": "M", "Color": "Red"}, "stock": 1},
		{"options": map[string]string{"Color": "Red", "Size": "M"}, "stock": 2},
	}

	w := s.do(t, http.MethodPost, "/api/products", body, s.token(t, bson.NewObjectID(), models.RoleVendor))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, message(t, w), "unique option combinations")
}

func TestProductSKUsAreUnique(t *testing.T) {
	s := newServer(t)
	vendor := s.token(t, bson.NewObjectID(), models.RoleVendor)
	withSKUs := func(sku, small, medium string) map[string]any {
		body := dressPayload()
		body["sku"] = sku
		body["variants"] = []map[string]any{
			{"options": map[string]string{"Size": "S", "Color": "Red"}, "stock": 1, "sku": small},
			{"options": map[string]string{"Size": "M", "Color": "Red"}, "stock": 1, "sku": medium},
		}
		return body
	}

	w := s.do(t, http.MethodPost, "/api/products", withSKUs("DRESS", "DRESS-1", "DRESS-1"), vendor)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, message(t, w), "repeats SKU")

	w = s.do(t, http.MethodPost, "/api/products", withSKUs("DRESS", "DRESS-S", "DRESS-M"), vendor)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[models.Product](t, w).ID.Hex()

	w = s.do(t, http.MethodPost, "/api/products", withSKUs("DRESS", "X-S", "X-M"), vendor)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "A product with this SKU already exists", message(t, w))

	w = s.do(t, http.MethodPost, "/api/products", withSKUs("OTHER", "X-S", "DRESS-M"), vendor)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Variants without SKUs never collide.
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", withSKUs("", "", ""), vendor).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", withSKUs("", "", ""), vendor).Code)

	w = s.do(t, http.MethodPut, "/api/products/"+id, map[string]any{"name": "Renamed Dress"}, vendor)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestValidateProductDraftCleansVariants(t *testing.T) {
	s := newServer(t)
	body := dressPayload()
	body["variants"] = []map[string]any{
		{"options": map[string]string{"Size": "S"}, "stock": 3},
		{"options": map[string]string{"Size": "M"}, "stock": -1},
		{"options": map[string]string{}, "stock": 4},
	}

	w := s.do(t, http.MethodPost, "/api/products/validate", body, s.token(t, bson.NewObjectID(), models.RoleVendor))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Valid   bool           `json:"valid"`
		Product models.Product `json:"product"`
	}](t, w)
	assert.True(t, res.Valid)
	require.Len(t, res.Product.Variants, 1)
	assert.Equal(t, "S", res.Product.Variants[0].Options["Size"])
}

func TestUpdateProductOwnership(t *testing.T) {
	s := newServer(t)
	owner, other := bson.NewObjectID(), bson.NewObjectID()
	p := s.product(t, models.Product{Name: "Coat", Brand: "Zen", Category: "Coats", BasePrice: 90, Vendor: owner})
	path := "/api/products/" + p.ID.Hex()

	w := s.do(t, http.MethodPut, path, map[string]any{"basePrice": 80}, s.token(t, other, models.RoleVendor))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized to edit this product", message(t, w))

	w = s.do(t, http.MethodPut, path, map[string]any{"basePrice": -1}, s.token(t, owner, models.RoleVendor))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, path, map[string]any{"basePrice": 80}, s.token(t, owner, models.RoleVendor))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 80.0, decode[models.Product](t, w).BasePrice)

	w = s.do(t, http.MethodPut, "/api/products/"+bson.NewObjectID().Hex(), map[string]any{}, s.token(t, owner, models.RoleVendor))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", message(t, w))
}

func TestUpdateProductDeletesDroppedVariantImages(t *testing.T) {
	s := newServer(t)
	store := &recordingStore{}
	s.app.Media = store
	owner := s.token(t, bson.NewObjectID(), models.RoleVendor)

	w := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Scarf", "brand": "Zen", "category": "Scarves", "basePrice": 20,
		"options": []map[string]any{{"name": "Color", "values": []string{"Red", "Blue"}}},
		"variants": []map[string]any{
			{"options": map[string]string{"Color": "Red"}, "stock": 1, "images": []map[string]string{{"url": "https://cdn.test/r", "publicId": "red-shot"}}},
			{"options": map[string]string{"Color": "Blue"}, "stock": 1, "images": []map[string]string{{"url": "https://cdn.test/b", "publicId": "blue-shot"}}},
		},
	}, owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[models.Product](t, w).ID.Hex()

	w = s.do(t, http.MethodPut, "/api/products/"+id, map[string]any{
		"variants": []map[string]any{
			{"options": map[string]string{"Color": "Blue"}, "stock": 1, "images": []map[string]string{{"url": "https://cdn.test/b", "publicId": "blue-shot"}}},
		},
	}, owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"red-shot"}, store.deleted)
}

func TestDeleteProductCascades(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	vendor, shopper := bson.NewObjectID(), bson.NewObjectID()
	p := s.product(t, models.Product{Name: "Mug", Brand: "B", Category: "Kitchen", BasePrice: 4, Stock: 10, Vendor: vendor})
	keep := s.product(t, models.Product{Name: "Cup", Brand: "B", Category: "Kitchen", BasePrice: 3, Stock: 10, Vendor: vendor})
	auth := s.token(t, shopper, models.RoleCustomer)

	for _, id := range []string{p.ID.Hex(), keep.ID.Hex()} {
		w := s.do(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": id, "quantity": 1}, auth)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/wishlist/"+p.ID.Hex(), nil, auth).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/products/"+p.ID.Hex()+"/like", nil, auth).Code)

	w := s.do(t, http.MethodDelete, "/api/products/"+p.ID.Hex(), nil, s.token(t, bson.NewObjectID(), models.RoleVendor))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/products/"+p.ID.Hex(), nil, s.token(t, vendor, models.RoleVendor))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product and all associated data have been removed", message(t, w))

	c, err := s.app.Carts.Get(ctx, shopper.Hex())
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, keep.ID, c.Lines[0].Product)

	wishlist := decode[[]models.Product](t, s.do(t, http.MethodGet, "/api/wishlist", nil, auth))
	assert.Empty(t, wishlist)

	added, err := s.app.Likes.Add(ctx, shopper, p.ID)
	require.NoError(t, err)
	assert.True(t, added, "like should have been removed with the product")
}

func TestListProductsFilters(t *testing.T) {
	s := newServer(t)
	vendor := bson.NewObjectID()
	s.product(t, models.Product{Name: "Red Dress", Brand: "Aurora", Category: "Dresses", BasePrice: 60, Vendor: vendor,
		Variants: []models.Variant{{Options: map[string]string{"Color": "Red"}, Stock: 1}}})
	s.product(t, models.Product{Name: "Blue Coat", Brand: "Zen", Category: "Coats", BasePrice: 120, Vendor: bson.NewObjectID()})
	hidden := models.Product{Name: "Hidden Dress", Brand: "Aurora", Category: "Dresses", BasePrice: 60}
	require.NoError(t, s.app.Products.Create(context.Background(), &hidden))

	names := func(path string) []string {
		w := s.do(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out []string
		for _, p := range decode[[]models.Product](t, w) {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Blue Coat", "Red Dress"}, names("/api/products"))
	assert.Equal(t, []string{"Red Dress"}, names("/api/products?brand=Aurora,Other"))
	assert.Equal(t, []string{"Red Dress"}, names("/api/products?color=Red"))
	assert.Equal(t, []string{"Blue Coat"}, names("/api/products?search=COAT"))
	assert.Equal(t, []string{"Red Dress"}, names("/api/products?vendor="+vendor.Hex()))
	assert.Equal(t, []string{"Blue Coat"}, names("/api/products?minPrice=100"))
	assert.Equal(t, []string{"Red Dress"}, names("/api/products?category=Dresses&maxPrice=60"))

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/products?minPrice=cheap", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/products?vendor=x", nil, nil).Code)
}

func TestFacetsAreCachedAndInvalidated(t *testing.T) {
	s := newServer(t)
	vendor := bson.NewObjectID()
	s.product(t, models.Product{Name: "Red Dress", Brand: "Aurora", Category: "Dresses", Tags: []string{"summer"},
		Options: []models.Option{{Name: "Color", Values: []string{"Red", "Blue"}}}})

	brands := func() []string {
		return decode[[]string](t, s.do(t, http.MethodGet, "/api/products/brands", nil, nil))
	}
	assert.Equal(t, []string{"Aurora"}, brands())
	assert.Equal(t, []string{"Red", "Blue"}, decode[[]string](t, s.do(t, http.MethodGet, "/api/products/colors", nil, nil)))
	assert.Equal(t, []string{"summer"}, decode[[]string](t, s.do(t, http.MethodGet, "/api/products/tags", nil, nil)))

	// Written behind the API: the cached value is still served.
	s.product(t, models.Product{Name: "Coat", Brand: "Zen", Category: "Coats"})
	assert.Equal(t, []string{"Aurora"}, brands())

	body := dressPayload()
	body["brand"] = "Nordic"
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/products", body, s.token(t, vendor, models.RoleVendor)).Code)
	assert.Equal(t, []string{"Aurora", "Nordic", "Zen"}, brands())
}

func TestSuggestions(t *testing.T) {
	s := newServer(t)
	s.product(t, models.Product{Name: "Red Dress", Brand: "Dressy", Category: "Dresses"})
	s.product(t, models.Product{Name: "Coat", Brand: "Zen", Category: "Coats"})

	got := decode[[]string](t, s.do(t, http.MethodGet, "/api/products/suggestions?query=dress", nil, nil))
	assert.Equal(t, []string{"Red Dress", "Dresses", "Dressy"}, got)

	assert.Empty(t, decode[[]string](t, s.do(t, http.MethodGet, "/api/products/suggestions", nil, nil)))
}

func TestLikeCounter(t *testing.T) {
	s := newServer(t)
	p := s.product(t, models.Product{Name: "Mug"})
	user := bson.NewObjectID()
	path := "/api/products/" + p.ID.Hex() + "/like"

	type likeRes struct {
		Liked bool `json:"liked"`
		Likes int  `json:"likes"`
	}
	assert.Equal(t, likeRes{true, 1}, decode[likeRes](t, s.do(t, http.MethodPost, path, nil, s.token(t, user, models.RoleCustomer))))
	assert.Equal(t, likeRes{true, 1}, decode[likeRes](t, s.do(t, http.MethodPost, path, nil, s.token(t, user, models.RoleCustomer))))
	assert.Equal(t, likeRes{false, 0}, decode[likeRes](t, s.do(t, http.MethodDelete, path, nil, s.token(t, user, models.RoleCustomer))))
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, path, nil, map[string]string{middleware.GuestHeader: "g"}).Code)
}
