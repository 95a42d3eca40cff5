package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dryp/marketplace/cache"
	"github.com/dryp/marketplace/config"
	"github.com/dryp/marketplace/controllers"
	"github.com/dryp/marketplace/media"
	"github.com/dryp/marketplace/memstore"
	"github.com/dryp/marketplace/models"
	"github.com/dryp/marketplace/orders"
	"github.com/dryp/marketplace/routes"
	"github.com/dryp/marketplace/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	app    *controllers.App
	router *gin.Engine
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	app := &controllers.App{
		Products:  memstore.NewProducts(),
		Orders:    memstore.NewOrders(),
		Users:     memstore.NewUsers(),
		Tokens:    memstore.NewRefreshTokens(),
		Vendors:   memstore.NewVendors(),
		Carts:     memstore.NewCarts(),
		Wishlist:  memstore.NewWishlist(),
		Likes:     memstore.NewLikes(),
		Media:     media.Nop{},
		Validator: media.NewImageValidator(config.MediaConfig{}),
		Facets:    cache.New(time.Minute),
		Issuer: &utils.TokenIssuer{
			AccessSecret:  []byte("access"),
			RefreshSecret: []byte("refresh"),
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
		ListLimit: 50,
	}
	app.Checkout = &orders.Service{
		Products: app.Products,
		Orders:   app.Orders,
		Numbers:  orders.NewNumberGenerator("DRYP"),
	}

	r := routes.NewRouter(nil)
	routes.RegisterRoutes(r, app)
	return &testServer{app: app, router: r}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) token(t *testing.T, id bson.ObjectID, role models.Role) map[string]string {
	t.Helper()
	tok, err := s.app.Issuer.GenerateAccessToken(id.Hex(), id.Hex()+"@dryp.test", string(role))
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func (s *testServer) product(t *testing.T, p models.Product) models.Product {
	t.Helper()
	p.IsActive = true
	require.NoError(t, s.app.Products.Create(context.Background(), &p))
	return p
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["message"].(string)
}

func price(v float64) *float64 { return &v }
