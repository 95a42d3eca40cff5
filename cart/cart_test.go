package cart

import (
	"testing"

	"github.com/dryp/marketplace/catalog"
	"github.com/dryp/marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func price(v float64) *float64 { return &v }

func shirt() *models.Product {
	return &models.Product{
		ID:        bson.NewObjectID(),
		Name:      "Oxford shirt",
		BasePrice: 50,
		Images:    []models.Image{{URL: "https://img/base.jpg", PublicID: "base"}},
		Options: []models.Option{
			{Name: "Color", Values: []string{"Red", "Blue"}},
			{Name: "Size", Values: []string{"S", "M"}},
		},
		Variants: []models.Variant{
			{Options: map[string]string{"Color": "Red", "Size": "S"}, Stock: 5},
			{Options: map[string]string{"Color": "Red", "Size": "M"}, Stock: 5, Price: price(55),
				Images: []models.Image{{URL: "https://img/red-m.jpg", PublicID: "red-m"}}},
			{Options: map[string]string{"Color": "Blue", "Size": "M"}, Stock: 0},
		},
	}
}

func TestAddDistinctVariantsGetDistinctLines(t *testing.T) {
	p := shirt()
	c := &Cart{}

	_, err := c.Add(p, map[string]string{"Color": "Red", "Size": "S"}, 1)
	require.NoError(t, err)
	l, err := c.Add(p, map[string]string{"Size": "M", "Color": "Red"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 55.0, l.Price)
	assert.Equal(t, "red-m", l.Image.PublicID)

	again, err := c.Add(p, map[string]string{"Color": "Red", "Size": "S"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Quantity)
	assert.Equal(t, 2, c.Len())
	assert.InDelta(t, 2*50+2*55, c.Subtotal(), 0.0001)
}

func TestAddRefusesUnavailableSelections(t *testing.T) {
	p := shirt()
	c := &Cart{}

	_, err := c.Add(p, map[string]string{"Color": "Blue", "Size": "M"}, 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = c.Add(p, map[string]string{"Color": "Red"}, 1)
	assert.ErrorIs(t, err, catalog.ErrIncompleteSelection)

	_, err = c.Add(p, map[string]string{"Color": "Green", "Size": "M"}, 1)
	assert.ErrorIs(t, err, catalog.ErrVariantNotFound)

	_, err = c.Add(p, map[string]string{"Color": "Red", "Size": "S"}, 6)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = c.Add(p, map[string]string{"Color": "Red", "Size": "S"}, 0)
	assert.ErrorIs(t, err, ErrBadQuantity)
	assert.Zero(t, c.Len())
}

func TestUpdateOptionsReplacesIdentity(t *testing.T) {
	p := shirt()
	c := &Cart{}
	small, err := c.Add(p, map[string]string{"Color": "Red", "Size": "S"}, 3)
	require.NoError(t, err)

	moved, err := c.UpdateOptions(small.ID, p, map[string]string{"Color": "Red", "Size": "M"})
	require.NoError(t, err)
	assert.Equal(t, 3, moved.Quantity)
	assert.Equal(t, 55.0, moved.Price)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(small.ID)
	assert.False(t, ok)
	_, ok = c.Get(moved.ID)
	assert.True(t, ok)
}

func TestUpdateOptionsMergesIntoExistingLine(t *testing.T) {
	p := shirt()
	c := &Cart{}
	first, _ := c.Add(p, map[string]string{"Color": "Red", "Size": "S"}, 1)
	second, _ := c.Add(p, map[string]string{"Color": "Red", "Size": "M"}, 2)

	merged, err := c.UpdateOptions(first.ID, p, second.Options)
	require.NoError(t, err)
	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, second.ID, c.Lines()[0].ID)
}

func TestUpdateOptionsKeepsLineWhenUnavailable(t *testing.T) {
	p := shirt()
	c := &Cart{}
	l, _ := c.Add(p, map[string]string{"Color": "Red", "Size": "S"}, 1)

	_, err := c.UpdateOptions(l.ID, p, map[string]string{"Color": "Blue", "Size": "M"})
	assert.ErrorIs(t, err, ErrOutOfStock)
	got, ok := c.Get(l.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)

	_, err = c.UpdateOptions("missing", p, nil)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestQuantityRemovalAndCheckoutItems(t *testing.T) {
	p := shirt()
	simple := &models.Product{ID: bson.NewObjectID(), Name: "Socks", BasePrice: 8, Stock: 20}
	c := New()

	l, _ := c.Add(p, map[string]string{"Color": "Red", "Size": "S"}, 1)
	s, err := c.Add(simple, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, simple.ID.Hex(), s.ID)

	require.NoError(t, c.SetQuantity(l.ID, 2))
	assert.ErrorIs(t, c.SetQuantity("nope", 1), ErrLineNotFound)

	items := c.CheckoutItems()
	require.Len(t, items, 2)
	assert.Equal(t, models.CheckoutItem{ProductID: p.ID.Hex(), Quantity: 2, Price: 50,
		Options: map[string]string{"Color": "Red", "Size": "S"}}, items[0])
	assert.Nil(t, items[1].Options)

	require.NoError(t, c.SetQuantity(s.ID, 0))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.RemoveProduct(p.ID.Hex()))
	assert.Zero(t, c.Len())
}

func TestNewMergesDuplicateLines(t *testing.T) {
	c := New(Line{ID: "a", Quantity: 1}, Line{ID: "b", Quantity: 1}, Line{ID: "a", Quantity: 2})
	assert.Equal(t, 2, c.Len())
	a, _ := c.Get("a")
	assert.Equal(t, 3, a.Quantity)
}
