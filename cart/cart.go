package cart

import (
	"errors"
	"maps"

	"github.com/dryp/marketplace/apperror"
	"github.com/dryp/marketplace/catalog"
	"github.com/dryp/marketplace/models"
)

var (
	ErrOutOfStock   = errors.New("not enough stock for the selected item")
	ErrLineNotFound = errors.New("cart line not found")
	ErrBadQuantity  = errors.New("quantity must be at least 1")

	// ErrStale is returned by cart stores when the cart was written since it
	// was loaded.
	ErrStale = apperror.Conflict("cart", "The cart was changed by another request, please retry")
)

type Line struct {
	ID        string            `json:"lineId"`
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Options   map[string]string `json:"options,omitempty"`
	Quantity  int               `json:"quantity"`
	Price     float64           `json:"price"`
	Image     *models.Image     `json:"image,omitempty"`
}

// Cart is an ordered set of lines keyed by LineID. The zero value is empty
// and ready to use. It is not safe for concurrent use.
type Cart struct {
	lines []Line
}

// New returns a cart holding lines, merging any that share an id.
func New(lines ...Line) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if i := c.index(l.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Add puts qty units of the selected variant in the cart. Selecting an
// existing line increases its quantity.
func (c *Cart) Add(p *models.Product, options map[string]string, qty int) (Line, error) {
	if qty < 1 {
		return Line{}, ErrBadQuantity
	}
	res, err := catalog.Resolve(p, options)
	if err != nil {
		return Line{}, err
	}

	id := LineID(p.ID.Hex(), options)
	if i := c.index(id); i >= 0 {
		total := c.lines[i].Quantity + qty
		if !res.Purchasable(total) {
			return Line{}, ErrOutOfStock
		}
		c.lines[i].Quantity = total
		c.lines[i].Price = res.Price
		c.lines[i].Image = firstImage(res.Images)
		return c.lines[i], nil
	}
	if !res.Purchasable(qty) {
		return Line{}, ErrOutOfStock
	}

	line := newLine(p, options, qty, res)
	c.lines = append(c.lines, line)
	return line, nil
}

func (c *Cart) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// SetQuantity changes a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(id string, qty int) error {
	i := c.index(id)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty <= 0 {
		c.Remove(id)
		return nil
	}
	c.lines[i].Quantity = qty
	return nil
}

// UpdateOptions switches a line to another variant of the same product. The
// quantity is kept, price and image are re-resolved, and the line takes the
// new identity in place. If another line already has that identity the two
// are merged.
func (c *Cart) UpdateOptions(id string, p *models.Product, options map[string]string) (Line, error) {
	i := c.index(id)
	if i < 0 {
		return Line{}, ErrLineNotFound
	}
	res, err := catalog.Resolve(p, options)
	if err != nil {
		return Line{}, err
	}

	qty := c.lines[i].Quantity
	newID := LineID(p.ID.Hex(), options)
	dup := c.indexExcept(newID, i)
	if dup >= 0 {
		qty += c.lines[dup].Quantity
	}
	if !res.Purchasable(qty) {
		return Line{}, ErrOutOfStock
	}

	line := newLine(p, options, qty, res)
	c.lines[i] = line
	if dup >= 0 {
		c.lines = append(c.lines[:dup], c.lines[dup+1:]...)
	}
	return line, nil
}

// RemoveProduct drops every line of the product and returns how many went.
func (c *Cart) RemoveProduct(productID string) int {
	kept := c.lines[:0]
	removed := 0
	for _, l := range c.lines {
		if l.ProductID == productID {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	c.lines = kept
	return removed
}

func (c *Cart) Get(id string) (Line, bool) {
	if i := c.index(id); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

// CheckoutItems renders the cart as the checkout request payload.
func (c *Cart) CheckoutItems() []models.CheckoutItem {
	out := make([]models.CheckoutItem, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, models.CheckoutItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Options:   maps.Clone(l.Options),
		})
	}
	return out
}

func (c *Cart) index(id string) int {
	for i, l := range c.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) indexExcept(id string, skip int) int {
	for i, l := range c.lines {
		if i != skip && l.ID == id {
			return i
		}
	}
	return -1
}

func newLine(p *models.Product, options map[string]string, qty int, res catalog.Resolution) Line {
	var opts map[string]string
	if len(options) > 0 {
		opts = maps.Clone(options)
	}
	return Line{
		ID:        LineID(p.ID.Hex(), options),
		ProductID: p.ID.Hex(),
		Name:      p.Name,
		Options:   opts,
		Quantity:  qty,
		Price:     res.Price,
		Image:     firstImage(res.Images),
	}
}

func firstImage(images []models.Image) *models.Image {
	if len(images) == 0 {
		return nil
	}
	img := images[0]
	return &img
}
