package cart

import (
	"encoding/json"

	"github.com/pithomlabs/rainydays/internal/catalog"
)

// Line is one product entry in the cart with its quantity. Identity is
// the product id; the cart holds at most one line per id.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Cart is an insertion-ordered sequence of lines. The zero value is an
// empty cart. Transitions mutate in memory only; persistence is the
// owner's job (see object.go).
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add increments the existing line for the product or appends a new
// one. First add determines position; later adds never reorder.
// Quantity must be positive; the caller owns that contract.
func (c *Cart) Add(p catalog.Product, quantity int) {
	for i := range c.Lines {
		if c.Lines[i].ID == p.ID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: quantity})
}

// Remove deletes the line with the given product id. Removing an
// absent id is a no-op, not an error.
func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line; an absent id is a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Count is the sum of quantities across all lines.
func (c Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Total is the sum of current price times quantity across all lines.
// Recomputed on every call; carts are small.
func (c Cart) Total() float64 {
	total := 0.0
	for _, line := range c.Lines {
		total += catalog.PriceOf(line.Product) * float64(line.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Snapshot returns a deep copy of the lines, safe to freeze into an
// order record while the live cart keeps changing.
func (c Cart) Snapshot() []Line {
	if len(c.Lines) == 0 {
		return nil
	}
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return lines
}

// Encode serializes the cart for durable storage.
func (c Cart) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// Decode rebuilds a cart from its stored representation. Absent,
// corrupt, or stale-shaped data yields an empty cart — a broken
// persisted cart must never break a page load. Lines that decode with
// a non-positive quantity are dropped for the same reason.
func Decode(data []byte) Cart {
	if len(data) == 0 {
		return Cart{}
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return Cart{}
	}
	valid := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ID != "" && line.Quantity > 0 {
			valid = append(valid, line)
		}
	}
	c.Lines = valid
	return c
}
