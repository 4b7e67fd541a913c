package cart

import (
	"encoding/json"
	"fmt"

	restate "github.com/restatedev/sdk-go"

	"github.com/pithomlabs/rainydays/internal/catalog"
)

// CartSession is a Virtual Object keyed by shopping session. Every
// handler rehydrates the cart from journaled state, mutates it, and
// persists it before returning, so the durable copy is consistent at
// every observable point between invocations.
type CartSession struct{}

const stateKeyCart = "cart"

// AddItemRequest carries the product to add. The product comes from
// the caller because the cart stores a denormalized copy of it.
type AddItemRequest struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// UpdateQuantityRequest replaces a line's quantity outright.
type UpdateQuantityRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Summary is the read model handed to the rendering surface.
type Summary struct {
	Lines []Line  `json:"lines"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// AddItem adds a product, merging into the existing line if one holds
// the same product id.
func (CartSession) AddItem(ctx restate.ObjectContext, req AddItemRequest) (Summary, error) {
	session := restate.Key(ctx)

	if req.Quantity <= 0 {
		return Summary{}, restate.TerminalError(fmt.Errorf("quantity must be positive"), 400)
	}
	if req.Product.ID == "" {
		return Summary{}, restate.TerminalError(fmt.Errorf("product id is required"), 400)
	}

	c := loadCart(ctx)
	c.Add(req.Product, req.Quantity)
	restate.Set(ctx, stateKeyCart, c)

	ctx.Log().Info("item added to cart",
		"session", session, "productId", req.Product.ID, "count", c.Count())
	return summarize(c), nil
}

// ImportCart merges a cart blob persisted by the legacy browser
// storefront (its localStorage payload). Malformed blobs import as
// empty; a broken old cart must not break the new one.
func (CartSession) ImportCart(ctx restate.ObjectContext, raw json.RawMessage) (Summary, error) {
	imported := Decode(raw)

	c := loadCart(ctx)
	for _, line := range imported.Lines {
		c.Add(line.Product, line.Quantity)
	}
	restate.Set(ctx, stateKeyCart, c)

	ctx.Log().Info("legacy cart imported",
		"session", restate.Key(ctx), "lines", len(imported.Lines))
	return summarize(c), nil
}

// RemoveItem deletes a line. Absent ids are a silent no-op.
func (CartSession) RemoveItem(ctx restate.ObjectContext, productID string) (Summary, error) {
	c := loadCart(ctx)
	c.Remove(productID)
	restate.Set(ctx, stateKeyCart, c)

	ctx.Log().Info("item removed from cart",
		"session", restate.Key(ctx), "productId", productID)
	return summarize(c), nil
}

// UpdateQuantity sets a line's quantity; zero or negative removes it.
func (CartSession) UpdateQuantity(ctx restate.ObjectContext, req UpdateQuantityRequest) (Summary, error) {
	c := loadCart(ctx)
	c.SetQuantity(req.ProductID, req.Quantity)
	restate.Set(ctx, stateKeyCart, c)

	return summarize(c), nil
}

// Clear empties the cart.
func (CartSession) Clear(ctx restate.ObjectContext, _ restate.Void) error {
	restate.Clear(ctx, stateKeyCart)
	ctx.Log().Info("cart cleared", "session", restate.Key(ctx))
	return nil
}

// TakeSnapshot returns the current summary for checkout to freeze into
// an order record. Read-only, but exposed as an exclusive handler so a
// checkout snapshot serializes with concurrent mutations.
func (CartSession) TakeSnapshot(ctx restate.ObjectContext, _ restate.Void) (Summary, error) {
	return summarize(loadCart(ctx)), nil
}

// GetCart returns the current summary.
func (CartSession) GetCart(ctx restate.ObjectSharedContext, _ restate.Void) (Summary, error) {
	return summarize(loadCart(ctx)), nil
}

// GetCount returns the header badge number.
func (CartSession) GetCount(ctx restate.ObjectSharedContext, _ restate.Void) (int, error) {
	return loadCart(ctx).Count(), nil
}

// loadCart rehydrates the session cart. Absent state is an empty
// cart, and so is state this version cannot decode — corrupt or
// stale-shaped storage must never take the storefront down.
func loadCart(ctx restate.ObjectSharedContext) Cart {
	c, err := restate.Get[Cart](ctx, stateKeyCart)
	if err != nil {
		return Cart{}
	}
	return c
}

func summarize(c Cart) Summary {
	return Summary{
		Lines: c.Snapshot(),
		Count: c.Count(),
		Total: c.Total(),
	}
}
