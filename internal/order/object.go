package order

import (
	restate "github.com/restatedev/sdk-go"
)

// OrderBox is a Virtual Object holding the single order record a
// session may have in flight between checkout and confirmation.
// Written once at checkout, consumed once by the confirmation page,
// then gone — a reload after consumption finds nothing and the caller
// redirects to the catalog.
type OrderBox struct{}

const stateKeyLastOrder = "lastOrder"

// ConsumeResult reports whether a record was waiting. Found=false is
// an expected outcome (direct navigation to the confirmation page),
// not an error.
type ConsumeResult struct {
	Found  bool    `json:"found"`
	Record *Record `json:"record,omitempty"`
}

// Put stores the checkout snapshot. Overwrites any unconsumed record;
// a new checkout supersedes a confirmation that was never viewed.
func (OrderBox) Put(ctx restate.ObjectContext, rec Record) error {
	restate.Set(ctx, stateKeyLastOrder, rec)
	ctx.Log().Info("order recorded",
		"session", restate.Key(ctx), "orderNumber", rec.OrderNumber)
	return nil
}

// Consume returns the stored record and deletes it in the same
// invocation, so the confirmation renders exactly once.
func (OrderBox) Consume(ctx restate.ObjectContext, _ restate.Void) (ConsumeResult, error) {
	rec, err := restate.Get[*Record](ctx, stateKeyLastOrder)
	if err != nil {
		return ConsumeResult{}, err
	}
	if rec == nil {
		return ConsumeResult{Found: false}, nil
	}

	restate.Clear(ctx, stateKeyLastOrder)
	ctx.Log().Info("order consumed",
		"session", restate.Key(ctx), "orderNumber", rec.OrderNumber)
	return ConsumeResult{Found: true, Record: rec}, nil
}

// Peek reads without consuming, for re-renders (e.g. the print view)
// within the same confirmation visit.
func (OrderBox) Peek(ctx restate.ObjectSharedContext, _ restate.Void) (ConsumeResult, error) {
	rec, err := restate.Get[*Record](ctx, stateKeyLastOrder)
	if err != nil {
		return ConsumeResult{}, err
	}
	if rec == nil {
		return ConsumeResult{Found: false}, nil
	}
	return ConsumeResult{Found: true, Record: rec}, nil
}
