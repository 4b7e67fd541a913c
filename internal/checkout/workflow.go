package checkout

import (
	"time"

	restate "github.com/restatedev/sdk-go"

	"github.com/pithomlabs/rainydays/internal/cart"
	"github.com/pithomlabs/rainydays/internal/order"
)

// CheckoutWorkflow turns a cart into an order record, exactly once per
// checkout attempt. Keyed by an attempt id the ingress generates.
//
// Ordering is the contract that matters: the order snapshot is durably
// recorded in the session's OrderBox before the cart is cleared. If
// execution is cut between the two steps, the journal resumes with the
// snapshot already recorded and the cart still recoverable — the cart
// is never lost.
type CheckoutWorkflow struct{}

const stateKeyStatus = "status"

// Checkout attempt outcomes.
const (
	StatusCompleted = "completed"
	StatusInvalid   = "invalid"
	StatusRefused   = "refused_empty_cart"
)

// Request is one checkout submission.
type Request struct {
	SessionID    string       `json:"sessionId"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
}

// Result reports the outcome. Validation failures and an empty cart
// are expected business outcomes, not errors, so callers can render
// them without unpacking error codes.
type Result struct {
	Status      string        `json:"status"`
	FieldErrors []FieldError  `json:"fieldErrors,omitempty"`
	Order       *order.Record `json:"order,omitempty"`
}

// Run executes one checkout attempt.
func (CheckoutWorkflow) Run(ctx restate.WorkflowContext, req Request) (Result, error) {
	attemptID := restate.Key(ctx)
	ctx.Log().Info("checkout started", "attempt", attemptID, "session", req.SessionID)

	// Entry guard: an empty cart cannot check out. The snapshot runs as
	// an exclusive cart handler so it serializes with other mutations.
	snapshot, err := restate.Object[cart.Summary](
		ctx, "CartSession", req.SessionID, "TakeSnapshot",
	).Request(restate.Void{})
	if err != nil {
		return Result{}, err
	}
	if len(snapshot.Lines) == 0 {
		ctx.Log().Info("checkout refused, cart empty", "attempt", attemptID)
		restate.Set(ctx, stateKeyStatus, StatusRefused)
		return Result{Status: StatusRefused}, nil
	}

	// Submit aggregates every field failure; nothing partial goes through.
	if fieldErrors := ValidateAll(req.CustomerInfo); len(fieldErrors) > 0 {
		ctx.Log().Info("checkout rejected by validation",
			"attempt", attemptID, "failures", len(fieldErrors))
		restate.Set(ctx, stateKeyStatus, StatusInvalid)
		return Result{Status: StatusInvalid, FieldErrors: fieldErrors}, nil
	}

	now, err := restate.Run(ctx, func(rc restate.RunContext) (time.Time, error) {
		return time.Now(), nil
	})
	if err != nil {
		return Result{}, err
	}

	rec := buildRecord(snapshot, req.CustomerInfo, now, restate.Rand(ctx).Uint64())

	// Snapshot first, clear second. Never reorder these.
	_, err = restate.Object[restate.Void](
		ctx, "OrderBox", req.SessionID, "Put",
	).Request(rec)
	if err != nil {
		return Result{}, err
	}

	_, err = restate.Object[restate.Void](
		ctx, "CartSession", req.SessionID, "Clear",
	).Request(restate.Void{})
	if err != nil {
		return Result{}, err
	}

	restate.Set(ctx, stateKeyStatus, StatusCompleted)
	ctx.Log().Info("checkout completed",
		"attempt", attemptID, "orderNumber", rec.OrderNumber, "total", rec.Total)

	return Result{Status: StatusCompleted, Order: &rec}, nil
}

// buildRecord freezes the submission-time cart into an order record.
func buildRecord(snapshot cart.Summary, info CustomerInfo, now time.Time, random uint64) order.Record {
	return order.Record{
		OrderNumber:  order.Number(now, random),
		Date:         order.FormatDate(now),
		Items:        snapshot.Lines,
		Total:        snapshot.Total,
		CustomerInfo: info,
	}
}

// Status reports how far the attempt got, for polling clients.
func (CheckoutWorkflow) Status(ctx restate.WorkflowSharedContext, _ restate.Void) (string, error) {
	status, err := restate.Get[string](ctx, stateKeyStatus)
	if err != nil {
		return "", err
	}
	if status == "" {
		status = "pending"
	}
	return status, nil
}
