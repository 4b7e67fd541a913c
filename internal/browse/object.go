package browse

import (
	"errors"
	"time"

	restate "github.com/restatedev/sdk-go"

	"github.com/pithomlabs/rainydays/internal/catalog"
)

// BrowseSession is a Virtual Object holding one visitor's catalog view:
// the full product set plus the filtered subset derived from their
// current query. Keyed by shopping session.
type BrowseSession struct {
	Catalog *catalog.Client
}

const (
	stateKeyCatalog  = "catalog"
	stateKeyQuery    = "query"
	stateKeyRevision = "revision"
	stateKeyResults  = "results"

	// searchQuietWindow is the debounce pause: only the last Search
	// within this window triggers a recomputation.
	searchQuietWindow = 300 * time.Millisecond
)

// LoadCatalog fetches the full product set and resets the view. API
// failures surface as terminal errors carrying per-kind guidance; a
// retry is a fresh, independent call.
func (s BrowseSession) LoadCatalog(ctx restate.ObjectContext, _ restate.Void) (Outcome, error) {
	products, err := restate.Run(ctx, func(rc restate.RunContext) ([]catalog.Product, error) {
		return s.Catalog.FetchAllProducts(rc)
	})
	if err != nil {
		ctx.Log().Error("catalog fetch failed", "err", err)
		// The caller renders this message next to a retry button, so
		// it carries the per-kind guidance, not the technical cause.
		return Outcome{}, restate.TerminalError(errors.New(catalog.Guidance(err)), 503)
	}

	restate.Set(ctx, stateKeyCatalog, products)
	restate.Clear(ctx, stateKeyQuery)

	outcome := Resolve(products, Query{}, products)
	restate.Set(ctx, stateKeyResults, outcome)

	ctx.Log().Info("catalog loaded",
		"session", restate.Key(ctx), "products", len(products))
	return outcome, nil
}

// Search records the pending query and schedules a recomputation after
// the quiet window. Each call bumps the revision; a delayed apply that
// arrives with a stale revision is discarded, so only the last input
// within the window ever recomputes.
func (BrowseSession) Search(ctx restate.ObjectContext, q Query) error {
	revision, err := restate.Get[uint64](ctx, stateKeyRevision)
	if err != nil {
		return err
	}
	revision++

	restate.Set(ctx, stateKeyRevision, revision)
	restate.Set(ctx, stateKeyQuery, q)

	restate.ObjectSend(ctx, "BrowseSession", restate.Key(ctx), "ApplyPending").
		Send(revision, restate.WithDelay(searchQuietWindow))
	return nil
}

// ApplyPending recomputes the filtered view for the given revision.
// Superseded revisions are dropped without recomputing.
func (BrowseSession) ApplyPending(ctx restate.ObjectContext, revision uint64) error {
	current, err := restate.Get[uint64](ctx, stateKeyRevision)
	if err != nil {
		return err
	}
	if revision != current {
		return nil // a newer Search owns the window
	}
	return recompute(ctx)
}

// SetCategory updates the category and recomputes immediately; unlike
// typed search, a dropdown change is a single discrete event.
func (BrowseSession) SetCategory(ctx restate.ObjectContext, category string) (Outcome, error) {
	q, err := restate.Get[Query](ctx, stateKeyQuery)
	if err != nil {
		return Outcome{}, err
	}
	q.Category = category
	restate.Set(ctx, stateKeyQuery, q)

	if err := recompute(ctx); err != nil {
		return Outcome{}, err
	}
	return restate.Get[Outcome](ctx, stateKeyResults)
}

// GetResults returns the current derived view.
func (BrowseSession) GetResults(ctx restate.ObjectSharedContext, _ restate.Void) (Outcome, error) {
	outcome, err := restate.Get[Outcome](ctx, stateKeyResults)
	if err != nil {
		return Outcome{}, err
	}
	if outcome.State == "" {
		outcome.State = StateNoCatalog
	}
	return outcome, nil
}

// GetCategories returns the filter dropdown options.
func (BrowseSession) GetCategories(ctx restate.ObjectSharedContext, _ restate.Void) ([]string, error) {
	products, err := restate.Get[[]catalog.Product](ctx, stateKeyCatalog)
	if err != nil {
		return nil, err
	}
	return Categories(products), nil
}

// GetProduct looks a product up in the loaded catalog by id, falling
// back to a fetch-by-id when the catalog is not loaded (deep link into
// the product page).
func (s BrowseSession) GetProduct(ctx restate.ObjectContext, id string) (catalog.Product, error) {
	products, err := restate.Get[[]catalog.Product](ctx, stateKeyCatalog)
	if err != nil {
		return catalog.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}

	p, err := restate.Run(ctx, func(rc restate.RunContext) (catalog.Product, error) {
		return s.Catalog.FetchProductByID(rc, id)
	})
	if err != nil {
		guidance := errors.New(catalog.Guidance(err))
		if catalog.KindOf(err) == catalog.ErrNotFound {
			return catalog.Product{}, restate.TerminalError(guidance, 404)
		}
		return catalog.Product{}, restate.TerminalError(guidance, 503)
	}
	return p, nil
}

func recompute(ctx restate.ObjectContext) error {
	products, err := restate.Get[[]catalog.Product](ctx, stateKeyCatalog)
	if err != nil {
		return err
	}
	q, err := restate.Get[Query](ctx, stateKeyQuery)
	if err != nil {
		return err
	}

	outcome := Resolve(products, q, Apply(products, q))
	restate.Set(ctx, stateKeyResults, outcome)

	ctx.Log().Info("filter applied",
		"session", restate.Key(ctx), "state", outcome.State, "matches", len(outcome.Products))
	return nil
}
