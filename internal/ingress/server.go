// Package ingress is the HTTP facade the rendering surface talks to.
// It translates REST calls into Restate ingress invocations; no cart,
// catalog, or order logic lives here.
package ingress

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	restate "github.com/restatedev/sdk-go"
	restateingress "github.com/restatedev/sdk-go/ingress"

	"github.com/pithomlabs/rainydays/internal/browse"
	"github.com/pithomlabs/rainydays/internal/cart"
	"github.com/pithomlabs/rainydays/internal/catalog"
	"github.com/pithomlabs/rainydays/internal/checkout"
	"github.com/pithomlabs/rainydays/internal/order"
)

// Server holds the Restate ingress client shared by all handlers.
type Server struct {
	client *restateingress.Client
}

// NewServer builds a facade against the given Restate ingress URL.
func NewServer(restateURL string) *Server {
	return &Server{client: restateingress.NewClient(restateURL)}
}

// Router wires all storefront routes. The session id in the path keys
// every Virtual Object; there is no other authentication layer here.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/session/{sessionID}", func(r chi.Router) {
		r.Get("/cart", s.handleGetCart)
		r.Post("/cart/items", s.handleAddItem)
		r.Post("/cart/import", s.handleImportCart)
		r.Put("/cart/items/{productID}", s.handleUpdateQuantity)
		r.Delete("/cart/items/{productID}", s.handleRemoveItem)
		r.Delete("/cart", s.handleClearCart)

		r.Post("/browse/load", s.handleLoadCatalog)
		r.Post("/browse/search", s.handleSearch)
		r.Post("/browse/category", s.handleSetCategory)
		r.Get("/browse/results", s.handleGetResults)
		r.Get("/browse/categories", s.handleGetCategories)
		r.Get("/browse/products/{productID}", s.handleGetProduct)

		r.Post("/checkout", s.handleCheckout)
		r.Post("/confirmation", s.handleConfirmation)
		r.Get("/confirmation", s.handlePeekOrder)
	})

	return r
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req cart.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := restateingress.Object[cart.AddItemRequest, cart.Summary](
		s.client, "CartSession", sessionID(r), "AddItem",
	).Request(r.Context(), req)
	if err != nil {
		durableCallFailed(w, "AddItem", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleImportCart forwards the raw legacy localStorage payload; the
// cart object parses it tolerantly.
func (s *Server) handleImportCart(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := restateingress.Object[json.RawMessage, cart.Summary](
		s.client, "CartSession", sessionID(r), "ImportCart",
	).Request(r.Context(), json.RawMessage(raw))
	if err != nil {
		durableCallFailed(w, "ImportCart", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	summary, err := restateingress.Object[string, cart.Summary](
		s.client, "CartSession", sessionID(r), "RemoveItem",
	).Request(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		durableCallFailed(w, "RemoveItem", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req := cart.UpdateQuantityRequest{
		ProductID: chi.URLParam(r, "productID"),
		Quantity:  body.Quantity,
	}
	summary, err := restateingress.Object[cart.UpdateQuantityRequest, cart.Summary](
		s.client, "CartSession", sessionID(r), "UpdateQuantity",
	).Request(r.Context(), req)
	if err != nil {
		durableCallFailed(w, "UpdateQuantity", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	_, err := restateingress.Object[restate.Void, restate.Void](
		s.client, "CartSession", sessionID(r), "Clear",
	).Request(r.Context(), restate.Void{})
	if err != nil {
		durableCallFailed(w, "Clear", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	summary, err := restateingress.Object[restate.Void, cart.Summary](
		s.client, "CartSession", sessionID(r), "GetCart",
	).Request(r.Context(), restate.Void{})
	if err != nil {
		durableCallFailed(w, "GetCart", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleLoadCatalog(w http.ResponseWriter, r *http.Request) {
	outcome, err := restateingress.Object[restate.Void, browse.Outcome](
		s.client, "BrowseSession", sessionID(r), "LoadCatalog",
	).Request(r.Context(), restate.Void{})
	if err != nil {
		// The browse object forwards catalog failures with per-kind
		// guidance; the storefront shows it next to a retry button.
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var q browse.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	_, err := restateingress.Object[browse.Query, restate.Void](
		s.client, "BrowseSession", sessionID(r), "Search",
	).Request(r.Context(), q)
	if err != nil {
		durableCallFailed(w, "Search", err)
		return
	}
	// Debounced: results arrive after the quiet window via GetResults.
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := restateingress.Object[string, browse.Outcome](
		s.client, "BrowseSession", sessionID(r), "SetCategory",
	).Request(r.Context(), body.Category)
	if err != nil {
		durableCallFailed(w, "SetCategory", err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	outcome, err := restateingress.Object[restate.Void, browse.Outcome](
		s.client, "BrowseSession", sessionID(r), "GetResults",
	).Request(r.Context(), restate.Void{})
	if err != nil {
		durableCallFailed(w, "GetResults", err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := restateingress.Object[restate.Void, []string](
		s.client, "BrowseSession", sessionID(r), "GetCategories",
	).Request(r.Context(), restate.Void{})
	if err != nil {
		durableCallFailed(w, "GetCategories", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := restateingress.Object[string, catalog.Product](
		s.client, "BrowseSession", sessionID(r), "GetProduct",
	).Request(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var info checkout.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Each submission is its own workflow; a retry is a fresh attempt.
	attemptID := uuid.NewString()
	result, err := restateingress.Workflow[checkout.Request, checkout.Result](
		s.client, "CheckoutWorkflow", attemptID, "Run",
	).Request(r.Context(), checkout.Request{
		SessionID:    sessionID(r),
		CustomerInfo: info,
	})
	if err != nil {
		durableCallFailed(w, "Checkout", err)
		return
	}

	switch result.Status {
	case checkout.StatusCompleted:
		writeJSON(w, http.StatusOK, result)
	case checkout.StatusInvalid:
		writeJSON(w, http.StatusBadRequest, result)
	case checkout.StatusRefused:
		// Empty cart: the storefront redirects to the catalog.
		writeJSON(w, http.StatusConflict, map[string]string{"redirect": "/"})
	default:
		writeJSON(w, http.StatusInternalServerError, result)
	}
}

func (s *Server) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	result, err := restateingress.Object[restate.Void, order.ConsumeResult](
		s.client, "OrderBox", sessionID(r), "Consume",
	).Request(r.Context(), restate.Void{})
	if err != nil {
		durableCallFailed(w, "Consume", err)
		return
	}
	if !result.Found {
		// Direct navigation without a fresh order.
		writeJSON(w, http.StatusNotFound, map[string]string{"redirect": "/"})
		return
	}
	writeJSON(w, http.StatusOK, result.Record)
}

// handlePeekOrder re-reads the record without consuming it, for
// re-renders within the same confirmation visit.
func (s *Server) handlePeekOrder(w http.ResponseWriter, r *http.Request) {
	result, err := restateingress.Object[restate.Void, order.ConsumeResult](
		s.client, "OrderBox", sessionID(r), "Peek",
	).Request(r.Context(), restate.Void{})
	if err != nil {
		durableCallFailed(w, "Peek", err)
		return
	}
	if !result.Found {
		writeJSON(w, http.StatusNotFound, map[string]string{"redirect": "/"})
		return
	}
	writeJSON(w, http.StatusOK, result.Record)
}

func durableCallFailed(w http.ResponseWriter, handler string, err error) {
	log.Printf("restate call %s failed: %v", handler, err)
	http.Error(w, "durable call failed", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
