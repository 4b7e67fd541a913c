// catalogd is a local stand-in for the remote Rainy Days catalog API.
// It serves the same {"data": ...} envelope from an embedded sqlite
// database so the storefront can be developed and demoed offline.
package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "modernc.org/sqlite"

	"github.com/pithomlabs/rainydays/internal/catalog"
)

type catalogStore struct {
	db *sql.DB
}

func openStore(path string) (*catalogStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?cache=shared")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, err
	}

	s := &catalogStore{db: db}
	if err := s.seedIfEmpty(); err != nil {
		return nil, err
	}
	return s, nil
}

// seedIfEmpty loads the fixture catalog on first run only, so edits
// made through sqlite survive restarts.
func (s *catalogStore) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, p := range fixtureProducts() {
		doc, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(`INSERT INTO products (id, doc) VALUES (?, ?)`, p.ID, string(doc)); err != nil {
			return err
		}
	}
	log.Printf("seeded %d fixture products", len(fixtureProducts()))
	return nil
}

func (s *catalogStore) all() ([]catalog.Product, error) {
	rows, err := s.db.Query(`SELECT doc FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []catalog.Product{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var p catalog.Product
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *catalogStore) byID(id string) (*catalog.Product, error) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM products WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p catalog.Product
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *catalogStore) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := s.all()
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	writeEnvelope(w, products)
}

func (s *catalogStore) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.byID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	writeEnvelope(w, p)
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func fixtureProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID: "f8a1c2d0-0001-4000-8000-000000000001", Title: "Aurora Rain Jacket",
			Description: "Lightweight waterproof shell for autumn showers.",
			Gender:      "Female", Sizes: []string{"XS", "S", "M", "L"}, BaseColor: "Teal",
			Price: 129.99, DiscountedPrice: 99.99, OnSale: true,
			Tags: []string{"jacket", "womens", "rainwear"},
		},
		{
			ID: "f8a1c2d0-0002-4000-8000-000000000002", Title: "Fjord Storm Coat",
			Description: "Heavy-duty coat built for sideways Bergen rain.",
			Gender:      "Male", Sizes: []string{"M", "L", "XL"}, BaseColor: "Navy",
			Price: 189.50, OnSale: false,
			Tags: []string{"coat", "mens", "rainwear"},
		},
		{
			ID: "f8a1c2d0-0003-4000-8000-000000000003", Title: "Puddle Jumper Boots",
			Description: "Rubber boots with a cork footbed.",
			Gender:      "Female", Sizes: []string{"36", "37", "38", "39", "40"}, BaseColor: "Red",
			Price: 74.00, OnSale: false,
			Tags: []string{"boots", "womens"},
		},
		{
			ID: "f8a1c2d0-0004-4000-8000-000000000004", Title: "Drizzle Cap",
			Description: "Packable waxed-cotton cap.",
			Gender:      "Male", BaseColor: "Olive",
			Price: 34.99, DiscountedPrice: 24.99, OnSale: true,
			Tags: []string{"accessory", "mens"},
		},
	}
}

func main() {
	path := os.Getenv("CATALOG_DB_PATH")
	if path == "" {
		path = "catalog.db"
	}
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":4000"
	}

	store, err := openStore(path)
	if err != nil {
		log.Fatalf("opening catalog store: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Get("/", store.handleList)
	r.Get("/{id}", store.handleGet)

	log.Printf("catalogd listening on %s (db %s)", addr, path)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
