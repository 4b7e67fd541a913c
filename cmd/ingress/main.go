package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pithomlabs/rainydays/internal/ingress"
)

func main() {
	restateURL := os.Getenv("RESTATE_INGRESS_URL")
	if restateURL == "" {
		restateURL = "http://localhost:8080"
	}
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	srv := ingress.NewServer(restateURL)

	log.Printf("storefront HTTP facade listening on %s (restate at %s)", addr, restateURL)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		log.Fatal(err)
	}
}
