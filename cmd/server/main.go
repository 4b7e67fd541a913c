package main

import (
	"context"
	"log"
	"os"

	restate "github.com/restatedev/sdk-go"
	"github.com/restatedev/sdk-go/server"

	"github.com/pithomlabs/rainydays/internal/browse"
	"github.com/pithomlabs/rainydays/internal/cart"
	"github.com/pithomlabs/rainydays/internal/catalog"
	"github.com/pithomlabs/rainydays/internal/checkout"
	"github.com/pithomlabs/rainydays/internal/order"
)

func main() {
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":9090"
	}

	catalogClient := catalog.NewClient(os.Getenv("CATALOG_API_URL"))

	restateServer := server.NewRestate()
	for _, svc := range []any{
		cart.CartSession{},
		browse.BrowseSession{Catalog: catalogClient},
		checkout.CheckoutWorkflow{},
		order.OrderBox{},
	} {
		if err := restateServer.Bind(restate.Reflect(svc)); err != nil {
			log.Fatalf("binding service: %v", err)
		}
	}

	log.Printf("rainydays storefront services listening on %s", addr)
	if err := restateServer.Start(context.Background(), addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
