package main

import (
	"context"
	"log"
	"os"

	"github.com/finprodb/shop-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background(), os.Getenv("CONFIG_FILE")); err != nil {
		log.Fatalf("shop api exited: %v", err)
	}
}
