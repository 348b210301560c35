package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/PabloGalante/verba/internal/app/bootstrap"
)

func main() {
	ctx := context.Background()

	handler, err := bootstrap.Handler(ctx)
	if err != nil {
		log.Fatalf("error initializing application: %v", err)
	}

	port := ":" + getEnv("VERBA_PORT", "8080")
	log.Println("Verba API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
