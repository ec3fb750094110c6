package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/valuelife/portal/internal/catalog"
	"github.com/valuelife/portal/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	st, err := store.NewPostgres(ctx)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer st.Close()

	svc := catalog.NewService(st, slog.Default())
	if err := svc.Seed(ctx); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	products, err := svc.All(ctx)
	if err != nil {
		log.Fatalf("failed to list catalog: %v", err)
	}
	log.Printf("catalog ready with %d product(s)", len(products))
	os.Exit(0)
}
