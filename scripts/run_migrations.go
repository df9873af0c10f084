package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/store"
	"github.com/safar/go-storefront/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/run_migrations.go [up|down|seed]")
	}

	command := os.Args[1]
	if command != migrations.Up && command != migrations.Down && command != "seed" {
		log.Fatal("Command must be 'up', 'down' or 'seed'")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Ping database: %v", err)
	}

	if command == "seed" {
		products := catalog.Builtin()
		if err := store.SeedCatalog(context.Background(), db, products); err != nil {
			log.Fatalf("Seed catalog: %v", err)
		}
		log.Printf("Seeded %d product(s)", len(products))
		return
	}

	applied, err := migrations.Apply(db, command)
	for _, name := range applied {
		log.Printf("Ran migration: %s", name)
	}
	if err != nil {
		log.Fatalf("Run migrations: %v", err)
	}

	log.Printf("Successfully ran %d migration(s) %s", len(applied), command)
}
