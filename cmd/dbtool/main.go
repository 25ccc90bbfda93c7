package main

import (
	"ae-dashboard-service/internal/adapters/repositories"
	"ae-dashboard-service/internal/config"
	"ae-dashboard-service/internal/platform/db"
	"context"
	"flag"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres geocode cache.
func main() {
	prune := flag.Bool("prune", false, "delete geocode cache rows older than GEOCODE_CACHE_TTL")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Initializing geocode cache schema...")
	if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if !*prune {
		return
	}

	maxAge := config.GetDuration("GEOCODE_CACHE_TTL", 7*24*time.Hour)
	n, err := repositories.PruneGeocodeCache(ctx, conn, maxAge)
	if err != nil {
		log.Fatalf("prune failed: %v", err)
	}
	log.Printf("Pruned geocode cache rows=%d max_age=%s", n, maxAge)
}
