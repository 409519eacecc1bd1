package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	"courier-dispatch-service/internal/adapters/cache"
	"courier-dispatch-service/internal/adapters/repositories"
	"courier-dispatch-service/internal/config"
	"courier-dispatch-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/catalog.json")
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	// The local SQLite distance cache is optional; skip when unset.
	if cachePath := os.Getenv("DIST_CACHE_PATH"); strings.TrimSpace(cachePath) != "" {
		if err := initDistanceCache(cachePath); err != nil {
			log.Fatal(err)
		}
	}
}

func initAndSeed(db *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding catalog...")
	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}

func initDistanceCache(path string) error {
	log.Printf("Initializing local distance cache at %s...", path)

	cdb, err := sql.Open("sqlite", path)
	if err != nil {
		log.Fatalf("open distance cache: %v", err)
	}
	defer cdb.Close()

	if err := cache.InitDistanceCacheSchema(cdb); err != nil {
		log.Fatalf("distance cache initialization failed: %v", err)
	}
	log.Println("Distance cache ready.")

	return nil
}
