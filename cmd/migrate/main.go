package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"

	"inventory-backend/internal/db"

	"github.com/joho/godotenv"
)

// Applies every migrations/*.sql file in lexical order. Migrations are
// written to be idempotent (CREATE TABLE IF NOT EXISTS), so re-running is
// safe.
func main() {
	_ = godotenv.Load()

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		log.Fatalf("glob migrations: %v", err)
	}
	sort.Strings(files)
	if len(files) == 0 {
		log.Fatalf("no migrations found in %s", dir)
	}

	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("read %s: %v", file, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			log.Fatalf("apply %s: %v", file, err)
		}
		log.Printf("applied %s", file)
	}
	log.Println("migrations complete")
}
