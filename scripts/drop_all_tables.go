//go:build ignore

package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if os.Getenv("ENVIRONMENT") == "prod" {
		log.Fatal("Refusing to drop tables in production")
	}

	driver, dsn, cascade := "pgx", dbURL, " CASCADE"
	if !strings.HasPrefix(dbURL, "postgres://") && !strings.HasPrefix(dbURL, "postgresql://") {
		driver, cascade = "sqlite", ""
		dsn = strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(dbURL, "sqlite://"), "sqlite:"), "file:")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Children first so the foreign key never blocks a drop
	for _, table := range []string{"messages", "chat_rooms", "goose_db_version"} {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + table + cascade); err != nil {
			log.Fatalf("Failed to drop %s: %v", table, err)
		}
	}

	fmt.Printf("All tables dropped successfully (driver: %s)\n", driver)
}
