package db

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// GetDSN returns the database DSN from the given environment variable.
func GetDSN(envVar string) string {
	dsn := os.Getenv(envVar)
	if dsn == "" {
		log.Fatalf("%s not set", envVar)
	}
	return dsn
}

// openDB opens a database connection without pinging.
func openDB(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}

// MustOpen returns an open and verified database connection.
func MustOpen(dsn string) *sql.DB {
	db, err := openDB(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("ping db: %v", err)
	}

	return db
}
