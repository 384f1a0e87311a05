package db

import (
	"context"
	"os"
	"testing"
)

func TestOpen_InvalidURL(t *testing.T) {
	if _, err := Open(context.Background(), "://not a url"); err == nil {
		t.Error("expected parse error")
	}
}

func TestOpen_Integration(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}

	pool, err := Open(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer pool.Close()

	var one int
	if err := pool.QueryRow(context.Background(), "SELECT 1").Scan(&one); err != nil || one != 1 {
		t.Errorf("SELECT 1 = %d, %v", one, err)
	}
}
