package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	version, err := Migrate(context.Background(), db)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	t.Run("idempotent", func(t *testing.T) {
		again, err := Migrate(context.Background(), db)
		if err != nil {
			t.Fatalf("second Migrate() error = %v", err)
		}
		if again != version {
			t.Errorf("version changed from %d to %d", version, again)
		}
	})

	t.Run("foreign keys enforced", func(t *testing.T) {
		var enabled int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatal(err)
		}
		if enabled != 1 {
			t.Errorf("foreign_keys = %d, want 1", enabled)
		}
		_, err := db.Exec(`INSERT INTO report_upload (id, portfolio_id, broker, created_at) VALUES ('u', 'missing', 'Exante', '2024-01-01 00:00:00')`)
		if err == nil {
			t.Error("expected foreign key violation")
		}
	})

	t.Run("health check", func(t *testing.T) {
		if err := HealthCheck(context.Background(), db); err != nil {
			t.Errorf("HealthCheck() error = %v", err)
		}
	})
}
