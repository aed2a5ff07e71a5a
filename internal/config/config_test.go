package config

import (
	"slices"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "DB_PATH", "LOG_LEVEL", "MAX_UPLOAD_SIZE_MB", "IMPORT_ATOMIC_UPLOAD", "CORS_ALLOWED_ORIGINS",
			"UPLOAD_RATE_PER_MINUTE", "UPLOAD_RATE_BURST", "ACTIVITY_CACHE_TTL"} {
			t.Setenv(key, "")
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Addr = %q", cfg.Server.Addr)
		}
		if !cfg.Import.AtomicUpload {
			t.Error("expected atomic uploads by default")
		}
		if cfg.Import.MaxUploadBytes != 20<<20 {
			t.Errorf("MaxUploadBytes = %d", cfg.Import.MaxUploadBytes)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %q", cfg.Log.Level)
		}
		if cfg.Import.UploadsPerMinute != 30 || cfg.Import.UploadBurst != 5 {
			t.Errorf("upload rate = %d/min burst %d", cfg.Import.UploadsPerMinute, cfg.Import.UploadBurst)
		}
		if cfg.Import.ActivityCacheTTL != 5*time.Minute {
			t.Errorf("ActivityCacheTTL = %v", cfg.Import.ActivityCacheTTL)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("MAX_UPLOAD_SIZE_MB", "5")
		t.Setenv("IMPORT_ATOMIC_UPLOAD", "false")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
		t.Setenv("UPLOAD_RATE_PER_MINUTE", "0")
		t.Setenv("ACTIVITY_CACHE_TTL", "90s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Addr != "0.0.0.0:8080" {
			t.Errorf("Addr = %q", cfg.Server.Addr)
		}
		if cfg.Import.AtomicUpload {
			t.Error("expected non-atomic uploads")
		}
		if cfg.Import.MaxUploadBytes != 5<<20 {
			t.Errorf("MaxUploadBytes = %d", cfg.Import.MaxUploadBytes)
		}
		if cfg.Import.UploadsPerMinute != 0 {
			t.Errorf("UploadsPerMinute = %d", cfg.Import.UploadsPerMinute)
		}
		if cfg.Import.ActivityCacheTTL != 90*time.Second {
			t.Errorf("ActivityCacheTTL = %v", cfg.Import.ActivityCacheTTL)
		}
		if want := []string{"https://a.example", "https://b.example"}; !slices.Equal(cfg.CORS.AllowedOrigins, want) {
			t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("MAX_UPLOAD_SIZE_MB", "lots")
		if _, err := Load(); err == nil {
			t.Error("expected error for non-numeric upload size")
		}

		t.Setenv("MAX_UPLOAD_SIZE_MB", "0")
		if _, err := Load(); err == nil {
			t.Error("expected error for zero upload size")
		}

		t.Setenv("MAX_UPLOAD_SIZE_MB", "")
		t.Setenv("IMPORT_ATOMIC_UPLOAD", "sometimes")
		if _, err := Load(); err == nil {
			t.Error("expected error for invalid bool")
		}

		t.Setenv("IMPORT_ATOMIC_UPLOAD", "")
		t.Setenv("UPLOAD_RATE_PER_MINUTE", "-1")
		if _, err := Load(); err == nil {
			t.Error("expected error for negative upload rate")
		}

		t.Setenv("UPLOAD_RATE_PER_MINUTE", "")
		t.Setenv("ACTIVITY_CACHE_TTL", "soon")
		if _, err := Load(); err == nil {
			t.Error("expected error for invalid duration")
		}
	})
}
