package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/middleware"
)

func TestNewRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects requests beyond the burst", func(t *testing.T) {
		// Setup
		mw := middleware.NewRateLimit(1, 2)(next)

		// Execute
		var codes []int
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			mw.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
			codes = append(codes, w.Code)
		}

		// Assert
		if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
			t.Errorf("Expected the first two requests to pass, got %v", codes)
		}
		if codes[2] != http.StatusTooManyRequests {
			t.Errorf("Expected 429 for the third request, got %d", codes[2])
		}
	})

	t.Run("zero rate disables the limit", func(t *testing.T) {
		mw := middleware.NewRateLimit(0, 0)(next)

		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			mw.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i, w.Code)
			}
		}
	})
}
