package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Broker-Report-Importer/internal/api/handlers"
	"github.com/ndewijer/Broker-Report-Importer/internal/model"
	"github.com/ndewijer/Broker-Report-Importer/internal/testutil"
)

func TestTradeOperationHandler_CreateTradeOperation(t *testing.T) {
	create := func(t *testing.T, handler *handlers.TradeOperationHandler, portfolioID, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/portfolio/"+portfolioID+"/trade-operation",
			body, map[string]string{"uuid": portfolioID})
		w := httptest.NewRecorder()
		handler.CreateTradeOperation(w, req)
		return w
	}

	t.Run("creates a manual trade", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTradeOperationHandler(testutil.NewTestTradeOperationService(t, db))
		portfolio := testutil.CreatePortfolio(t, db, "Trades")
		body := `{"dateTime":"2024-03-01 14:30:00","side":"Buy","instrumentSymbol":"AAPL.NASDAQ",` +
			`"price":"76.49","currency":"usd","quantity":2}`

		// Execute
		w := create(t, handler, portfolio.ID, body)

		// Assert
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var trade model.StoredTradeOperation
		if err := json.NewDecoder(w.Body).Decode(&trade); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if trade.Source != model.SourceManual {
			t.Errorf("Expected manual source, got %s", trade.Source)
		}
		if trade.Summ.AmountString() != "152.98" || trade.Summ.Currency != "USD" {
			t.Errorf("Expected summ 152.98 USD, got %s", trade.Summ)
		}
		testutil.AssertRowCount(t, db, "trade_operation", 1)
	})

	t.Run("returns 400 for an invalid body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTradeOperationHandler(testutil.NewTestTradeOperationService(t, db))
		portfolio := testutil.CreatePortfolio(t, db, "Trades")

		w := create(t, handler, portfolio.ID, `{"unknown":true}`)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 when validation fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTradeOperationHandler(testutil.NewTestTradeOperationService(t, db))
		portfolio := testutil.CreatePortfolio(t, db, "Trades")
		body := `{"dateTime":"yesterday","side":"Hold","instrumentSymbol":"","price":"x","currency":"USD","quantity":0}`

		w := create(t, handler, portfolio.ID, body)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "trade_operation", 0)
	})

	t.Run("returns 404 for an unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTradeOperationHandler(testutil.NewTestTradeOperationService(t, db))
		body := `{"dateTime":"2024-03-01 14:30:00","side":"Sell","instrumentSymbol":"AAPL.NASDAQ",` +
			`"price":"76.49","currency":"USD","quantity":1}`

		w := create(t, handler, testutil.MakeID(), body)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTradeOperationHandler_ListTradeOperations(t *testing.T) {
	t.Run("lists trades of a portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewTradeOperationHandler(testutil.NewTestTradeOperationService(t, db))
		portfolio := testutil.CreatePortfolio(t, db, "Trades")
		other := testutil.CreatePortfolio(t, db, "Other")
		testutil.NewTradeOperation(portfolio.ID).Build(t, db)
		testutil.NewTradeOperation(other.ID).Build(t, db)

		// Execute
		w := httptest.NewRecorder()
		handler.ListTradeOperations(w, testutil.NewRequestWithURLParams(http.MethodGet, "/", map[string]string{"uuid": portfolio.ID}))

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var trades []model.StoredTradeOperation
		if err := json.NewDecoder(w.Body).Decode(&trades); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(trades) != 1 || trades[0].PortfolioID != portfolio.ID {
			t.Errorf("Expected one trade of %s, got %+v", portfolio.ID, trades)
		}
	})
}
