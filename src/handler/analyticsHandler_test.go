package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tradejournal/src/metrics"
	"tradejournal/src/model"
	"tradejournal/src/whatif"

	"github.com/stretchr/testify/assert"
)

func settledTrade(id string, entry, exit, qty float64) model.Trade {
	exitDate := time.Date(2025, time.July, 1, 16, 0, 0, 0, time.UTC)
	trade := model.Trade{
		ID:         id,
		AccountID:  1,
		Symbol:     "AAPL",
		Direction:  model.DirectionLong,
		EntryPrice: entry,
		Quantity:   qty,
		EntryDate:  exitDate.Add(-4 * time.Hour),
		ExitPrice:  &exit,
		ExitDate:   &exitDate,
	}
	metrics.Apply(&trade)
	return trade
}

func TestPortfolioStatsHandler(t *testing.T) {
	store := &mockTradeStore{trades: []model.Trade{
		settledTrade("t1", 100, 110, 10),
		settledTrade("t2", 100, 95, 10),
	}}
	handler := PortfolioStatsHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/accounts/1/analytics/stats", nil)
	req = withURLParams(req, map[string]string{"accountID": "1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if payload["total_trades"] != float64(2) {
		t.Fatalf("expected 2 trades, got %v", payload["total_trades"])
	}

	if payload["win_rate"] != float64(50) {
		t.Fatalf("expected win rate 50, got %v", payload["win_rate"])
	}
}

func TestPortfolioStatsHandler_InvalidAccount(t *testing.T) {
	handler := PortfolioStatsHandler(&mockTradeStore{})

	req := httptest.NewRequest(http.MethodGet, "/accounts/0/analytics/stats", nil)
	req = withURLParams(req, map[string]string{"accountID": "0"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestPortfolioStatsHandler_RepoError(t *testing.T) {
	handler := PortfolioStatsHandler(&mockTradeStore{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/accounts/1/analytics/stats", nil)
	req = withURLParams(req, map[string]string{"accountID": "1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestWhatIfHandler(t *testing.T) {
	store := &mockTradeStore{trades: []model.Trade{
		settledTrade("t1", 100, 110, 10),
		settledTrade("t2", 100, 90, 10),
	}}
	engine := whatif.NewEngine(whatif.DefaultScenarios())
	handler := WhatIfHandler(store, engine)

	req := httptest.NewRequest(http.MethodGet, "/accounts/1/analytics/what-if", nil)
	req = withURLParams(req, map[string]string{"accountID": "1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload struct {
		Scenarios       []json.RawMessage `json:"scenarios"`
		TopImprovements []json.RawMessage `json:"top_improvements"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if len(payload.Scenarios) != len(whatif.DefaultScenarios()) {
		t.Fatalf("expected %d scenario results, got %d", len(whatif.DefaultScenarios()), len(payload.Scenarios))
	}

	if len(payload.TopImprovements) == 0 || len(payload.TopImprovements) > 3 {
		t.Fatalf("expected between 1 and 3 top improvements, got %d", len(payload.TopImprovements))
	}
}

func TestBreakEvenMetricsHandler(t *testing.T) {
	worked := true
	stop := 95.0
	trade := settledTrade("t1", 100, 110, 10)
	trade.BreakEvenWorked = &worked
	trade.StopLoss = &stop
	store := &mockTradeStore{trades: []model.Trade{trade}}
	handler := BreakEvenMetricsHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/accounts/1/analytics/break-even", nil)
	req = withURLParams(req, map[string]string{"accountID": "1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if payload["trades_with_be"] != float64(1) {
		t.Fatalf("expected 1 trade with BE, got %v", payload["trades_with_be"])
	}
}

func TestBreakEvenByStrategyHandler(t *testing.T) {
	worked := true
	stop := 95.0
	tagged := settledTrade("t1", 100, 110, 10)
	tagged.Strategy = "breakout"
	tagged.BreakEvenWorked = &worked
	tagged.StopLoss = &stop
	untagged := settledTrade("t2", 100, 95, 10)
	untagged.BreakEvenWorked = &worked
	untagged.StopLoss = &stop

	store := &mockTradeStore{trades: []model.Trade{tagged, untagged}}
	handler := BreakEvenByStrategyHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/accounts/1/analytics/break-even/by-strategy", nil)
	req = withURLParams(req, map[string]string{"accountID": "1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if _, ok := payload["breakout"]; !ok {
		t.Fatalf("expected breakout strategy group, got %v", payload)
	}

	if _, ok := payload["unassigned"]; !ok {
		t.Fatalf("expected unassigned strategy group, got %v", payload)
	}
}

func TestBreakEvenRecommendationHandler(t *testing.T) {
	store := &mockTradeStore{trades: []model.Trade{settledTrade("t1", 100, 110, 10)}}
	handler := BreakEvenRecommendationHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/accounts/1/analytics/break-even/recommendation", nil)
	req = withURLParams(req, map[string]string{"accountID": "1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	if !strings.Contains(rr.Body.String(), "confidence") {
		t.Fatalf("expected recommendation payload, got %s", rr.Body.String())
	}
}

func TestBreakEvenScenariosHandler(t *testing.T) {
	store := &mockTradeStore{trades: []model.Trade{settledTrade("t1", 100, 110, 10)}}
	handler := BreakEvenScenariosHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/accounts/1/analytics/break-even/scenarios", nil)
	req = withURLParams(req, map[string]string{"accountID": "1"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload []map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if len(payload) != 5 {
		t.Fatalf("expected 5 placement scenarios, got %d", len(payload))
	}
}

func TestReconcileHandler(t *testing.T) {
	queue := &mockQueue{}
	handler := ReconcileHandler(queue)

	req := httptest.NewRequest(http.MethodPost, "/accounts/6/reconcile", nil)
	req = withURLParams(req, map[string]string{"accountID": "6"})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rr.Code)
	}

	if len(queue.enqueued) != 1 || queue.enqueued[0] != 6 {
		t.Fatalf("expected account 6 queued, got %v", queue.enqueued)
	}
}
