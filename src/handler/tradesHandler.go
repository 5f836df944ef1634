package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"tradejournal/src/metrics"
	"tradejournal/src/model"
	"tradejournal/src/repository"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
)

type tradeCreator interface {
	Create(ctx context.Context, trade *model.Trade) error
}

type tradeUpdater interface {
	FindByID(ctx context.Context, id string) (*model.Trade, error)
	Update(ctx context.Context, trade *model.Trade) error
}

type tradeDeleter interface {
	FindByID(ctx context.Context, id string) (*model.Trade, error)
	Delete(ctx context.Context, id string) error
}

type tradeBulkDeleter interface {
	BulkDeleteByAccount(ctx context.Context, accountID uint) (int64, error)
}

type tradeLister interface {
	FindByAccount(ctx context.Context, accountID uint) ([]model.Trade, error)
}

// reconcileQueue accepts account IDs whose balance needs to be recomputed.
type reconcileQueue interface {
	Enqueue(accountID uint)
}

func parseAccountID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "accountID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

// CreateTradeHandler returns a handler that records a new trade for an account.
// Derived metrics are computed before persisting and a balance reconciliation
// is queued for the account.
func CreateTradeHandler(repo tradeCreator, queue reconcileQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		var trade model.Trade
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&trade); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		trade.AccountID = accountID

		if trade.Symbol == "" || trade.EntryPrice <= 0 || trade.Quantity <= 0 {
			http.Error(w, "symbol, entryPrice and quantity are required", http.StatusBadRequest)
			return
		}
		if trade.Direction != model.DirectionLong && trade.Direction != model.DirectionShort {
			http.Error(w, "direction must be LONG or SHORT", http.StatusBadRequest)
			return
		}

		metrics.Apply(&trade)

		if err := repo.Create(r.Context(), &trade); err != nil {
			logger.WithError(err).Error("failed to create trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		queue.Enqueue(accountID)
		writeJSON(w, http.StatusCreated, trade)
	}
}

// UpdateTradeHandler returns a handler that replaces the editable fields of a
// trade, recomputes its metrics and queues a reconciliation.
func UpdateTradeHandler(repo tradeUpdater, queue reconcileQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tradeID := chi.URLParam(r, "tradeID")
		if tradeID == "" {
			http.Error(w, "invalid trade id", http.StatusBadRequest)
			return
		}

		existing, err := repo.FindByID(r.Context(), tradeID)
		if err != nil {
			logger.WithError(err).Error("failed to load trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if existing == nil {
			http.Error(w, "trade not found", http.StatusNotFound)
			return
		}

		var incoming model.Trade
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&incoming); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		// ID and account ownership are immutable.
		incoming.ID = existing.ID
		incoming.AccountID = existing.AccountID
		incoming.CreatedAt = existing.CreatedAt

		if incoming.Symbol == "" || incoming.EntryPrice <= 0 || incoming.Quantity <= 0 {
			http.Error(w, "symbol, entryPrice and quantity are required", http.StatusBadRequest)
			return
		}
		if incoming.Direction != model.DirectionLong && incoming.Direction != model.DirectionShort {
			http.Error(w, "direction must be LONG or SHORT", http.StatusBadRequest)
			return
		}

		metrics.Apply(&incoming)

		if err := repo.Update(r.Context(), &incoming); err != nil {
			logger.WithError(err).Error("failed to update trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		queue.Enqueue(incoming.AccountID)
		writeJSON(w, http.StatusOK, incoming)
	}
}

// DeleteTradeHandler returns a handler that removes a single trade and queues
// a reconciliation for the owning account.
func DeleteTradeHandler(repo tradeDeleter, queue reconcileQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tradeID := chi.URLParam(r, "tradeID")
		if tradeID == "" {
			http.Error(w, "invalid trade id", http.StatusBadRequest)
			return
		}

		existing, err := repo.FindByID(r.Context(), tradeID)
		if err != nil {
			logger.WithError(err).Error("failed to load trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if existing == nil {
			http.Error(w, "trade not found", http.StatusNotFound)
			return
		}

		if err := repo.Delete(r.Context(), tradeID); err != nil {
			logger.WithError(err).Error("failed to delete trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		queue.Enqueue(existing.AccountID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// BulkDeleteTradesHandler returns a handler that removes every trade of an
// account in a single statement and queues a reconciliation.
func BulkDeleteTradesHandler(repo tradeBulkDeleter, queue reconcileQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		deleted, err := repo.BulkDeleteByAccount(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to bulk delete trades")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		queue.Enqueue(accountID)
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
	}
}

// ListTradesHandler returns a handler that lists the trades of an account in
// chronological order.
func ListTradesHandler(repo tradeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		trades, err := repo.FindByAccount(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to list trades")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, trades)
	}
}

// DefaultCreateTradeHandler wires the handler to the production repository.
func DefaultCreateTradeHandler(queue reconcileQueue) http.HandlerFunc {
	return CreateTradeHandler(repository.NewTradeRepository(), queue)
}

// DefaultUpdateTradeHandler wires the handler to the production repository.
func DefaultUpdateTradeHandler(queue reconcileQueue) http.HandlerFunc {
	return UpdateTradeHandler(repository.NewTradeRepository(), queue)
}

// DefaultDeleteTradeHandler wires the handler to the production repository.
func DefaultDeleteTradeHandler(queue reconcileQueue) http.HandlerFunc {
	return DeleteTradeHandler(repository.NewTradeRepository(), queue)
}

// DefaultBulkDeleteTradesHandler wires the handler to the production repository.
func DefaultBulkDeleteTradesHandler(queue reconcileQueue) http.HandlerFunc {
	return BulkDeleteTradesHandler(repository.NewTradeRepository(), queue)
}

// DefaultListTradesHandler wires the handler to the production repository.
func DefaultListTradesHandler() http.HandlerFunc {
	return ListTradesHandler(repository.NewTradeRepository())
}
