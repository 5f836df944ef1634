package handler

import (
	"net/http"

	"tradejournal/src/breakeven"
	"tradejournal/src/portfolio"
	"tradejournal/src/repository"
	"tradejournal/src/whatif"

	logger "github.com/sirupsen/logrus"
)

// PortfolioStatsHandler returns a handler that serves aggregate performance
// statistics over the settled trades of an account.
func PortfolioStatsHandler(repo tradeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		trades, err := repo.FindByAccount(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to load trades for stats")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, portfolio.Aggregate(trades))
	}
}

// WhatIfHandler returns a handler that runs every registered what-if scenario
// against the trade history of an account.
func WhatIfHandler(repo tradeLister, engine *whatif.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		trades, err := repo.FindByAccount(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to load trades for what-if analysis")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, engine.Run(trades))
	}
}

// BreakEvenMetricsHandler returns a handler that serves portfolio level
// break-even statistics for an account.
func BreakEvenMetricsHandler(repo tradeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		trades, err := repo.FindByAccount(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to load trades for break-even metrics")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, breakeven.CalculatePortfolioBEMetrics(trades))
	}
}

// BreakEvenByStrategyHandler returns a handler that serves break-even
// statistics grouped by strategy tag.
func BreakEvenByStrategyHandler(repo tradeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		trades, err := repo.FindByAccount(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to load trades for break-even strategy breakdown")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, breakeven.CalculateBEMetricsByStrategy(trades))
	}
}

// BreakEvenRecommendationHandler returns a handler that serves the ranked
// stop management recommendation for an account.
func BreakEvenRecommendationHandler(repo tradeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		trades, err := repo.FindByAccount(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to load trades for break-even recommendation")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, breakeven.GenerateBERecommendation(trades))
	}
}

// BreakEvenScenariosHandler returns a handler that serves scored break-even
// placement scenarios for an account.
func BreakEvenScenariosHandler(repo tradeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		trades, err := repo.FindByAccount(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to load trades for break-even scenarios")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, breakeven.GenerateBEOptimizationScenarios(trades))
	}
}

// ReconcileHandler returns a handler that queues a balance recomputation for
// an account. Processing happens asynchronously.
func ReconcileHandler(queue reconcileQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		queue.Enqueue(accountID)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
	}
}

// DefaultPortfolioStatsHandler wires the handler to the production repository.
func DefaultPortfolioStatsHandler() http.HandlerFunc {
	return PortfolioStatsHandler(repository.NewTradeRepository())
}

// DefaultWhatIfHandler wires the handler to the production repository and the
// full scenario registry.
func DefaultWhatIfHandler() http.HandlerFunc {
	return WhatIfHandler(repository.NewTradeRepository(), whatif.NewEngine(whatif.DefaultScenarios()))
}

// DefaultBreakEvenMetricsHandler wires the handler to the production repository.
func DefaultBreakEvenMetricsHandler() http.HandlerFunc {
	return BreakEvenMetricsHandler(repository.NewTradeRepository())
}

// DefaultBreakEvenByStrategyHandler wires the handler to the production repository.
func DefaultBreakEvenByStrategyHandler() http.HandlerFunc {
	return BreakEvenByStrategyHandler(repository.NewTradeRepository())
}

// DefaultBreakEvenRecommendationHandler wires the handler to the production repository.
func DefaultBreakEvenRecommendationHandler() http.HandlerFunc {
	return BreakEvenRecommendationHandler(repository.NewTradeRepository())
}

// DefaultBreakEvenScenariosHandler wires the handler to the production repository.
func DefaultBreakEvenScenariosHandler() http.HandlerFunc {
	return BreakEvenScenariosHandler(repository.NewTradeRepository())
}
