package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradejournal/src/handler"
	"tradejournal/src/reconciler"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
)

func StartServer(port string, worker *reconciler.Worker) {
	// Router with middleware
	r := chi.NewRouter()
	// === Global Middleware ===

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})

	r.Post("/accounts", handler.DefaultCreateAccountHandler())
	r.Get("/accounts/{accountID}", handler.DefaultGetAccountHandler())
	r.Post("/accounts/{accountID}/reconcile", handler.ReconcileHandler(worker))

	r.Post("/accounts/{accountID}/trades", handler.DefaultCreateTradeHandler(worker))
	r.Get("/accounts/{accountID}/trades", handler.DefaultListTradesHandler())
	r.Delete("/accounts/{accountID}/trades", handler.DefaultBulkDeleteTradesHandler(worker))
	r.Put("/trades/{tradeID}", handler.DefaultUpdateTradeHandler(worker))
	r.Delete("/trades/{tradeID}", handler.DefaultDeleteTradeHandler(worker))

	r.Get("/accounts/{accountID}/analytics/stats", handler.DefaultPortfolioStatsHandler())
	r.Get("/accounts/{accountID}/analytics/what-if", handler.DefaultWhatIfHandler())
	r.Get("/accounts/{accountID}/analytics/break-even", handler.DefaultBreakEvenMetricsHandler())
	r.Get("/accounts/{accountID}/analytics/break-even/by-strategy", handler.DefaultBreakEvenByStrategyHandler())
	r.Get("/accounts/{accountID}/analytics/break-even/recommendation", handler.DefaultBreakEvenRecommendationHandler())
	r.Get("/accounts/{accountID}/analytics/break-even/scenarios", handler.DefaultBreakEvenScenariosHandler())

	// Graceful server
	// Server setup
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
