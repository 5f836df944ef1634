package reconciler

import (
	"context"

	logger "github.com/sirupsen/logrus"
)

// Worker consumes reconciliation requests from a buffered queue. Trade
// mutations enqueue and move on. A failed pass is logged and dropped, never
// surfaced to the mutation that triggered it. The next mutation on the same
// account re-enqueues a full recomputation, so a dropped pass self-heals.
type Worker struct {
	reconciler *Reconciler
	queue      chan uint
}

func NewWorker(reconciler *Reconciler, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Worker{
		reconciler: reconciler,
		queue:      make(chan uint, queueSize),
	}
}

// Enqueue requests a reconciliation pass for the account. Never blocks: when
// the queue is full the request is dropped with a warning, relying on the
// full-scan idempotence of later passes.
func (w *Worker) Enqueue(accountID uint) {
	select {
	case w.queue <- accountID:
	default:
		logger.WithFields(map[string]interface{}{
			"component":  "ReconcilerWorker",
			"account_id": accountID,
		}).Warn("Reconciliation queue full, dropping request")
	}
}

// Run drains the queue until the context is cancelled. Intended to be
// started once, as a goroutine, at application startup.
func (w *Worker) Run(ctx context.Context) {
	logger.WithField("component", "ReconcilerWorker").Info("Reconciliation worker started")

	for {
		select {
		case <-ctx.Done():
			logger.WithField("component", "ReconcilerWorker").Info("Reconciliation worker stopped")
			return

		case accountID := <-w.queue:
			if err := w.reconciler.Recalculate(ctx, accountID); err != nil {
				logger.WithFields(map[string]interface{}{
					"component":  "ReconcilerWorker",
					"account_id": accountID,
				}).WithError(err).Error("Reconciliation pass failed")
			}
		}
	}
}
