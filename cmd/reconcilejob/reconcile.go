package reconcilejob

import (
	"context"
	"fmt"

	"tradejournal/src/reconciler"
	"tradejournal/src/repository"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReconcileJob recomputes account balances from the journaled trades. Meant
// for one-shot runs (cron, migration cleanup) where the API worker is not
// around to pick up the queue.
type ReconcileJob struct {
	Log    *logger.Entry
	DB     *gorm.DB
	Config *Config
}

func (r *ReconcileJob) Start() error {
	if r.Config == nil {
		r.Config = GetConfig()
	}

	trades := (&repository.TradeRepository{}).WithDB(r.DB)
	accounts := (&repository.AccountRepository{}).WithDB(r.DB)
	rec := reconciler.New(trades, accounts)

	ctx := context.Background()

	if r.Config.AccountID != 0 {
		r.Log.WithField("account_id", r.Config.AccountID).Info("Reconciling single account")
		return rec.Recalculate(ctx, r.Config.AccountID)
	}

	ids, err := accounts.FindAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	r.Log.WithField("accounts", len(ids)).Info("Reconciling all accounts")

	var failed int
	for _, id := range ids {
		if err := rec.Recalculate(ctx, id); err != nil {
			r.Log.WithField("account_id", id).WithError(err).Error("Reconciliation failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("reconciliation failed for %d of %d accounts", failed, len(ids))
	}

	return nil
}
