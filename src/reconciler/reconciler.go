package reconciler

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/metrics"
	"tradejournal/src/model"
)

// TradeStore is the read side the reconciler needs: every closed trade of an
// account.
type TradeStore interface {
	ClosedByAccount(ctx context.Context, accountID uint) ([]model.Trade, error)
}

// AccountStore reads the initial balance and writes the recomputed one.
type AccountStore interface {
	FindByID(ctx context.Context, id uint) (*model.Account, error)
	UpdateBalance(ctx context.Context, id uint, balance float64) error
}

// Reconciler recomputes account balances from a full scan of closed trades.
type Reconciler struct {
	trades   TradeStore
	accounts AccountStore
}

func New(trades TradeStore, accounts AccountStore) *Reconciler {
	return &Reconciler{trades: trades, accounts: accounts}
}

// Recalculate sets currentBalance = initialBalance + sum of closed-trade net
// P&L. It always recomputes from a full scan, never an incremental delta, so
// repeated calls converge on the same balance (idempotent).
func (r *Reconciler) Recalculate(ctx context.Context, accountID uint) error {
	account, err := r.accounts.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load account %d: %w", accountID, err)
	}
	if account == nil {
		return fmt.Errorf("account %d not found", accountID)
	}

	trades, err := r.trades.ClosedByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to load closed trades for account %d: %w", accountID, err)
	}

	// Decimal accumulation. Summing trade P&L as floats drifts on long
	// histories.
	sum := decimal.Zero
	for _, t := range trades {
		m := metrics.Calculate(t)
		if m.NetPnl == nil {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(*m.NetPnl))
	}

	balance, _ := decimal.NewFromFloat(account.InitialBalance).Add(sum).Float64()

	if err := r.accounts.UpdateBalance(ctx, accountID, balance); err != nil {
		return fmt.Errorf("failed to write balance for account %d: %w", accountID, err)
	}

	logger.WithFields(map[string]interface{}{
		"component":  "Reconciler",
		"account_id": accountID,
		"balance":    balance,
		"trades":     len(trades),
	}).Info("Account balance reconciled")

	return nil
}
