package reconciler_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradejournal/src/metrics"
	"tradejournal/src/model"
	"tradejournal/src/reconciler"
	"tradejournal/src/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Account{}, &model.Trade{}))

	return db
}

func closedTrade(id string, accountID uint, entry, exit, qty, commission float64) *model.Trade {
	exitDate := time.Date(2025, time.July, 1, 16, 0, 0, 0, time.UTC)
	trade := &model.Trade{
		ID:         id,
		AccountID:  accountID,
		Symbol:     "AAPL",
		Direction:  model.DirectionLong,
		EntryPrice: entry,
		Quantity:   qty,
		EntryDate:  exitDate.Add(-5 * time.Hour),
		ExitPrice:  &exit,
		ExitDate:   &exitDate,
		Commission: commission,
	}
	metrics.Apply(trade)
	return trade
}

func TestRecalculate_SumsClosedTrades(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	accounts := (&repository.AccountRepository{}).WithDB(db)
	trades := (&repository.TradeRepository{}).WithDB(db)

	account := &model.Account{Name: "main", InitialBalance: 10000, CurrentBalance: 10000}
	require.NoError(t, accounts.Create(ctx, account))

	require.NoError(t, trades.Create(ctx, closedTrade("t1", account.ID, 100, 110, 10, 5))) // net +95
	require.NoError(t, trades.Create(ctx, closedTrade("t2", account.ID, 50, 45, 20, 2)))   // net -102
	open := &model.Trade{
		ID: "t3", AccountID: account.ID, Symbol: "AAPL",
		Direction: model.DirectionLong, EntryPrice: 70, Quantity: 3,
		EntryDate: time.Date(2025, time.July, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, trades.Create(ctx, open))

	rec := reconciler.New(trades, accounts)
	require.NoError(t, rec.Recalculate(ctx, account.ID))

	reloaded, err := accounts.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	require.InDelta(t, 9993, reloaded.CurrentBalance, 1e-9)
}

func TestRecalculate_Idempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	accounts := (&repository.AccountRepository{}).WithDB(db)
	trades := (&repository.TradeRepository{}).WithDB(db)

	account := &model.Account{Name: "main", InitialBalance: 5000, CurrentBalance: 5000}
	require.NoError(t, accounts.Create(ctx, account))
	require.NoError(t, trades.Create(ctx, closedTrade("t1", account.ID, 100, 120, 5, 1))) // net +99

	rec := reconciler.New(trades, accounts)
	require.NoError(t, rec.Recalculate(ctx, account.ID))
	require.NoError(t, rec.Recalculate(ctx, account.ID))

	reloaded, err := accounts.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.InDelta(t, 5099, reloaded.CurrentBalance, 1e-9)
}

func TestRecalculate_ConvergesAfterDeletes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	accounts := (&repository.AccountRepository{}).WithDB(db)
	trades := (&repository.TradeRepository{}).WithDB(db)

	account := &model.Account{Name: "main", InitialBalance: 1000, CurrentBalance: 1000}
	require.NoError(t, accounts.Create(ctx, account))
	require.NoError(t, trades.Create(ctx, closedTrade("t1", account.ID, 100, 110, 1, 0))) // net +10
	require.NoError(t, trades.Create(ctx, closedTrade("t2", account.ID, 100, 90, 1, 0)))  // net -10

	rec := reconciler.New(trades, accounts)
	require.NoError(t, rec.Recalculate(ctx, account.ID))

	require.NoError(t, trades.Delete(ctx, "t2"))
	require.NoError(t, rec.Recalculate(ctx, account.ID))

	reloaded, err := accounts.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.InDelta(t, 1010, reloaded.CurrentBalance, 1e-9)
}

func TestRecalculate_UnknownAccount(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	accounts := (&repository.AccountRepository{}).WithDB(db)
	trades := (&repository.TradeRepository{}).WithDB(db)

	rec := reconciler.New(trades, accounts)
	require.Error(t, rec.Recalculate(ctx, 42))
}

func TestWorker_ProcessesEnqueuedAccounts(t *testing.T) {
	db := setupDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accounts := (&repository.AccountRepository{}).WithDB(db)
	trades := (&repository.TradeRepository{}).WithDB(db)

	account := &model.Account{Name: "main", InitialBalance: 2000, CurrentBalance: 2000}
	require.NoError(t, accounts.Create(context.Background(), account))
	require.NoError(t, trades.Create(context.Background(), closedTrade("t1", account.ID, 10, 12, 50, 0))) // net +100

	worker := reconciler.NewWorker(reconciler.New(trades, accounts), 4)
	go worker.Run(ctx)

	worker.Enqueue(account.ID)

	require.Eventually(t, func() bool {
		reloaded, err := accounts.FindByID(context.Background(), account.ID)
		return err == nil && reloaded != nil && reloaded.CurrentBalance == 2100
	}, 2*time.Second, 10*time.Millisecond)
}
