package portfolio

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"tradejournal/src/model"
)

func f(v float64) *float64 { return &v }

func settled(direction string, entry, exit, qty, commission float64) model.Trade {
	exitDate := time.Date(2025, time.June, 2, 16, 0, 0, 0, time.UTC)
	return model.Trade{
		Direction:  direction,
		EntryPrice: entry,
		Quantity:   qty,
		EntryDate:  exitDate.Add(-3 * time.Hour),
		ExitPrice:  &exit,
		ExitDate:   &exitDate,
		Commission: commission,
	}
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)

	if stats.TotalTrades != 0 || stats.WinRate != 0 || stats.ProfitFactor != 0 {
		t.Fatalf("expected zero stats for empty input. got=%+v", stats)
	}
}

func TestAggregate_IgnoresOpenAndUnsettledTrades(t *testing.T) {
	open := model.Trade{Direction: model.DirectionLong, EntryPrice: 100, Quantity: 1}
	// Exit price without exit date does not settle the trade.
	noDate := model.Trade{Direction: model.DirectionLong, EntryPrice: 100, Quantity: 1, ExitPrice: f(110)}

	stats := Aggregate([]model.Trade{open, noDate, settled(model.DirectionLong, 100, 110, 1, 0)})

	if stats.TotalTrades != 1 {
		t.Fatalf("expected only the settled trade to count. got=%d", stats.TotalTrades)
	}
}

func TestAggregate_Partition(t *testing.T) {
	trades := []model.Trade{
		settled(model.DirectionLong, 100, 110, 10, 0),  // pnl +100
		settled(model.DirectionLong, 100, 120, 10, 0),  // pnl +200
		settled(model.DirectionShort, 50, 55, 20, 0),   // pnl -100
		settled(model.DirectionLong, 100, 100, 10, 25), // pnl 0, breakeven by gross pnl
	}

	stats := Aggregate(trades)

	if stats.TotalTrades != 4 || stats.WinTrades != 2 || stats.LossTrades != 1 || stats.BreakevenTrades != 1 {
		t.Fatalf("partition mismatch. got=%+v", stats)
	}
	if stats.WinRate != 50 {
		t.Fatalf("winRate mismatch. got=%v want=50", stats.WinRate)
	}
	if stats.TotalPnl != 200 {
		t.Fatalf("totalPnl mismatch. got=%v want=200", stats.TotalPnl)
	}
	if stats.NetPnl != 175 {
		t.Fatalf("netPnl mismatch. got=%v want=175", stats.NetPnl)
	}
	if stats.AvgWin != 150 {
		t.Fatalf("avgWin mismatch. got=%v want=150", stats.AvgWin)
	}
	if stats.AvgLoss != 100 {
		t.Fatalf("avgLoss mismatch. got=%v want=100", stats.AvgLoss)
	}
	if stats.ProfitFactor != 1.5 {
		t.Fatalf("profitFactor mismatch. got=%v want=1.5", stats.ProfitFactor)
	}
	if stats.MaxWin != 200 || stats.MaxLoss != -100 {
		t.Fatalf("extremes mismatch. got maxWin=%v maxLoss=%v", stats.MaxWin, stats.MaxLoss)
	}
	if stats.TotalCommission != 25 {
		t.Fatalf("commission mismatch. got=%v want=25", stats.TotalCommission)
	}
}

func TestAggregate_GrossPnlPartitionDiffersFromResult(t *testing.T) {
	// Gross pnl +5, net pnl -5. counted as a win in the partition even
	// though the per-trade result would be LOSS.
	trades := []model.Trade{settled(model.DirectionLong, 100, 100.5, 10, 10)}

	stats := Aggregate(trades)

	if stats.WinTrades != 1 || stats.LossTrades != 0 {
		t.Fatalf("expected gross-pnl partition to count the trade as a win. got=%+v", stats)
	}
	if stats.NetPnl != -5 {
		t.Fatalf("netPnl mismatch. got=%v want=-5", stats.NetPnl)
	}
}

func TestAggregate_ProfitFactorInfiniteWithoutLosses(t *testing.T) {
	stats := Aggregate([]model.Trade{settled(model.DirectionLong, 100, 110, 10, 0)})

	if !math.IsInf(stats.ProfitFactor, 1) {
		t.Fatalf("expected +Inf profit factor. got=%v", stats.ProfitFactor)
	}

	encoded, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("stats with infinite profit factor must stay encodable: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if decoded["profit_factor"] != nil {
		t.Fatalf("expected profit_factor null in JSON. got=%v", decoded["profit_factor"])
	}
}

func TestAggregate_NilRMultipleCountsAsZeroInMean(t *testing.T) {
	withStop := settled(model.DirectionLong, 100, 110, 10, 0) // pnl 100, risk 50, r=2
	withStop.StopLoss = f(95)
	withoutStop := settled(model.DirectionLong, 100, 110, 10, 0)

	stats := Aggregate([]model.Trade{withStop, withoutStop})

	if stats.AvgRMultiple != 1 {
		t.Fatalf("avgRMultiple mismatch. got=%v want=1", stats.AvgRMultiple)
	}
}
