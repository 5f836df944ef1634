package metrics

import (
	"math"

	"tradejournal/src/model"
)

// Metrics holds the derived per-trade figures. Every field is nil for an
// open trade; individual fields stay nil when their inputs are missing.
type Metrics struct {
	Pnl           *float64 `json:"pnl"`
	PnlPercentage *float64 `json:"pnl_percentage"`
	NetPnl        *float64 `json:"net_pnl"`
	Efficiency    *float64 `json:"efficiency"`
	RMultiple     *float64 `json:"r_multiple"`
	Result        *string  `json:"result"`
}

// Calculate derives the performance metrics for a single trade.
//
// The trade is assumed to have passed input validation (entryPrice > 0,
// quantity > 0, direction LONG or SHORT). Missing optional fields are not
// errors. they simply leave the dependent metrics nil.
func Calculate(t model.Trade) Metrics {
	if !t.IsClosed() {
		return Metrics{}
	}

	pnl := DirectionalPnl(t.Direction, t.EntryPrice, *t.ExitPrice, t.Quantity)
	netPnl := pnl - t.Commission
	pnlPct := pnl / (t.EntryPrice * t.Quantity) * 100

	result := model.ResultBreakeven
	switch {
	case netPnl > 0:
		result = model.ResultWin
	case netPnl < 0:
		result = model.ResultLoss
	}

	m := Metrics{
		Pnl:           &pnl,
		PnlPercentage: &pnlPct,
		NetPnl:        &netPnl,
		Result:        &result,
	}

	if t.StopLoss != nil {
		risk := math.Abs(t.EntryPrice-*t.StopLoss) * t.Quantity
		if risk > 0 {
			r := netPnl / risk
			m.RMultiple = &r
		}
	}

	m.Efficiency = efficiency(t, pnl)

	return m
}

// Apply recomputes the derived fields and merges them into the trade record.
// Called by the mutation boundary before the record is persisted.
func Apply(t *model.Trade) {
	m := Calculate(*t)
	t.Pnl = m.Pnl
	t.PnlPercentage = m.PnlPercentage
	t.NetPnl = m.NetPnl
	t.Efficiency = m.Efficiency
	t.RMultiple = m.RMultiple
	t.Result = m.Result
}

// DirectionalPnl returns gross P&L for the given direction and prices.
func DirectionalPnl(direction string, entry, exit, quantity float64) float64 {
	if direction == model.DirectionShort {
		return (entry - exit) * quantity
	}
	return (exit - entry) * quantity
}

// efficiency measures how much of the maximum available move the exit
// actually captured. Longs measure against the favorable excursion, shorts
// against the adverse excursion. the asymmetry is deliberate (MAE defines a
// short's ceiling differently than MFE defines a long's upside).
func efficiency(t model.Trade, pnl float64) *float64 {
	if t.MaxFavorablePrice == nil || t.MaxAdversePrice == nil {
		return nil
	}

	var maxPossibleProfit float64
	if t.Direction == model.DirectionShort {
		maxPossibleProfit = (t.EntryPrice - *t.MaxAdversePrice) * t.Quantity
	} else {
		maxPossibleProfit = (*t.MaxFavorablePrice - t.EntryPrice) * t.Quantity
	}

	if maxPossibleProfit <= 0 {
		return nil
	}

	actualProfit := math.Max(0, pnl)
	eff := clamp(actualProfit/maxPossibleProfit*100, 0, 100)
	return &eff
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
