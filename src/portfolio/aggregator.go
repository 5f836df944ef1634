package portfolio

import (
	"encoding/json"
	"math"

	"tradejournal/src/metrics"
	"tradejournal/src/model"
)

// Stats summarizes the closed trades of a collection.
//
// Note the long-standing dual convention: the per-trade Result field keys off
// net P&L, while the win/loss partition here keys off gross P&L. Both are
// kept as-is. unifying them would silently shift reported win rates for
// journals with commission-heavy trades.
type Stats struct {
	TotalTrades     int     `json:"total_trades"`
	WinTrades       int     `json:"win_trades"`
	LossTrades      int     `json:"loss_trades"`
	BreakevenTrades int     `json:"breakeven_trades"`
	WinRate         float64 `json:"win_rate"`
	TotalPnl        float64 `json:"total_pnl"`
	NetPnl          float64 `json:"net_pnl"`
	AvgWin          float64 `json:"avg_win"`
	AvgLoss         float64 `json:"avg_loss"`
	ProfitFactor    float64 `json:"profit_factor"`
	MaxWin          float64 `json:"max_win"`
	MaxLoss         float64 `json:"max_loss"`
	AvgRMultiple    float64 `json:"avg_r_multiple"`
	AvgEfficiency   float64 `json:"avg_efficiency"`
	TotalCommission float64 `json:"total_commission"`
}

// MarshalJSON renders an infinite profit factor as null so the stats stay
// encodable by the HTTP layer.
func (s Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	out := struct {
		alias
		ProfitFactor *float64 `json:"profit_factor"`
	}{alias: alias(s)}
	if !math.IsInf(s.ProfitFactor, 0) {
		pf := s.ProfitFactor
		out.ProfitFactor = &pf
	}
	return json.Marshal(out)
}

// Aggregate folds a trade collection into portfolio statistics. Only settled
// trades (exit price and exit date both present) participate. Derived
// metrics are recomputed from the raw price fields, so callers may pass
// records that never went through the mutation boundary (what-if copies).
func Aggregate(trades []model.Trade) Stats {
	var stats Stats

	var (
		winSum, lossSum float64
		rSum, effSum    float64
	)

	for _, t := range trades {
		if !t.IsSettled() {
			continue
		}

		m := metrics.Calculate(t)
		pnl := *m.Pnl
		netPnl := *m.NetPnl

		stats.TotalTrades++
		stats.TotalPnl += pnl
		stats.NetPnl += netPnl
		stats.TotalCommission += t.Commission

		switch {
		case pnl > 0:
			stats.WinTrades++
			winSum += pnl
			if pnl > stats.MaxWin {
				stats.MaxWin = pnl
			}
		case pnl < 0:
			stats.LossTrades++
			lossSum += pnl
			if pnl < stats.MaxLoss {
				stats.MaxLoss = pnl
			}
		default:
			stats.BreakevenTrades++
		}

		if m.RMultiple != nil {
			rSum += *m.RMultiple
		}
		if m.Efficiency != nil {
			effSum += *m.Efficiency
		}
	}

	if stats.TotalTrades == 0 {
		return stats
	}

	stats.WinRate = float64(stats.WinTrades) / float64(stats.TotalTrades) * 100

	if stats.WinTrades > 0 {
		stats.AvgWin = winSum / float64(stats.WinTrades)
	}
	if stats.LossTrades > 0 {
		stats.AvgLoss = math.Abs(lossSum / float64(stats.LossTrades))
	}

	switch {
	case stats.AvgLoss > 0:
		stats.ProfitFactor = stats.AvgWin / stats.AvgLoss
	case stats.AvgWin > 0:
		stats.ProfitFactor = math.Inf(1)
	}

	// nil rMultiple/efficiency count as 0 in the mean rather than shrinking
	// the denominator.
	stats.AvgRMultiple = rSum / float64(stats.TotalTrades)
	stats.AvgEfficiency = effSum / float64(stats.TotalTrades)

	return stats
}
