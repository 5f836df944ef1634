package breakeven

import (
	"math"

	"tradejournal/src/metrics"
	"tradejournal/src/model"
)

const (
	// optimalBEDistanceRatio places the suggested break-even trigger at
	// 40% of the way to the target.
	optimalBEDistanceRatio = 0.4

	// Weights of the break-even efficiency score. A worked BE is graded on
	// boosted profit capture, a failed BE is penalized 1.5x for the profit
	// it gave up.
	workedCaptureBoost   = 1.2
	workedFallbackScore  = 80.0
	failedCapturePenalty = 1.5

	// protectedProfitDiscount is the share of BE-protected profit assumed
	// to survive even without BE management in the counterfactual.
	protectedProfitDiscount = 0.3
)

// Result holds the per-trade break-even figures.
type Result struct {
	BEEfficiency         float64  `json:"be_efficiency"`
	ProfitCaptureRate    float64  `json:"profit_capture_rate"`
	OptimalBEDistance    float64  `json:"optimal_be_distance"`
	RiskRewardWithBE     float64  `json:"risk_reward_with_be"`
	PotentialImprovement *float64 `json:"potential_improvement,omitempty"`
}

// CalculateBEEfficiency grades how well the break-even management of a single
// trade performed. It needs a stop loss and an exit price. trades without
// them report ok=false rather than an error.
func CalculateBEEfficiency(t model.Trade) (Result, bool) {
	if t.StopLoss == nil || t.ExitPrice == nil {
		return Result{}, false
	}

	actualProfit := math.Abs(*t.ExitPrice - t.EntryPrice)

	maxPossibleProfit := actualProfit
	if t.MaxPotentialProfit != nil {
		maxPossibleProfit = math.Abs(*t.MaxPotentialProfit - t.EntryPrice)
	}

	var captureRate float64
	if maxPossibleProfit > 0 {
		captureRate = actualProfit / maxPossibleProfit * 100
	}

	res := Result{ProfitCaptureRate: captureRate}

	if t.BreakEvenWorked != nil {
		if *t.BreakEvenWorked {
			if captureRate > 0 {
				res.BEEfficiency = math.Min(100, captureRate*workedCaptureBoost)
			} else {
				res.BEEfficiency = workedFallbackScore
			}
		} else {
			res.BEEfficiency = math.Max(0, 100-(100-captureRate)*failedCapturePenalty)
		}
	}

	if t.TakeProfit != nil {
		res.OptimalBEDistance = optimalBEDistanceRatio * math.Abs(*t.TakeProfit-t.EntryPrice)
	} else {
		res.OptimalBEDistance = optimalBEDistanceRatio * actualProfit
	}

	if stopDist := math.Abs(t.EntryPrice - *t.StopLoss); stopDist > 0 {
		res.RiskRewardWithBE = actualProfit / stopDist
	}

	if t.BreakEvenWorked != nil && !*t.BreakEvenWorked &&
		maxPossibleProfit > actualProfit && actualProfit > 0 {
		improvement := (maxPossibleProfit - actualProfit) / actualProfit * 100
		res.PotentialImprovement = &improvement
	}

	return res, true
}

// AnalysisMetrics summarizes break-even management over a trade collection.
type AnalysisMetrics struct {
	TradesWithBE          int     `json:"trades_with_be"`
	BESuccessRate         float64 `json:"be_success_rate"`
	BEFailureRate         float64 `json:"be_failure_rate"`
	AvgProfitCaptureRate  float64 `json:"avg_profit_capture_rate"`
	MissedProfitFromBE    float64 `json:"missed_profit_from_be"`
	ProtectedProfitFromBE float64 `json:"protected_profit_from_be"`
	AvgDrawdownBeforeBE   float64 `json:"avg_drawdown_before_be"`
	BEImpact              float64 `json:"be_impact"`
}

// CalculatePortfolioBEMetrics folds the per-trade break-even results over
// every trade that recorded whether its break-even stop worked. Trades
// missing the stop loss or exit price needed for the per-trade math are
// skipped entirely.
//
// BEImpact compares the actual net P&L against an estimated P&L without BE
// management: the counterfactual regains the profit the BE stops cut short
// but keeps only 30% of the profit they protected. A heuristic, not a
// simulation.
func CalculatePortfolioBEMetrics(trades []model.Trade) AnalysisMetrics {
	var m AnalysisMetrics

	var (
		worked, failed int
		captureSum     float64
		drawdownSum    float64
		drawdownCount  int
		actualTotalPnl float64
	)

	for _, t := range trades {
		if t.BreakEvenWorked == nil {
			continue
		}
		res, ok := CalculateBEEfficiency(t)
		if !ok {
			continue
		}

		m.TradesWithBE++
		captureSum += res.ProfitCaptureRate

		tm := metrics.Calculate(t)
		var net float64
		if tm.NetPnl != nil {
			net = *tm.NetPnl
		}
		actualTotalPnl += net

		if *t.BreakEvenWorked {
			worked++
			if net > 0 {
				m.ProtectedProfitFromBE += net
			}
		} else {
			failed++
			m.MissedProfitFromBE += missedProfit(t)
		}

		if t.MaxDrawdown != nil {
			drawdownSum += *t.MaxDrawdown
			drawdownCount++
		}
	}

	if m.TradesWithBE == 0 {
		return m
	}

	m.BESuccessRate = float64(worked) / float64(m.TradesWithBE) * 100
	m.BEFailureRate = float64(failed) / float64(m.TradesWithBE) * 100
	m.AvgProfitCaptureRate = captureSum / float64(m.TradesWithBE)
	if drawdownCount > 0 {
		m.AvgDrawdownBeforeBE = drawdownSum / float64(drawdownCount)
	}

	estimatedWithoutBE := actualTotalPnl + m.MissedProfitFromBE - protectedProfitDiscount*m.ProtectedProfitFromBE
	m.BEImpact = actualTotalPnl - estimatedWithoutBE

	return m
}

// CalculateBEMetricsByStrategy groups the portfolio break-even metrics by the
// trade's strategy tag. Untagged trades land under "unassigned".
func CalculateBEMetricsByStrategy(trades []model.Trade) map[string]AnalysisMetrics {
	groups := map[string][]model.Trade{}
	for _, t := range trades {
		if t.BreakEvenWorked == nil {
			continue
		}
		key := t.Strategy
		if key == "" {
			key = "unassigned"
		}
		groups[key] = append(groups[key], t)
	}

	out := make(map[string]AnalysisMetrics, len(groups))
	for key, group := range groups {
		out[key] = CalculatePortfolioBEMetrics(group)
	}
	return out
}

// missedProfit is the dollar shortfall of a failed break-even stop against
// the trade's maximum potential.
func missedProfit(t model.Trade) float64 {
	actual := math.Abs(*t.ExitPrice - t.EntryPrice)
	maxPossible := actual
	if t.MaxPotentialProfit != nil {
		maxPossible = math.Abs(*t.MaxPotentialProfit - t.EntryPrice)
	}
	if maxPossible <= actual {
		return 0
	}
	return (maxPossible - actual) * t.Quantity
}
