package whatif

import (
	"fmt"
	"math"
	"sort"

	"tradejournal/src/model"
	"tradejournal/src/portfolio"
)

// Improvement is the delta between a scenario's portfolio statistics and the
// untouched history.
type Improvement struct {
	TotalPnlImprovement        float64 `json:"total_pnl_improvement"`
	TotalPnlImprovementPercent float64 `json:"total_pnl_improvement_percent"`
	WinRateImprovement         float64 `json:"win_rate_improvement"`
	ProfitFactorImprovement    float64 `json:"profit_factor_improvement"`
	AvgRMultipleImprovement    float64 `json:"avg_r_multiple_improvement"`
	// TradesAffected counts outcome-changed trades, per Transform.
	TradesAffected int `json:"trades_affected"`
}

// Result is the outcome of one scenario evaluation.
type Result struct {
	Scenario    Scenario        `json:"scenario"`
	Stats       portfolio.Stats `json:"stats"`
	Improvement Improvement     `json:"improvement"`
	Insights    []string        `json:"insights"`
}

// AnalysisResult is the full what-if report over a trade history.
type AnalysisResult struct {
	OriginalStats             portfolio.Stats `json:"original_stats"`
	Scenarios                 []Result        `json:"scenarios"`
	TopImprovements           []Result        `json:"top_improvements"`
	TotalPotentialImprovement float64         `json:"total_potential_improvement"`
}

// Engine evaluates an immutable scenario registry against a trade history.
type Engine struct {
	scenarios []Scenario
}

// NewEngine builds an engine over the given registry. The slice is copied so
// later mutation by the caller cannot change the engine's behaviour. Pass
// DefaultScenarios() for the standard set.
func NewEngine(scenarios []Scenario) *Engine {
	registry := make([]Scenario, len(scenarios))
	copy(registry, scenarios)
	return &Engine{scenarios: registry}
}

// Run evaluates every scenario against the given history and ranks them by
// total P&L improvement. The input is never modified. transforms work on
// deep copies, so two runs over the same history produce identical results.
func (e *Engine) Run(trades []model.Trade) AnalysisResult {
	original := portfolio.Aggregate(trades)

	results := make([]Result, 0, len(e.scenarios))
	for _, scenario := range e.scenarios {
		transformed, affected := scenario.Transform(trades)
		stats := portfolio.Aggregate(transformed)
		improvement := diff(original, stats, affected)

		results = append(results, Result{
			Scenario:    scenario,
			Stats:       stats,
			Improvement: improvement,
			Insights:    insights(scenario, stats, improvement),
		})
	}

	// Stable sort keeps registry order on ties, which makes the ranking
	// deterministic.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Improvement.TotalPnlImprovement > results[j].Improvement.TotalPnlImprovement
	})

	top := results
	if len(top) > 3 {
		top = top[:3]
	}

	var potential float64
	for _, r := range top {
		if r.Improvement.TotalPnlImprovement > 0 {
			potential += r.Improvement.TotalPnlImprovement
		}
	}

	return AnalysisResult{
		OriginalStats:             original,
		Scenarios:                 results,
		TopImprovements:           top,
		TotalPotentialImprovement: potential,
	}
}

func diff(original, scenario portfolio.Stats, affected int) Improvement {
	imp := Improvement{
		TotalPnlImprovement:     scenario.TotalPnl - original.TotalPnl,
		WinRateImprovement:      scenario.WinRate - original.WinRate,
		AvgRMultipleImprovement: scenario.AvgRMultiple - original.AvgRMultiple,
		TradesAffected:          affected,
	}

	if original.TotalPnl != 0 {
		imp.TotalPnlImprovementPercent = imp.TotalPnlImprovement / math.Abs(original.TotalPnl) * 100
	}

	// An infinite profit factor on either side makes the delta meaningless.
	if !math.IsInf(original.ProfitFactor, 0) && !math.IsInf(scenario.ProfitFactor, 0) {
		imp.ProfitFactorImprovement = scenario.ProfitFactor - original.ProfitFactor
	}

	return imp
}

// insights renders the fixed per-scenario narrative from the computed
// numbers. Templates only. nothing here is free text.
func insights(s Scenario, stats portfolio.Stats, imp Improvement) []string {
	out := []string{
		fmt.Sprintf("%s would have changed total P&L by %.2f (%+.1f%%).",
			s.Name, imp.TotalPnlImprovement, imp.TotalPnlImprovementPercent),
	}

	switch s.Category {
	case CategorySelection:
		out = append(out, fmt.Sprintf(
			"Skipping %d trades leaves %d trades with a %.1f%% win rate.",
			imp.TradesAffected, stats.TotalTrades, stats.WinRate))
	case CategoryRisk:
		out = append(out, fmt.Sprintf(
			"Changed the outcome of %d trades, moving the average R-multiple by %+.2f.",
			imp.TradesAffected, imp.AvgRMultipleImprovement))
	default:
		out = append(out, fmt.Sprintf(
			"%d trades were touched, shifting the win rate by %+.1f points.",
			imp.TradesAffected, imp.WinRateImprovement))
	}

	if imp.TotalPnlImprovement <= 0 {
		out = append(out, fmt.Sprintf("%s would not have improved this history.", s.Name))
	}

	return out
}
