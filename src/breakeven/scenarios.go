package breakeven

import (
	"math"
	"sort"

	"tradejournal/src/model"
)

// PlacementScenario is one candidate break-even placement, scored against
// the portfolio's observed break-even behaviour.
type PlacementScenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// TriggerPct is the share of the distance to target at which the stop
	// moves to entry. -1 marks the trailing variant.
	TriggerPct          float64 `json:"trigger_pct"`
	RecommendationScore float64 `json:"recommendation_score"`
}

// GenerateBEOptimizationScenarios scores the five fixed break-even
// placements against the portfolio's baseline success and capture rates and
// returns them sorted by score, best first. The scoring is a fixed linear
// blend per placement: placements that rely on BE working lean on the
// success rate, later placements lean on the capture rate.
func GenerateBEOptimizationScenarios(trades []model.Trade) []PlacementScenario {
	m := CalculatePortfolioBEMetrics(trades)
	success := m.BESuccessRate
	capture := m.AvgProfitCaptureRate

	scenarios := []PlacementScenario{
		{
			ID:                  "no_be",
			Name:                "No break-even",
			Description:         "Never move the stop to entry",
			TriggerPct:          0,
			RecommendationScore: 30 + (100-success)*0.3,
		},
		{
			ID:                  "be_25",
			Name:                "Early break-even (25%)",
			Description:         "Move the stop to entry at 25% of the distance to target",
			TriggerPct:          0.25,
			RecommendationScore: 40 + success*0.25 - (100-capture)*0.1,
		},
		{
			ID:                  "be_40",
			Name:                "Standard break-even (40%)",
			Description:         "Move the stop to entry at 40% of the distance to target",
			TriggerPct:          0.40,
			RecommendationScore: 50 + success*0.3 - (100-capture)*0.05,
		},
		{
			ID:                  "be_60",
			Name:                "Late break-even (60%)",
			Description:         "Move the stop to entry at 60% of the distance to target",
			TriggerPct:          0.60,
			RecommendationScore: 35 + capture*0.25,
		},
		{
			ID:                  "be_trailing",
			Name:                "Trailing break-even",
			Description:         "Trail the stop behind the favorable excursion",
			TriggerPct:          -1,
			RecommendationScore: 45 + success*0.1 + capture*0.15,
		},
	}

	for i := range scenarios {
		scenarios[i].RecommendationScore = math.Min(100, math.Max(0, scenarios[i].RecommendationScore))
	}

	sort.SliceStable(scenarios, func(i, j int) bool {
		return scenarios[i].RecommendationScore > scenarios[j].RecommendationScore
	})
	return scenarios
}
