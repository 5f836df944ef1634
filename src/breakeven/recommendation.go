package breakeven

import (
	"fmt"
	"math"
	"sort"

	"tradejournal/src/model"
)

// Confidence scoring thresholds. Fixed point deltas applied to a base of 50.
const (
	baseConfidence = 50.0

	highSuccessRate     = 70.0
	highSuccessDelta    = 20.0
	lowSuccessRate      = 40.0
	lowSuccessDelta     = 15.0
	positiveImpactDelta = 15.0
	severeImpactLoss    = -100.0
	severeImpactDelta   = 20.0
	highCaptureRate     = 80.0
	highCaptureDelta    = 10.0
	lowCaptureRate      = 50.0
	lowCaptureDelta     = 10.0
	smallSampleSize     = 10
	smallSampleCap      = 60.0
)

// Alternative is one ranked break-even strategy variant.
type Alternative struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	ExpectedImprovement float64 `json:"expected_improvement"`
}

// Recommendation tells the trader whether to keep using break-even stops.
type Recommendation struct {
	ShouldUseBE  bool            `json:"should_use_be"`
	Confidence   float64         `json:"confidence"`
	SampleSize   int             `json:"sample_size"`
	Reasons      []string        `json:"reasons"`
	Metrics      AnalysisMetrics `json:"metrics"`
	Alternatives []Alternative   `json:"alternatives"`
}

// GenerateBERecommendation scores the trader's break-even management and
// recommends keeping or dropping it, with ranked alternatives.
func GenerateBERecommendation(trades []model.Trade) Recommendation {
	m := CalculatePortfolioBEMetrics(trades)

	rec := Recommendation{
		ShouldUseBE: true,
		Confidence:  baseConfidence,
		SampleSize:  m.TradesWithBE,
		Metrics:     m,
	}

	if m.BESuccessRate >= highSuccessRate {
		rec.Confidence += highSuccessDelta
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"Break-even stops worked on %.1f%% of tagged trades.", m.BESuccessRate))
	} else if m.BESuccessRate < lowSuccessRate {
		rec.Confidence -= lowSuccessDelta
		rec.ShouldUseBE = false
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"Break-even stops worked on only %.1f%% of tagged trades.", m.BESuccessRate))
	}

	if m.BEImpact > 0 {
		rec.Confidence += positiveImpactDelta
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"Break-even management added an estimated %.2f to net P&L.", m.BEImpact))
	} else if m.BEImpact < severeImpactLoss {
		rec.Confidence -= severeImpactDelta
		rec.ShouldUseBE = false
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"Break-even management cost an estimated %.2f of net P&L.", -m.BEImpact))
	}

	if m.AvgProfitCaptureRate >= highCaptureRate {
		rec.Confidence += highCaptureDelta
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"Trades captured %.1f%% of their potential on average.", m.AvgProfitCaptureRate))
	} else if m.AvgProfitCaptureRate < lowCaptureRate {
		rec.Confidence -= lowCaptureDelta
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"Trades captured only %.1f%% of their potential on average.", m.AvgProfitCaptureRate))
	}

	if m.TradesWithBE < smallSampleSize {
		rec.Confidence = math.Min(rec.Confidence, smallSampleCap)
		rec.Reasons = append(rec.Reasons, fmt.Sprintf(
			"Only %d trades carry a break-even tag. confidence is capped.", m.TradesWithBE))
	}

	rec.Confidence = math.Min(100, math.Max(0, rec.Confidence))
	rec.Alternatives = rankAlternatives(m)

	return rec
}

// rankAlternatives scores the four strategy variants with fixed heuristics
// on the portfolio's protected and missed profit, then sorts descending.
func rankAlternatives(m AnalysisMetrics) []Alternative {
	alternatives := []Alternative{
		{
			ID:                  "no-be",
			Name:                "No break-even",
			Description:         "Leave the original stop loss in place for the whole trade",
			ExpectedImprovement: -m.BEImpact,
		},
		{
			ID:                  "aggressive-be",
			Name:                "Aggressive break-even",
			Description:         "Move the stop to entry as soon as the trade is modestly in profit",
			ExpectedImprovement: 0.2*m.ProtectedProfitFromBE - 0.1*m.MissedProfitFromBE,
		},
		{
			ID:                  "conservative-be",
			Name:                "Conservative break-even",
			Description:         "Move the stop to entry only after most of the target is reached",
			ExpectedImprovement: 0.6*m.MissedProfitFromBE - 0.1*m.ProtectedProfitFromBE,
		},
		{
			ID:                  "trailing-be",
			Name:                "Trailing break-even",
			Description:         "Trail the stop behind the favorable excursion instead of parking it at entry",
			ExpectedImprovement: 0.4*m.MissedProfitFromBE + 0.1*m.ProtectedProfitFromBE,
		},
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		return alternatives[i].ExpectedImprovement > alternatives[j].ExpectedImprovement
	})
	return alternatives
}
