package whatif

import (
	"math"
	"sort"

	"tradejournal/src/metrics"
	"tradejournal/src/model"
	"tradejournal/src/utils"
)

const (
	// betterPriceShift is the favorable 5% shift applied by the
	// better_entry and better_exit scenarios.
	betterPriceShift = 0.05

	// referenceAccountSize and riskPerTradePct drive the
	// proper_position_sizing scenario: every trade is resized so its
	// implied stop-loss risk equals 2% of a 10k reference account.
	referenceAccountSize = 10000.0
	riskPerTradePct      = 0.02

	tighterStopFactor = 0.8
	worstTradeRatio   = 0.1
	bestDayKeepRatio  = 0.6
	trailRetracement  = 0.25
	minRiskReward     = 2.0
	excursionStdDevs  = 2.0
)

// DefaultScenarios returns a fresh copy of the built-in scenario registry.
// The order is stable and part of the contract: ranking ties resolve by
// registry position.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "better_entry",
			Name:        "Better Entries",
			Description: "Enter every closed trade 5% closer to the optimal price",
			Category:    CategoryEntry,
			Transform:   betterEntry,
		},
		{
			ID:          "better_exit",
			Name:        "Better Exits",
			Description: "Exit every closed trade 5% further in the favorable direction",
			Category:    CategoryExit,
			Transform:   betterExit,
		},
		{
			ID:          "proper_position_sizing",
			Name:        "Proper Position Sizing",
			Description: "Resize positions so the stop-loss risk equals 2% of a reference account",
			Category:    CategoryRisk,
			Transform:   properPositionSizing,
		},
		{
			ID:          "winning_setups_only",
			Name:        "Winning Setups Only",
			Description: "Keep only the trades that closed with a gross profit",
			Category:    CategorySelection,
			Transform:   winningSetupsOnly,
		},
		{
			ID:          "tighter_stops",
			Name:        "Tighter Stops",
			Description: "Shrink every stop distance by 20% and stop out where the adverse excursion breached it",
			Category:    CategoryRisk,
			Transform:   tighterStops,
		},
		{
			ID:          "scaling_out",
			Name:        "Scaling Out",
			Description: "Take half the position off at the midpoint of the favorable excursion",
			Category:    CategoryManagement,
			Transform:   scalingOut,
		},
		{
			ID:          "optimal_stop_loss",
			Name:        "Optimal Stop Loss",
			Description: "Place stops at the portfolio's average adverse excursion width",
			Category:    CategoryRisk,
			Transform:   optimalStopLoss,
		},
		{
			ID:          "remove_worst_trades",
			Name:        "Remove Worst Trades",
			Description: "Drop the bottom decile of trades by net P&L",
			Category:    CategorySelection,
			Transform:   removeWorstTrades,
		},
		{
			ID:          "best_day_only",
			Name:        "Best Days Only",
			Description: "Trade only on the historically most profitable calendar days",
			Category:    CategorySelection,
			Transform:   bestDayOnly,
		},
		{
			ID:          "trailing_stops",
			Name:        "Trailing Stops",
			Description: "Exit at a trailing stop derived from the favorable excursion when it beats the actual exit",
			Category:    CategoryExit,
			Transform:   trailingStops,
		},
		{
			ID:          "risk_reward_filter",
			Name:        "Risk/Reward Filter",
			Description: "Skip trades whose planned reward is less than twice the planned risk",
			Category:    CategorySelection,
			Transform:   riskRewardFilter,
		},
		{
			ID:          "market_condition_filter",
			Name:        "Market Condition Filter",
			Description: "Skip trades taken in abnormally volatile conditions",
			Category:    CategorySelection,
			Transform:   marketConditionFilter,
		},
	}
}

func betterEntry(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	affected := 0
	for i := range out {
		t := &out[i]
		if !t.IsSettled() {
			continue
		}
		if t.Direction == model.DirectionShort {
			t.EntryPrice *= 1 + betterPriceShift
		} else {
			t.EntryPrice *= 1 - betterPriceShift
		}
		metrics.Apply(t)
		affected++
	}
	return out, affected
}

func betterExit(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	affected := 0
	for i := range out {
		t := &out[i]
		if !t.IsSettled() {
			continue
		}
		exit := *t.ExitPrice
		if t.Direction == model.DirectionShort {
			exit *= 1 - betterPriceShift
		} else {
			exit *= 1 + betterPriceShift
		}
		t.ExitPrice = &exit
		metrics.Apply(t)
		affected++
	}
	return out, affected
}

func properPositionSizing(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	riskBudget := referenceAccountSize * riskPerTradePct
	affected := 0
	for i := range out {
		t := &out[i]
		if !t.IsSettled() || t.StopLoss == nil {
			continue
		}
		riskPerUnit := math.Abs(t.EntryPrice - *t.StopLoss)
		if riskPerUnit <= 0 || t.Quantity <= 0 {
			continue
		}
		newQty := riskBudget / riskPerUnit
		if newQty == t.Quantity {
			continue
		}
		// Commission scales with position size.
		t.Commission *= newQty / t.Quantity
		t.Quantity = newQty
		metrics.Apply(t)
		affected++
	}
	return out, affected
}

func winningSetupsOnly(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	kept := out[:0:0]
	for _, t := range out {
		if !t.IsSettled() {
			continue
		}
		if grossPnl(t) > 0 {
			kept = append(kept, t)
		}
	}
	return kept, len(trades) - len(kept)
}

func tighterStops(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	affected := 0
	for i := range out {
		t := &out[i]
		if !t.IsSettled() || t.StopLoss == nil {
			continue
		}
		dist := math.Abs(t.EntryPrice-*t.StopLoss) * tighterStopFactor
		var newStop float64
		if t.Direction == model.DirectionShort {
			newStop = t.EntryPrice + dist
		} else {
			newStop = t.EntryPrice - dist
		}
		t.StopLoss = &newStop

		if t.MaxAdversePrice != nil && stopBreached(t.Direction, *t.MaxAdversePrice, newStop) {
			stopExit := newStop
			t.ExitPrice = &stopExit
			affected++
		}
		metrics.Apply(t)
	}
	return out, affected
}

func scalingOut(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	affected := 0
	for i := range out {
		t := &out[i]
		if !t.IsSettled() {
			continue
		}
		favorable := favorableExtreme(*t)
		if favorable == nil {
			continue
		}
		target := t.EntryPrice + 0.5*(*favorable-t.EntryPrice)
		if !improvesExit(t.Direction, target, *t.ExitPrice) {
			continue
		}
		// P&L is linear in the exit price, so exiting half at the target
		// and half at the actual exit equals exiting all at the midpoint.
		blended := (target + *t.ExitPrice) / 2
		t.ExitPrice = &blended
		metrics.Apply(t)
		affected++
	}
	return out, affected
}

func optimalStopLoss(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)

	var advSum float64
	var advCount int
	for _, t := range out {
		if !t.IsSettled() || t.MaxAdversePrice == nil || t.EntryPrice <= 0 {
			continue
		}
		advSum += math.Abs(t.EntryPrice-*t.MaxAdversePrice) / t.EntryPrice
		advCount++
	}
	if advCount == 0 {
		return out, 0
	}
	avgAdversePct := advSum / float64(advCount)

	affected := 0
	for i := range out {
		t := &out[i]
		if !t.IsSettled() {
			continue
		}
		dist := t.EntryPrice * avgAdversePct
		var newStop float64
		if t.Direction == model.DirectionShort {
			newStop = t.EntryPrice + dist
		} else {
			newStop = t.EntryPrice - dist
		}
		t.StopLoss = &newStop

		if t.MaxAdversePrice != nil && stopBreached(t.Direction, *t.MaxAdversePrice, newStop) {
			stopExit := newStop
			t.ExitPrice = &stopExit
			affected++
		}
		metrics.Apply(t)
	}
	return out, affected
}

func removeWorstTrades(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	settled := out[:0:0]
	for _, t := range out {
		if t.IsSettled() {
			settled = append(settled, t)
		}
	}
	drop := int(float64(len(settled)) * worstTradeRatio)
	if drop == 0 {
		return settled, 0
	}

	sort.SliceStable(settled, func(i, j int) bool {
		return netPnl(settled[i]) < netPnl(settled[j])
	})
	kept := settled[drop:]

	// Restore chronological order for determinism of downstream folds.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].EntryDate.Before(kept[j].EntryDate)
	})
	return kept, drop
}

func bestDayOnly(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)

	dayPnl := map[string]float64{}
	for _, t := range out {
		if !t.IsSettled() {
			continue
		}
		dayPnl[utils.DayKey(*t.ExitDate)] += netPnl(t)
	}

	var profitable []string
	for day, pnl := range dayPnl {
		if pnl > 0 {
			profitable = append(profitable, day)
		}
	}
	if len(profitable) == 0 {
		return []model.Trade{}, len(trades)
	}
	sort.SliceStable(profitable, func(i, j int) bool {
		if dayPnl[profitable[i]] == dayPnl[profitable[j]] {
			return profitable[i] < profitable[j]
		}
		return dayPnl[profitable[i]] > dayPnl[profitable[j]]
	})

	keep := int(math.Ceil(float64(len(profitable)) * bestDayKeepRatio))
	kept := map[string]bool{}
	for _, day := range profitable[:keep] {
		kept[day] = true
	}

	filtered := out[:0:0]
	for _, t := range out {
		if t.IsSettled() && kept[utils.DayKey(*t.ExitDate)] {
			filtered = append(filtered, t)
		}
	}
	return filtered, len(trades) - len(filtered)
}

func trailingStops(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	affected := 0
	for i := range out {
		t := &out[i]
		if !t.IsSettled() {
			continue
		}
		favorable := favorableExtreme(*t)
		if favorable == nil {
			continue
		}
		// Give back 25% of the favorable excursion, keep the rest.
		trail := *favorable - trailRetracement*(*favorable-t.EntryPrice)
		if !improvesExit(t.Direction, trail, *t.ExitPrice) {
			continue
		}
		t.ExitPrice = &trail
		metrics.Apply(t)
		affected++
	}
	return out, affected
}

func riskRewardFilter(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)
	kept := out[:0:0]
	for _, t := range out {
		if !t.IsSettled() {
			continue
		}
		if t.StopLoss != nil && t.TakeProfit != nil {
			risk := math.Abs(t.EntryPrice - *t.StopLoss)
			reward := math.Abs(*t.TakeProfit - t.EntryPrice)
			if risk > 0 && reward/risk < minRiskReward {
				continue
			}
		}
		kept = append(kept, t)
	}
	return kept, len(trades) - len(kept)
}

func marketConditionFilter(trades []model.Trade) ([]model.Trade, int) {
	out := cloneTrades(trades)

	excursions := map[int]float64{}
	var sum float64
	for i, t := range out {
		if !t.IsSettled() || t.EntryPrice <= 0 {
			continue
		}
		exc := relativeExcursion(t)
		excursions[i] = exc
		sum += exc
	}
	if len(excursions) == 0 {
		return out, 0
	}

	mean := sum / float64(len(excursions))
	var variance float64
	for _, exc := range excursions {
		variance += (exc - mean) * (exc - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(excursions)))
	threshold := mean + excursionStdDevs*stdDev

	kept := out[:0:0]
	dropped := 0
	for i, t := range out {
		exc, settled := excursions[i]
		if settled && exc > threshold {
			dropped++
			continue
		}
		kept = append(kept, t)
	}
	return kept, dropped
}

// ----- shared helpers -----

func grossPnl(t model.Trade) float64 {
	return metrics.DirectionalPnl(t.Direction, t.EntryPrice, *t.ExitPrice, t.Quantity)
}

func netPnl(t model.Trade) float64 {
	return grossPnl(t) - t.Commission
}

// favorableExtreme returns the best price the trade saw: the favorable
// excursion for longs, the adverse excursion for shorts (a short's best
// price is its lowest).
func favorableExtreme(t model.Trade) *float64 {
	if t.Direction == model.DirectionShort {
		return t.MaxAdversePrice
	}
	return t.MaxFavorablePrice
}

// improvesExit reports whether exiting at candidate instead of actual
// increases the trade's P&L.
func improvesExit(direction string, candidate, actual float64) bool {
	if direction == model.DirectionShort {
		return candidate < actual
	}
	return candidate > actual
}

// stopBreached reports whether the adverse extreme crossed the stop level.
func stopBreached(direction string, adverseExtreme, stop float64) bool {
	if direction == model.DirectionShort {
		return adverseExtreme >= stop
	}
	return adverseExtreme <= stop
}

// relativeExcursion is the trade's observed price range relative to entry.
// Falls back to the entry-to-exit move when the extremes were not recorded.
func relativeExcursion(t model.Trade) float64 {
	if t.MaxFavorablePrice != nil && t.MaxAdversePrice != nil {
		return math.Abs(*t.MaxFavorablePrice-*t.MaxAdversePrice) / t.EntryPrice
	}
	return math.Abs(*t.ExitPrice-t.EntryPrice) / t.EntryPrice
}
