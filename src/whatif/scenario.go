package whatif

import (
	"time"

	"tradejournal/src/model"
)

// Category groups scenarios by the behaviour they counterfactually change.
type Category string

const (
	CategoryEntry      Category = "entry"
	CategoryExit       Category = "exit"
	CategoryRisk       Category = "risk"
	CategorySelection  Category = "selection"
	CategoryManagement Category = "management"
)

// Transform rewrites a trade history into its counterfactual version and
// reports how many trades had their outcome changed. A trade whose inputs
// were rewritten without moving its exit (a stop that was never hit) does
// not count. Implementations must be pure: the input slice and its elements
// are never modified.
type Transform func(trades []model.Trade) ([]model.Trade, int)

// Scenario is one entry of the what-if registry.
type Scenario struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Transform   Transform `json:"-"`
}

// cloneTrades deep-copies a trade slice, including all optional pointer
// fields, so transforms can freely rewrite their working copy.
func cloneTrades(trades []model.Trade) []model.Trade {
	out := make([]model.Trade, len(trades))
	for i, t := range trades {
		c := t
		c.ExitPrice = clonePtr(t.ExitPrice)
		c.ExitDate = cloneTimePtr(t.ExitDate)
		c.StopLoss = clonePtr(t.StopLoss)
		c.TakeProfit = clonePtr(t.TakeProfit)
		c.MaxFavorablePrice = clonePtr(t.MaxFavorablePrice)
		c.MaxAdversePrice = clonePtr(t.MaxAdversePrice)
		c.MaxPotentialProfit = clonePtr(t.MaxPotentialProfit)
		c.MaxDrawdown = clonePtr(t.MaxDrawdown)
		c.BreakEvenWorked = cloneBoolPtr(t.BreakEvenWorked)
		c.Pnl = clonePtr(t.Pnl)
		c.PnlPercentage = clonePtr(t.PnlPercentage)
		c.NetPnl = clonePtr(t.NetPnl)
		c.Efficiency = clonePtr(t.Efficiency)
		c.RMultiple = clonePtr(t.RMultiple)
		c.Result = cloneStringPtr(t.Result)
		out[i] = c
	}
	return out
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBoolPtr(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTimePtr(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
