package model

import "time"

const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"
)

const (
	ResultWin       = "WIN"
	ResultLoss      = "LOSS"
	ResultBreakeven = "BREAKEVEN"
)

// Trade is a journaled trade. Optional numeric inputs are pointers so that a
// stored zero (a legitimate price of 0 is debatable, but we never conflate it
// with "not set") stays distinct from an absent value.
type Trade struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	AccountID uint   `gorm:"index;not null" json:"account_id"`
	Symbol    string `gorm:"size:50;not null" json:"symbol"`
	Direction string `gorm:"size:10;not null" json:"direction"` // LONG , SHORT
	Strategy  string `gorm:"size:100;index" json:"strategy,omitempty"`

	EntryPrice float64   `gorm:"not null" json:"entry_price"`
	Quantity   float64   `gorm:"not null" json:"quantity"`
	EntryDate  time.Time `json:"entry_date"`

	ExitPrice *float64   `json:"exit_price,omitempty"`
	ExitDate  *time.Time `json:"exit_date,omitempty"`

	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`

	// Price extremes observed during the trade's life.
	MaxFavorablePrice  *float64 `json:"max_favorable_price,omitempty"`
	MaxAdversePrice    *float64 `json:"max_adverse_price,omitempty"`
	MaxPotentialProfit *float64 `json:"max_potential_profit,omitempty"`
	MaxDrawdown        *float64 `json:"max_drawdown,omitempty"`

	// Tri-state: nil means the trader never recorded whether the
	// break-even stop did its job on this trade.
	BreakEvenWorked *bool `json:"break_even_worked,omitempty"`

	Commission float64 `gorm:"not null;default:0" json:"commission"`

	// Derived fields, written by the metrics calculator. Never user supplied.
	Pnl           *float64 `json:"pnl,omitempty"`
	PnlPercentage *float64 `json:"pnl_percentage,omitempty"`
	NetPnl        *float64 `json:"net_pnl,omitempty"`
	Efficiency    *float64 `json:"efficiency,omitempty"`
	RMultiple     *float64 `json:"r_multiple,omitempty"`
	Result        *string  `gorm:"size:20" json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName allows you to control the exact table name for trades.
func (Trade) TableName() string {
	return "trades"
}

// IsClosed reports whether the trade has a recorded exit. An exit price of
// exactly 0 still counts as an exit.
func (t *Trade) IsClosed() bool {
	return t.ExitPrice != nil
}

// IsSettled reports whether the trade counts toward portfolio statistics,
// which require both an exit price and an exit date.
func (t *Trade) IsSettled() bool {
	return t.ExitPrice != nil && t.ExitDate != nil
}
