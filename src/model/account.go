package model

import "time"

// Account is a trading account whose running balance is maintained by the
// balance reconciler as initial balance plus the net P&L of its closed trades.
type Account struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Currency       string    `gorm:"size:10;not null;default:USD" json:"currency"`
	InitialBalance float64   `gorm:"not null" json:"initial_balance"`
	CurrentBalance float64   `gorm:"not null" json:"current_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName allows you to control the exact table name for accounts.
func (Account) TableName() string {
	return "accounts"
}
