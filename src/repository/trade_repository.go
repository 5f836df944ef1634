package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/database"
	"tradejournal/src/model"
)

// TradeRepository handles read/write operations for journaled trades.
type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new repository instance using the main read/write database.
func NewTradeRepository() *TradeRepository {
	logger.WithField("component", "TradeRepository").
		Info("Creating new TradeRepository with MainDB")

	return &TradeRepository{
		db: database.MainDB,
	}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *TradeRepository) WithDB(db *gorm.DB) *TradeRepository {
	logger.WithField("component", "TradeRepository").
		Debug("Creating TradeRepository with custom DB instance")

	return &TradeRepository{db: db}
}

// Create inserts a new trade into the database. A missing ID is assigned a
// fresh UUID. The given trade will be updated with generated timestamps.
func (r *TradeRepository) Create(
	ctx context.Context,
	trade *model.Trade,
) error {

	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "TradeRepository",
		"op":         "Create",
		"account_id": trade.AccountID,
		"symbol":     trade.Symbol,
		"direction":  trade.Direction,
	}).Debug("Creating new trade")

	err := r.db.WithContext(ctx).Create(trade).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "TradeRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create trade")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Create",
		"trade_id": trade.ID,
	}).Info("Trade created successfully")

	return nil
}

// Update persists the full trade record, including recomputed derived fields.
func (r *TradeRepository) Update(
	ctx context.Context,
	trade *model.Trade,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Update",
		"trade_id": trade.ID,
	}).Debug("Updating trade")

	err := r.db.WithContext(ctx).Save(trade).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Update",
			"trade_id": trade.ID,
		}).WithError(err).Error("Failed to update trade")

		return err
	}

	return nil
}

// Delete removes a trade by ID.
func (r *TradeRepository) Delete(
	ctx context.Context,
	id string,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Delete",
		"trade_id": id,
	}).Debug("Deleting trade")

	err := r.db.WithContext(ctx).Delete(&model.Trade{}, "id = ?", id).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Delete",
			"trade_id": id,
		}).WithError(err).Error("Failed to delete trade")

		return err
	}

	return nil
}

// BulkDeleteByAccount removes every trade of an account and returns the
// number of rows deleted.
func (r *TradeRepository) BulkDeleteByAccount(
	ctx context.Context,
	accountID uint,
) (int64, error) {

	logger.WithFields(map[string]interface{}{
		"repo":       "TradeRepository",
		"op":         "BulkDeleteByAccount",
		"account_id": accountID,
	}).Debug("Bulk deleting trades")

	res := r.db.WithContext(ctx).Delete(&model.Trade{}, "account_id = ?", accountID)
	if res.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "TradeRepository",
			"op":         "BulkDeleteByAccount",
			"account_id": accountID,
		}).WithError(res.Error).Error("Failed to bulk delete trades")

		return 0, res.Error
	}

	logger.WithFields(map[string]interface{}{
		"repo":         "TradeRepository",
		"op":           "BulkDeleteByAccount",
		"account_id":   accountID,
		"rows_deleted": res.RowsAffected,
	}).Info("Trades bulk deleted")

	return res.RowsAffected, nil
}

// FindByID fetches a single trade by its primary ID.
// Returns (nil, nil) if the trade is not found.
func (r *TradeRepository) FindByID(
	ctx context.Context,
	id string,
) (*model.Trade, error) {

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "FindByID",
		"trade_id": id,
	}).Debug("Fetching trade by ID")

	var trade model.Trade

	err := r.db.WithContext(ctx).
		First(&trade, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":     "TradeRepository",
				"op":       "FindByID",
				"trade_id": id,
			}).Info("Trade not found")

			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "FindByID",
			"trade_id": id,
		}).WithError(err).Error("Failed to fetch trade by ID")

		return nil, err
	}

	return &trade, nil
}

// FindByAccount returns all trades of an account, oldest entry first.
func (r *TradeRepository) FindByAccount(
	ctx context.Context,
	accountID uint,
) ([]model.Trade, error) {

	logger.WithFields(map[string]interface{}{
		"repo":       "TradeRepository",
		"op":         "FindByAccount",
		"account_id": accountID,
	}).Debug("Fetching trades by account")

	var trades []model.Trade

	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("entry_date ASC, id ASC").
		Find(&trades).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "TradeRepository",
			"op":         "FindByAccount",
			"account_id": accountID,
		}).WithError(err).Error("Failed to fetch trades by account")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "TradeRepository",
		"op":          "FindByAccount",
		"account_id":  accountID,
		"rows_return": len(trades),
	}).Info("Trades fetched")

	return trades, nil
}

// ClosedByAccount returns the account's closed trades (exit price present),
// oldest entry first. Used by the balance reconciler and analysis endpoints.
func (r *TradeRepository) ClosedByAccount(
	ctx context.Context,
	accountID uint,
) ([]model.Trade, error) {

	logger.WithFields(map[string]interface{}{
		"repo":       "TradeRepository",
		"op":         "ClosedByAccount",
		"account_id": accountID,
	}).Debug("Fetching closed trades by account")

	var trades []model.Trade

	err := r.db.WithContext(ctx).
		Where("account_id = ? AND exit_price IS NOT NULL", accountID).
		Order("entry_date ASC, id ASC").
		Find(&trades).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "TradeRepository",
			"op":         "ClosedByAccount",
			"account_id": accountID,
		}).WithError(err).Error("Failed to fetch closed trades by account")

		return nil, err
	}

	return trades, nil
}
