package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/database"
	"tradejournal/src/model"
)

// AccountRepository handles read/write operations for trading accounts.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new repository instance using the main read/write database.
func NewAccountRepository() *AccountRepository {
	logger.WithField("component", "AccountRepository").
		Info("Creating new AccountRepository with MainDB")

	return &AccountRepository{
		db: database.MainDB,
	}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *AccountRepository) WithDB(db *gorm.DB) *AccountRepository {
	logger.WithField("component", "AccountRepository").
		Debug("Creating AccountRepository with custom DB instance")

	return &AccountRepository{db: db}
}

// Create inserts a new account.
func (r *AccountRepository) Create(
	ctx context.Context,
	account *model.Account,
) error {

	logger.WithFields(map[string]interface{}{
		"repo": "AccountRepository",
		"op":   "Create",
		"name": account.Name,
	}).Debug("Creating new account")

	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "AccountRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create account")

		return err
	}

	return nil
}

// FindByID fetches a single account by its primary ID.
// Returns (nil, nil) if the account is not found.
func (r *AccountRepository) FindByID(
	ctx context.Context,
	id uint,
) (*model.Account, error) {

	logger.WithFields(map[string]interface{}{
		"repo":       "AccountRepository",
		"op":         "FindByID",
		"account_id": id,
	}).Debug("Fetching account by ID")

	var account model.Account

	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":       "AccountRepository",
				"op":         "FindByID",
				"account_id": id,
			}).Info("Account not found")

			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":       "AccountRepository",
			"op":         "FindByID",
			"account_id": id,
		}).WithError(err).Error("Failed to fetch account by ID")

		return nil, err
	}

	return &account, nil
}

// FindAllIDs returns the IDs of every account. Used by the CLI to run a
// full reconciliation pass.
func (r *AccountRepository) FindAllIDs(
	ctx context.Context,
) ([]uint, error) {

	var ids []uint

	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Order("id ASC").
		Pluck("id", &ids).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "AccountRepository",
			"op":   "FindAllIDs",
		}).WithError(err).Error("Failed to list account IDs")

		return nil, err
	}

	return ids, nil
}

// UpdateBalance writes the recomputed running balance of an account.
func (r *AccountRepository) UpdateBalance(
	ctx context.Context,
	id uint,
	balance float64,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":       "AccountRepository",
		"op":         "UpdateBalance",
		"account_id": id,
		"balance":    balance,
	}).Debug("Updating account balance")

	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("current_balance", balance).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "AccountRepository",
			"op":         "UpdateBalance",
			"account_id": id,
		}).WithError(err).Error("Failed to update account balance")

		return err
	}

	return nil
}
