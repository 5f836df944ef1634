package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"tradejournal/src/model"
	"tradejournal/src/repository"

	logger "github.com/sirupsen/logrus"
)

type accountCreator interface {
	Create(ctx context.Context, account *model.Account) error
}

type accountFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Account, error)
}

// CreateAccountHandler returns a handler that opens a new journal account.
// The current balance starts at the initial balance.
func CreateAccountHandler(repo accountCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var account model.Account
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&account); err != nil {
			logger.WithError(err).Warn("invalid account payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if account.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		account.ID = 0
		account.CurrentBalance = account.InitialBalance

		if err := repo.Create(r.Context(), &account); err != nil {
			logger.WithError(err).Error("failed to create account")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, account)
	}
}

// GetAccountHandler returns a handler that serves a single account, including
// its reconciled balance.
func GetAccountHandler(repo accountFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := parseAccountID(r)
		if !ok {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		account, err := repo.FindByID(r.Context(), accountID)
		if err != nil {
			logger.WithError(err).Error("failed to load account")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if account == nil {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, account)
	}
}

// DefaultCreateAccountHandler wires the handler to the production repository.
func DefaultCreateAccountHandler() http.HandlerFunc {
	return CreateAccountHandler(repository.NewAccountRepository())
}

// DefaultGetAccountHandler wires the handler to the production repository.
func DefaultGetAccountHandler() http.HandlerFunc {
	return GetAccountHandler(repository.NewAccountRepository())
}
