package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tradejournal/src/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm over sqlmock: %v", err)
	}

	return gormDB, mock
}

func tradeRows(trades ...model.Trade) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "account_id", "symbol", "direction", "entry_price", "quantity", "entry_date"})
	for _, trade := range trades {
		rows.AddRow(trade.ID, trade.AccountID, trade.Symbol, trade.Direction, trade.EntryPrice, trade.Quantity, trade.EntryDate)
	}
	return rows
}

func TestTradeRepositoryClosedByAccount(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &TradeRepository{db: mockDB}

	entryDate := time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC)
	closed := model.Trade{
		ID: "5e0de63c-40dd-4e21-baf1-1e0d5a1d4b6e", AccountID: 1, Symbol: "AAPL",
		Direction: model.DirectionLong, EntryPrice: 100, Quantity: 10, EntryDate: entryDate,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE account_id = $1 AND exit_price IS NOT NULL ORDER BY entry_date ASC, id ASC`)).
		WithArgs(uint(1)).
		WillReturnRows(tradeRows(closed))

	results, err := repo.ClosedByAccount(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error fetching closed trades: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 closed trade, got %d", len(results))
	}
	if results[0].Symbol != "AAPL" {
		t.Fatalf("unexpected trade returned: %+v", results[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestTradeRepositoryFindByAccount(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &TradeRepository{db: mockDB}

	entryDate := time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC)
	first := model.Trade{ID: "a", AccountID: 2, Symbol: "MSFT", Direction: model.DirectionLong, EntryPrice: 400, Quantity: 5, EntryDate: entryDate}
	second := model.Trade{ID: "b", AccountID: 2, Symbol: "TSLA", Direction: model.DirectionShort, EntryPrice: 250, Quantity: 4, EntryDate: entryDate.Add(time.Hour)}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE account_id = $1 ORDER BY entry_date ASC, id ASC`)).
		WithArgs(uint(2)).
		WillReturnRows(tradeRows(first, second))

	results, err := repo.FindByAccount(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error fetching trades: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(results))
	}
	if results[0].Symbol != "MSFT" || results[1].Symbol != "TSLA" {
		t.Fatalf("trades not returned in expected order: %+v", results)
	}
}

func TestTradeRepositoryFindByIDNotFound(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &TradeRepository{db: mockDB}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE id = $1 ORDER BY "trades"."id" LIMIT $2`)).
		WithArgs("missing", 1).
		WillReturnRows(tradeRows())

	trade, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("not-found must not be an error: %v", err)
	}
	if trade != nil {
		t.Fatalf("expected nil trade for not-found, got %+v", trade)
	}
}

func TestTradeRepositoryCreateAssignsID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &TradeRepository{db: mockDB}

	trade := model.Trade{
		AccountID:  1,
		Symbol:     "AAPL",
		Direction:  model.DirectionLong,
		EntryPrice: 100,
		Quantity:   10,
		EntryDate:  time.Date(2025, 2, 3, 9, 30, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "trades"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), &trade); err != nil {
		t.Fatalf("unexpected error creating trade: %v", err)
	}

	if trade.ID == "" {
		t.Fatalf("expected a generated UUID on create")
	}
}

func TestAccountRepositoryUpdateBalance(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &AccountRepository{db: mockDB}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "current_balance"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(10500.0, sqlmock.AnyArg(), uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.UpdateBalance(context.Background(), 7, 10500); err != nil {
		t.Fatalf("unexpected error updating balance: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
