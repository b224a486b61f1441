package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/storage/sqlstore"
	"github.com/julianstephens/lifequest/internal/storage/storagetest"
)

func newMockStore(t *testing.T) (*sqlstore.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlstore.New(sqlx.NewDb(db, "sqlmock"), sqlstore.SQLite, "mock"), mock
}

func TestAtomicCommits(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO exchange_records").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.Atomic(context.Background(), func(q storage.Querier) error {
		return q.AddExchangeRecord(context.Background(), models.ExchangeRecord{ID: "x1", CreatedAt: time.Now()})
	})
	if err != nil {
		t.Fatalf("Atomic() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAtomicRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE ledger_accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := store.Atomic(context.Background(), func(q storage.Querier) error {
		if err := q.SetLedgerBalance(context.Background(), models.CurrencyCoins, 10, time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Atomic() error = %v, want %v", err, boom)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLedgerSequenceOrdering(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		e := models.LedgerEntry{
			ID: id, Currency: models.CurrencyPoints, Amount: int64(i + 1),
			Kind: models.KindEarned, Category: models.CategoryOther, CreatedAt: at,
		}
		if err := store.AddLedgerEntry(ctx, &e); err != nil {
			t.Fatalf("AddLedgerEntry() error = %v", err)
		}
		if e.Seq != int64(i+1) {
			t.Errorf("entry %s seq = %d, want %d", id, e.Seq, i+1)
		}
	}

	got, err := store.ListLedgerEntries(ctx, models.LedgerFilter{Currency: models.CurrencyPoints, Limit: 2})
	if err != nil {
		t.Fatalf("ListLedgerEntries() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("ListLedgerEntries() newest first = %+v", got)
	}

	coins, err := store.ListLedgerEntries(ctx, models.LedgerFilter{Currency: models.CurrencyCoins})
	if err != nil {
		t.Fatalf("ListLedgerEntries(coins) error = %v", err)
	}
	if len(coins) != 0 {
		t.Errorf("coin ledger should be empty, got %d entries", len(coins))
	}
}

func TestMissingRecordsAreNotFound(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)

	checks := map[string]error{
		"GetGoal":        func() error { _, err := store.GetGoal(ctx, "missing"); return err }(),
		"GetShopItem":    func() error { _, err := store.GetShopItem(ctx, models.CatalogCoinShop, "missing"); return err }(),
		"DeleteTask":     store.DeleteTask(ctx, "missing"),
		"UpdateSchedule": store.UpdateSchedule(ctx, models.Schedule{ID: "missing"}),
		"GetLedgerEntry": func() error { _, err := store.GetLedgerEntry(ctx, models.CurrencyCoins, "missing"); return err }(),
	}
	for name, err := range checks {
		if !apperrors.IsNotFound(err) {
			t.Errorf("%s error = %v, want not found", name, err)
		}
	}
}

func TestListSchedulesOverlap(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	day := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	add := func(id string, start, end time.Time) {
		t.Helper()
		err := store.AddSchedule(ctx, models.Schedule{
			ID: id, Title: id, StartTime: start, EndTime: end, Type: models.ScheduleFixed,
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("AddSchedule(%s) error = %v", id, err)
		}
	}
	add("yesterday", day.Add(-5*time.Hour), day.Add(-4*time.Hour))
	add("overnight", day.Add(-1*time.Hour), day.Add(1*time.Hour))
	add("morning", day.Add(9*time.Hour), day.Add(10*time.Hour))
	add("tomorrow", day.Add(24*time.Hour), day.Add(25*time.Hour))

	from, to := day, day.Add(24*time.Hour)
	got, err := store.ListSchedules(ctx, models.ScheduleFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("ListSchedules() error = %v", err)
	}
	var ids []string
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	if len(ids) != 2 || ids[0] != "overnight" || ids[1] != "morning" {
		t.Errorf("ListSchedules() ids = %v, want [overnight morning]", ids)
	}
}

func TestResetDailyTasks(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	now := time.Now()

	for _, task := range []models.Task{
		{ID: "d1", Title: "stretch", Type: models.TaskTypeDaily, Completed: true, CompletedAt: &now},
		{ID: "d2", Title: "read", Type: models.TaskTypeDaily},
		{ID: "n1", Title: "taxes", Type: models.TaskTypeNormal, Completed: true, CompletedAt: &now},
	} {
		task.CreatedAt, task.UpdatedAt = now, now
		if err := store.AddTask(ctx, task); err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
	}

	n, err := store.ResetDailyTasks(ctx, now)
	if err != nil {
		t.Fatalf("ResetDailyTasks() error = %v", err)
	}
	if n != 1 {
		t.Errorf("ResetDailyTasks() reset %d, want 1", n)
	}

	d1, _ := store.GetTask(ctx, "d1")
	if d1.Completed || d1.CompletedAt != nil {
		t.Errorf("daily task still completed: %+v", d1)
	}
	n1, _ := store.GetTask(ctx, "n1")
	if !n1.Completed {
		t.Error("normal task should stay completed")
	}
}
