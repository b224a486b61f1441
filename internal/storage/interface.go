package storage

import (
	"context"
	"time"

	"github.com/julianstephens/lifequest/internal/models"
)

// Querier is the record-level read/write surface. It is satisfied both by a
// store and by the transactional view handed to Atomic callbacks.
type Querier interface {
	// Ledger
	LedgerBalance(ctx context.Context, currency models.Currency) (int64, error)
	// LockLedger reads the balance and holds a write lock on the account row
	// until the surrounding unit ends, where the backend supports it.
	LockLedger(ctx context.Context, currency models.Currency) (int64, error)
	SetLedgerBalance(ctx context.Context, currency models.Currency, balance int64, at time.Time) error
	AddLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
	GetLedgerEntry(ctx context.Context, currency models.Currency, id string) (models.LedgerEntry, error)
	ListLedgerEntries(ctx context.Context, filter models.LedgerFilter) ([]models.LedgerEntry, error)
	UpdateLedgerEntry(ctx context.Context, entry models.LedgerEntry) error
	DeleteLedgerEntry(ctx context.Context, currency models.Currency, id string) error

	// Goals
	AddGoal(ctx context.Context, goal models.Goal) error
	GetGoal(ctx context.Context, id string) (models.Goal, error)
	ListGoals(ctx context.Context, currency models.Currency, completed *bool) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, goal models.Goal) error
	DeleteGoal(ctx context.Context, id string) error

	// Catalogs
	AddShopItem(ctx context.Context, item models.ShopItem) error
	GetShopItem(ctx context.Context, catalog models.CatalogName, id string) (models.ShopItem, error)
	ListShopItems(ctx context.Context, catalog models.CatalogName, available *bool) ([]models.ShopItem, error)
	UpdateShopItem(ctx context.Context, item models.ShopItem) error
	DeleteShopItem(ctx context.Context, catalog models.CatalogName, id string) error

	// Exchange
	AddExchangeRecord(ctx context.Context, rec models.ExchangeRecord) error
	ListExchangeRecords(ctx context.Context, limit int) ([]models.ExchangeRecord, error)

	// Tasks
	AddTask(ctx context.Context, task models.Task) error
	GetTask(ctx context.Context, id string) (models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) error
	DeleteTask(ctx context.Context, id string) error
	ResetDailyTasks(ctx context.Context, at time.Time) (int64, error)

	// Schedules
	AddSchedule(ctx context.Context, s models.Schedule) error
	GetSchedule(ctx context.Context, id string) (models.Schedule, error)
	ListSchedules(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
	UpdateSchedule(ctx context.Context, s models.Schedule) error
	DeleteSchedule(ctx context.Context, id string) error

	// Study
	AddStudyItem(ctx context.Context, item models.StudyItem) error
	GetStudyItem(ctx context.Context, id string) (models.StudyItem, error)
	ListStudyItems(ctx context.Context, filter models.StudyFilter) ([]models.StudyItem, error)
	UpdateStudyItem(ctx context.Context, item models.StudyItem) error
	DeleteStudyItem(ctx context.Context, id string) error

	// Timetable
	AddTimetableEntry(ctx context.Context, e models.TimetableEntry) error
	GetTimetableEntry(ctx context.Context, id string) (models.TimetableEntry, error)
	ListTimetable(ctx context.Context, dayOfWeek *int) ([]models.TimetableEntry, error)
	UpdateTimetableEntry(ctx context.Context, e models.TimetableEntry) error
	DeleteTimetableEntry(ctx context.Context, id string) error

	// Meals
	AddMeal(ctx context.Context, meal models.Meal) error
	GetMeal(ctx context.Context, id string) (models.Meal, error)
	ListMeals(ctx context.Context, filter models.MealFilter) ([]models.Meal, error)
	UpdateMeal(ctx context.Context, meal models.Meal) error
	DeleteMeal(ctx context.Context, id string) error
	AddMealHistory(ctx context.Context, entry models.MealHistoryEntry) error
	ListMealHistory(ctx context.Context, since time.Time, limit int) ([]models.MealHistoryEntry, error)
}

// Store is a Querier with lifecycle management and an atomic unit of work.
type Store interface {
	Querier

	// Atomic runs fn inside a transaction. It commits when fn returns nil and
	// rolls back otherwise. Calls must not be nested.
	Atomic(ctx context.Context, fn func(q Querier) error) error

	Ping(ctx context.Context) error
	Close() error
	// Location is the database path or the redacted connection string
	Location() string
	// Dialect is "sqlite" or "postgres"
	Dialect() string
}
