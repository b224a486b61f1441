// Package app wires every lifequest service to one store.
package app

import (
	"time"

	"github.com/julianstephens/lifequest/internal/catalog"
	"github.com/julianstephens/lifequest/internal/config"
	"github.com/julianstephens/lifequest/internal/exchange"
	"github.com/julianstephens/lifequest/internal/goals"
	"github.com/julianstephens/lifequest/internal/ledger"
	"github.com/julianstephens/lifequest/internal/meals"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/scheduler"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/study"
	"github.com/julianstephens/lifequest/internal/tasks"
)

type App struct {
	Store    storage.Store
	Location *time.Location
	// ExchangeRate applies when a caller does not name one.
	ExchangeRate float64

	Points    *ledger.Account
	Coins     *ledger.Account
	CoinShop  *catalog.Catalog
	Rewards   *catalog.Catalog
	Exchange  *exchange.Engine
	Goals     *goals.Tracker
	Tasks     *tasks.Tracker
	Schedules *scheduler.Service
	Study     *study.Tracker
	Meals     *meals.Log
}

// New builds the services from cfg. A nil now uses the wall clock.
func New(store storage.Store, cfg config.Config, now func() time.Time) (*App, error) {
	if now == nil {
		now = time.Now
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	slots := scheduler.SlotOptions{
		WindowStart: cfg.Schedule.WindowStart,
		WindowEnd:   cfg.Schedule.WindowEnd,
		MinDuration: cfg.Schedule.MinDuration,
		MaxFatigue:  cfg.Schedule.MaxFatigue,
	}
	reminders := tasks.ReminderOptions{
		SleepTime: cfg.Reminders.SleepTime,
		LeadHours: cfg.Reminders.LeadHours,
	}

	return &App{
		Store:        store,
		Location:     loc,
		ExchangeRate: cfg.Exchange.DefaultRate,
		Points:       ledger.New(store, models.CurrencyPoints, now),
		Coins:        ledger.New(store, models.CurrencyCoins, now),
		CoinShop:     catalog.New(store, catalog.CoinShop, now),
		Rewards:      catalog.New(store, catalog.PointRewards, now),
		Exchange:     exchange.New(store, exchange.Options{CreditPoints: cfg.Exchange.CreditPoints}, now),
		Goals:        goals.New(store, now),
		Tasks:        tasks.New(store, reminders, loc, now),
		Schedules:    scheduler.NewService(store, slots, loc, now),
		Study:        study.New(store, now),
		Meals:        meals.New(store, now),
	}, nil
}

// Account returns the ledger for currency, or nil for an unknown one.
func (a *App) Account(currency models.Currency) *ledger.Account {
	switch currency {
	case models.CurrencyPoints:
		return a.Points
	case models.CurrencyCoins:
		return a.Coins
	}
	return nil
}
