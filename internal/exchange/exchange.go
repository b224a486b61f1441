// Package exchange converts coins into points.
package exchange

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/ledger"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage"
)

type Options struct {
	// CreditPoints also records an earned entry on the points ledger.
	CreditPoints bool
}

type Engine struct {
	store  storage.Store
	coins  *ledger.Account
	points *ledger.Account
	opts   Options
	now    func() time.Time
}

func New(store storage.Store, opts Options, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:  store,
		coins:  ledger.New(store, models.CurrencyCoins, now),
		points: ledger.New(store, models.CurrencyPoints, now),
		opts:   opts,
		now:    now,
	}
}

// ExchangeToPoints debits coinAmount coins and records the conversion at rate.
// The point amount is floor(coinAmount * rate).
func (e *Engine) ExchangeToPoints(ctx context.Context, coinAmount int64, rate float64) (models.ExchangeResult, error) {
	if coinAmount <= 0 {
		return models.ExchangeResult{}, apperrors.InvalidInputf("coin amount must be positive, got %d", coinAmount)
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return models.ExchangeResult{}, apperrors.InvalidInputf("exchange rate must be positive, got %v", rate)
	}

	pointAmount := int64(math.Floor(float64(coinAmount) * rate))
	var result models.ExchangeResult
	err := e.store.Atomic(ctx, func(q storage.Querier) error {
		balance, err := q.LockLedger(ctx, models.CurrencyCoins)
		if err != nil {
			return err
		}
		if coinAmount > balance {
			return apperrors.PreconditionFailedf("insufficient coins: have %d, need %d", balance, coinAmount)
		}

		desc := fmt.Sprintf("exchanged %d coins for %d points", coinAmount, pointAmount)
		debit, err := e.coins.Append(ctx, q, coinAmount, models.KindExchange, models.CategoryOther, desc)
		if err != nil {
			return err
		}

		rec := models.ExchangeRecord{
			ID:           uuid.NewString(),
			FromCurrency: models.CurrencyCoins,
			ToCurrency:   models.CurrencyPoints,
			FromAmount:   coinAmount,
			ToAmount:     pointAmount,
			ExchangeRate: rate,
			Description:  desc,
			CreatedAt:    e.now(),
		}
		if err := q.AddExchangeRecord(ctx, rec); err != nil {
			return err
		}

		result = models.ExchangeResult{Debit: debit, Record: rec, PointAmount: pointAmount}
		if e.opts.CreditPoints {
			credit, err := e.points.Append(ctx, q, pointAmount, models.KindEarned, models.CategoryOther, desc)
			if err != nil {
				return err
			}
			result.Credit = &credit
		}
		return nil
	})
	if err != nil {
		return models.ExchangeResult{}, err
	}
	logger.Info("Exchanged coins", "coins", coinAmount, "points", pointAmount, "rate", rate, "credited", e.opts.CreditPoints)
	return result, nil
}

// List returns exchange records newest first.
func (e *Engine) List(ctx context.Context, limit int) ([]models.ExchangeRecord, error) {
	if limit <= 0 {
		limit = constants.DefaultExchangeLimit
	}
	return e.store.ListExchangeRecords(ctx, limit)
}

// Record stores a manual exchange record without touching either ledger.
func (e *Engine) Record(ctx context.Context, rec models.ExchangeRecord) (models.ExchangeRecord, error) {
	if !rec.FromCurrency.Valid() || !rec.ToCurrency.Valid() {
		return models.ExchangeRecord{}, apperrors.InvalidInputf("unknown currency pair %q -> %q", rec.FromCurrency, rec.ToCurrency)
	}
	if rec.FromAmount <= 0 || rec.ToAmount < 0 {
		return models.ExchangeRecord{}, apperrors.InvalidInputf("amounts must be positive")
	}
	if rec.ExchangeRate <= 0 {
		rec.ExchangeRate = constants.DefaultExchangeRate
	}
	rec.ID = uuid.NewString()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = e.now()
	}
	if err := e.store.AddExchangeRecord(ctx, rec); err != nil {
		return models.ExchangeRecord{}, err
	}
	return rec, nil
}
