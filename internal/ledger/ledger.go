// Package ledger keeps the append-only transaction logs for points and coins.
//
// Each currency has a sequence of entries whose balance_after values form a
// running sum. The current balance is kept redundantly on the account row and
// is updated in the same atomic unit as every entry mutation.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifequest/internal/constants"
	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage"
	"github.com/julianstephens/lifequest/internal/utils"
)

// Account is the ledger of a single currency.
type Account struct {
	store    storage.Store
	currency models.Currency
	now      func() time.Time
}

// New returns the account for currency. A nil clock defaults to time.Now.
func New(store storage.Store, currency models.Currency, now func() time.Time) *Account {
	if now == nil {
		now = time.Now
	}
	return &Account{store: store, currency: currency, now: now}
}

func (a *Account) Currency() models.Currency { return a.currency }

// CurrentBalance reads the account balance.
func (a *Account) CurrentBalance(ctx context.Context) (int64, error) {
	return a.store.LedgerBalance(ctx, a.currency)
}

// Record appends an entry in its own atomic unit.
func (a *Account) Record(ctx context.Context, amount int64, kind models.EntryKind, category models.Category, description string) (models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := a.store.Atomic(ctx, func(q storage.Querier) error {
		var err error
		entry, err = a.Append(ctx, q, amount, kind, category, description)
		return err
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	logger.Debug("Recorded ledger entry", "currency", a.currency, "kind", kind, "amount", amount, "balance", entry.BalanceAfter)
	return entry, nil
}

// Append writes an entry through q, which must be the Querier of an open
// atomic unit. Callers that debit the ledger as part of a larger operation use
// it so the entry commits or rolls back with the rest of their writes.
func (a *Account) Append(ctx context.Context, q storage.Querier, amount int64, kind models.EntryKind, category models.Category, description string) (models.LedgerEntry, error) {
	if err := a.validate(amount, kind, category); err != nil {
		return models.LedgerEntry{}, err
	}

	balance, err := q.LockLedger(ctx, a.currency)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	now := a.now()
	entry := models.LedgerEntry{
		ID:          uuid.NewString(),
		Currency:    a.currency,
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Description: description,
		CreatedAt:   now,
	}
	entry.BalanceAfter = balance + entry.Delta()

	if err := q.AddLedgerEntry(ctx, &entry); err != nil {
		return models.LedgerEntry{}, err
	}
	if err := q.SetLedgerBalance(ctx, a.currency, entry.BalanceAfter, now); err != nil {
		return models.LedgerEntry{}, err
	}
	return entry, nil
}

// Get returns one entry.
func (a *Account) Get(ctx context.Context, id string) (models.LedgerEntry, error) {
	return a.store.GetLedgerEntry(ctx, a.currency, id)
}

// Edit applies upd to an entry. The entry's balance_after is recomputed from
// its predecessor unless upd sets it explicitly, and every later entry is
// recomputed from there.
func (a *Account) Edit(ctx context.Context, id string, upd models.EntryUpdate) (models.LedgerEntry, error) {
	var edited models.LedgerEntry
	err := a.store.Atomic(ctx, func(q storage.Querier) error {
		if _, err := q.LockLedger(ctx, a.currency); err != nil {
			return err
		}
		entry, err := q.GetLedgerEntry(ctx, a.currency, id)
		if err != nil {
			return err
		}

		if upd.Amount != nil {
			entry.Amount = *upd.Amount
		}
		if upd.Kind != nil {
			entry.Kind = *upd.Kind
		}
		if upd.Category != nil {
			entry.Category = *upd.Category
		}
		if upd.Description != nil {
			entry.Description = *upd.Description
		}
		if err := a.validate(entry.Amount, entry.Kind, entry.Category); err != nil {
			return err
		}

		if upd.BalanceAfter != nil {
			entry.BalanceAfter = *upd.BalanceAfter
		} else {
			prev, err := balanceBefore(ctx, q, a.currency, entry.Seq)
			if err != nil {
				return err
			}
			entry.BalanceAfter = prev + entry.Delta()
		}

		if err := q.UpdateLedgerEntry(ctx, entry); err != nil {
			return err
		}
		edited = entry
		return a.recompute(ctx, q, entry.Seq+1, entry.BalanceAfter)
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	logger.Info("Edited ledger entry", "currency", a.currency, "id", id)
	return edited, nil
}

// Remove deletes an entry and recomputes every later one.
func (a *Account) Remove(ctx context.Context, id string) error {
	err := a.store.Atomic(ctx, func(q storage.Querier) error {
		if _, err := q.LockLedger(ctx, a.currency); err != nil {
			return err
		}
		entry, err := q.GetLedgerEntry(ctx, a.currency, id)
		if err != nil {
			return err
		}
		prev, err := balanceBefore(ctx, q, a.currency, entry.Seq)
		if err != nil {
			return err
		}
		if err := q.DeleteLedgerEntry(ctx, a.currency, id); err != nil {
			return err
		}
		return a.recompute(ctx, q, entry.Seq+1, prev)
	})
	if err != nil {
		return err
	}
	logger.Info("Removed ledger entry", "currency", a.currency, "id", id)
	return nil
}

// History lists entries newest first. Empty kind or category matches all.
func (a *Account) History(ctx context.Context, kind models.EntryKind, category models.Category, limit int) ([]models.LedgerEntry, error) {
	if kind != "" && !a.currency.AllowsKind(kind) {
		return nil, apperrors.InvalidInputf("kind %q is not valid for %s", kind, a.currency)
	}
	if category != "" && !a.currency.AllowsCategory(category) {
		return nil, apperrors.InvalidInputf("category %q is not valid for %s", category, a.currency)
	}
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	return a.store.ListLedgerEntries(ctx, models.LedgerFilter{
		Currency: a.currency,
		Kind:     kind,
		Category: category,
		Limit:    limit,
	})
}

// Statistics aggregates entries created within the last windowDays and within
// the current calendar month.
func (a *Account) Statistics(ctx context.Context, windowDays int) (models.LedgerStats, error) {
	if windowDays <= 0 {
		windowDays = constants.DefaultStatsWindow
	}
	now := a.now()
	windowStart := now.AddDate(0, 0, -windowDays)
	monthStart := utils.StartOfMonth(now)

	since := windowStart
	if monthStart.Before(since) {
		since = monthStart
	}
	entries, err := a.store.ListLedgerEntries(ctx, models.LedgerFilter{
		Currency:  a.currency,
		Since:     &since,
		Ascending: true,
	})
	if err != nil {
		return models.LedgerStats{}, err
	}
	balance, err := a.CurrentBalance(ctx)
	if err != nil {
		return models.LedgerStats{}, err
	}

	stats := models.LedgerStats{
		Currency:       a.currency,
		WindowDays:     windowDays,
		CurrentBalance: balance,
		Window:         newPeriodTotals(),
		ThisMonth:      newPeriodTotals(),
	}
	earnedBy := make(map[models.Category]int64)
	for _, e := range entries {
		if !e.CreatedAt.Before(windowStart) {
			stats.Window.Add(e)
			if e.Kind == models.KindEarned {
				earnedBy[e.Category] += e.Amount
			}
		}
		if !e.CreatedAt.Before(monthStart) {
			stats.ThisMonth.Add(e)
		}
	}
	stats.TopEarnCategories = topCategories(earnedBy, constants.TopCategoryCount)
	return stats, nil
}

func (a *Account) validate(amount int64, kind models.EntryKind, category models.Category) error {
	if !a.currency.Valid() {
		return apperrors.InvalidInputf("unknown currency %q", a.currency)
	}
	if amount < 0 {
		return apperrors.InvalidInputf("amount must be non-negative, got %d", amount)
	}
	if !a.currency.AllowsKind(kind) {
		return apperrors.InvalidInputf("kind %q is not valid for %s", kind, a.currency)
	}
	if !a.currency.AllowsCategory(category) {
		return apperrors.InvalidInputf("category %q is not valid for %s", category, a.currency)
	}
	return nil
}

// recompute rewrites balance_after for entries with seq >= fromSeq, starting
// from running, and stores the final value on the account.
func (a *Account) recompute(ctx context.Context, q storage.Querier, fromSeq, running int64) error {
	later, err := q.ListLedgerEntries(ctx, models.LedgerFilter{
		Currency:  a.currency,
		FromSeq:   fromSeq,
		Ascending: true,
	})
	if err != nil {
		return err
	}
	for _, e := range later {
		running += e.Delta()
		if e.BalanceAfter == running {
			continue
		}
		e.BalanceAfter = running
		if err := q.UpdateLedgerEntry(ctx, e); err != nil {
			return fmt.Errorf("failed to recompute entry %s: %w", e.ID, err)
		}
	}
	return q.SetLedgerBalance(ctx, a.currency, running, a.now())
}

// balanceBefore is the balance_after of the entry preceding seq, or 0.
func balanceBefore(ctx context.Context, q storage.Querier, currency models.Currency, seq int64) (int64, error) {
	prev, err := q.ListLedgerEntries(ctx, models.LedgerFilter{
		Currency:  currency,
		BeforeSeq: seq,
		Limit:     1,
	})
	if err != nil {
		return 0, err
	}
	if len(prev) == 0 {
		return 0, nil
	}
	return prev[0].BalanceAfter, nil
}

func newPeriodTotals() models.PeriodTotals {
	return models.PeriodTotals{ByKind: make(map[models.EntryKind]int64)}
}

func topCategories(totals map[models.Category]int64, n int) []models.CategoryTotal {
	out := make([]models.CategoryTotal, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, models.CategoryTotal{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
