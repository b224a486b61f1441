package exchange

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/ledger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage/sqlstore"
	"github.com/julianstephens/lifequest/internal/storage/storagetest"
)

func fixedNow() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }

func seedCoins(t *testing.T, store *sqlstore.Store, amount int64) {
	t.Helper()
	_, err := ledger.New(store, models.CurrencyCoins, fixedNow).
		Record(context.Background(), amount, models.KindEarned, models.CategoryDailyLogin, "")
	if err != nil {
		t.Fatalf("seed coins: %v", err)
	}
}

func TestExchangeToPoints(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	seedCoins(t, store, 100)
	engine := New(store, Options{}, fixedNow)

	res, err := engine.ExchangeToPoints(ctx, 25, 1.5)
	if err != nil {
		t.Fatalf("ExchangeToPoints() error = %v", err)
	}
	if res.PointAmount != 37 {
		t.Errorf("PointAmount = %d, want 37", res.PointAmount)
	}
	if res.Debit.Kind != models.KindExchange || res.Debit.Category != models.CategoryOther || res.Debit.BalanceAfter != 75 {
		t.Errorf("debit = %+v", res.Debit)
	}
	if res.Record.FromAmount != 25 || res.Record.ToAmount != 37 || res.Record.ExchangeRate != 1.5 {
		t.Errorf("record = %+v", res.Record)
	}
	if res.Credit != nil {
		t.Error("points should not be credited by default")
	}

	points, _ := store.LedgerBalance(ctx, models.CurrencyPoints)
	if points != 0 {
		t.Errorf("points balance = %d, want 0", points)
	}
	records, err := engine.List(ctx, 0)
	if err != nil || len(records) != 1 {
		t.Errorf("List() = %v, %v", records, err)
	}
}

func TestExchangeCreditsPointsWhenEnabled(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	seedCoins(t, store, 10)
	engine := New(store, Options{CreditPoints: true}, fixedNow)

	res, err := engine.ExchangeToPoints(ctx, 10, 2)
	if err != nil {
		t.Fatalf("ExchangeToPoints() error = %v", err)
	}
	if res.Credit == nil || res.Credit.Amount != 20 || res.Credit.BalanceAfter != 20 {
		t.Errorf("credit = %+v", res.Credit)
	}
	coins, _ := store.LedgerBalance(ctx, models.CurrencyCoins)
	points, _ := store.LedgerBalance(ctx, models.CurrencyPoints)
	if coins != 0 || points != 20 {
		t.Errorf("balances coins=%d points=%d, want 0 and 20", coins, points)
	}
}

func TestExchangeRejections(t *testing.T) {
	ctx := context.Background()
	store := storagetest.New(t)
	seedCoins(t, store, 10)
	engine := New(store, Options{}, fixedNow)

	tests := []struct {
		name   string
		amount int64
		rate   float64
		check  func(error) bool
	}{
		{"zero amount", 0, 1, apperrors.IsInvalidInput},
		{"negative amount", -5, 1, apperrors.IsInvalidInput},
		{"zero rate", 5, 0, apperrors.IsInvalidInput},
		{"negative rate", 5, -1, apperrors.IsInvalidInput},
		{"more than balance", 11, 1, apperrors.IsPreconditionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.ExchangeToPoints(ctx, tt.amount, tt.rate)
			if !tt.check(err) {
				t.Errorf("ExchangeToPoints(%d, %v) error = %v", tt.amount, tt.rate, err)
			}
		})
	}

	coins, _ := store.LedgerBalance(ctx, models.CurrencyCoins)
	if coins != 10 {
		t.Errorf("coin balance changed to %d", coins)
	}
	records, _ := engine.List(ctx, 10)
	if len(records) != 0 {
		t.Errorf("rejected exchanges left %d records", len(records))
	}
}

func TestRecordManualExchange(t *testing.T) {
	ctx := context.Background()
	engine := New(storagetest.New(t), Options{}, fixedNow)

	rec, err := engine.Record(ctx, models.ExchangeRecord{
		FromCurrency: models.CurrencyCoins,
		ToCurrency:   models.CurrencyPoints,
		FromAmount:   4,
		ToAmount:     4,
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if rec.ID == "" || rec.ExchangeRate != 1.0 {
		t.Errorf("Record() = %+v", rec)
	}

	_, err = engine.Record(ctx, models.ExchangeRecord{FromCurrency: "gems", ToCurrency: models.CurrencyPoints, FromAmount: 1})
	if !apperrors.IsInvalidInput(err) {
		t.Errorf("Record(bad currency) error = %v, want invalid input", err)
	}
}
