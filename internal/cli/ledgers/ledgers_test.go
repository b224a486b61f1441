package ledgers

import (
	"testing"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/cli/clitest"
	"github.com/julianstephens/lifequest/internal/models"
)

func balance(t *testing.T, ctx *cli.Context, currency models.Currency) int64 {
	t.Helper()
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	b, err := a.Account(currency).CurrentBalance(ctx.Context())
	if err != nil {
		t.Fatalf("failed to read %s balance: %v", currency, err)
	}
	return b
}

func record[C Currency](t *testing.T, ctx *cli.Context, amount int64, kind, category string) models.LedgerEntry {
	t.Helper()
	cmd := &RecordCmd[C]{Amount: amount, Kind: kind, Category: category}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("record %d %s failed: %v", amount, kind, err)
	}
	acct, err := account[C](ctx)
	if err != nil {
		t.Fatalf("failed to open account: %v", err)
	}
	entries, err := acct.History(ctx.Context(), "", "", 1)
	if err != nil || len(entries) == 0 {
		t.Fatalf("recorded entry not found: %v", err)
	}
	return entries[0]
}

func TestRecordAndBalance(t *testing.T) {
	ctx := clitest.Initialized(t)

	record[Points](t, ctx, 30, "earned", "task_completion")
	record[Points](t, ctx, 5, "penalty", "other")

	if got := balance(t, ctx, models.CurrencyPoints); got != 25 {
		t.Errorf("points balance = %d, want 25", got)
	}
	if got := balance(t, ctx, models.CurrencyCoins); got != 0 {
		t.Errorf("coins balance = %d, want 0", got)
	}

	for name, cmd := range map[string]interface{ Run(*cli.Context) error }{
		"balance": &BalanceCmd[Points]{},
		"history": &HistoryCmd[Points]{Limit: 20},
		"stats":   &StatsCmd[Points]{Days: 30},
	} {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("%s failed: %v", name, err)
		}
	}
}

func TestRecordRejectsForeignCategory(t *testing.T) {
	ctx := clitest.Initialized(t)

	cmd := &RecordCmd[Coins]{Amount: 10, Kind: "earned", Category: string(models.CategoryExercise)}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected coins to reject the exercise category")
	}
	cmd = &RecordCmd[Coins]{Amount: 10, Kind: "exchange", Category: "other"}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("coins should accept exchange entries: %v", err)
	}
}

func TestEditRecomputesLaterBalances(t *testing.T) {
	ctx := clitest.Initialized(t)

	first := record[Coins](t, ctx, 10, "earned", "daily_login")
	record[Coins](t, ctx, 20, "earned", "daily_login")

	amount := int64(5)
	if err := (&EditCmd[Coins]{ID: first.ID, Amount: &amount}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if got := balance(t, ctx, models.CurrencyCoins); got != 25 {
		t.Errorf("coins balance after edit = %d, want 25", got)
	}
}

func TestRemoveWithYes(t *testing.T) {
	ctx := clitest.Initialized(t)

	first := record[Points](t, ctx, 10, "earned", "other")
	record[Points](t, ctx, 7, "bonus", "other")

	if err := (&RemoveCmd[Points]{ID: first.ID, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if got := balance(t, ctx, models.CurrencyPoints); got != 7 {
		t.Errorf("points balance after remove = %d, want 7", got)
	}
	if err := (&RemoveCmd[Points]{ID: first.ID, Yes: true}).Run(ctx); err == nil {
		t.Error("expected removing a missing entry to fail")
	}
}

func TestExchangeConvert(t *testing.T) {
	ctx := clitest.Initialized(t)
	ctx.Config.Exchange.CreditPoints = true
	// Reopen so the services pick up the changed config.
	if err := ctx.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	record[Coins](t, ctx, 100, "earned", "other")

	rate := 2.5
	if err := (&ExchangeConvertCmd{Coins: 30, Rate: &rate, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if got := balance(t, ctx, models.CurrencyCoins); got != 70 {
		t.Errorf("coins balance = %d, want 70", got)
	}
	if got := balance(t, ctx, models.CurrencyPoints); got != 75 {
		t.Errorf("points balance = %d, want 75", got)
	}
	if err := (&ExchangeHistoryCmd{Limit: 10}).Run(ctx); err != nil {
		t.Errorf("exchange history failed: %v", err)
	}
}

func TestExchangeInsufficientCoins(t *testing.T) {
	ctx := clitest.Initialized(t)
	record[Coins](t, ctx, 10, "earned", "other")

	if err := (&ExchangeConvertCmd{Coins: 11, Yes: true}).Run(ctx); err == nil {
		t.Error("expected exchange beyond the balance to fail")
	}
	if got := balance(t, ctx, models.CurrencyCoins); got != 10 {
		t.Errorf("coins balance = %d, want 10", got)
	}
}

func TestGoalCommands(t *testing.T) {
	ctx := clitest.Initialized(t)

	if err := (&GoalAddCmd{Title: "New bike", Target: 500, Currency: "coins"}).Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	goals, err := a.Goals.List(ctx.Context(), models.CurrencyCoins, nil)
	if err != nil || len(goals) != 1 {
		t.Fatalf("goals = %v, %v; want one coins goal", goals, err)
	}

	current := int64(250)
	if err := (&GoalUpdateCmd{ID: goals[0].ID, Current: &current}).Run(ctx); err != nil {
		t.Fatalf("goal update failed: %v", err)
	}
	g, err := a.Goals.Get(ctx.Context(), goals[0].ID)
	if err != nil {
		t.Fatalf("goal get failed: %v", err)
	}
	if g.Progress() != 50 {
		t.Errorf("progress = %.1f, want 50", g.Progress())
	}

	if err := (&GoalListCmd{}).Run(ctx); err != nil {
		t.Errorf("goal list failed: %v", err)
	}
	if err := (&GoalListCmd{Currency: "gems"}).Run(ctx); err == nil {
		t.Error("expected an unknown currency to be rejected")
	}
	if err := (&GoalRemoveCmd{ID: g.ID}).Run(ctx); err != nil {
		t.Errorf("goal remove failed: %v", err)
	}
}
