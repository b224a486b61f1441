// Package ledgers holds the points, coins, exchange and goal commands.
package ledgers

import (
	"fmt"

	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/ledger"
	"github.com/julianstephens/lifequest/internal/models"
)

// Currency selects the account a command set operates on.
type Currency interface {
	Currency() models.Currency
}

type Points struct{}

func (Points) Currency() models.Currency { return models.CurrencyPoints }

type Coins struct{}

func (Coins) Currency() models.Currency { return models.CurrencyCoins }

// Commands is the subcommand tree shared by points and coins.
type Commands[C Currency] struct {
	Balance BalanceCmd[C] `cmd:"" help:"Show the current balance." default:"1"`
	Record  RecordCmd[C]  `cmd:"" help:"Record a transaction."`
	History HistoryCmd[C] `cmd:"" help:"List transactions, newest first."`
	Stats   StatsCmd[C]   `cmd:"" help:"Show earning and spending statistics."`
	Edit    EditCmd[C]    `cmd:"" help:"Edit a transaction and recompute later balances."`
	Remove  RemoveCmd[C]  `cmd:"" help:"Remove a transaction and recompute later balances."`
}

func account[C Currency](ctx *cli.Context) (*ledger.Account, error) {
	a, err := ctx.App()
	if err != nil {
		return nil, err
	}
	var c C
	return a.Account(c.Currency()), nil
}

type BalanceCmd[C Currency] struct{}

func (c *BalanceCmd[C]) Run(ctx *cli.Context) error {
	acct, err := account[C](ctx)
	if err != nil {
		return err
	}
	balance, err := acct.CurrentBalance(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%s balance: %d\n", acct.Currency(), balance)
	return nil
}

type RecordCmd[C Currency] struct {
	Amount      int64  `arg:"" help:"Positive amount."`
	Kind        string `short:"k" default:"earned" help:"earned, spent, bonus, penalty or exchange (coins only)."`
	Category    string `short:"c" default:"other" help:"Transaction category."`
	Description string `short:"d" help:"Free-form note."`
}

func (c *RecordCmd[C]) Run(ctx *cli.Context) error {
	acct, err := account[C](ctx)
	if err != nil {
		return err
	}
	entry, err := acct.Record(ctx.Context(), c.Amount, models.EntryKind(c.Kind), models.Category(c.Category), c.Description)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Recorded %s %s (%s). Balance: %d\n", cli.Signed(entry.Delta()), acct.Currency(), entry.Category, entry.BalanceAfter)
	fmt.Printf("  ID: %s\n", entry.ID)
	return nil
}

type HistoryCmd[C Currency] struct {
	Kind     string `short:"k" help:"Only show this kind."`
	Category string `short:"c" help:"Only show this category."`
	Limit    int    `short:"n" default:"20" help:"Maximum number of entries."`
}

func (c *HistoryCmd[C]) Run(ctx *cli.Context) error {
	acct, err := account[C](ctx)
	if err != nil {
		return err
	}
	entries, err := acct.History(ctx.Context(), models.EntryKind(c.Kind), models.Category(c.Category), c.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No %s transactions yet.\n", acct.Currency())
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			ctx.FormatTime(e.CreatedAt),
			string(e.Kind),
			string(e.Category),
			cli.Signed(e.Delta()),
			fmt.Sprint(e.BalanceAfter),
			cli.Truncate(e.Description, 32),
			e.ID,
		})
	}
	cli.PrintTable([]string{"When", "Kind", "Category", "Amount", "Balance", "Description", "ID"}, rows)
	return nil
}

type StatsCmd[C Currency] struct {
	Days int `default:"30" help:"Length of the statistics window in days."`
}

func (c *StatsCmd[C]) Run(ctx *cli.Context) error {
	acct, err := account[C](ctx)
	if err != nil {
		return err
	}
	stats, err := acct.Statistics(ctx.Context(), c.Days)
	if err != nil {
		return err
	}

	cli.Header("%s statistics", stats.Currency)
	fmt.Printf("Current balance: %d\n\n", stats.CurrentBalance)
	printPeriod(fmt.Sprintf("Last %d days", stats.WindowDays), stats.Window)
	printPeriod("This month", stats.ThisMonth)
	if len(stats.TopEarnCategories) > 0 {
		fmt.Println("Top earning categories:")
		for i, ct := range stats.TopEarnCategories {
			fmt.Printf("  %d. %-16s %d\n", i+1, ct.Category, ct.Amount)
		}
	}
	return nil
}

func printPeriod(title string, p models.PeriodTotals) {
	fmt.Printf("%s: %d transaction(s), earned %d, spent %d\n", title, p.Transactions, p.Earned, p.Spent)
	for _, kind := range []models.EntryKind{models.KindBonus, models.KindPenalty, models.KindExchange} {
		if v := p.ByKind[kind]; v != 0 {
			fmt.Printf("  %s: %d\n", kind, v)
		}
	}
	fmt.Println()
}

type EditCmd[C Currency] struct {
	ID           string  `arg:"" help:"Transaction ID."`
	Amount       *int64  `help:"New amount."`
	Kind         *string `help:"New kind."`
	Category     *string `help:"New category."`
	Description  *string `help:"New description."`
	BalanceAfter *int64  `help:"Override the recorded running balance. Later entries are recomputed from it."`
}

func (c *EditCmd[C]) Run(ctx *cli.Context) error {
	acct, err := account[C](ctx)
	if err != nil {
		return err
	}
	upd := models.EntryUpdate{
		Amount:       c.Amount,
		Description:  c.Description,
		BalanceAfter: c.BalanceAfter,
	}
	if c.Kind != nil {
		k := models.EntryKind(*c.Kind)
		upd.Kind = &k
	}
	if c.Category != nil {
		cat := models.Category(*c.Category)
		upd.Category = &cat
	}

	entry, err := acct.Edit(ctx.Context(), c.ID, upd)
	if err != nil {
		return err
	}
	balance, err := acct.CurrentBalance(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated %s. Entry balance: %d, current balance: %d\n", entry.ID, entry.BalanceAfter, balance)
	return nil
}

type RemoveCmd[C Currency] struct {
	ID  string `arg:"" help:"Transaction ID."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *RemoveCmd[C]) Run(ctx *cli.Context) error {
	acct, err := account[C](ctx)
	if err != nil {
		return err
	}
	entry, err := acct.Get(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	ok, err := cli.Confirm(
		fmt.Sprintf("Remove %s %s transaction?", cli.Signed(entry.Delta()), acct.Currency()),
		"Later running balances will be recomputed.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := acct.Remove(ctx.Context(), c.ID); err != nil {
		return err
	}
	balance, err := acct.CurrentBalance(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Printf("✓ Removed %s. Balance: %d\n", c.ID, balance)
	return nil
}
