package ledgers

import (
	"fmt"
	"math"

	"github.com/julianstephens/lifequest/internal/cli"
)

type ExchangeCmd struct {
	Convert ExchangeConvertCmd `cmd:"" default:"withargs" help:"Convert coins into points."`
	History ExchangeHistoryCmd `cmd:"" help:"List past exchanges, newest first."`
}

type ExchangeConvertCmd struct {
	Coins int64    `arg:"" help:"Number of coins to spend."`
	Rate  *float64 `help:"Points per coin. Defaults to exchange.default_rate."`
	Yes   bool     `short:"y" help:"Do not ask for confirmation."`
}

func (c *ExchangeConvertCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	rate := a.ExchangeRate
	if c.Rate != nil {
		rate = *c.Rate
	}

	balance, err := a.Coins.CurrentBalance(ctx.Context())
	if err != nil {
		return err
	}
	points := int64(math.Floor(float64(c.Coins) * rate))
	ok, err := cli.Confirm(
		fmt.Sprintf("Exchange %d coins for %d points?", c.Coins, points),
		fmt.Sprintf("Rate %.2f. You have %d coins.", rate, balance),
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	res, err := a.Exchange.ExchangeToPoints(ctx.Context(), c.Coins, rate)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Exchanged %d coins for %d points. Coin balance: %d\n", res.Record.FromAmount, res.PointAmount, res.Debit.BalanceAfter)
	if res.Credit != nil {
		fmt.Printf("  Points balance: %d\n", res.Credit.BalanceAfter)
	}
	return nil
}

type ExchangeHistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of records."`
}

func (c *ExchangeHistoryCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	records, err := a.Exchange.List(ctx.Context(), c.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No exchanges yet.")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			ctx.FormatTime(r.CreatedAt),
			fmt.Sprintf("%d %s", r.FromAmount, r.FromCurrency),
			fmt.Sprintf("%d %s", r.ToAmount, r.ToCurrency),
			fmt.Sprintf("%.2f", r.ExchangeRate),
		})
	}
	cli.PrintTable([]string{"When", "From", "To", "Rate"}, rows)
	return nil
}
