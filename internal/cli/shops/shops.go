// Package shops holds the coin shop and point rewards commands.
package shops

import (
	"fmt"

	"github.com/julianstephens/lifequest/internal/catalog"
	"github.com/julianstephens/lifequest/internal/cli"
	"github.com/julianstephens/lifequest/internal/models"
)

// Kind selects which catalog a command set operates on.
type Kind interface {
	Catalog(ctx *cli.Context) (*catalog.Catalog, error)
}

type Shop struct{}

func (Shop) Catalog(ctx *cli.Context) (*catalog.Catalog, error) {
	a, err := ctx.App()
	if err != nil {
		return nil, err
	}
	return a.CoinShop, nil
}

type Rewards struct{}

func (Rewards) Catalog(ctx *cli.Context) (*catalog.Catalog, error) {
	a, err := ctx.App()
	if err != nil {
		return nil, err
	}
	return a.Rewards, nil
}

// Commands is the subcommand tree shared by shop and rewards.
type Commands[K Kind] struct {
	List     ListCmd[K]     `cmd:"" default:"1" help:"List items, cheapest first."`
	Add      AddCmd[K]      `cmd:"" help:"Add an item."`
	Edit     EditCmd[K]     `cmd:"" help:"Edit an item."`
	Remove   RemoveCmd[K]   `cmd:"" help:"Delete an item."`
	Purchase PurchaseCmd[K] `cmd:"" help:"Buy an item with your balance."`
}

func open[K Kind](ctx *cli.Context) (*catalog.Catalog, error) {
	var k K
	return k.Catalog(ctx)
}

func stockLabel(item models.ShopItem, p catalog.Policy) string {
	switch {
	case p.SingleUse:
		return fmt.Sprintf("used %d", item.UsedCount)
	case item.Stock == models.UnlimitedStock:
		return "∞"
	default:
		return fmt.Sprint(item.Stock)
	}
}

type ListCmd[K Kind] struct {
	Available bool `help:"Only show items that can be bought now."`
}

func (c *ListCmd[K]) Run(ctx *cli.Context) error {
	cat, err := open[K](ctx)
	if err != nil {
		return err
	}
	var filter *bool
	if c.Available {
		filter = &c.Available
	}
	items, err := cat.List(ctx.Context(), filter)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No items yet.")
		return nil
	}

	p := cat.Policy()
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		status := cli.GainStyle.Render("available")
		if !item.IsAvailable {
			status = cli.MutedStyle.Render("unavailable")
		}
		rows = append(rows, []string{
			item.Title,
			fmt.Sprintf("%d %s", item.Cost, p.Currency),
			stockLabel(item, p),
			status,
			item.ID,
		})
	}
	cli.PrintTable([]string{"Item", "Cost", "Stock", "Status", "ID"}, rows)
	return nil
}

type AddCmd[K Kind] struct {
	Title       string `arg:"" help:"Item title."`
	Cost        int64  `arg:"" help:"Price in the catalog's currency."`
	Description string `short:"d" help:"Free-form note."`
	Stock       int    `default:"-1" help:"Units in stock, -1 for unlimited. Ignored for rewards."`
}

func (c *AddCmd[K]) Run(ctx *cli.Context) error {
	cat, err := open[K](ctx)
	if err != nil {
		return err
	}
	item, err := cat.Create(ctx.Context(), c.Title, c.Description, c.Cost, c.Stock)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Added %q for %d %s\n", item.Title, item.Cost, cat.Policy().Currency)
	fmt.Printf("  ID: %s\n", item.ID)
	return nil
}

type EditCmd[K Kind] struct {
	ID          string  `arg:"" help:"Item ID."`
	Title       *string `help:"New title."`
	Description *string `help:"New description."`
	Cost        *int64  `help:"New price."`
	Stock       *int    `help:"New stock, -1 for unlimited."`
	Available   *bool   `help:"Make the item available or hide it."`
}

func (c *EditCmd[K]) Run(ctx *cli.Context) error {
	cat, err := open[K](ctx)
	if err != nil {
		return err
	}
	item, err := cat.Update(ctx.Context(), c.ID, models.ShopItemUpdate{
		Title:       c.Title,
		Description: c.Description,
		Cost:        c.Cost,
		Stock:       c.Stock,
		IsAvailable: c.Available,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Updated %q\n", item.Title)
	return nil
}

type RemoveCmd[K Kind] struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *RemoveCmd[K]) Run(ctx *cli.Context) error {
	cat, err := open[K](ctx)
	if err != nil {
		return err
	}
	if err := cat.Delete(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Deleted %s\n", c.ID)
	return nil
}

type PurchaseCmd[K Kind] struct {
	ID  string `arg:"" help:"Item ID."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *PurchaseCmd[K]) Run(ctx *cli.Context) error {
	cat, err := open[K](ctx)
	if err != nil {
		return err
	}
	item, err := cat.Get(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	currency := cat.Policy().Currency
	ok, err := cli.Confirm(
		fmt.Sprintf("Buy %q for %d %s?", item.Title, item.Cost, currency),
		item.Description,
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	res, err := cat.Purchase(ctx.Context(), c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s. %s balance: %d\n", res.Entry.Description, currency, res.Entry.BalanceAfter)
	return nil
}
