// Package catalog sells items from the coin shop and the point rewards list.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/lifequest/internal/errors"
	"github.com/julianstephens/lifequest/internal/ledger"
	"github.com/julianstephens/lifequest/internal/logger"
	"github.com/julianstephens/lifequest/internal/models"
	"github.com/julianstephens/lifequest/internal/storage"
)

// Policy describes how a catalog charges for its items.
type Policy struct {
	Name          models.CatalogName
	Currency      models.Currency
	SpendCategory models.Category
	// Verb prefixes the item title in the debit description.
	Verb string
	// SingleUse items become unavailable after one purchase and never count stock.
	SingleUse bool
}

var (
	CoinShop = Policy{
		Name:          models.CatalogCoinShop,
		Currency:      models.CurrencyCoins,
		SpendCategory: models.CategoryShopping,
		Verb:          "purchased",
	}
	PointRewards = Policy{
		Name:          models.CatalogPointRewards,
		Currency:      models.CurrencyPoints,
		SpendCategory: models.CategoryEntertainment,
		Verb:          "used reward",
		SingleUse:     true,
	}
)

type Catalog struct {
	store   storage.Store
	policy  Policy
	account *ledger.Account
	now     func() time.Time
}

func New(store storage.Store, policy Policy, now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{
		store:   store,
		policy:  policy,
		account: ledger.New(store, policy.Currency, now),
		now:     now,
	}
}

func (c *Catalog) Policy() Policy { return c.policy }

// List returns items ordered by cost. A nil available matches every item.
func (c *Catalog) List(ctx context.Context, available *bool) ([]models.ShopItem, error) {
	return c.store.ListShopItems(ctx, c.policy.Name, available)
}

func (c *Catalog) Get(ctx context.Context, id string) (models.ShopItem, error) {
	return c.store.GetShopItem(ctx, c.policy.Name, id)
}

// Create adds an item. Single-use catalogs ignore stock.
func (c *Catalog) Create(ctx context.Context, title, description string, cost int64, stock int) (models.ShopItem, error) {
	if c.policy.SingleUse {
		stock = models.UnlimitedStock
	}
	now := c.now()
	item := models.ShopItem{
		ID:          uuid.NewString(),
		Catalog:     c.policy.Name,
		Title:       strings.TrimSpace(title),
		Description: description,
		Cost:        cost,
		Stock:       stock,
		IsAvailable: stock != 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateItem(item); err != nil {
		return models.ShopItem{}, err
	}
	if err := c.store.AddShopItem(ctx, item); err != nil {
		return models.ShopItem{}, err
	}
	logger.Info("Created catalog item", "catalog", c.policy.Name, "id", item.ID, "cost", cost)
	return item, nil
}

// Update applies the non-nil fields of upd.
func (c *Catalog) Update(ctx context.Context, id string, upd models.ShopItemUpdate) (models.ShopItem, error) {
	item, err := c.Get(ctx, id)
	if err != nil {
		return models.ShopItem{}, err
	}
	if upd.Title != nil {
		item.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Cost != nil {
		item.Cost = *upd.Cost
	}
	if upd.IsAvailable != nil {
		item.IsAvailable = *upd.IsAvailable
	}
	if upd.Stock != nil && !c.policy.SingleUse {
		item.Stock = *upd.Stock
	}
	if err := validateItem(item); err != nil {
		return models.ShopItem{}, err
	}
	item.UpdatedAt = c.now()
	if err := c.store.UpdateShopItem(ctx, item); err != nil {
		return models.ShopItem{}, err
	}
	return item, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	return c.store.DeleteShopItem(ctx, c.policy.Name, id)
}

// Purchase debits the item's cost and updates its availability in one unit.
func (c *Catalog) Purchase(ctx context.Context, id string) (models.PurchaseResult, error) {
	var result models.PurchaseResult
	err := c.store.Atomic(ctx, func(q storage.Querier) error {
		balance, err := q.LockLedger(ctx, c.policy.Currency)
		if err != nil {
			return err
		}
		item, err := q.GetShopItem(ctx, c.policy.Name, id)
		if err != nil {
			return err
		}
		if !item.IsAvailable {
			return apperrors.PreconditionFailedf("%q is not available", item.Title)
		}
		if item.Stock == 0 {
			return apperrors.PreconditionFailedf("%q is out of stock", item.Title)
		}
		if balance < item.Cost {
			return apperrors.PreconditionFailedf("insufficient %s: have %d, need %d", c.policy.Currency, balance, item.Cost)
		}

		entry, err := c.account.Append(ctx, q, item.Cost, models.KindSpent, c.policy.SpendCategory,
			fmt.Sprintf("%s %s", c.policy.Verb, item.Title))
		if err != nil {
			return err
		}

		item.UsedCount++
		if item.Stock > 0 {
			item.Stock--
			if item.Stock == 0 {
				item.IsAvailable = false
			}
		}
		if c.policy.SingleUse {
			item.IsAvailable = false
		}
		item.UpdatedAt = c.now()
		if err := q.UpdateShopItem(ctx, item); err != nil {
			return err
		}

		result = models.PurchaseResult{Entry: entry, Item: item}
		return nil
	})
	if err != nil {
		return models.PurchaseResult{}, err
	}
	logger.Info("Purchased catalog item", "catalog", c.policy.Name, "id", id, "balance", result.Entry.BalanceAfter)
	return result, nil
}

func validateItem(item models.ShopItem) error {
	if item.Title == "" {
		return apperrors.InvalidInputf("title is required")
	}
	if item.Cost < 0 {
		return apperrors.InvalidInputf("cost must be non-negative, got %d", item.Cost)
	}
	if item.Stock < models.UnlimitedStock {
		return apperrors.InvalidInputf("stock must be -1 (unlimited) or greater, got %d", item.Stock)
	}
	return nil
}
