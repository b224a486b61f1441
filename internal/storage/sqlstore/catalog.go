package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/lifequest/internal/models"
)

const itemColumns = "id, catalog, title, description, cost, is_available, stock, used_count, created_at, updated_at"

type itemRow struct {
	ID          string `db:"id"`
	Catalog     string `db:"catalog"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Cost        int64  `db:"cost"`
	IsAvailable bool   `db:"is_available"`
	Stock       int    `db:"stock"`
	UsedCount   int    `db:"used_count"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r itemRow) model() (models.ShopItem, error) {
	created, err := parseTS(r.CreatedAt)
	if err != nil {
		return models.ShopItem{}, err
	}
	updated, err := parseTS(r.UpdatedAt)
	if err != nil {
		return models.ShopItem{}, err
	}
	return models.ShopItem{
		ID:          r.ID,
		Catalog:     models.CatalogName(r.Catalog),
		Title:       r.Title,
		Description: r.Description,
		Cost:        r.Cost,
		IsAvailable: r.IsAvailable,
		Stock:       r.Stock,
		UsedCount:   r.UsedCount,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

func (q *queries) AddShopItem(ctx context.Context, it models.ShopItem) error {
	_, err := q.exec(ctx,
		"INSERT INTO catalog_items ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		it.ID, string(it.Catalog), it.Title, it.Description, it.Cost, it.IsAvailable,
		it.Stock, it.UsedCount, ts(it.CreatedAt), ts(it.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert %s item: %w", it.Catalog, err)
	}
	return nil
}

func (q *queries) GetShopItem(ctx context.Context, catalog models.CatalogName, id string) (models.ShopItem, error) {
	var row itemRow
	err := q.getOne(ctx, &row, string(catalog)+" item", id,
		"SELECT "+itemColumns+" FROM catalog_items WHERE catalog = ? AND id = ?", string(catalog), id)
	if err != nil {
		return models.ShopItem{}, err
	}
	return row.model()
}

func (q *queries) ListShopItems(ctx context.Context, catalog models.CatalogName, available *bool) ([]models.ShopItem, error) {
	var w where
	w.add("catalog = ?", string(catalog))
	if available != nil {
		w.add("is_available = ?", *available)
	}

	var rows []itemRow
	query := "SELECT " + itemColumns + " FROM catalog_items" + w.String() + " ORDER BY cost ASC, title ASC"
	if err := q.selectAll(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to list %s items: %w", catalog, err)
	}
	return convertAll(rows, itemRow.model)
}

func (q *queries) UpdateShopItem(ctx context.Context, it models.ShopItem) error {
	return q.execOne(ctx, string(it.Catalog)+" item", it.ID,
		`UPDATE catalog_items SET title = ?, description = ?, cost = ?, is_available = ?, stock = ?,
		 used_count = ?, updated_at = ? WHERE catalog = ? AND id = ?`,
		it.Title, it.Description, it.Cost, it.IsAvailable, it.Stock, it.UsedCount, ts(it.UpdatedAt),
		string(it.Catalog), it.ID)
}

func (q *queries) DeleteShopItem(ctx context.Context, catalog models.CatalogName, id string) error {
	return q.execOne(ctx, string(catalog)+" item", id,
		"DELETE FROM catalog_items WHERE catalog = ? AND id = ?", string(catalog), id)
}

const exchangeColumns = "id, from_currency, to_currency, from_amount, to_amount, exchange_rate, description, created_at"

type exchangeRow struct {
	ID           string  `db:"id"`
	FromCurrency string  `db:"from_currency"`
	ToCurrency   string  `db:"to_currency"`
	FromAmount   int64   `db:"from_amount"`
	ToAmount     int64   `db:"to_amount"`
	ExchangeRate float64 `db:"exchange_rate"`
	Description  string  `db:"description"`
	CreatedAt    string  `db:"created_at"`
}

func (r exchangeRow) model() (models.ExchangeRecord, error) {
	created, err := parseTS(r.CreatedAt)
	if err != nil {
		return models.ExchangeRecord{}, err
	}
	return models.ExchangeRecord{
		ID:           r.ID,
		FromCurrency: models.Currency(r.FromCurrency),
		ToCurrency:   models.Currency(r.ToCurrency),
		FromAmount:   r.FromAmount,
		ToAmount:     r.ToAmount,
		ExchangeRate: r.ExchangeRate,
		Description:  r.Description,
		CreatedAt:    created,
	}, nil
}

func (q *queries) AddExchangeRecord(ctx context.Context, rec models.ExchangeRecord) error {
	_, err := q.exec(ctx,
		"INSERT INTO exchange_records ("+exchangeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, string(rec.FromCurrency), string(rec.ToCurrency), rec.FromAmount, rec.ToAmount,
		rec.ExchangeRate, rec.Description, ts(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert exchange record: %w", err)
	}
	return nil
}

func (q *queries) ListExchangeRecords(ctx context.Context, limit int) ([]models.ExchangeRecord, error) {
	var rows []exchangeRow
	query := "SELECT " + exchangeColumns + " FROM exchange_records ORDER BY created_at DESC" + limitClause(limit)
	if err := q.selectAll(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list exchange records: %w", err)
	}
	return convertAll(rows, exchangeRow.model)
}
