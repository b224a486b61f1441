package models

import "time"

type CatalogName string

const (
	CatalogCoinShop     CatalogName = "coin_shop"
	CatalogPointRewards CatalogName = "point_rewards"
)

// UnlimitedStock marks an item that never runs out.
const UnlimitedStock = -1

type ShopItem struct {
	ID          string      `json:"id"`
	Catalog     CatalogName `json:"catalog"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Cost        int64       `json:"cost"`
	IsAvailable bool        `json:"is_available"`
	Stock       int         `json:"stock"`
	UsedCount   int         `json:"used_count"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type ShopItemUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Cost        *int64  `json:"cost,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
}

type PurchaseResult struct {
	Entry LedgerEntry `json:"entry"`
	Item  ShopItem    `json:"item"`
}
