package models

import "time"

type ExchangeRecord struct {
	ID           string    `json:"id"`
	FromCurrency Currency  `json:"from_currency"`
	ToCurrency   Currency  `json:"to_currency"`
	FromAmount   int64     `json:"from_amount"`
	ToAmount     int64     `json:"to_amount"`
	ExchangeRate float64   `json:"exchange_rate"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ExchangeResult struct {
	Debit       LedgerEntry    `json:"debit"`
	Record      ExchangeRecord `json:"record"`
	PointAmount int64          `json:"point_amount"`
	// Credit is set only when destination crediting is enabled.
	Credit *LedgerEntry `json:"credit,omitempty"`
}
