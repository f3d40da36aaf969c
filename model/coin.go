package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coin is one tradable asset in the catalog. Entries may only reference
// active coins; deactivating a coin stops new trades without touching
// existing history.
type Coin struct {
	ID     int64  `json:"-"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Slug   string `json:"slug"`
	Active bool   `json:"active"`
}

// PriceSnapshot is the most recently fetched third-party price for a coin.
// Snapshots live in the read-through cache and are refreshed by the price
// worker; the ledger itself never writes or blocks on them.
type PriceSnapshot struct {
	Symbol    string          `json:"symbol"`
	Slug      string          `json:"slug"`
	Currency  string          `json:"currency"`
	Price     decimal.Decimal `json:"price"`
	FetchedAt time.Time       `json:"fetched_at"`
}
