/*
Copyright 2025 Coinvault Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package coinvault

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/model"
)

// GetCoins lists the active coin catalog.
func (c *Coinvault) GetCoins(ctx context.Context) ([]model.Coin, error) {
	return c.datasource.GetActiveCoins(ctx)
}

// RecordBuy records the purchase of a coin at a unit price.
func (c *Coinvault) RecordBuy(ctx context.Context, ownerID, symbol string, quantity, unitPrice decimal.Decimal) (*model.LedgerEntry, error) {
	return c.recordCoinEntry(ctx, ownerID, symbol, model.EntryBuy, quantity, unitPrice)
}

// RecordSell records the sale of a coin at a unit price. The sale is
// validated against the holding balance derived from the full entry set.
func (c *Coinvault) RecordSell(ctx context.Context, ownerID, symbol string, quantity, unitPrice decimal.Decimal) (*model.LedgerEntry, error) {
	return c.recordCoinEntry(ctx, ownerID, symbol, model.EntrySell, quantity, unitPrice)
}

// GetHolding returns the owner's derived state for one coin. An owner that
// never traded the coin gets a zero-balance state rather than a not-found
// error; the coin itself must still exist in the catalog.
func (c *Coinvault) GetHolding(ctx context.Context, ownerID, symbol string) (*model.AccountState, error) {
	coin, err := c.resolveActiveCoin(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return c.GetAccountState(ctx, ownerID, coin.Symbol)
}

// GetHoldings lists every coin position the owner has ever traded.
func (c *Coinvault) GetHoldings(ctx context.Context, ownerID string) ([]model.AccountState, error) {
	return c.datasource.GetHoldingsByOwner(ctx, ownerID)
}

// GetCoinTransactions lists the owner's entries for one coin, newest first.
func (c *Coinvault) GetCoinTransactions(ctx context.Context, ownerID, symbol string) ([]model.LedgerEntry, error) {
	coin, err := c.resolveActiveCoin(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return c.datasource.ListEntries(ctx, ownerID, coin.Symbol)
}

// resolveActiveCoin maps a symbol onto the catalog. Unknown and deactivated
// coins are rejected before anything is persisted, so no entry can ever
// reference an asset outside the catalog.
func (c *Coinvault) resolveActiveCoin(ctx context.Context, symbol string) (*model.Coin, error) {
	coin, err := c.datasource.GetCoinBySymbol(ctx, strings.ToLower(symbol))
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
			return nil, rejectionError(&model.Rejection{Reason: model.ReasonUnknownAsset, Asset: symbol})
		}
		return nil, err
	}
	if !coin.Active {
		return nil, rejectionError(&model.Rejection{Reason: model.ReasonUnknownAsset, Asset: symbol})
	}
	return coin, nil
}

// recordCoinEntry runs a coin mutation under the (owner, coin) account lock.
// The holding projection is recomputed from the full entry set including the
// candidate and written in the same transaction as the entry, so the stored
// projection can never drift from the entries.
func (c *Coinvault) recordCoinEntry(ctx context.Context, ownerID, symbol string, kind model.EntryKind, quantity, unitPrice decimal.Decimal) (*model.LedgerEntry, error) {
	coin, err := c.resolveActiveCoin(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var recorded *model.LedgerEntry
	err = c.withAccountLock(ctx, ownerID, coin.Symbol, func(ctx context.Context) error {
		history, err := c.datasource.GetAccountHistory(ctx, ownerID, coin.Symbol)
		if err != nil {
			return err
		}

		entry := model.NewCoinEntry(ownerID, coin.Symbol, kind, quantity, unitPrice)
		if err := model.ValidateEntry(history, entry, ""); err != nil {
			return rejectionError(err)
		}

		projection := model.ComputeHolding(ownerID, coin.Symbol, append(history, *entry))
		recorded, err = c.datasource.RecordEntry(ctx, entry, &projection)
		if err != nil {
			return err
		}

		c.cacheAccountState(ctx, projection)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// PortfolioItem is one holding priced against the latest cached snapshot.
// Value is zero when no snapshot is available for the coin.
type PortfolioItem struct {
	Holding model.AccountState   `json:"holding"`
	Price   *model.PriceSnapshot `json:"price,omitempty"`
	Value   decimal.Decimal      `json:"value"`
}

// GetPortfolio lists the owner's holdings with their cached market value.
// Pricing is best effort: holdings without a fresh snapshot appear with a
// zero value rather than failing the whole view.
func (c *Coinvault) GetPortfolio(ctx context.Context, ownerID string) ([]PortfolioItem, error) {
	holdings, err := c.datasource.GetHoldingsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]PortfolioItem, 0, len(holdings))
	for _, holding := range holdings {
		item := PortfolioItem{Holding: holding, Value: decimal.Zero}
		if price, err := c.GetPrice(ctx, holding.Asset); err == nil {
			item.Price = price
			item.Value = holding.Balance.Mul(price.Price)
		}
		items = append(items, item)
	}
	return items, nil
}
