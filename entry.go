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
	"time"

	"github.com/coinvault/coinvault/model"
)

// GetEntry fetches one ledger entry by its public ID.
func (c *Coinvault) GetEntry(ctx context.Context, entryID string) (*model.LedgerEntry, error) {
	return c.datasource.GetEntry(ctx, entryID)
}

// DeleteEntry removes an entry from its account's history. Removal is only
// permitted when the remaining history stays consistent: the reduced entry
// set is replayed and the deletion is rejected if any later debit would have
// overdrawn the account. On success the account's projection is recomputed
// from the reduced set and written in the same transaction as the delete.
func (c *Coinvault) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := c.datasource.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}

	return c.withAccountLock(ctx, entry.OwnerID, entry.Asset, func(ctx context.Context) error {
		history, err := c.datasource.GetAccountHistory(ctx, entry.OwnerID, entry.Asset)
		if err != nil {
			return err
		}

		if err := model.CheckDelete(history, entry.EntryID); err != nil {
			return rejectionError(err)
		}

		remaining := make([]model.LedgerEntry, 0, len(history))
		for _, e := range history {
			if e.EntryID != entry.EntryID {
				remaining = append(remaining, e)
			}
		}

		var projection *model.AccountState
		var state model.AccountState
		if entry.Asset == model.FiatAsset {
			// Wallet balances are derived on read; only the cache needs a
			// refreshed snapshot.
			state = model.AccountState{
				OwnerID:   entry.OwnerID,
				Asset:     model.FiatAsset,
				Balance:   model.ComputeWalletBalance(remaining),
				UpdatedAt: time.Now(),
			}
		} else {
			state = model.ComputeHolding(entry.OwnerID, entry.Asset, remaining)
			projection = &state
		}

		if err := c.datasource.DeleteEntry(ctx, entry.EntryID, projection); err != nil {
			return err
		}

		c.cacheAccountState(ctx, state)
		return nil
	})
}
