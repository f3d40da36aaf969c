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

	"github.com/shopspring/decimal"

	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/model"
)

// CreateWallet provisions the fiat wallet for an owner. Creation is
// idempotent: provisioning the same owner twice returns the existing wallet.
func (c *Coinvault) CreateWallet(ctx context.Context, ownerID string) (model.Wallet, error) {
	if ownerID == "" {
		return model.Wallet{}, apierror.NewAPIError(apierror.ErrBadRequest, "owner id is required", nil)
	}
	return c.datasource.CreateWallet(ctx, model.Wallet{OwnerID: ownerID})
}

// GetWallet fetches the owner's wallet record.
func (c *Coinvault) GetWallet(ctx context.Context, ownerID string) (*model.Wallet, error) {
	return c.datasource.GetWalletByOwner(ctx, ownerID)
}

// GetWalletBalance returns the owner's derived fiat state.
func (c *Coinvault) GetWalletBalance(ctx context.Context, ownerID string) (*model.AccountState, error) {
	return c.GetAccountState(ctx, ownerID, model.FiatAsset)
}

// GetWalletTransactions lists the owner's fiat entries, newest first.
func (c *Coinvault) GetWalletTransactions(ctx context.Context, ownerID string) ([]model.LedgerEntry, error) {
	return c.datasource.ListEntries(ctx, ownerID, model.FiatAsset)
}

// Deposit credits the owner's fiat wallet.
func (c *Coinvault) Deposit(ctx context.Context, ownerID string, quantity decimal.Decimal, source model.EntrySource) (*model.LedgerEntry, error) {
	return c.recordWalletEntry(ctx, ownerID, model.EntryDeposit, quantity, source)
}

// Withdraw debits the owner's fiat wallet. The debit is validated against
// the balance derived from the full entry set; an overdraw is rejected with
// the exact requested and available quantities.
func (c *Coinvault) Withdraw(ctx context.Context, ownerID string, quantity decimal.Decimal, source model.EntrySource) (*model.LedgerEntry, error) {
	return c.recordWalletEntry(ctx, ownerID, model.EntryWithdrawal, quantity, source)
}

// recordWalletEntry runs a fiat mutation under the owner's fiat account
// lock: load the full history, validate the candidate against it, persist.
// The wallet balance is always derived from the entries, so no projection
// row accompanies the write.
func (c *Coinvault) recordWalletEntry(ctx context.Context, ownerID string, kind model.EntryKind, quantity decimal.Decimal, source model.EntrySource) (*model.LedgerEntry, error) {
	if source == "" {
		source = model.SourceFiat
	}
	if !model.ValidSource(source) {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "invalid entry source", nil)
	}
	if _, err := c.datasource.GetWalletByOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	var recorded *model.LedgerEntry
	err := c.withAccountLock(ctx, ownerID, model.FiatAsset, func(ctx context.Context) error {
		history, err := c.datasource.GetAccountHistory(ctx, ownerID, model.FiatAsset)
		if err != nil {
			return err
		}

		entry := model.NewWalletEntry(ownerID, kind, quantity, source)
		if err := model.ValidateEntry(history, entry, ""); err != nil {
			return rejectionError(err)
		}

		recorded, err = c.datasource.RecordEntry(ctx, entry, nil)
		if err != nil {
			return err
		}

		c.cacheAccountState(ctx, model.AccountState{
			OwnerID:   ownerID,
			Asset:     model.FiatAsset,
			Balance:   model.ComputeWalletBalance(append(history, *recorded)),
			UpdatedAt: time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}
