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

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/model"
)

// RecordEntry persists an entry and, when a projection is given, refreshes
// the holdings row for the same (owner, asset) inside one transaction. No
// reader can observe the entry without its recomputed derived state.
func (d Datasource) RecordEntry(ctx context.Context, entry *model.LedgerEntry, projection *model.AccountState) (*model.LedgerEntry, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}

	var source sql.NullString
	if entry.Source != "" {
		source = sql.NullString{String: string(entry.Source), Valid: true}
	}
	var unitPrice decimal.NullDecimal
	if !entry.Kind.IsWalletKind() {
		unitPrice = decimal.NullDecimal{Decimal: entry.UnitPrice, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (entry_id, owner_id, asset, kind, source, quantity, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.EntryID, entry.OwnerID, entry.Asset, entry.Kind, source, entry.Quantity, unitPrice, entry.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, apierror.NewAPIError(apierror.ErrConflict, "Entry with this ID already exists", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record entry", err)
	}

	if projection != nil {
		if err := upsertHolding(ctx, tx, projection); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit entry", err)
	}
	return entry, nil
}

// DeleteEntry removes an entry and refreshes the affected projection inside
// one transaction. Callers have already re-validated the remaining history.
func (d Datasource) DeleteEntry(ctx context.Context, entryID string, projection *model.AccountState) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM ledger_entries WHERE entry_id = $1
	`, entryID)
	if err != nil {
		_ = tx.Rollback()
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete entry", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete entry", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return apierror.NewAPIError(apierror.ErrNotFound, "Entry not found", nil)
	}

	if projection != nil {
		if err := upsertHolding(ctx, tx, projection); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit deletion", err)
	}
	return nil
}

func upsertHolding(ctx context.Context, tx *sql.Tx, projection *model.AccountState) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO holdings (owner_id, asset, balance, cost_basis, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_id, asset)
		DO UPDATE SET balance = EXCLUDED.balance, cost_basis = EXCLUDED.cost_basis, updated_at = EXCLUDED.updated_at
	`, projection.OwnerID, projection.Asset, projection.Balance, projection.CostBasis, projection.UpdatedAt)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to refresh holding projection", err)
	}
	return nil
}

// GetEntry fetches one entry by its public ID.
func (d Datasource) GetEntry(ctx context.Context, entryID string) (*model.LedgerEntry, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, entry_id, owner_id, asset, kind, source, quantity, unit_price, created_at
		FROM ledger_entries
		WHERE entry_id = $1
	`, entryID)

	entry, err := scanEntry(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Entry not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve entry", err)
	}
	return entry, nil
}

// GetAccountHistory returns every entry of one (owner, asset) account in
// insertion order, oldest first. This is the set the validator and the
// recomputation run over.
func (d Datasource) GetAccountHistory(ctx context.Context, ownerID, asset string) ([]model.LedgerEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, entry_id, owner_id, asset, kind, source, quantity, unit_price, created_at
		FROM ledger_entries
		WHERE owner_id = $1 AND asset = $2
		ORDER BY created_at ASC, id ASC
	`, ownerID, asset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve account history", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListEntries returns an account's entries newest first, for presentation.
func (d Datasource) ListEntries(ctx context.Context, ownerID, asset string) ([]model.LedgerEntry, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, entry_id, owner_id, asset, kind, source, quantity, unit_price, created_at
		FROM ledger_entries
		WHERE owner_id = $1 AND asset = $2
		ORDER BY created_at DESC, id DESC
	`, ownerID, asset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve entries", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]model.LedgerEntry, error) {
	entries := []model.LedgerEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan entry", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over entries", err)
	}
	return entries, nil
}

func scanEntry(scan func(dest ...interface{}) error) (*model.LedgerEntry, error) {
	entry := model.LedgerEntry{}
	var source sql.NullString
	var unitPrice decimal.NullDecimal
	var createdAt time.Time

	err := scan(&entry.ID, &entry.EntryID, &entry.OwnerID, &entry.Asset, &entry.Kind,
		&source, &entry.Quantity, &unitPrice, &createdAt)
	if err != nil {
		return nil, err
	}

	if source.Valid {
		entry.Source = model.EntrySource(source.String)
	}
	if unitPrice.Valid {
		entry.UnitPrice = unitPrice.Decimal
	}
	entry.CreatedAt = createdAt
	return &entry, nil
}
