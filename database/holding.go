package database

import (
	"context"
	"database/sql"

	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/model"
)

// GetHolding reads the derived projection of one coin account. An owner who
// never traded the asset has no row; callers render that as a zero holding.
func (d Datasource) GetHolding(ctx context.Context, ownerID, asset string) (*model.AccountState, error) {
	state := model.AccountState{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT owner_id, asset, balance, cost_basis, updated_at
		FROM holdings
		WHERE owner_id = $1 AND asset = $2
	`, ownerID, asset)

	err := row.Scan(&state.OwnerID, &state.Asset, &state.Balance, &state.CostBasis, &state.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Holding not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve holding", err)
	}
	return &state, nil
}

func (d Datasource) GetHoldingsByOwner(ctx context.Context, ownerID string) ([]model.AccountState, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT owner_id, asset, balance, cost_basis, updated_at
		FROM holdings
		WHERE owner_id = $1
		ORDER BY asset ASC
	`, ownerID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve holdings", err)
	}
	defer rows.Close()

	states := []model.AccountState{}
	for rows.Next() {
		state := model.AccountState{}
		err = rows.Scan(&state.OwnerID, &state.Asset, &state.Balance, &state.CostBasis, &state.UpdatedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan holding data", err)
		}
		states = append(states, state)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over holdings", err)
	}
	return states, nil
}
