package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/model"
)

// CreateWallet provisions the fiat account anchor for an owner. It is
// idempotent: provisioning the same owner twice returns the existing
// wallet. The identity flow calls this explicitly when an owner is created.
func (d Datasource) CreateWallet(ctx context.Context, wallet model.Wallet) (model.Wallet, error) {
	wallet.WalletID = model.GenerateUUIDWithSuffix("wlt")
	wallet.CreatedAt = time.Now()

	result, err := d.Conn.ExecContext(ctx, `
		INSERT INTO wallets (wallet_id, owner_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id) DO NOTHING
	`, wallet.WalletID, wallet.OwnerID, wallet.CreatedAt)
	if err != nil {
		return model.Wallet{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create wallet", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return model.Wallet{}, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create wallet", err)
	}
	if affected == 0 {
		existing, err := d.GetWalletByOwner(ctx, wallet.OwnerID)
		if err != nil {
			return model.Wallet{}, err
		}
		return *existing, nil
	}
	return wallet, nil
}

func (d Datasource) GetWalletByOwner(ctx context.Context, ownerID string) (*model.Wallet, error) {
	wallet := model.Wallet{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, wallet_id, owner_id, created_at
		FROM wallets
		WHERE owner_id = $1
	`, ownerID)

	err := row.Scan(&wallet.ID, &wallet.WalletID, &wallet.OwnerID, &wallet.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Wallet not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve wallet", err)
	}
	return &wallet, nil
}
