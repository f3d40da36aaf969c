package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/model"
)

func TestCreateWallet(t *testing.T) {
	d, mock := newTestDatasource(t)

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(sqlmock.AnyArg(), "own_1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	wallet, err := d.CreateWallet(context.Background(), model.Wallet{OwnerID: "own_1"})
	assert.NoError(t, err)
	assert.Contains(t, wallet.WalletID, "wlt_")
	assert.Equal(t, "own_1", wallet.OwnerID)
	assert.WithinDuration(t, time.Now(), wallet.CreatedAt, time.Second)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCreateWalletIdempotent(t *testing.T) {
	d, mock := newTestDatasource(t)

	mock.ExpectExec("INSERT INTO wallets").
		WithArgs(sqlmock.AnyArg(), "own_1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, wallet_id, owner_id, created_at FROM wallets WHERE owner_id = \\$1").
		WithArgs("own_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "owner_id", "created_at"}).
			AddRow(1, "wlt_existing", "own_1", time.Now()))

	wallet, err := d.CreateWallet(context.Background(), model.Wallet{OwnerID: "own_1"})
	assert.NoError(t, err)
	assert.Equal(t, "wlt_existing", wallet.WalletID)
}

func TestGetWalletByOwnerNotFound(t *testing.T) {
	d, mock := newTestDatasource(t)

	mock.ExpectQuery("SELECT id, wallet_id, owner_id, created_at FROM wallets WHERE owner_id = \\$1").
		WithArgs("own_missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "owner_id", "created_at"}))

	_, err := d.GetWalletByOwner(context.Background(), "own_missing")
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}
