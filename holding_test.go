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
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinvault/coinvault/model"
)

func TestRecordBuy(t *testing.T) {
	svc, mock := newTestService(t)
	ownerID := gofakeit.UUID()

	mock.ExpectQuery("SELECT .* FROM coins").
		WithArgs("btc").
		WillReturnRows(coinRow(1, "Bitcoin", "btc", "bitcoin", true))
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs(ownerID, "btc").
		WillReturnRows(entryRows())
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs(sqlmock.AnyArg(), ownerID, "btc", "buy", nil, "2", "100", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO holdings").
		WithArgs(ownerID, "btc", "2", "100", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entry, err := svc.RecordBuy(context.Background(), ownerID, "BTC", decimal.RequireFromString("2"), decimal.RequireFromString("100"))
	require.NoError(t, err)
	assert.Equal(t, model.EntryBuy, entry.Kind)
	assert.Equal(t, "btc", entry.Asset)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordBuyAveragesCostBasis(t *testing.T) {
	svc, mock := newTestService(t)
	ownerID := gofakeit.UUID()

	mock.ExpectQuery("SELECT .* FROM coins").
		WithArgs("btc").
		WillReturnRows(coinRow(1, "Bitcoin", "btc", "bitcoin", true))
	history := entryRows().
		AddRow(1, "ent_1", ownerID, "btc", "buy", nil, "2", "100", time.Now())
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs(ownerID, "btc").
		WillReturnRows(history)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs(sqlmock.AnyArg(), ownerID, "btc", "buy", nil, "3", "200", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	// (2*100 + 3*200) / 5 = 160
	mock.ExpectExec("INSERT INTO holdings").
		WithArgs(ownerID, "btc", "5", "160", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := svc.RecordBuy(context.Background(), ownerID, "btc", decimal.RequireFromString("3"), decimal.RequireFromString("200"))
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSellKeepsCostBasis(t *testing.T) {
	svc, mock := newTestService(t)
	ownerID := gofakeit.UUID()

	mock.ExpectQuery("SELECT .* FROM coins").
		WithArgs("btc").
		WillReturnRows(coinRow(1, "Bitcoin", "btc", "bitcoin", true))
	history := entryRows().
		AddRow(1, "ent_1", ownerID, "btc", "buy", nil, "2", "100", time.Now()).
		AddRow(2, "ent_2", ownerID, "btc", "buy", nil, "3", "200", time.Now())
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs(ownerID, "btc").
		WillReturnRows(history)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WithArgs(sqlmock.AnyArg(), ownerID, "btc", "sell", nil, "4", "500", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))
	// Selling reduces the balance but never the average buy price.
	mock.ExpectExec("INSERT INTO holdings").
		WithArgs(ownerID, "btc", "1", "160", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := svc.RecordSell(context.Background(), ownerID, "btc", decimal.RequireFromString("4"), decimal.RequireFromString("500"))
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSellInsufficientHolding(t *testing.T) {
	svc, mock := newTestService(t)
	ownerID := gofakeit.UUID()

	mock.ExpectQuery("SELECT .* FROM coins").
		WithArgs("btc").
		WillReturnRows(coinRow(1, "Bitcoin", "btc", "bitcoin", true))
	history := entryRows().
		AddRow(1, "ent_1", ownerID, "btc", "buy", nil, "0.10000001", "100", time.Now())
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs(ownerID, "btc").
		WillReturnRows(history)

	_, err := svc.RecordSell(context.Background(), ownerID, "btc", decimal.RequireFromString("0.2"), decimal.RequireFromString("100"))
	rej := assertRejection(t, err, model.ReasonInsufficientBalance)
	assert.Equal(t, "insufficient balance: requested 0.2, available 0.10000001", rej.Error())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordBuyUnknownCoin(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT .* FROM coins").
		WithArgs("shitcoin").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.RecordBuy(context.Background(), gofakeit.UUID(), "shitcoin", decimal.RequireFromString("1"), decimal.RequireFromString("1"))
	assertRejection(t, err, model.ReasonUnknownAsset)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordBuyInactiveCoin(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT .* FROM coins").
		WithArgs("luna").
		WillReturnRows(coinRow(7, "Terra", "luna", "terra-luna", false))

	_, err := svc.RecordBuy(context.Background(), gofakeit.UUID(), "luna", decimal.RequireFromString("1"), decimal.RequireFromString("1"))
	assertRejection(t, err, model.ReasonUnknownAsset)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordBuyRejectsNonPositivePrice(t *testing.T) {
	svc, mock := newTestService(t)
	ownerID := gofakeit.UUID()

	mock.ExpectQuery("SELECT .* FROM coins").
		WithArgs("btc").
		WillReturnRows(coinRow(1, "Bitcoin", "btc", "bitcoin", true))
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs(ownerID, "btc").
		WillReturnRows(entryRows())

	_, err := svc.RecordBuy(context.Background(), ownerID, "btc", decimal.RequireFromString("1"), decimal.Zero)
	assertRejection(t, err, model.ReasonNonPositivePrice)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHoldings(t *testing.T) {
	svc, mock := newTestService(t)
	ownerID := gofakeit.UUID()

	rows := sqlmock.NewRows([]string{"owner_id", "asset", "balance", "cost_basis", "updated_at"}).
		AddRow(ownerID, "btc", "1.5", "42000", time.Now()).
		AddRow(ownerID, "eth", "10", "2500", time.Now())
	mock.ExpectQuery("SELECT .* FROM holdings").
		WithArgs(ownerID).
		WillReturnRows(rows)

	holdings, err := svc.GetHoldings(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.Equal(t, "btc", holdings[0].Asset)
	assert.Equal(t, "1.5", holdings[0].Balance.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}
