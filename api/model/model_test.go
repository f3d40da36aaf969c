package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateWalletOperation(t *testing.T) {
	op := WalletOperation{Quantity: decimal.RequireFromString("10")}
	assert.NoError(t, op.ValidateWalletOperation())

	op = WalletOperation{Quantity: decimal.Zero}
	assert.Error(t, op.ValidateWalletOperation())

	op = WalletOperation{Quantity: decimal.RequireFromString("10"), Source: "wire"}
	assert.Error(t, op.ValidateWalletOperation())

	op = WalletOperation{Quantity: decimal.RequireFromString("10"), Source: "coin"}
	assert.NoError(t, op.ValidateWalletOperation())
}

func TestValidateRecordTrade(t *testing.T) {
	trade := RecordTrade{Quantity: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("100")}
	assert.NoError(t, trade.ValidateRecordTrade())

	trade = RecordTrade{Quantity: decimal.RequireFromString("2")}
	assert.Error(t, trade.ValidateRecordTrade())

	trade = RecordTrade{Quantity: decimal.RequireFromString("-1"), UnitPrice: decimal.RequireFromString("100")}
	assert.Error(t, trade.ValidateRecordTrade())
}

func TestEntrySourceDefaultsToFiat(t *testing.T) {
	op := WalletOperation{Quantity: decimal.RequireFromString("10")}
	assert.Equal(t, "fiat", string(op.EntrySource()))
}
