package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeWalletBalance(t *testing.T) {
	entries := []LedgerEntry{
		{Kind: EntryDeposit, Quantity: dec("100")},
		{Kind: EntryDeposit, Quantity: dec("50.25")},
		{Kind: EntryWithdrawal, Quantity: dec("30")},
	}

	balance := ComputeWalletBalance(entries)
	assert.True(t, balance.Equal(dec("120.25")), "expected 120.25, got %s", balance)
}

func TestComputeWalletBalanceEmpty(t *testing.T) {
	assert.True(t, ComputeWalletBalance(nil).IsZero())
}

func TestComputeHoldingCostBasis(t *testing.T) {
	entries := []LedgerEntry{
		{Kind: EntryBuy, Quantity: dec("2"), UnitPrice: dec("100")},
		{Kind: EntryBuy, Quantity: dec("3"), UnitPrice: dec("200")},
	}

	state := ComputeHolding("own_1", "btc", entries)
	assert.True(t, state.Balance.Equal(dec("5")))
	assert.True(t, state.CostBasis.Equal(dec("160")), "expected 160, got %s", state.CostBasis)

	// Selling must not move the cost basis; it averages over everything
	// ever bought, not over the units still held.
	entries = append(entries, LedgerEntry{Kind: EntrySell, Quantity: dec("4"), UnitPrice: dec("500")})
	state = ComputeHolding("own_1", "btc", entries)
	assert.True(t, state.Balance.Equal(dec("1")))
	assert.True(t, state.CostBasis.Equal(dec("160")), "cost basis changed after sell: %s", state.CostBasis)
}

func TestComputeHoldingFullySold(t *testing.T) {
	entries := []LedgerEntry{
		{Kind: EntryBuy, Quantity: dec("2"), UnitPrice: dec("10")},
		{Kind: EntrySell, Quantity: dec("2"), UnitPrice: dec("12")},
	}

	state := ComputeHolding("own_1", "eth", entries)
	assert.True(t, state.Balance.IsZero())
	// The record keeps the last cost basis even when nothing is held.
	assert.True(t, state.CostBasis.Equal(dec("10")))
}

func TestComputeHoldingNoBuys(t *testing.T) {
	state := ComputeHolding("own_1", "eth", nil)
	assert.True(t, state.Balance.IsZero())
	assert.True(t, state.CostBasis.IsZero())
}

func TestRecomputationIsDeterministic(t *testing.T) {
	entries := []LedgerEntry{
		{Kind: EntryBuy, Quantity: dec("1.12345678"), UnitPrice: dec("43210.99")},
		{Kind: EntrySell, Quantity: dec("0.5"), UnitPrice: dec("50000")},
		{Kind: EntryBuy, Quantity: dec("2"), UnitPrice: dec("39999.01")},
	}

	first := ComputeHolding("own_1", "btc", entries)
	second := ComputeHolding("own_1", "btc", entries)
	assert.True(t, first.Balance.Equal(second.Balance))
	assert.True(t, first.CostBasis.Equal(second.CostBasis))
}

func TestAccountBalanceDispatch(t *testing.T) {
	wallet := []LedgerEntry{
		{Kind: EntryDeposit, Quantity: dec("10")},
		{Kind: EntryWithdrawal, Quantity: dec("4")},
	}
	assert.True(t, AccountBalance(FiatAsset, wallet).Equal(dec("6")))

	coins := []LedgerEntry{
		{Kind: EntryBuy, Quantity: dec("3"), UnitPrice: dec("1")},
		{Kind: EntrySell, Quantity: dec("1"), UnitPrice: dec("1")},
	}
	assert.True(t, AccountBalance("btc", coins).Equal(dec("2")))
}
