package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountState is the derived view of one (owner, asset) account. It is
// recomputed in full from the account's entry set after every mutation and
// is never adjusted incrementally, so it can never drift from the entries.
type AccountState struct {
	OwnerID   string          `json:"owner_id"`
	Asset     string          `json:"asset"`
	Balance   decimal.Decimal `json:"balance"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ComputeWalletBalance derives the fiat balance from a wallet entry set:
// sum of deposits minus sum of withdrawals. The computation is idempotent;
// the same entry set always yields the same balance.
func ComputeWalletBalance(entries []LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		switch e.Kind {
		case EntryDeposit:
			balance = balance.Add(e.Quantity)
		case EntryWithdrawal:
			balance = balance.Sub(e.Quantity)
		}
	}
	return balance
}

// ComputeHolding derives the balance and cost basis of a coin account from
// its entry set.
//
// The cost basis is the weighted-average price of every buy ever recorded:
// sum(buy.quantity * buy.unit_price) / sum(buy.quantity). Sells reduce the
// balance but leave the cost basis untouched; this mirrors the historical
// behavior of the product and is a business rule, not an oversight. When a
// holding has been fully sold the last computed cost basis is retained on
// the record.
func ComputeHolding(ownerID, asset string, entries []LedgerEntry) AccountState {
	totalBought := decimal.Zero
	totalSold := decimal.Zero
	totalCost := decimal.Zero
	for _, e := range entries {
		switch e.Kind {
		case EntryBuy:
			totalBought = totalBought.Add(e.Quantity)
			totalCost = totalCost.Add(e.Quantity.Mul(e.UnitPrice))
		case EntrySell:
			totalSold = totalSold.Add(e.Quantity)
		}
	}

	costBasis := decimal.Zero
	if totalBought.IsPositive() {
		costBasis = totalCost.Div(totalBought)
	}

	return AccountState{
		OwnerID:   ownerID,
		Asset:     asset,
		Balance:   totalBought.Sub(totalSold),
		CostBasis: costBasis,
		UpdatedAt: time.Now(),
	}
}

// AccountBalance derives the balance of any account from its entry set,
// dispatching on the asset. It is the quantity the validator measures
// sells and withdrawals against.
func AccountBalance(asset string, entries []LedgerEntry) decimal.Decimal {
	if asset == FiatAsset {
		return ComputeWalletBalance(entries)
	}
	balance := decimal.Zero
	for _, e := range entries {
		switch e.Kind {
		case EntryBuy:
			balance = balance.Add(e.Quantity)
		case EntrySell:
			balance = balance.Sub(e.Quantity)
		}
	}
	return balance
}
