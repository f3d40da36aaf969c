package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiatAsset is the sentinel asset under which wallet entries are recorded.
// Every owner has at most one fiat account; coin accounts are keyed by the
// coin symbol.
const FiatAsset = "fiat"

// EntryKind is the movement type of a ledger entry.
type EntryKind string

const (
	EntryDeposit    EntryKind = "deposit"
	EntryWithdrawal EntryKind = "withdrawal"
	EntryBuy        EntryKind = "buy"
	EntrySell       EntryKind = "sell"
)

// EntrySource tags a wallet entry with where the fiat movement originated.
// It is informational only and never consulted by the validator.
type EntrySource string

const (
	SourceFiat EntrySource = "fiat"
	SourceCoin EntrySource = "coin"
)

// LedgerEntry is one immutable record of a single movement against an
// (owner, asset) account. Entries are never updated once persisted;
// corrections are modeled as a delete followed by a fresh insert.
type LedgerEntry struct {
	ID        int64           `json:"-"`
	EntryID   string          `json:"entry_id"`
	OwnerID   string          `json:"owner_id"`
	Asset     string          `json:"asset"`
	Kind      EntryKind       `json:"kind"`
	Source    EntrySource     `json:"source,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsWalletKind reports whether the kind belongs to the fiat wallet rather
// than a coin holding.
func (k EntryKind) IsWalletKind() bool {
	return k == EntryDeposit || k == EntryWithdrawal
}

// IsDebit reports whether the kind reduces the account balance.
func (k EntryKind) IsDebit() bool {
	return k == EntryWithdrawal || k == EntrySell
}

// ValidKind reports whether k is one of the four supported movement types.
func ValidKind(k EntryKind) bool {
	switch k {
	case EntryDeposit, EntryWithdrawal, EntryBuy, EntrySell:
		return true
	}
	return false
}

// ValidSource reports whether s is a supported wallet entry source.
func ValidSource(s EntrySource) bool {
	return s == SourceFiat || s == SourceCoin
}

// NewWalletEntry builds an unpersisted deposit or withdrawal entry against
// the owner's fiat wallet.
func NewWalletEntry(ownerID string, kind EntryKind, quantity decimal.Decimal, source EntrySource) *LedgerEntry {
	return &LedgerEntry{
		EntryID:   GenerateUUIDWithSuffix("ent"),
		OwnerID:   ownerID,
		Asset:     FiatAsset,
		Kind:      kind,
		Source:    source,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}
}

// NewCoinEntry builds an unpersisted buy or sell entry against the owner's
// holding of the given coin symbol.
func NewCoinEntry(ownerID, asset string, kind EntryKind, quantity, unitPrice decimal.Decimal) *LedgerEntry {
	return &LedgerEntry{
		EntryID:   GenerateUUIDWithSuffix("ent"),
		OwnerID:   ownerID,
		Asset:     asset,
		Kind:      kind,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: time.Now(),
	}
}
