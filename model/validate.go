package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RejectReason identifies the invariant a candidate entry violated.
type RejectReason string

const (
	ReasonNonPositiveQuantity RejectReason = "non_positive_quantity"
	ReasonNonPositivePrice    RejectReason = "non_positive_price"
	ReasonInsufficientBalance RejectReason = "insufficient_balance"
	ReasonUnknownAsset        RejectReason = "unknown_asset"
	ReasonWouldViolateHistory RejectReason = "would_violate_history"
)

// Rejection is a typed validation failure. For insufficient_balance it
// carries the exact requested and available quantities so the API layer can
// render a precise message without re-deriving them.
type Rejection struct {
	Reason    RejectReason    `json:"reason"`
	Asset     string          `json:"asset,omitempty"`
	Requested decimal.Decimal `json:"requested,omitempty"`
	Available decimal.Decimal `json:"available,omitempty"`
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonNonPositiveQuantity:
		return "quantity must be greater than zero"
	case ReasonNonPositivePrice:
		return "unit price must be greater than zero"
	case ReasonInsufficientBalance:
		return fmt.Sprintf("insufficient balance: requested %s, available %s", r.Requested.String(), r.Available.String())
	case ReasonUnknownAsset:
		return fmt.Sprintf("unknown or inactive asset %s", r.Asset)
	case ReasonWouldViolateHistory:
		return "entry cannot be removed: a later entry would overdraw the account"
	}
	return string(r.Reason)
}

// Reject builds a bare rejection for the given reason.
func Reject(reason RejectReason) *Rejection {
	return &Rejection{Reason: reason}
}

// ValidateEntry checks a candidate entry against the account's current
// history and returns a *Rejection when an invariant would be violated.
//
// history must contain every persisted entry of the candidate's
// (owner, asset) account. excludeID names an entry being replaced by the
// candidate and is left out of the balance computation; pass "" for plain
// inserts. Rules run in order: positive quantity, positive unit price for
// coin entries, then sufficient balance for debits.
func ValidateEntry(history []LedgerEntry, candidate *LedgerEntry, excludeID string) error {
	if !candidate.Quantity.IsPositive() {
		return Reject(ReasonNonPositiveQuantity)
	}
	if !candidate.Kind.IsWalletKind() && !candidate.UnitPrice.IsPositive() {
		return Reject(ReasonNonPositivePrice)
	}
	if candidate.Kind.IsDebit() {
		available := AccountBalance(candidate.Asset, excludeEntry(history, excludeID))
		if candidate.Quantity.GreaterThan(available) {
			return &Rejection{
				Reason:    ReasonInsufficientBalance,
				Asset:     candidate.Asset,
				Requested: candidate.Quantity,
				Available: available,
			}
		}
	}
	return nil
}

// CheckDelete decides whether the entry may be removed from the account's
// history. Removal is simulated and every subsequent entry is replayed
// against the reduced history; if any later sell or withdrawal would have
// overdrawn the account the deletion is rejected with
// would_violate_history. history must be ordered oldest first.
func CheckDelete(history []LedgerEntry, entryID string) error {
	running := decimal.Zero
	for _, e := range history {
		if e.EntryID == entryID {
			continue
		}
		if e.Kind.IsDebit() {
			running = running.Sub(e.Quantity)
		} else {
			running = running.Add(e.Quantity)
		}
		if running.IsNegative() {
			return Reject(ReasonWouldViolateHistory)
		}
	}
	return nil
}

func excludeEntry(history []LedgerEntry, excludeID string) []LedgerEntry {
	if excludeID == "" {
		return history
	}
	kept := make([]LedgerEntry, 0, len(history))
	for _, e := range history {
		if e.EntryID != excludeID {
			kept = append(kept, e)
		}
	}
	return kept
}
