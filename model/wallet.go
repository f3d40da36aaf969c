package model

import "time"

// Wallet anchors an owner's fiat account. It is created explicitly when the
// owner is provisioned rather than through a lifecycle hook, and it carries
// no balance of its own: the balance is always derived from the entry set.
type Wallet struct {
	ID        int64     `json:"-"`
	WalletID  string    `json:"wallet_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
