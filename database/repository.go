package database

import (
	"context"

	"github.com/coinvault/coinvault/model"
)

type IDataSource interface {
	ledgerEntries
	wallets
	coins
	holdings
}

type ledgerEntries interface {
	RecordEntry(ctx context.Context, entry *model.LedgerEntry, projection *model.AccountState) (*model.LedgerEntry, error)
	DeleteEntry(ctx context.Context, entryID string, projection *model.AccountState) error
	GetEntry(ctx context.Context, entryID string) (*model.LedgerEntry, error)
	GetAccountHistory(ctx context.Context, ownerID, asset string) ([]model.LedgerEntry, error)
	ListEntries(ctx context.Context, ownerID, asset string) ([]model.LedgerEntry, error)
}

type wallets interface {
	CreateWallet(ctx context.Context, wallet model.Wallet) (model.Wallet, error)
	GetWalletByOwner(ctx context.Context, ownerID string) (*model.Wallet, error)
}

type coins interface {
	SeedCoins(ctx context.Context, seed []model.Coin) error
	GetActiveCoins(ctx context.Context) ([]model.Coin, error)
	GetCoinBySymbol(ctx context.Context, symbol string) (*model.Coin, error)
}

type holdings interface {
	GetHolding(ctx context.Context, ownerID, asset string) (*model.AccountState, error)
	GetHoldingsByOwner(ctx context.Context, ownerID string) ([]model.AccountState, error)
}
