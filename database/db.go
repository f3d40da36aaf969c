package database

import (
	"database/sql"
	"log"
	"sync"

	"github.com/coinvault/coinvault/config"
	"github.com/coinvault/coinvault/internal/cache"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con, Cache: nil}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database connection error: %v", err)
		return nil, err
	}
	err = createCoinTable(db)
	if err != nil {
		return nil, err
	}
	err = createWalletTable(db)
	if err != nil {
		return nil, err
	}
	err = createLedgerEntryTable(db)
	if err != nil {
		return nil, err
	}
	err = createHoldingTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createCoinTable creates the tradable asset catalog.
func createCoinTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS coins (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			symbol TEXT NOT NULL UNIQUE,
			slug TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)
	`)
	return err
}

func createWalletTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS wallets (
			id SERIAL PRIMARY KEY,
			wallet_id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// createLedgerEntryTable creates the immutable entry table. The
// (owner_id, asset) index is the account partition key every balance
// recomputation reads through.
func createLedgerEntryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id SERIAL PRIMARY KEY,
			entry_id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL,
			asset TEXT NOT NULL,
			kind TEXT NOT NULL,
			source TEXT,
			quantity NUMERIC NOT NULL,
			unit_price NUMERIC,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_ledger_entries_owner_asset
		ON ledger_entries (owner_id, asset)
	`)
	return err
}

// createHoldingTable creates the derived projection refreshed inside the
// same transaction as every entry write.
func createHoldingTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS holdings (
			id SERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL,
			asset TEXT NOT NULL,
			balance NUMERIC NOT NULL,
			cost_basis NUMERIC NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (owner_id, asset)
		)
	`)
	return err
}
