package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/model"
)

// SeedCoins loads the catalog with the given coins when the table is still
// empty. Run at migrate time; an already-populated catalog is left alone.
func (d Datasource) SeedCoins(ctx context.Context, seed []model.Coin) error {
	var count int
	err := d.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM coins`).Scan(&count)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to inspect coin catalog", err)
	}
	if count > 0 {
		return nil
	}

	for _, coin := range seed {
		_, err := d.Conn.ExecContext(ctx, `
			INSERT INTO coins (name, symbol, slug, active)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (symbol) DO NOTHING
		`, coin.Name, coin.Symbol, coin.Slug, coin.Active)
		if err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to seed coin catalog", err)
		}
	}
	return nil
}

func (d Datasource) GetActiveCoins(ctx context.Context) ([]model.Coin, error) {
	cacheKey := "coins:active"

	var cached []model.Coin
	if d.Cache != nil {
		err := d.Cache.Get(ctx, cacheKey, &cached)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, name, symbol, slug, active
		FROM coins
		WHERE active = TRUE
		ORDER BY symbol ASC
	`)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve coins", err)
	}
	defer rows.Close()

	coins := []model.Coin{}
	for rows.Next() {
		coin := model.Coin{}
		err = rows.Scan(&coin.ID, &coin.Name, &coin.Symbol, &coin.Slug, &coin.Active)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan coin data", err)
		}
		coins = append(coins, coin)
	}
	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over coins", err)
	}

	if d.Cache != nil && len(coins) > 0 {
		err = d.Cache.Set(ctx, cacheKey, coins, 5*time.Minute)
		if err != nil {
			log.Printf("Failed to cache coin catalog: %v", err)
		}
	}
	return coins, nil
}

func (d Datasource) GetCoinBySymbol(ctx context.Context, symbol string) (*model.Coin, error) {
	coin := model.Coin{}
	row := d.Conn.QueryRowContext(ctx, `
		SELECT id, name, symbol, slug, active
		FROM coins
		WHERE LOWER(symbol) = LOWER($1)
	`, symbol)

	err := row.Scan(&coin.ID, &coin.Name, &coin.Symbol, &coin.Slug, &coin.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Coin not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve coin", err)
	}
	return &coin, nil
}
