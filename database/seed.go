package database

import (
	_ "embed"
	"encoding/json"

	"github.com/coinvault/coinvault/model"
)

//go:embed initial_coins.json
var initialCoinsJSON []byte

// DefaultCoins parses the embedded catalog seed shipped with the binary.
func DefaultCoins() ([]model.Coin, error) {
	var coins []model.Coin
	if err := json.Unmarshal(initialCoinsJSON, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}
