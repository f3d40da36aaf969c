/*
Copyright 2025 Coinvault Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package coinvault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coinvault/coinvault/config"
	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/internal/request"
	"github.com/coinvault/coinvault/model"
)

func priceKey(symbol string) string {
	return fmt.Sprintf("price:%s", strings.ToLower(symbol))
}

// GetPrice returns the cached price snapshot for a coin. The ledger never
// fetches prices inline; a missing snapshot means the refresh worker has not
// run for the coin yet and surfaces as not found.
func (c *Coinvault) GetPrice(ctx context.Context, symbol string) (*model.PriceSnapshot, error) {
	coin, err := c.resolveActiveCoin(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var snapshot model.PriceSnapshot
	if err := c.cache.Get(ctx, priceKey(coin.Symbol), &snapshot); err != nil {
		return nil, err
	}
	if snapshot.FetchedAt.IsZero() {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("no price snapshot for %s yet", coin.Symbol), nil)
	}
	return &snapshot, nil
}

// QueuePriceRefresh enqueues a refresh task for every active coin and
// returns the symbols queued. A coin whose refresh is already in flight is
// skipped, not treated as a failure.
func (c *Coinvault) QueuePriceRefresh(ctx context.Context) ([]string, error) {
	coins, err := c.datasource.GetActiveCoins(ctx)
	if err != nil {
		return nil, err
	}

	queued := make([]string, 0, len(coins))
	for _, coin := range coins {
		err := c.queue.EnqueuePriceRefresh(ctx, PriceRefreshPayload{Symbol: coin.Symbol, Slug: coin.Slug})
		if err != nil {
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}
			return queued, err
		}
		queued = append(queued, coin.Symbol)
	}
	return queued, nil
}

// simplePriceResponse mirrors the CoinGecko /simple/price document:
// {"bitcoin": {"usd": 64321.12}}.
type simplePriceResponse map[string]map[string]decimal.Decimal

// RefreshPrice fetches the current price for one coin from the configured
// provider and writes the snapshot through the cache with the configured
// TTL. Transient provider failures are retried with exponential backoff
// before the task is surfaced to asynq for rescheduling.
func (c *Coinvault) RefreshPrice(ctx context.Context, payload PriceRefreshPayload) (*model.PriceSnapshot, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	var priced simplePriceResponse
	operation := func() error {
		url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", cfg.Prices.ApiUrl, payload.Slug, cfg.Prices.Currency)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if cfg.Prices.ApiKey != "" {
			req.Header.Set("x-cg-demo-api-key", cfg.Prices.ApiKey)
		}
		_, err = request.Call(req, &priced)
		return err
	}
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)); err != nil {
		return nil, err
	}

	quote, ok := priced[payload.Slug]
	if !ok {
		return nil, fmt.Errorf("price provider returned no quote for %s", payload.Slug)
	}
	price, ok := quote[cfg.Prices.Currency]
	if !ok {
		return nil, fmt.Errorf("price provider returned no %s quote for %s", cfg.Prices.Currency, payload.Slug)
	}

	snapshot := model.PriceSnapshot{
		Symbol:    payload.Symbol,
		Slug:      payload.Slug,
		Currency:  cfg.Prices.Currency,
		Price:     price,
		FetchedAt: time.Now(),
	}
	if err := c.cache.Set(ctx, priceKey(payload.Symbol), snapshot, cfg.PriceTTL()); err != nil {
		return nil, err
	}
	logrus.Infof("refreshed price for %s: %s %s", payload.Symbol, snapshot.Price.String(), snapshot.Currency)
	return &snapshot, nil
}
