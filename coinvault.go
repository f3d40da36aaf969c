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
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/coinvault/coinvault/config"
	"github.com/coinvault/coinvault/database"
	"github.com/coinvault/coinvault/internal/apierror"
	"github.com/coinvault/coinvault/internal/cache"
	redlock "github.com/coinvault/coinvault/internal/lock"
	redis_db "github.com/coinvault/coinvault/internal/redis-db"
	"github.com/coinvault/coinvault/model"
)

// accountStateTTL bounds how long a derived-state snapshot may sit in the
// cache; every committed mutation rewrites it, so the TTL only matters for
// accounts nobody touches.
const accountStateTTL = time.Hour

// Coinvault is the ledger service façade. All mutations of an account go
// through it: acquire the account lock, validate against history, persist
// the entry together with the recomputed projection, release the lock.
type Coinvault struct {
	queue      *Queue
	redis      redis.UniversalClient
	cache      cache.Cache
	datasource database.IDataSource
}

// NewCoinvault initializes the service with the provided datasource,
// wiring Redis for the account locks, the read-side cache and the price
// refresh queue from the active configuration.
func NewCoinvault(db database.IDataSource) (*Coinvault, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{configuration.Redis.Dns})
	if err != nil {
		return nil, err
	}
	newCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	return &Coinvault{
		queue:      newQueue,
		redis:      redisClient.Client(),
		cache:      newCache,
		datasource: db,
	}, nil
}

func accountLockKey(ownerID, asset string) string {
	return fmt.Sprintf("lock:%s:%s", ownerID, asset)
}

func accountStateKey(ownerID, asset string) string {
	return fmt.Sprintf("acct:%s:%s", ownerID, asset)
}

// withAccountLock runs fn inside the exclusive scope of one (owner, asset)
// account. Every operation touches exactly one account lock, so no lock
// ordering issue can arise. The bounded wait surfaces as a LOCK_TIMEOUT
// error the caller may retry; nothing has been committed at that point.
func (c *Coinvault) withAccountLock(ctx context.Context, ownerID, asset string, fn func(ctx context.Context) error) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	locker := redlock.NewLocker(c.redis, accountLockKey(ownerID, asset), model.GenerateUUIDWithSuffix("loc"))
	if err := locker.WaitLock(ctx, cfg.LockTTL(), cfg.LockWaitTimeout()); err != nil {
		return apierror.NewAPIError(apierror.ErrLockTimeout, "account is locked by another operation, retry later", err)
	}
	defer func() {
		if err := locker.Unlock(context.Background()); err != nil {
			logrus.Error("lock error ", err)
		}
	}()

	return fn(ctx)
}

// rejectionError converts a validation rejection into the typed API error
// the boundary layer renders. Anything else passes through untouched.
func rejectionError(err error) error {
	var rej *model.Rejection
	if errors.As(err, &rej) {
		code := apierror.ErrInvalidInput
		if rej.Reason == model.ReasonInsufficientBalance {
			code = apierror.ErrInsufficientBalance
		}
		return apierror.NewAPIError(code, rej.Error(), rej)
	}
	return err
}

// cacheAccountState writes the freshly recomputed derived state through to
// the read-side cache. Failures only cost cache freshness, never the
// committed mutation, so they are logged and swallowed.
func (c *Coinvault) cacheAccountState(ctx context.Context, state model.AccountState) {
	if err := c.cache.Set(ctx, accountStateKey(state.OwnerID, state.Asset), state, accountStateTTL); err != nil {
		logrus.Error("account state cache error ", err)
	}
}

// GetAccountState returns the current derived state of one (owner, asset)
// account. The cached snapshot is rewritten on every committed mutation, so
// a hit is never staler than the last commit; on a miss the state is
// recomputed from the store. Display reads never take the account lock.
func (c *Coinvault) GetAccountState(ctx context.Context, ownerID, asset string) (*model.AccountState, error) {
	var cached model.AccountState
	if err := c.cache.Get(ctx, accountStateKey(ownerID, asset), &cached); err != nil {
		logrus.Error("account state cache error ", err)
	}
	if !cached.UpdatedAt.IsZero() {
		return &cached, nil
	}

	state, err := c.loadAccountState(ctx, ownerID, asset)
	if err != nil {
		return nil, err
	}
	c.cacheAccountState(ctx, *state)
	return state, nil
}

func (c *Coinvault) loadAccountState(ctx context.Context, ownerID, asset string) (*model.AccountState, error) {
	if asset == model.FiatAsset {
		history, err := c.datasource.GetAccountHistory(ctx, ownerID, model.FiatAsset)
		if err != nil {
			return nil, err
		}
		return &model.AccountState{
			OwnerID:   ownerID,
			Asset:     model.FiatAsset,
			Balance:   model.ComputeWalletBalance(history),
			UpdatedAt: time.Now(),
		}, nil
	}

	state, err := c.datasource.GetHolding(ctx, ownerID, asset)
	if err != nil {
		if apiErr, ok := err.(apierror.APIError); ok && apiErr.Code == apierror.ErrNotFound {
			// Never traded: the account exists implicitly with zero state.
			return &model.AccountState{OwnerID: ownerID, Asset: asset, UpdatedAt: time.Now()}, nil
		}
		return nil, err
	}
	return state, nil
}
