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
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"

	"github.com/coinvault/coinvault/config"
	redis_db "github.com/coinvault/coinvault/internal/redis-db"
)

// Queue hands background work to the asynq workers.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// PriceRefreshPayload is the task body for one coin's price refresh.
type PriceRefreshPayload struct {
	Symbol string `json:"symbol"`
	Slug   string `json:"slug"`
}

// NewQueue initializes the queue client from the configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// EnqueuePriceRefresh queues one coin for a price fetch. The task ID is the
// coin symbol so a refresh already in flight is not enqueued twice.
func (q *Queue) EnqueuePriceRefresh(ctx context.Context, payload PriceRefreshPayload) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	IPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	taskOptions := []asynq.Option{
		asynq.TaskID(payload.Symbol),
		asynq.Queue(cfg.Queue.PriceRefreshQueue),
		asynq.MaxRetry(3),
	}
	task := asynq.NewTask(cfg.Queue.PriceRefreshQueue, IPayload, taskOptions...)
	info, err := q.Client.EnqueueContext(ctx, task)
	if err != nil {
		log.Println(err, info)
		return err
	}
	log.Printf(" [*] Successfully enqueued price refresh: %s", payload.Symbol)
	return nil
}
