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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5002"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Secure    bool   `json:"secure" envconfig:"COINVAULT_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"COINVAULT_SERVER_SECRET_KEY"`
	Port      string `json:"port" envconfig:"COINVAULT_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"COINVAULT_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"COINVAULT_REDIS_DNS"`
}

type QueueConfig struct {
	PriceRefreshQueue string `json:"price_refresh_queue" envconfig:"COINVAULT_QUEUE_PRICE_REFRESH"`
	WorkerConcurrency int    `json:"worker_concurrency" envconfig:"COINVAULT_QUEUE_CONCURRENCY"`
}

// AccountLockConfig bounds the per-account lock. TTL caps how long a crashed
// holder can block an account; WaitTimeout caps how long a caller queues for
// a contended account before getting a lock-timeout error.
type AccountLockConfig struct {
	TTLSeconds     int `json:"ttl_seconds" envconfig:"COINVAULT_LOCK_TTL_SECONDS"`
	WaitTimeoutMS  int `json:"wait_timeout_ms" envconfig:"COINVAULT_LOCK_WAIT_TIMEOUT_MS"`
}

type PricesConfig struct {
	ApiUrl   string `json:"api_url" envconfig:"COINVAULT_PRICES_API_URL"`
	ApiKey   string `json:"api_key" envconfig:"COINVAULT_PRICES_API_KEY"`
	Currency string `json:"currency" envconfig:"COINVAULT_PRICES_CURRENCY"`
	TTLHours int    `json:"ttl_hours" envconfig:"COINVAULT_PRICES_TTL_HOURS"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"COINVAULT_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName  string            `json:"project_name" envconfig:"COINVAULT_PROJECT_NAME"`
	Server       ServerConfig      `json:"server"`
	DataSource   DataSourceConfig  `json:"data_source"`
	Redis        RedisConfig       `json:"redis"`
	Queue        QueueConfig       `json:"queue"`
	AccountLock  AccountLockConfig `json:"account_lock"`
	Prices       PricesConfig      `json:"prices"`
	Notification Notification      `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("coinvault", &cnf)
	if err != nil {
		return err
	}

	cnf.validateAndAddDefaults()

	ConfigStore.Store(&cnf)
	return nil
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called coinvault.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Coinvault Server"
	}
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
	}
	if cnf.Redis.Dns == "" {
		cnf.Redis.Dns = "localhost:6379"
	}
	if cnf.Queue.PriceRefreshQueue == "" {
		cnf.Queue.PriceRefreshQueue = "prices:refresh"
	}
	if cnf.Queue.WorkerConcurrency <= 0 {
		cnf.Queue.WorkerConcurrency = 5
	}
	if cnf.AccountLock.TTLSeconds <= 0 {
		cnf.AccountLock.TTLSeconds = 60
	}
	if cnf.AccountLock.WaitTimeoutMS <= 0 {
		cnf.AccountLock.WaitTimeoutMS = 5000
	}
	if cnf.Prices.ApiUrl == "" {
		cnf.Prices.ApiUrl = "https://api.coingecko.com/api/v3"
	}
	if cnf.Prices.Currency == "" {
		cnf.Prices.Currency = "usd"
	}
	if cnf.Prices.TTLHours <= 0 {
		cnf.Prices.TTLHours = 24
	}
}

// LockTTL is the account lock expiry as a duration.
func (cnf *Configuration) LockTTL() time.Duration {
	return time.Duration(cnf.AccountLock.TTLSeconds) * time.Second
}

// LockWaitTimeout is the bounded wait for a contended account lock.
func (cnf *Configuration) LockWaitTimeout() time.Duration {
	return time.Duration(cnf.AccountLock.WaitTimeoutMS) * time.Millisecond
}

// PriceTTL is how long a fetched price snapshot stays in the cache.
func (cnf *Configuration) PriceTTL() time.Duration {
	return time.Duration(cnf.Prices.TTLHours) * time.Hour
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.validateAndAddDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
