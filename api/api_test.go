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

package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinvault/coinvault"
	"github.com/coinvault/coinvault/api/middleware"
	"github.com/coinvault/coinvault/config"
	"github.com/coinvault/coinvault/database"
	"github.com/coinvault/coinvault/internal/cache"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	if s.Response != nil {
		err := json.NewDecoder(resp.Body).Decode(&s.Response)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	config.MockConfig(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
	})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	newCache, err := cache.NewCache()
	require.NoError(t, err)

	service, err := coinvault.NewCoinvault(&database.Datasource{Conn: db, Cache: newCache})
	require.NoError(t, err)

	return NewAPI(service).Router(), mock
}

func ownerHeader(ownerID string) map[string]string {
	return map[string]string{middleware.OwnerHeader: ownerID}
}

func TestDepositEndpoint(t *testing.T) {
	router, mock := setupRouter(t)
	ownerID := gofakeit.UUID()

	mock.ExpectQuery("SELECT .* FROM wallets").
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "owner_id", "created_at"}).
			AddRow(1, "wlt_test", ownerID, time.Now()))
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs(ownerID, "fiat").
		WillReturnRows(sqlmock.NewRows([]string{"id", "entry_id", "owner_id", "asset", "kind", "source", "quantity", "unit_price", "created_at"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_entries").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  strings.NewReader(`{"quantity": "250.50"}`),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/wallets/deposit",
		Header:   ownerHeader(ownerID),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "deposit", response["kind"])
	assert.Equal(t, "250.5", response["quantity"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositWithoutOwnerHeader(t *testing.T) {
	router, _ := setupRouter(t)

	resp, err := SetUpTestRequest(TestRequest{
		Payload: strings.NewReader(`{"quantity": "10"}`),
		Router:  router,
		Method:  http.MethodPost,
		Route:   "/wallets/deposit",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDepositRejectsZeroQuantity(t *testing.T) {
	router, _ := setupRouter(t)

	resp, err := SetUpTestRequest(TestRequest{
		Payload: strings.NewReader(`{"quantity": "0"}`),
		Router:  router,
		Method:  http.MethodPost,
		Route:   "/wallets/deposit",
		Header:  ownerHeader(gofakeit.UUID()),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestWithdrawInsufficientBalanceEndpoint(t *testing.T) {
	router, mock := setupRouter(t)
	ownerID := gofakeit.UUID()

	mock.ExpectQuery("SELECT .* FROM wallets").
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "owner_id", "created_at"}).
			AddRow(1, "wlt_test", ownerID, time.Now()))
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs(ownerID, "fiat").
		WillReturnRows(sqlmock.NewRows([]string{"id", "entry_id", "owner_id", "asset", "kind", "source", "quantity", "unit_price", "created_at"}).
			AddRow(1, "ent_1", ownerID, "fiat", "deposit", "fiat", "100", nil, time.Now()))

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  strings.NewReader(`{"quantity": "150"}`),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/wallets/withdraw",
		Header:   ownerHeader(ownerID),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "INSUFFICIENT_BALANCE", response["code"])

	details, ok := response["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "insufficient_balance", details["reason"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCoinsEndpoint(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT .* FROM coins").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "symbol", "slug", "active"}).
			AddRow(1, "Bitcoin", "btc", "bitcoin", true).
			AddRow(2, "Ethereum", "eth", "ethereum", true))

	var response []map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router:   router,
		Response: &response,
		Method:   http.MethodGet,
		Route:    "/coins",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, response, 2)
	assert.Equal(t, "btc", response[0]["symbol"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPriceNotRefreshedYet(t *testing.T) {
	router, mock := setupRouter(t)

	mock.ExpectQuery("SELECT .* FROM coins").
		WithArgs("btc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "symbol", "slug", "active"}).
			AddRow(1, "Bitcoin", "btc", "bitcoin", true))

	resp, err := SetUpTestRequest(TestRequest{
		Router: router,
		Method: http.MethodGet,
		Route:  "/prices/btc",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntryEndpointRejected(t *testing.T) {
	router, mock := setupRouter(t)
	ownerID := gofakeit.UUID()

	entryRows := sqlmock.NewRows([]string{"id", "entry_id", "owner_id", "asset", "kind", "source", "quantity", "unit_price", "created_at"}).
		AddRow(1, "ent_1", ownerID, "fiat", "deposit", "fiat", "100", nil, time.Now())
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs("ent_1").
		WillReturnRows(entryRows)
	historyRows := sqlmock.NewRows([]string{"id", "entry_id", "owner_id", "asset", "kind", "source", "quantity", "unit_price", "created_at"}).
		AddRow(1, "ent_1", ownerID, "fiat", "deposit", "fiat", "100", nil, time.Now()).
		AddRow(2, "ent_2", ownerID, "fiat", "withdrawal", "fiat", "100", nil, time.Now())
	mock.ExpectQuery("SELECT .* FROM ledger_entries").
		WithArgs(ownerID, "fiat").
		WillReturnRows(historyRows)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router:   router,
		Response: &response,
		Method:   http.MethodDelete,
		Route:    "/transactions/ent_1",
		Header:   ownerHeader(ownerID),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	details, ok := response["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "would_violate_history", details["reason"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSecretKeyAuth(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	config.MockConfig(&config.Configuration{
		Redis:  config.RedisConfig{Dns: mr.Addr()},
		Server: config.ServerConfig{Secure: true, SecretKey: "some-secret"},
	})

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	newCache, err := cache.NewCache()
	require.NoError(t, err)

	service, err := coinvault.NewCoinvault(&database.Datasource{Conn: db, Cache: newCache})
	require.NoError(t, err)
	router := NewAPI(service).Router()

	resp, err := SetUpTestRequest(TestRequest{
		Router: router,
		Method: http.MethodGet,
		Route:  "/coins",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp2, err := SetUpTestRequest(TestRequest{
		Router: router,
		Method: http.MethodGet,
		Route:  "/",
		Header: map[string]string{middleware.KeyHeader: "some-secret"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp2.Code)
}
