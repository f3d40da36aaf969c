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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coinvault/coinvault"
	"github.com/coinvault/coinvault/api/middleware"
	"github.com/coinvault/coinvault/config"
	"github.com/coinvault/coinvault/internal/apierror"
)

type Api struct {
	service *coinvault.Coinvault
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	owned := router.Group("/", middleware.OwnerMiddleware())
	owned.POST("/wallets", a.CreateWallet)
	owned.GET("/wallets", a.GetWallet)
	owned.GET("/wallets/balance", a.GetWalletBalance)
	owned.GET("/wallets/transactions", a.GetWalletTransactions)
	owned.POST("/wallets/deposit", a.Deposit)
	owned.POST("/wallets/withdraw", a.Withdraw)

	owned.POST("/coins/:symbol/buy", a.RecordBuy)
	owned.POST("/coins/:symbol/sell", a.RecordSell)
	owned.GET("/coins/:symbol/transactions", a.GetCoinTransactions)

	owned.GET("/holdings", a.GetHoldings)
	owned.GET("/holdings/:symbol", a.GetHolding)
	owned.GET("/portfolio", a.GetPortfolio)

	owned.GET("/transactions/:id", a.GetEntry)
	owned.DELETE("/transactions/:id", a.DeleteEntry)

	router.GET("/coins", a.GetCoins)
	router.GET("/prices/:symbol", a.GetPrice)
	router.POST("/prices/refresh", a.QueuePriceRefresh)

	return a.router
}

func NewAPI(service *coinvault.Coinvault) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{service: service, router: r}
}

// handleError renders a service error with the status its error code maps
// to. Typed errors keep their code and structured details on the wire.
func handleError(c *gin.Context, err error) {
	status := apierror.MapErrorToHTTPStatus(err)
	if apiErr, ok := err.(apierror.APIError); ok {
		body := gin.H{"error": apiErr.Message, "code": apiErr.Code}
		if apiErr.Details != nil {
			body["details"] = apiErr.Details
		}
		c.JSON(status, body)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// ownerID reads the owner the middleware resolved for this request.
func ownerID(c *gin.Context) string {
	return c.GetString(middleware.OwnerContextKey)
}

func requireParam(c *gin.Context, name string) (string, bool) {
	value, passed := c.Params.Get(name)
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required. pass " + name + " in the route /:" + name})
		return "", false
	}
	return value, true
}
