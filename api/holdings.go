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
	"github.com/sirupsen/logrus"

	model2 "github.com/coinvault/coinvault/api/model"
)

func (a Api) GetCoins(c *gin.Context) {
	resp, err := a.service.GetCoins(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordBuy records the purchase of a coin for the acting owner.
func (a Api) RecordBuy(c *gin.Context) {
	symbol, passed := requireParam(c, "symbol")
	if !passed {
		return
	}

	var trade model2.RecordTrade
	if err := c.ShouldBindJSON(&trade); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := trade.ValidateRecordTrade(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.RecordBuy(c.Request.Context(), ownerID(c), symbol, trade.Quantity, trade.UnitPrice)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RecordSell records the sale of a coin for the acting owner. Selling more
// than the held balance is rejected.
func (a Api) RecordSell(c *gin.Context) {
	symbol, passed := requireParam(c, "symbol")
	if !passed {
		return
	}

	var trade model2.RecordTrade
	if err := c.ShouldBindJSON(&trade); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := trade.ValidateRecordTrade(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.RecordSell(c.Request.Context(), ownerID(c), symbol, trade.Quantity, trade.UnitPrice)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetCoinTransactions(c *gin.Context) {
	symbol, passed := requireParam(c, "symbol")
	if !passed {
		return
	}

	resp, err := a.service.GetCoinTransactions(c.Request.Context(), ownerID(c), symbol)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetHoldings(c *gin.Context) {
	resp, err := a.service.GetHoldings(c.Request.Context(), ownerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetHolding(c *gin.Context) {
	symbol, passed := requireParam(c, "symbol")
	if !passed {
		return
	}

	resp, err := a.service.GetHolding(c.Request.Context(), ownerID(c), symbol)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPortfolio returns the owner's holdings priced against the latest
// cached snapshots.
func (a Api) GetPortfolio(c *gin.Context) {
	resp, err := a.service.GetPortfolio(c.Request.Context(), ownerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
