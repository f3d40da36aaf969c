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

// CreateWallet provisions the fiat wallet for the acting owner. Repeating
// the call returns the existing wallet.
func (a Api) CreateWallet(c *gin.Context) {
	resp, err := a.service.CreateWallet(c.Request.Context(), ownerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetWallet(c *gin.Context) {
	resp, err := a.service.GetWallet(c.Request.Context(), ownerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetWalletBalance(c *gin.Context) {
	resp, err := a.service.GetWalletBalance(c.Request.Context(), ownerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetWalletTransactions(c *gin.Context) {
	resp, err := a.service.GetWalletTransactions(c.Request.Context(), ownerID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deposit credits the owner's wallet.
//
// Responses:
// - 400 Bad Request: invalid body or a validation rejection.
// - 201 Created: the recorded entry.
func (a Api) Deposit(c *gin.Context) {
	var op model2.WalletOperation
	if err := c.ShouldBindJSON(&op); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := op.ValidateWalletOperation(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.Deposit(c.Request.Context(), ownerID(c), op.Quantity, op.EntrySource())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Withdraw debits the owner's wallet. An overdraw is rejected with the
// requested and available quantities in the error details.
func (a Api) Withdraw(c *gin.Context) {
	var op model2.WalletOperation
	if err := c.ShouldBindJSON(&op); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := op.ValidateWalletOperation(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.service.Withdraw(c.Request.Context(), ownerID(c), op.Quantity, op.EntrySource())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
