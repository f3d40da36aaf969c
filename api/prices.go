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
)

// GetPrice serves the cached snapshot for a coin. Prices are refreshed by
// the background worker; this endpoint never calls the provider.
func (a Api) GetPrice(c *gin.Context) {
	symbol, passed := requireParam(c, "symbol")
	if !passed {
		return
	}

	resp, err := a.service.GetPrice(c.Request.Context(), symbol)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QueuePriceRefresh schedules a refresh for every active coin.
func (a Api) QueuePriceRefresh(c *gin.Context) {
	queued, err := a.service.QueuePriceRefresh(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": queued})
}
