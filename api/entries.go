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

func (a Api) GetEntry(c *gin.Context) {
	id, passed := requireParam(c, "id")
	if !passed {
		return
	}

	resp, err := a.service.GetEntry(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteEntry removes a ledger entry after re-validating the remaining
// history. A deletion that would leave a later debit overdrawn is rejected.
//
// Responses:
// - 404 Not Found: no entry with the given ID.
// - 400 Bad Request: the remaining history would be inconsistent.
// - 200 OK: the entry was removed and the account state recomputed.
func (a Api) DeleteEntry(c *gin.Context) {
	id, passed := requireParam(c, "id")
	if !passed {
		return
	}

	if err := a.service.DeleteEntry(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}
