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

package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/coinvault/coinvault/config"
	"github.com/coinvault/coinvault/internal/request"
)

// SlackNotification posts an error to the configured Slack webhook. Used by
// background workers where there is no caller to return the error to.
func SlackNotification(err error) error {
	data := json.RawMessage(fmt.Sprintf(`{
		"blocks": [
			{
				"type": "header",
				"text": {
					"type": "plain_text",
					"text": "Error From Coinvault",
					"emoji": true
				}
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Error:*\n%v"
					},
					{
						"type": "mrkdwn",
						"text": "*Time:*\n%s"
					}
				]
			}
		]
	}`, err, time.Now().Format(time.RFC3339)))

	conf, confErr := config.Fetch()
	if confErr != nil {
		return confErr
	}
	if conf.Notification.Slack.WebhookUrl == "" {
		return nil
	}

	payload, marshalErr := request.ToJsonReq(&data)
	if marshalErr != nil {
		return marshalErr
	}

	req, reqErr := http.NewRequest("POST", conf.Notification.Slack.WebhookUrl, payload)
	if reqErr != nil {
		return errors.Wrap(reqErr, "failed to build slack webhook request")
	}

	var response map[string]interface{}
	_, callErr := request.Call(req, &response)
	if callErr != nil {
		return errors.Wrap(callErr, "failed to post slack notification")
	}
	return nil
}

// NotifyError reports an error to Slack and the log. Errors from the
// notification path itself are only logged; they must never mask the
// original failure.
func NotifyError(systemError error) {
	logrus.Error(systemError)
	if err := SlackNotification(systemError); err != nil {
		logrus.Error("notification error: ", err)
	}
}
