/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package payout notifies the external payment rail when a settlement credits a
// provider. The wallet ledger is the source of truth; the notification is advisory
// and a failed dispatch does not unwind the settlement.
package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asgardeo/gate/internal/system/config"
	serverconst "github.com/asgardeo/gate/internal/system/constants"
	syshttp "github.com/asgardeo/gate/internal/system/http"
	"github.com/asgardeo/gate/internal/system/log"
)

const loggerComponentName = "PayoutDispatcher"

// Notification is the payload sent to the payout endpoint. Amount is cents.
type Notification struct {
	PayoutAddress string `json:"payout_address"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	RequestID     string `json:"request_id"`
	ResourceID    string `json:"resource_id"`
}

// DispatcherInterface defines payout notification dispatch.
type DispatcherInterface interface {
	Dispatch(ctx context.Context, notification Notification) error
}

// HTTPDispatcher posts notifications to the configured payout endpoint.
type HTTPDispatcher struct {
	httpClient syshttp.HTTPClientInterface
}

// NewHTTPDispatcher creates a new HTTP payout dispatcher.
func NewHTTPDispatcher() DispatcherInterface {
	return &HTTPDispatcher{
		httpClient: syshttp.GetHTTPClient(),
	}
}

// Dispatch posts the notification to the payout endpoint. With no endpoint
// configured, dispatch is a logged no-op.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, notification Notification) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	endpoint := config.GetGateRuntime().Config.Settlement.PayoutEndpoint
	if endpoint == "" {
		logger.Debug("No payout endpoint configured, skipping dispatch",
			log.String(log.LoggerKeyRequestID, notification.RequestID))
		return nil
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal payout notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build payout request: %w", err)
	}
	req.Header.Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to dispatch payout notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payout endpoint returned status %d", resp.StatusCode)
	}

	logger.Debug("Payout notification dispatched",
		log.String(log.LoggerKeyRequestID, notification.RequestID))
	return nil
}
