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

package payout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/system/config"
	syshttp "github.com/asgardeo/gate/internal/system/http"
)

type PayoutDispatcherTestSuite struct {
	suite.Suite
}

func TestPayoutDispatcherSuite(t *testing.T) {
	suite.Run(t, new(PayoutDispatcherTestSuite))
}

func (s *PayoutDispatcherTestSuite) initRuntime(endpoint string) {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{
		Settlement: config.SettlementConfig{PayoutEndpoint: endpoint},
	})
	s.Require().NoError(err)
}

func (s *PayoutDispatcherTestSuite) TestDispatchPostsNotification() {
	var received Notification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.NoError(json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	s.initRuntime(server.URL)
	dispatcher := &HTTPDispatcher{httpClient: syshttp.NewHTTPClient()}

	err := dispatcher.Dispatch(context.Background(), Notification{
		PayoutAddress: "acct:provider-1",
		Amount:        291,
		Currency:      "USD",
		RequestID:     "req-1",
		ResourceID:    "res-1",
	})
	s.Require().NoError(err)
	s.Equal("acct:provider-1", received.PayoutAddress)
	s.Equal(int64(291), received.Amount)
}

func (s *PayoutDispatcherTestSuite) TestDispatchFailsOnErrorStatus() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s.initRuntime(server.URL)
	dispatcher := &HTTPDispatcher{httpClient: syshttp.NewHTTPClient()}

	err := dispatcher.Dispatch(context.Background(), Notification{RequestID: "req-1"})
	s.Require().Error(err)
}

func (s *PayoutDispatcherTestSuite) TestDispatchWithoutEndpointIsNoOp() {
	s.initRuntime("")
	dispatcher := &HTTPDispatcher{httpClient: syshttp.NewHTTPClient()}

	err := dispatcher.Dispatch(context.Background(), Notification{RequestID: "req-1"})
	s.Require().NoError(err)
}
