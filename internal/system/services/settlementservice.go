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

package services

import (
	"net/http"

	"github.com/asgardeo/gate/internal/settlement"
	"github.com/asgardeo/gate/internal/system/server"
)

// SettlementAPIService defines the service for monetized fetch and receipt requests.
type SettlementAPIService struct {
	ServerOpsService  server.ServerOperationServiceInterface
	settlementHandler *settlement.SettlementHandler
}

// NewSettlementAPIService creates a new instance of SettlementAPIService.
func NewSettlementAPIService(mux *http.ServeMux) ServiceInterface {
	instance := &SettlementAPIService{
		ServerOpsService:  server.NewServerOperationService(),
		settlementHandler: settlement.NewSettlementHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the SettlementAPIService.
func (s *SettlementAPIService) RegisterRoutes(mux *http.ServeMux) {
	opts := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, POST",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /fetch", &opts,
		s.settlementHandler.HandleFetchRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /requests/{requestId}", &opts,
		s.settlementHandler.HandleRequestGetRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /requests/{requestId}/receipt", &opts,
		s.settlementHandler.HandleReceiptGetRequest)
}
