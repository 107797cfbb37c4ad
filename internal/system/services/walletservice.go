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

	"github.com/asgardeo/gate/internal/system/server"
	"github.com/asgardeo/gate/internal/wallet"
	"github.com/asgardeo/gate/internal/wallet/pin"
)

// WalletService defines the service for handling wallet and PIN requests.
type WalletService struct {
	ServerOpsService server.ServerOperationServiceInterface
	walletHandler    *wallet.WalletHandler
	pinHandler       *pin.PinHandler
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(mux *http.ServeMux) ServiceInterface {
	instance := &WalletService{
		ServerOpsService: server.NewServerOperationService(),
		walletHandler:    wallet.NewWalletHandler(),
		pinHandler:       pin.NewPinHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the WalletService.
func (s *WalletService) RegisterRoutes(mux *http.ServeMux) {
	opts := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, POST, PUT",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "GET /users/{userId}/wallets", &opts,
		s.walletHandler.HandleWalletListRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /users/{userId}/wallets/{role}", &opts,
		s.walletHandler.HandleWalletGetRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "POST /users/{userId}/wallets/{role}/deposits", &opts,
		s.walletHandler.HandleDepositRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "POST /users/{userId}/wallets/{role}/withdrawals", &opts,
		s.walletHandler.HandleWithdrawRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "PUT /users/{userId}/wallets/{role}/status", &opts,
		s.walletHandler.HandleStatusUpdateRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /users/{userId}/wallets/{role}/ledger", &opts,
		s.walletHandler.HandleLedgerGetRequest)

	s.ServerOpsService.WrapHandleFunction(mux, "GET /users/{userId}/wallet/pin", &opts,
		s.pinHandler.HandlePinStatusRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "POST /users/{userId}/wallet/pin", &opts,
		s.pinHandler.HandlePinSetRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "PUT /users/{userId}/wallet/pin", &opts,
		s.pinHandler.HandlePinChangeRequest)
}
