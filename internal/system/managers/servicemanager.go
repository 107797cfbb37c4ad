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

// Package managers provides functionality for managing and registering system services.
package managers

import (
	"net/http"

	"github.com/asgardeo/gate/internal/system/services"
)

// ServiceManagerInterface defines the interface for managing services.
type ServiceManagerInterface interface {
	RegisterServices() error
}

// ServiceManager implements the ServiceManagerInterface and is responsible for registering services.
type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {
	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices registers all the services with the provided HTTP multiplexer.
func (sm *ServiceManager) RegisterServices() error {
	// Register the health service.
	services.NewHealthCheckService(sm.mux)

	// Register the client registration service.
	services.NewRegistrationService(sm.mux)

	// Register the authorization service.
	services.NewAuthorizationService(sm.mux)

	// Register the token service.
	services.NewTokenService(sm.mux)

	// Register the JWKS service.
	services.NewJWKSAPIService(sm.mux)

	// Register the introspection service.
	services.NewTokenIntrospectService(sm.mux)

	// Register the well-known metadata service.
	services.NewDiscoveryService(sm.mux)

	// Register the User service.
	services.NewUserService(sm.mux)

	// Register the wallet and PIN service.
	services.NewWalletService(sm.mux)

	// Register the spending policy service.
	services.NewPolicyService(sm.mux)

	// Register the resource catalog service.
	services.NewResourceAPIService(sm.mux)

	// Register the settlement service.
	services.NewSettlementAPIService(sm.mux)

	// Register the MCP tool service.
	services.NewMCPService(sm.mux)

	return nil
}
