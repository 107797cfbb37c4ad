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

	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/system/server"
)

// RegistrationService defines the service for dynamic client registration.
type RegistrationService struct {
	ServerOpsService    server.ServerOperationServiceInterface
	registrationHandler *client.RegistrationHandler
}

// NewRegistrationService creates a new instance of RegistrationService.
func NewRegistrationService(mux *http.ServeMux) ServiceInterface {
	instance := &RegistrationService{
		ServerOpsService:    server.NewServerOperationService(),
		registrationHandler: client.NewRegistrationHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the RegistrationService.
func (s *RegistrationService) RegisterRoutes(mux *http.ServeMux) {
	opts := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "POST",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /oauth2/register", &opts,
		s.registrationHandler.HandleRegistrationRequest)
}
