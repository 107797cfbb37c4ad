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

	"github.com/asgardeo/gate/internal/oauth/introspect"
	"github.com/asgardeo/gate/internal/system/server"
)

// TokenIntrospectService defines the service for handling token introspection requests.
type TokenIntrospectService struct {
	ServerOpsService     server.ServerOperationServiceInterface
	introspectionHandler *introspect.IntrospectionHandler
}

// NewTokenIntrospectService creates a new instance of TokenIntrospectService.
func NewTokenIntrospectService(mux *http.ServeMux) ServiceInterface {
	instance := &TokenIntrospectService{
		ServerOpsService:     server.NewServerOperationService(),
		introspectionHandler: introspect.NewIntrospectionHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the TokenIntrospectService.
func (s *TokenIntrospectService) RegisterRoutes(mux *http.ServeMux) {
	opts := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "POST",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /oauth2/introspect", &opts,
		s.introspectionHandler.HandleIntrospectionRequest)
}
