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

	"github.com/asgardeo/gate/internal/oauth/discovery"
	"github.com/asgardeo/gate/internal/system/server"
)

// DiscoveryService defines the service exposing the well-known OAuth metadata documents.
type DiscoveryService struct {
	ServerOpsService server.ServerOperationServiceInterface
	metadataHandler  *discovery.MetadataHandler
}

// NewDiscoveryService creates a new instance of DiscoveryService.
func NewDiscoveryService(mux *http.ServeMux) ServiceInterface {
	instance := &DiscoveryService{
		ServerOpsService: server.NewServerOperationService(),
		metadataHandler:  discovery.NewMetadataHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the DiscoveryService.
func (s *DiscoveryService) RegisterRoutes(mux *http.ServeMux) {
	opts := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, OPTIONS",
			AllowedHeaders:   "Content-Type",
			AllowCredentials: false,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "GET /.well-known/oauth-authorization-server", &opts,
		s.metadataHandler.HandleAuthorizationServerMetadata)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /.well-known/oauth-protected-resource", &opts,
		s.metadataHandler.HandleProtectedResourceMetadata)
}
