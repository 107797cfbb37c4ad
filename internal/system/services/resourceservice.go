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

	"github.com/asgardeo/gate/internal/resource"
	"github.com/asgardeo/gate/internal/system/server"
)

// ResourceAPIService defines the service for catalog management and discovery requests.
type ResourceAPIService struct {
	ServerOpsService server.ServerOperationServiceInterface
	resourceHandler  *resource.ResourceHandler
}

// NewResourceAPIService creates a new instance of ResourceAPIService.
func NewResourceAPIService(mux *http.ServeMux) ServiceInterface {
	instance := &ResourceAPIService{
		ServerOpsService: server.NewServerOperationService(),
		resourceHandler:  resource.NewResourceHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the ResourceAPIService.
func (s *ResourceAPIService) RegisterRoutes(mux *http.ServeMux) {
	opts := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, POST, PUT, DELETE",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /resources", &opts,
		s.resourceHandler.HandleResourcePostRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /resources", &opts,
		s.resourceHandler.HandleResourceListRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /resources/discover", &opts,
		s.resourceHandler.HandleDiscoverRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /resources/{resourceId}", &opts,
		s.resourceHandler.HandleResourceGetRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "DELETE /resources/{resourceId}", &opts,
		s.resourceHandler.HandleResourceDeleteRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "PUT /resources/{resourceId}/content", &opts,
		s.resourceHandler.HandleContentPutRequest)
}
