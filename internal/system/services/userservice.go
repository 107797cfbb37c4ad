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
	"github.com/asgardeo/gate/internal/user"
)

// UserService defines the service for handling user management requests.
type UserService struct {
	ServerOpsService server.ServerOperationServiceInterface
	userHandler      *user.UserHandler
}

// NewUserService creates a new instance of UserService.
func NewUserService(mux *http.ServeMux) ServiceInterface {
	instance := &UserService{
		ServerOpsService: server.NewServerOperationService(),
		userHandler:      user.NewUserHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the UserService.
func (s *UserService) RegisterRoutes(mux *http.ServeMux) {
	opts := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, POST, DELETE",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /users", &opts, s.userHandler.HandleUserPostRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /users", &opts, s.userHandler.HandleUserListRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /users/{id}", &opts, s.userHandler.HandleUserGetRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "DELETE /users/{id}", &opts, s.userHandler.HandleUserDeleteRequest)
}
