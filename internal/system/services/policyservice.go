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

	"github.com/asgardeo/gate/internal/policy"
	"github.com/asgardeo/gate/internal/system/server"
)

// PolicyService defines the service for handling spending policy requests.
type PolicyService struct {
	ServerOpsService server.ServerOperationServiceInterface
	policyHandler    *policy.PolicyHandler
}

// NewPolicyService creates a new instance of PolicyService.
func NewPolicyService(mux *http.ServeMux) ServiceInterface {
	instance := &PolicyService{
		ServerOpsService: server.NewServerOperationService(),
		policyHandler:    policy.NewPolicyHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the PolicyService.
func (s *PolicyService) RegisterRoutes(mux *http.ServeMux) {
	opts := server.RequestWrapOptions{
		Cors: &server.Cors{
			AllowedMethods:   "GET, POST, DELETE",
			AllowedHeaders:   "Content-Type, Authorization",
			AllowCredentials: true,
		},
	}
	s.ServerOpsService.WrapHandleFunction(mux, "POST /users/{userId}/policies", &opts,
		s.policyHandler.HandleRulePostRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "GET /users/{userId}/policies", &opts,
		s.policyHandler.HandleRuleListRequest)
	s.ServerOpsService.WrapHandleFunction(mux, "DELETE /users/{userId}/policies/{ruleId}", &opts,
		s.policyHandler.HandleRuleDeleteRequest)
}
