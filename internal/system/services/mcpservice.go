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

	"github.com/asgardeo/gate/internal/tools"
)

// MCPService defines the service exposing the MCP tool surface to agents. The
// tool handler carries its own bearer auth, so routes are mounted directly.
type MCPService struct {
	mcpHandler http.Handler
}

// NewMCPService creates a new instance of MCPService.
func NewMCPService(mux *http.ServeMux) ServiceInterface {
	instance := &MCPService{
		mcpHandler: tools.NewMCPHandler(),
	}
	instance.RegisterRoutes(mux)

	return instance
}

// RegisterRoutes registers the routes for the MCPService.
func (s *MCPService) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/mcp", s.mcpHandler)
}
