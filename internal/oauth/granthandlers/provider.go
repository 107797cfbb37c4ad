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

package granthandlers

import (
	"github.com/asgardeo/gate/internal/oauth/constants"
)

// GrantHandlerProviderInterface defines the lookup of grant handlers by grant type.
type GrantHandlerProviderInterface interface {
	GetGrantHandler(grantType string) (GrantHandlerInterface, bool)
}

// GrantHandlerProvider is the default implementation of GrantHandlerProviderInterface.
type GrantHandlerProvider struct {
	handlers map[string]GrantHandlerInterface
}

// NewGrantHandlerProvider creates a provider with the supported grant handlers registered.
func NewGrantHandlerProvider() GrantHandlerProviderInterface {
	return &GrantHandlerProvider{
		handlers: map[string]GrantHandlerInterface{
			string(constants.GrantTypeAuthorizationCode): NewAuthorizationCodeGrantHandler(),
			string(constants.GrantTypeRefreshToken):      NewRefreshTokenGrantHandler(),
		},
	}
}

// GetGrantHandler returns the handler registered for the given grant type.
func (p *GrantHandlerProvider) GetGrantHandler(grantType string) (GrantHandlerInterface, bool) {
	handler, ok := p.handlers[grantType]
	return handler, ok
}
