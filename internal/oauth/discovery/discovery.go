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

// Package discovery provides the OAuth2 authorization server and protected resource
// metadata endpoints.
package discovery

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/pkce"
	"github.com/asgardeo/gate/internal/system/config"
	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/log"
)

// AuthorizationServerMetadata represents the authorization server metadata document.
type AuthorizationServerMetadata struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	RegistrationEndpoint              string   `json:"registration_endpoint"`
	JWKSURI                           string   `json:"jwks_uri"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
}

// ProtectedResourceMetadata represents the protected resource metadata document.
type ProtectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers"`
	BearerMethodsSupported []string `json:"bearer_methods_supported"`
	JWKSURI                string   `json:"jwks_uri"`
}

// MetadataHandler serves the well-known metadata documents.
type MetadataHandler struct{}

// NewMetadataHandler creates a new metadata handler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// baseURL derives the externally visible server URL from the configuration.
func baseURL() string {
	serverConfig := config.GetGateRuntime().Config.Server
	scheme := "https"
	if serverConfig.HTTPOnly {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, serverConfig.Hostname, serverConfig.Port)
}

// HandleAuthorizationServerMetadata serves the authorization server metadata document.
func (h *MetadataHandler) HandleAuthorizationServerMetadata(w http.ResponseWriter, r *http.Request) {
	base := baseURL()
	metadata := AuthorizationServerMetadata{
		Issuer:                        config.GetGateRuntime().Config.OAuth.JWT.Issuer,
		AuthorizationEndpoint:         base + constants.OAuth2AuthorizationEndpoint,
		TokenEndpoint:                 base + constants.OAuth2TokenEndpoint,
		RegistrationEndpoint:          base + constants.OAuth2RegistrationEndpoint,
		JWKSURI:                       base + constants.JWKSEndpoint,
		ResponseTypesSupported:        []string{constants.ResponseTypeCode},
		GrantTypesSupported:           []string{string(constants.GrantTypeAuthorizationCode), string(constants.GrantTypeRefreshToken)},
		CodeChallengeMethodsSupported: []string{pkce.CodeChallengeMethodS256},
		TokenEndpointAuthMethodsSupported: []string{
			string(constants.TokenEndpointAuthMethodNone),
			string(constants.TokenEndpointAuthMethodClientSecretPost),
		},
	}
	writeMetadata(w, metadata)
}

// HandleProtectedResourceMetadata serves the protected resource metadata document.
func (h *MetadataHandler) HandleProtectedResourceMetadata(w http.ResponseWriter, r *http.Request) {
	base := baseURL()
	metadata := ProtectedResourceMetadata{
		Resource:               config.GetGateRuntime().Config.OAuth.ProtectedResource,
		AuthorizationServers:   []string{base},
		BearerMethodsSupported: []string{"header"},
		JWKSURI:                base + constants.JWKSEndpoint,
	}
	writeMetadata(w, metadata)
}

func writeMetadata(w http.ResponseWriter, metadata interface{}) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "MetadataHandler"))

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		logger.Error("Failed to encode metadata response", log.Error(err))
	}
}
