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

// Package constants defines constants used across the OAuth module.
package constants

// OAuth2 request parameters.
const (
	GrantType           = "grant_type"
	ClientID            = "client_id"
	ClientSecret        = "client_secret"
	RedirectURI         = "redirect_uri"
	Scope               = "scope"
	Code                = "code"
	CodeChallenge       = "code_challenge"
	CodeChallengeMethod = "code_challenge_method"
	CodeVerifier        = "code_verifier"
	RefreshToken        = "refresh_token"
	Resource            = "resource"
	ResponseType        = "response_type"
	ResponseMode        = "response_mode"
	State               = "state"
	Error               = "error"
	ErrorDescription    = "error_description"
)

// OAuth2 endpoints.
const (
	OAuth2TokenEndpoint         = "/oauth2/token" // #nosec G101
	OAuth2AuthorizationEndpoint = "/oauth2/authorize"
	OAuth2RegistrationEndpoint  = "/oauth2/register"
	OAuth2IntrospectionEndpoint = "/oauth2/introspect"
	JWKSEndpoint                = "/.well-known/jwks.json"
	AuthServerMetadataEndpoint  = "/.well-known/oauth-authorization-server"
	ProtectedResourceEndpoint   = "/.well-known/oauth-protected-resource"
)

// GrantType represents an OAuth2 grant type.
type GrantTypeValue string

// OAuth2 grant types supported by the server.
const (
	GrantTypeAuthorizationCode GrantTypeValue = "authorization_code"
	GrantTypeRefreshToken      GrantTypeValue = "refresh_token"
)

// TokenEndpointAuthMethod represents a client authentication method at the token endpoint.
type TokenEndpointAuthMethod string

// Client authentication methods supported by the server.
const (
	TokenEndpointAuthMethodNone             TokenEndpointAuthMethod = "none"
	TokenEndpointAuthMethodClientSecretPost TokenEndpointAuthMethod = "client_secret_post"
)

// OAuth2 response types and modes.
const (
	ResponseTypeCode = "code"
	ResponseModeJSON = "json"
)

// OAuth2 token types.
const (
	TokenTypeBearer = "Bearer"
)

// OAuth2 error codes.
const (
	ErrorInvalidRequest          = "invalid_request"
	ErrorInvalidClient           = "invalid_client"
	ErrorInvalidGrant            = "invalid_grant"
	ErrorInvalidTarget           = "invalid_target"
	ErrorInvalidToken            = "invalid_token"
	ErrorUnauthorizedClient      = "unauthorized_client"
	ErrorUnsupportedGrantType    = "unsupported_grant_type"
	ErrorInvalidScope            = "invalid_scope"
	ErrorServerError             = "server_error"
	ErrorUnsupportedResponseType = "unsupported_response_type"
	ErrorAccessDenied            = "access_denied"
	ErrorInvalidClientMetadata   = "invalid_client_metadata"
)

// JWT claim names carried by access tokens.
const (
	ClaimScope    = "scope"
	ClaimClientID = "client_id"
	ClaimAgentID  = "agent_id"
)
