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
	"errors"

	"github.com/asgardeo/gate/internal/agent"
	"github.com/asgardeo/gate/internal/oauth/authz"
	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/oauth/pkce"
	"github.com/asgardeo/gate/internal/oauth/refresh"
	"github.com/asgardeo/gate/internal/system/jwt"
	"github.com/asgardeo/gate/internal/system/log"
)

// AuthorizationCodeGrantHandler handles the authorization code grant type.
type AuthorizationCodeGrantHandler struct {
	codeStore    authz.CodeStoreInterface
	tokenStore   refresh.TokenStoreInterface
	agentService agent.AgentServiceInterface
	jwtService   jwt.JWTServiceInterface
}

// NewAuthorizationCodeGrantHandler creates a new authorization code grant handler.
func NewAuthorizationCodeGrantHandler() GrantHandlerInterface {
	return &AuthorizationCodeGrantHandler{
		codeStore:    authz.NewCodeStore(),
		tokenStore:   refresh.NewTokenStore(),
		agentService: agent.NewAgentService(),
		jwtService:   jwt.GetJWTService(),
	}
}

// ValidateGrant performs grant specific validations on the token request.
func (h *AuthorizationCodeGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	oauthClient *client.OAuthClient) *model.ErrorResponse {
	if tokenRequest.GrantType != string(constants.GrantTypeAuthorizationCode) {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		}
	}
	if tokenRequest.Code == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Authorization code is required",
		}
	}
	if tokenRequest.CodeVerifier == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Code verifier is required",
		}
	}
	if !clientAllowsGrantType(oauthClient, string(constants.GrantTypeAuthorizationCode)) {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnauthorizedClient,
			ErrorDescription: "Grant type is not allowed for the client",
		}
	}
	return nil
}

// HandleGrant redeems an authorization code for a token pair. The code is consumed
// atomically, so a replayed code fails even under concurrent redemption.
func (h *AuthorizationCodeGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	oauthClient *client.OAuthClient) (*model.TokenResponse, *model.ErrorResponse) {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, "AuthorizationCodeGrantHandler"))

	authzCode, err := h.codeStore.GetAuthorizationCode(oauthClient.ClientID, tokenRequest.Code)
	if err != nil {
		if !errors.Is(err, authz.ErrAuthorizationCodeNotFound) {
			logger.Error("Failed to retrieve authorization code", log.Error(err))
		}
		return nil, invalidGrantError()
	}

	if authzCode.State != authz.AuthCodeStateActive {
		return nil, invalidGrantError()
	}

	if authzCode.IsExpired() {
		if expireErr := h.codeStore.ExpireAuthorizationCode(authzCode.CodeID); expireErr != nil {
			logger.Error("Failed to mark authorization code expired", log.Error(expireErr))
		}
		return nil, invalidGrantError()
	}

	if tokenRequest.RedirectURI != authzCode.RedirectURI {
		return nil, invalidGrantError()
	}

	// A resource in the token request must match the audience the code was bound to.
	if tokenRequest.Resource != "" && tokenRequest.Resource != authzCode.Resource {
		return nil, invalidGrantError()
	}

	if err := pkce.ValidatePKCE(authzCode.CodeChallenge, authzCode.CodeChallengeMethod,
		tokenRequest.CodeVerifier); err != nil {
		return nil, invalidGrantError()
	}

	if err := h.codeStore.ConsumeAuthorizationCode(authzCode.CodeID); err != nil {
		if !errors.Is(err, authz.ErrAuthorizationCodeConsumed) {
			logger.Error("Failed to consume authorization code", log.Error(err))
		}
		return nil, invalidGrantError()
	}

	resolvedAgent, svcErr := h.agentService.ResolveAgent(authzCode.AuthorizedUserID,
		oauthClient.ClientID)
	if svcErr != nil {
		logger.Error("Failed to resolve agent for token issuance",
			log.String("errorCode", svcErr.Code))
		return nil, serverError()
	}

	tokenResponse, err := issueTokenPair(tokenGrant{
		userID:   authzCode.AuthorizedUserID,
		clientID: oauthClient.ClientID,
		agentID:  resolvedAgent.AgentID,
		resource: authzCode.Resource,
		scopes:   authzCode.Scopes,
	}, h.tokenStore, h.jwtService, "")
	if err != nil {
		logger.Error("Failed to issue token pair", log.Error(err))
		return nil, serverError()
	}

	return tokenResponse, nil
}

func clientAllowsGrantType(oauthClient *client.OAuthClient, grantType string) bool {
	for _, allowed := range oauthClient.GrantTypes {
		if allowed == grantType {
			return true
		}
	}
	return false
}

// invalidGrantError is deliberately opaque: callers must not learn which check failed.
func invalidGrantError() *model.ErrorResponse {
	return &model.ErrorResponse{
		Error:            constants.ErrorInvalidGrant,
		ErrorDescription: "Invalid authorization grant",
	}
}

func serverError() *model.ErrorResponse {
	return &model.ErrorResponse{
		Error:            constants.ErrorServerError,
		ErrorDescription: "An unexpected error occurred",
	}
}
