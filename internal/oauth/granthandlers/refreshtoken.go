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

	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/oauth/refresh"
	"github.com/asgardeo/gate/internal/system/jwt"
	"github.com/asgardeo/gate/internal/system/log"
)

// RefreshTokenGrantHandler handles the refresh token grant type.
type RefreshTokenGrantHandler struct {
	tokenStore refresh.TokenStoreInterface
	jwtService jwt.JWTServiceInterface
}

// NewRefreshTokenGrantHandler creates a new refresh token grant handler.
func NewRefreshTokenGrantHandler() GrantHandlerInterface {
	return &RefreshTokenGrantHandler{
		tokenStore: refresh.NewTokenStore(),
		jwtService: jwt.GetJWTService(),
	}
}

// ValidateGrant performs grant specific validations on the token request.
func (h *RefreshTokenGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	oauthClient *client.OAuthClient) *model.ErrorResponse {
	if tokenRequest.GrantType != string(constants.GrantTypeRefreshToken) {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		}
	}
	if tokenRequest.RefreshToken == "" {
		return &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Refresh token is required",
		}
	}
	if !clientAllowsGrantType(oauthClient, string(constants.GrantTypeRefreshToken)) {
		return &model.ErrorResponse{
			Error:            constants.ErrorUnauthorizedClient,
			ErrorDescription: "Grant type is not allowed for the client",
		}
	}
	return nil
}

// HandleGrant exchanges a refresh token for a new token pair. Rotation is atomic:
// the superseded token is revoked in the same transaction that persists its
// replacement, so each refresh token value redeems at most once.
func (h *RefreshTokenGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	oauthClient *client.OAuthClient) (*model.TokenResponse, *model.ErrorResponse) {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, "RefreshTokenGrantHandler"))

	refreshToken, err := h.tokenStore.GetRefreshToken(tokenRequest.RefreshToken)
	if err != nil {
		if !errors.Is(err, refresh.ErrRefreshTokenNotFound) {
			logger.Error("Failed to retrieve refresh token", log.Error(err))
		}
		return nil, invalidGrantError()
	}

	if refreshToken.State != refresh.RefreshTokenStateActive {
		return nil, invalidGrantError()
	}
	if refreshToken.IsExpired() {
		return nil, invalidGrantError()
	}
	if refreshToken.ClientID != oauthClient.ClientID {
		return nil, invalidGrantError()
	}

	// A resource in the token request must match the audience the token was bound to.
	if tokenRequest.Resource != "" && tokenRequest.Resource != refreshToken.Resource {
		return nil, invalidGrantError()
	}

	tokenResponse, err := issueTokenPair(tokenGrant{
		userID:   refreshToken.UserID,
		clientID: refreshToken.ClientID,
		agentID:  refreshToken.AgentID,
		resource: refreshToken.Resource,
		scopes:   refreshToken.Scopes,
	}, h.tokenStore, h.jwtService, refreshToken.TokenID)
	if err != nil {
		if errors.Is(err, refresh.ErrRefreshTokenRevoked) {
			return nil, invalidGrantError()
		}
		logger.Error("Failed to issue token pair", log.Error(err))
		return nil, serverError()
	}

	return tokenResponse, nil
}
