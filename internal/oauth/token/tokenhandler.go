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

// Package token provides the OAuth2 token endpoint and access token verification.
package token

import (
	"encoding/json"
	"net/http"

	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/granthandlers"
	"github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

// TokenHandler handles requests to the token endpoint.
type TokenHandler struct {
	grantHandlerProvider granthandlers.GrantHandlerProviderInterface
	clientService        client.ClientServiceInterface
}

// NewTokenHandler creates a new token endpoint handler.
func NewTokenHandler() *TokenHandler {
	return &TokenHandler{
		grantHandlerProvider: granthandlers.NewGrantHandlerProvider(),
		clientService:        client.NewClientService(),
	}
}

// HandleTokenRequest processes a token request and issues a token pair on success.
func (th *TokenHandler) HandleTokenRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TokenHandler"))

	if r.Method != http.MethodPost {
		writeTokenError(w, http.StatusMethodNotAllowed, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Only POST requests are allowed",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		writeTokenError(w, http.StatusBadRequest, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Failed to parse the token request",
		})
		return
	}

	// Credentials in the Authorization header take precedence over form fields.
	clientID := r.FormValue(constants.ClientID)
	clientSecret := r.FormValue(constants.ClientSecret)
	if basicID, basicSecret, err := utils.ExtractBasicAuthCredentials(r); err == nil {
		clientID = basicID
		clientSecret = basicSecret
	}

	tokenRequest := &model.TokenRequest{
		GrantType:    r.FormValue(constants.GrantType),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        r.FormValue(constants.Scope),
		Code:         r.FormValue(constants.Code),
		RedirectURI:  r.FormValue(constants.RedirectURI),
		CodeVerifier: r.FormValue(constants.CodeVerifier),
		RefreshToken: r.FormValue(constants.RefreshToken),
		Resource:     r.FormValue(constants.Resource),
	}

	if tokenRequest.GrantType == "" {
		writeTokenError(w, http.StatusBadRequest, &model.ErrorResponse{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Grant type is required",
		})
		return
	}

	grantHandler, ok := th.grantHandlerProvider.GetGrantHandler(tokenRequest.GrantType)
	if !ok {
		writeTokenError(w, http.StatusBadRequest, &model.ErrorResponse{
			Error:            constants.ErrorUnsupportedGrantType,
			ErrorDescription: "Unsupported grant type",
		})
		return
	}

	oauthClient, svcErr := th.clientService.AuthenticateClient(tokenRequest.ClientID,
		tokenRequest.ClientSecret)
	if svcErr != nil {
		status := http.StatusUnauthorized
		if svcErr.Error != constants.ErrorInvalidClient {
			status = http.StatusInternalServerError
		}
		writeTokenError(w, status, &model.ErrorResponse{
			Error:            svcErr.Error,
			ErrorDescription: svcErr.ErrorDescription,
		})
		return
	}

	if errResp := grantHandler.ValidateGrant(tokenRequest, oauthClient); errResp != nil {
		writeTokenError(w, http.StatusBadRequest, errResp)
		return
	}

	tokenResponse, errResp := grantHandler.HandleGrant(tokenRequest, oauthClient)
	if errResp != nil {
		status := http.StatusBadRequest
		if errResp.Error == constants.ErrorServerError {
			status = http.StatusInternalServerError
		}
		writeTokenError(w, status, errResp)
		return
	}

	// Token responses must never be cached.
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tokenResponse); err != nil {
		logger.Error("Failed to write token response", log.Error(err))
	}
}

func writeTokenError(w http.ResponseWriter, status int, errResp *model.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errResp)
}
