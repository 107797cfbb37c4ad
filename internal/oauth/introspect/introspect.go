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

// Package introspect provides the OAuth2 token introspection endpoint.
package introspect

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/oauth/token"
	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/log"
)

// IntrospectionResponse represents the token introspection response.
type IntrospectionResponse struct {
	Active   bool   `json:"active"`
	Scope    string `json:"scope,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Subject  string `json:"sub,omitempty"`
	Audience string `json:"aud,omitempty"`
	AgentID  string `json:"agent_id,omitempty"`
	TokenID  string `json:"jti,omitempty"`
}

// IntrospectionHandler handles token introspection requests.
type IntrospectionHandler struct {
	verifier token.VerifierInterface
}

// NewIntrospectionHandler creates a new introspection handler.
func NewIntrospectionHandler() *IntrospectionHandler {
	return &IntrospectionHandler{
		verifier: token.NewVerifier(),
	}
}

// HandleIntrospectionRequest handles a token introspection request. An invalid,
// expired, or unparseable token yields {"active": false} rather than an error.
func (h *IntrospectionHandler) HandleIntrospectionRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "IntrospectionHandler"))

	if r.Method != http.MethodPost {
		writeIntrospectionError(w, http.StatusMethodNotAllowed, constants.ErrorInvalidRequest,
			"Only POST method is allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeIntrospectionError(w, http.StatusBadRequest, constants.ErrorInvalidRequest,
			"Failed to parse the request body")
		return
	}

	tokenValue := strings.TrimSpace(r.FormValue("token"))
	if tokenValue == "" {
		writeIntrospectionError(w, http.StatusBadRequest, constants.ErrorInvalidRequest,
			"Missing token parameter")
		return
	}

	response := IntrospectionResponse{Active: false}
	if claims, err := h.verifier.VerifyAccessToken(tokenValue); err == nil {
		response = IntrospectionResponse{
			Active:   true,
			Scope:    strings.Join(claims.Scopes, " "),
			ClientID: claims.ClientID,
			Subject:  claims.Subject,
			Audience: claims.Audience,
			AgentID:  claims.AgentID,
			TokenID:  claims.TokenID,
		}
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode introspection response", log.Error(err))
	}
}

func writeIntrospectionError(w http.ResponseWriter, status int, errCode, description string) {
	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:            errCode,
		ErrorDescription: description,
	})
}
