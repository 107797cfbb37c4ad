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

package jwks

import (
	"encoding/json"
	"net/http"

	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

// JWKSHandler handles requests for the JSON Web Key Set.
type JWKSHandler struct {
	jwksService JWKSServiceInterface
}

// NewJWKSHandler creates a new JWKS endpoint handler.
func NewJWKSHandler() *JWKSHandler {
	return &JWKSHandler{
		jwksService: NewJWKSService(),
	}
}

// HandleJWKSRequest handles the HTTP request to retrieve the JSON Web Key Set.
func (h *JWKSHandler) HandleJWKSRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "JWKSHandler"))

	jwksResponse, svcErr := h.jwksService.GetJWKS()
	if svcErr != nil {
		statusCode := http.StatusInternalServerError
		if svcErr.Type == serviceerror.ClientErrorType {
			statusCode = http.StatusBadRequest
		}
		w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(svcErr)
		return
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(jwksResponse); err != nil {
		logger.Error("Error encoding JWKS response", log.Error(err))
	}
}
