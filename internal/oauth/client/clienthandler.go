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

package client

import (
	"encoding/json"
	"net/http"

	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/model"
	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

// RegistrationHandler handles dynamic client registration requests.
type RegistrationHandler struct {
	clientService ClientServiceInterface
}

// NewRegistrationHandler creates a new registration handler.
func NewRegistrationHandler() *RegistrationHandler {
	return &RegistrationHandler{
		clientService: NewClientService(),
	}
}

// HandleRegistrationRequest handles a dynamic client registration request.
func (h *RegistrationHandler) HandleRegistrationRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RegistrationHandler"))

	if r.Method != http.MethodPost {
		writeRegistrationError(w, http.StatusMethodNotAllowed, constants.ErrorInvalidRequest,
			"Only POST method is allowed")
		return
	}

	var request RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeRegistrationError(w, http.StatusBadRequest, constants.ErrorInvalidRequest,
			"Failed to parse the request body")
		return
	}

	response, svcErr := h.clientService.RegisterClient(&request)
	if svcErr != nil {
		status := http.StatusBadRequest
		if svcErr.Type == serviceerror.ServerErrorType {
			status = http.StatusInternalServerError
		}
		writeRegistrationError(w, status, svcErr.Error, svcErr.ErrorDescription)
		return
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode registration response", log.Error(err))
	}
}

func writeRegistrationError(w http.ResponseWriter, status int, errCode, description string) {
	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:            errCode,
		ErrorDescription: description,
	})
}
