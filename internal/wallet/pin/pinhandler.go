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

package pin

import (
	"encoding/json"
	"net/http"

	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

// setPinRequest is the body of initial PIN configuration requests.
type setPinRequest struct {
	Pin string `json:"pin"`
}

// changePinRequest is the body of PIN change requests.
type changePinRequest struct {
	CurrentPin string `json:"current_pin"`
	NewPin     string `json:"new_pin"`
}

// PinHandler handles wallet PIN API requests.
type PinHandler struct {
	pinService PinServiceInterface
}

// NewPinHandler creates a new PIN handler.
func NewPinHandler() *PinHandler {
	return &PinHandler{
		pinService: NewPinService(),
	}
}

// HandlePinStatusRequest reports whether the user has a PIN configured. The PIN
// itself is never returned.
func (h *PinHandler) HandlePinStatusRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	hasPin, svcErr := h.pinService.HasPin(userID)
	if svcErr != nil {
		writePinError(w, svcErr)
		return
	}
	writePinJSON(w, http.StatusOK, map[string]bool{"configured": hasPin})
}

// HandlePinSetRequest configures the user's initial PIN.
func (h *PinHandler) HandlePinSetRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var request setPinRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writePinError(w, &ErrorInvalidPinFormat)
		return
	}

	if svcErr := h.pinService.SetPin(userID, request.Pin); svcErr != nil {
		writePinError(w, svcErr)
		return
	}
	writePinJSON(w, http.StatusCreated, map[string]bool{"configured": true})
}

// HandlePinChangeRequest replaces the user's PIN after verifying the current one.
func (h *PinHandler) HandlePinChangeRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var request changePinRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writePinError(w, &ErrorInvalidPinFormat)
		return
	}

	if svcErr := h.pinService.ChangePin(userID, request.CurrentPin, request.NewPin); svcErr != nil {
		writePinError(w, svcErr)
		return
	}
	writePinJSON(w, http.StatusOK, map[string]bool{"configured": true})
}

func writePinJSON(w http.ResponseWriter, status int, payload interface{}) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PinHandler"))

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", log.Error(err))
	}
}

func writePinError(w http.ResponseWriter, svcErr *serviceerror.ServiceError) {
	status := http.StatusBadRequest
	switch svcErr.Code {
	case ErrorInternalServerError.Code:
		status = http.StatusInternalServerError
	case ErrorPinInvalid.Code, ErrorPinRequired.Code:
		status = http.StatusForbidden
	case ErrorPinLocked.Code:
		status = http.StatusTooManyRequests
	case ErrorPinAlreadySet.Code:
		status = http.StatusConflict
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":        svcErr.Code,
		"error":       svcErr.Error,
		"description": svcErr.ErrorDescription,
	})
}
