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

package user

import (
	"encoding/json"
	"net/http"

	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

// UserHandler handles user management API requests.
type UserHandler struct {
	userService UserServiceInterface
}

// NewUserHandler creates a new user handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{
		userService: NewUserService(),
	}
}

// HandleUserPostRequest handles a user creation request.
func (h *UserHandler) HandleUserPostRequest(w http.ResponseWriter, r *http.Request) {
	var request CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeUserError(w, http.StatusBadRequest, &ErrorInvalidUsername)
		return
	}

	created, svcErr := h.userService.CreateUser(&request)
	if svcErr != nil {
		writeUserError(w, statusForError(svcErr), svcErr)
		return
	}
	writeUserJSON(w, http.StatusCreated, created)
}

// HandleUserGetRequest handles a single user retrieval request.
func (h *UserHandler) HandleUserGetRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	retrieved, svcErr := h.userService.GetUser(userID)
	if svcErr != nil {
		writeUserError(w, statusForError(svcErr), svcErr)
		return
	}
	writeUserJSON(w, http.StatusOK, retrieved)
}

// HandleUserListRequest handles a user list request.
func (h *UserHandler) HandleUserListRequest(w http.ResponseWriter, r *http.Request) {
	users, svcErr := h.userService.ListUsers()
	if svcErr != nil {
		writeUserError(w, statusForError(svcErr), svcErr)
		return
	}
	writeUserJSON(w, http.StatusOK, users)
}

// HandleUserDeleteRequest handles a user deletion request.
func (h *UserHandler) HandleUserDeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if svcErr := h.userService.DeleteUser(userID); svcErr != nil {
		writeUserError(w, statusForError(svcErr), svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusForError(svcErr *serviceerror.ServiceError) int {
	if svcErr.Type == serviceerror.ServerErrorType {
		return http.StatusInternalServerError
	}
	if svcErr.Code == ErrorUserNotFound.Code {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func writeUserJSON(w http.ResponseWriter, status int, payload interface{}) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "UserHandler"))

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", log.Error(err))
	}
}

func writeUserError(w http.ResponseWriter, status int, svcErr *serviceerror.ServiceError) {
	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":        svcErr.Code,
		"error":       svcErr.Error,
		"description": svcErr.ErrorDescription,
	})
}
