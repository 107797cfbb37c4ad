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

package authz

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/asgardeo/gate/internal/oauth/constants"
	oauthmodel "github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

// AuthorizeHandler handles requests to the authorize endpoint.
type AuthorizeHandler struct {
	authorizeService AuthorizeServiceInterface
}

// NewAuthorizeHandler creates a new authorize endpoint handler.
func NewAuthorizeHandler() *AuthorizeHandler {
	return &AuthorizeHandler{
		authorizeService: NewAuthorizeService(),
	}
}

// HandleAuthorizeRequest processes an authorization request and responds with a
// redirect carrying the code, or a JSON body when response_mode=json is requested.
func (ah *AuthorizeHandler) HandleAuthorizeRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizeHandler"))

	if err := r.ParseForm(); err != nil {
		writeAuthorizeError(w, &serviceerror.ServiceError{
			Error:            constants.ErrorInvalidRequest,
			ErrorDescription: "Failed to parse the authorization request",
		}, http.StatusBadRequest)
		return
	}

	request := &AuthorizeRequest{
		ResponseType:        r.FormValue(constants.ResponseType),
		ClientID:            r.FormValue(constants.ClientID),
		RedirectURI:         r.FormValue(constants.RedirectURI),
		CodeChallenge:       r.FormValue(constants.CodeChallenge),
		CodeChallengeMethod: r.FormValue(constants.CodeChallengeMethod),
		Resource:            r.FormValue(constants.Resource),
		Scope:               r.FormValue(constants.Scope),
		State:               r.FormValue(constants.State),
		ResponseMode:        r.FormValue(constants.ResponseMode),
		AuthorizedUserID:    resolveAuthenticatedUser(r),
	}

	result, svcErr := ah.authorizeService.Authorize(request)
	if svcErr != nil {
		logger.Debug("Authorization request rejected", log.String("errorCode", svcErr.Code))
		ah.handleAuthorizeError(w, request, svcErr)
		return
	}

	if request.ResponseMode == constants.ResponseModeJSON {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.Error("Failed to write authorization response", log.Error(err))
		}
		return
	}

	redirectURI, err := buildCodeRedirectURI(result)
	if err != nil {
		writeAuthorizeError(w, &ErrorAuthzServerError, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// handleAuthorizeError responds with an error redirect when the redirect URI was
// accepted, or a direct error response otherwise.
func (ah *AuthorizeHandler) handleAuthorizeError(w http.ResponseWriter, request *AuthorizeRequest,
	svcErr *serviceerror.ServiceError) {
	status := http.StatusBadRequest
	if svcErr.Type == serviceerror.ServerErrorType {
		status = http.StatusInternalServerError
	}

	// Redirect-URI and client failures must never redirect to an unverified location.
	if svcErr.Code == ErrorInvalidClient.Code || svcErr.Code == ErrorInvalidRedirectURI.Code ||
		svcErr.Type == serviceerror.ServerErrorType || request.ResponseMode == constants.ResponseModeJSON {
		writeAuthorizeError(w, svcErr, status)
		return
	}

	redirectURI, err := buildErrorRedirectURI(request, svcErr)
	if err != nil {
		writeAuthorizeError(w, svcErr, status)
		return
	}
	w.Header().Set("Location", redirectURI)
	w.WriteHeader(http.StatusFound)
}

// resolveAuthenticatedUser extracts the end-user identity resolved by the fronting
// login layer.
func resolveAuthenticatedUser(r *http.Request) string {
	if userID := r.Header.Get("X-Authenticated-User"); userID != "" {
		return userID
	}
	return r.FormValue("user_id")
}

func buildCodeRedirectURI(result *AuthorizeResult) (string, error) {
	parsed, err := url.Parse(result.RedirectURI)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set(constants.Code, result.Code)
	if result.State != "" {
		query.Set(constants.State, result.State)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func buildErrorRedirectURI(request *AuthorizeRequest, svcErr *serviceerror.ServiceError) (string, error) {
	parsed, err := url.Parse(request.RedirectURI)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set(constants.Error, svcErr.Error)
	query.Set(constants.ErrorDescription, svcErr.ErrorDescription)
	if request.State != "" {
		query.Set(constants.State, request.State)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func writeAuthorizeError(w http.ResponseWriter, svcErr *serviceerror.ServiceError, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(oauthmodel.ErrorResponse{
		Error:            svcErr.Error,
		ErrorDescription: svcErr.ErrorDescription,
	})
}
