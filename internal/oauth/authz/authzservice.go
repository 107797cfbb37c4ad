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
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/pkce"
	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

const (
	loggerComponentName = "AuthorizeService"

	// defaultAuthCodeValidity is the authorization code lifetime in seconds
	// when no value is configured.
	defaultAuthCodeValidity = 300
)

// Authorize endpoint service errors.
var (
	// ErrorUnsupportedResponseType is returned when the response type is not "code".
	ErrorUnsupportedResponseType = serviceerror.ServiceError{
		Code:             "AUZ-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorUnsupportedResponseType,
		ErrorDescription: "Only the authorization code response type is supported",
	}
	// ErrorInvalidClient is returned when the client id is missing or unregistered.
	ErrorInvalidClient = serviceerror.ServiceError{
		Code:             "AUZ-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidClient,
		ErrorDescription: "Unknown or missing client",
	}
	// ErrorInvalidRedirectURI is returned when the redirect URI is not in the client's registered set.
	ErrorInvalidRedirectURI = serviceerror.ServiceError{
		Code:             "AUZ-1003",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidRequest,
		ErrorDescription: "Redirect URI is not registered for the client",
	}
	// ErrorInvalidCodeChallenge is returned when the PKCE code challenge is missing or malformed.
	ErrorInvalidCodeChallenge = serviceerror.ServiceError{
		Code:             "AUZ-1004",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidRequest,
		ErrorDescription: "A valid S256 code challenge is required",
	}
	// ErrorInvalidTarget is returned when the requested resource does not match the
	// configured protected resource.
	ErrorInvalidTarget = serviceerror.ServiceError{
		Code:             "AUZ-1005",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidTarget,
		ErrorDescription: "The requested resource is not served by this authorization server",
	}
	// ErrorInvalidScope is returned when no scope was requested.
	ErrorInvalidScope = serviceerror.ServiceError{
		Code:             "AUZ-1006",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidScope,
		ErrorDescription: "At least one scope is required",
	}
	// ErrorUserNotAuthenticated is returned when no end-user identity has been resolved.
	ErrorUserNotAuthenticated = serviceerror.ServiceError{
		Code:             "AUZ-1007",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorAccessDenied,
		ErrorDescription: "End-user authentication is required",
	}
	// ErrorAuthzServerError is returned on unexpected failures while issuing a code.
	ErrorAuthzServerError = serviceerror.ServiceError{
		Code:             "AUZ-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            constants.ErrorServerError,
		ErrorDescription: "An unexpected error occurred",
	}
)

// AuthorizeServiceInterface defines the operations of the authorize endpoint.
type AuthorizeServiceInterface interface {
	Authorize(request *AuthorizeRequest) (*AuthorizeResult, *serviceerror.ServiceError)
}

// AuthorizeService is the default implementation of AuthorizeServiceInterface.
type AuthorizeService struct {
	codeStore     CodeStoreInterface
	clientService client.ClientServiceInterface
}

// NewAuthorizeService creates a new authorize service instance.
func NewAuthorizeService() AuthorizeServiceInterface {
	return &AuthorizeService{
		codeStore:     NewCodeStore(),
		clientService: client.NewClientService(),
	}
}

// Authorize validates an authorization request and issues a one-time authorization code.
func (as *AuthorizeService) Authorize(request *AuthorizeRequest) (*AuthorizeResult,
	*serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if request.ResponseType != constants.ResponseTypeCode {
		return nil, &ErrorUnsupportedResponseType
	}

	if request.ClientID == "" {
		return nil, &ErrorInvalidClient
	}
	oauthClient, svcErr := as.clientService.GetOAuthClient(request.ClientID)
	if svcErr != nil {
		if svcErr.Type == serviceerror.ServerErrorType {
			return nil, svcErr
		}
		return nil, &ErrorInvalidClient
	}

	if request.RedirectURI == "" || !oauthClient.HasRedirectURI(request.RedirectURI) {
		return nil, &ErrorInvalidRedirectURI
	}

	if err := pkce.ValidateCodeChallenge(request.CodeChallenge,
		request.CodeChallengeMethod); err != nil {
		return nil, &ErrorInvalidCodeChallenge
	}

	protectedResource := config.GetGateRuntime().Config.OAuth.ProtectedResource
	if request.Resource == "" || request.Resource != protectedResource {
		return nil, &ErrorInvalidTarget
	}

	scopes := parseScopes(request.Scope)
	if len(scopes) == 0 {
		return nil, &ErrorInvalidScope
	}

	if request.AuthorizedUserID == "" {
		return nil, &ErrorUserNotAuthenticated
	}

	code, err := generateAuthorizationCode()
	if err != nil {
		logger.Error("Failed to generate authorization code", log.Error(err))
		return nil, &ErrorAuthzServerError
	}

	validity := config.GetGateRuntime().Config.OAuth.AuthCode.ValidityPeriod
	if validity <= 0 {
		validity = defaultAuthCodeValidity
	}

	now := time.Now()
	authzCode := AuthorizationCode{
		CodeID:              utils.GenerateUUID(),
		Code:                code,
		ClientID:            request.ClientID,
		RedirectURI:         request.RedirectURI,
		AuthorizedUserID:    request.AuthorizedUserID,
		CodeChallenge:       request.CodeChallenge,
		CodeChallengeMethod: request.CodeChallengeMethod,
		Resource:            request.Resource,
		Scopes:              scopes,
		TimeCreated:         now,
		ExpiryTime:          now.Add(time.Duration(validity) * time.Second),
		State:               AuthCodeStateActive,
	}

	if err := as.codeStore.InsertAuthorizationCode(authzCode); err != nil {
		logger.Error("Failed to persist authorization code", log.Error(err))
		return nil, &ErrorAuthzServerError
	}

	logger.Debug("Issued authorization code", log.String(log.LoggerKeyClientID, request.ClientID))

	return &AuthorizeResult{
		Code:        code,
		State:       request.State,
		RedirectURI: request.RedirectURI,
	}, nil
}

// parseScopes splits a space-delimited scope string into a scope list.
func parseScopes(scope string) []string {
	return strings.Fields(scope)
}

// generateAuthorizationCode generates a random URL-safe authorization code value.
func generateAuthorizationCode() (string, error) {
	codeBytes := make([]byte, 32)
	if _, err := rand.Read(codeBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(codeBytes), nil
}
