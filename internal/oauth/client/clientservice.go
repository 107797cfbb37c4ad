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
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/system/cache"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

const loggerComponentName = "OAuthClientService"

// Client registration service errors.
var (
	// ErrorInvalidRedirectURIs is returned when the registration request carries no usable redirect URIs.
	ErrorInvalidRedirectURIs = serviceerror.ServiceError{
		Code:             "CLI-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidClientMetadata,
		ErrorDescription: "At least one valid absolute redirect URI is required",
	}
	// ErrorInvalidAuthMethod is returned when the requested token endpoint auth method is unsupported.
	ErrorInvalidAuthMethod = serviceerror.ServiceError{
		Code:             "CLI-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidClientMetadata,
		ErrorDescription: "Unsupported token endpoint auth method",
	}
	// ErrorUnsupportedGrantTypes is returned when the requested grant types are not supported.
	ErrorUnsupportedGrantTypes = serviceerror.ServiceError{
		Code:             "CLI-1003",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidClientMetadata,
		ErrorDescription: "Unsupported grant types requested",
	}
	// ErrorClientNotFound is returned when no client exists for the given client id.
	ErrorClientNotFound = serviceerror.ServiceError{
		Code:             "CLI-1004",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidClient,
		ErrorDescription: "Client not found",
	}
	// ErrorInvalidClientCredentials is returned when client authentication fails.
	ErrorInvalidClientCredentials = serviceerror.ServiceError{
		Code:             "CLI-1005",
		Type:             serviceerror.ClientErrorType,
		Error:            constants.ErrorInvalidClient,
		ErrorDescription: "Client authentication failed",
	}
	// ErrorInternalServerError is returned on unexpected persistence failures.
	ErrorInternalServerError = serviceerror.ServiceError{
		Code:             "CLI-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            constants.ErrorServerError,
		ErrorDescription: "An unexpected error occurred",
	}
)

// ClientServiceInterface defines the operations for OAuth client management.
type ClientServiceInterface interface {
	RegisterClient(request *RegistrationRequest) (*RegistrationResponse, *serviceerror.ServiceError)
	GetOAuthClient(clientID string) (*OAuthClient, *serviceerror.ServiceError)
	AuthenticateClient(clientID, clientSecret string) (*OAuthClient, *serviceerror.ServiceError)
}

// ClientService is the default implementation of ClientServiceInterface.
type ClientService struct {
	store       clientStoreInterface
	clientCache cache.CacheInterface[OAuthClient]
}

// NewClientService creates a new client service instance.
func NewClientService() ClientServiceInterface {
	return &ClientService{
		store:       newClientStore(),
		clientCache: cache.NewCache[OAuthClient]("OAuthClientCache"),
	}
}

// RegisterClient registers a new OAuth client and returns its credentials.
func (cs *ClientService) RegisterClient(request *RegistrationRequest) (*RegistrationResponse,
	*serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	redirectURIs, err := validateRedirectURIs(request.RedirectURIs)
	if err != nil {
		return nil, &ErrorInvalidRedirectURIs
	}

	authMethod := request.TokenEndpointAuthMethod
	if authMethod == "" {
		authMethod = string(constants.TokenEndpointAuthMethodNone)
	}
	if authMethod != string(constants.TokenEndpointAuthMethodNone) &&
		authMethod != string(constants.TokenEndpointAuthMethodClientSecretPost) {
		return nil, &ErrorInvalidAuthMethod
	}

	grantTypes := request.GrantTypes
	if len(grantTypes) == 0 {
		grantTypes = []string{string(constants.GrantTypeAuthorizationCode),
			string(constants.GrantTypeRefreshToken)}
	}
	for _, grantType := range grantTypes {
		if grantType != string(constants.GrantTypeAuthorizationCode) &&
			grantType != string(constants.GrantTypeRefreshToken) {
			return nil, &ErrorUnsupportedGrantTypes
		}
	}

	oauthClient := OAuthClient{
		ClientID:                utils.GenerateUUID(),
		ClientName:              request.ClientName,
		RedirectURIs:            redirectURIs,
		GrantTypes:              grantTypes,
		TokenEndpointAuthMethod: authMethod,
		CreatedAt:               time.Now().Unix(),
	}

	var clientSecret string
	if authMethod == string(constants.TokenEndpointAuthMethodClientSecretPost) {
		clientSecret, err = generateClientSecret()
		if err != nil {
			logger.Error("Failed to generate client secret", log.Error(err))
			return nil, &ErrorInternalServerError
		}
		secretHash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash client secret", log.Error(err))
			return nil, &ErrorInternalServerError
		}
		oauthClient.ClientSecretHash = string(secretHash)
	}

	if err := cs.store.createOAuthClient(oauthClient); err != nil {
		logger.Error("Failed to persist OAuth client", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	logger.Debug("Registered OAuth client", log.String(log.LoggerKeyClientID, oauthClient.ClientID))

	return &RegistrationResponse{
		ClientID:                oauthClient.ClientID,
		ClientSecret:            clientSecret,
		ClientName:              oauthClient.ClientName,
		RedirectURIs:            oauthClient.RedirectURIs,
		GrantTypes:              oauthClient.GrantTypes,
		TokenEndpointAuthMethod: oauthClient.TokenEndpointAuthMethod,
		ClientIDIssuedAt:        oauthClient.CreatedAt,
	}, nil
}

// GetOAuthClient retrieves a registered OAuth client by its client id.
func (cs *ClientService) GetOAuthClient(clientID string) (*OAuthClient, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if clientID == "" {
		return nil, &ErrorClientNotFound
	}

	cacheKey := cache.CacheKey{Key: clientID}
	if cached, ok := cs.clientCache.Get(cacheKey); ok {
		return &cached, nil
	}

	oauthClient, err := cs.store.getOAuthClientByClientID(clientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, &ErrorClientNotFound
		}
		logger.Error("Failed to retrieve OAuth client", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	if err := cs.clientCache.Set(cacheKey, *oauthClient); err != nil {
		logger.Debug("Failed to cache OAuth client", log.Error(err))
	}

	return oauthClient, nil
}

// AuthenticateClient authenticates an OAuth client with the provided credentials.
// Public clients are authenticated by client id alone.
func (cs *ClientService) AuthenticateClient(clientID, clientSecret string) (*OAuthClient,
	*serviceerror.ServiceError) {
	oauthClient, svcErr := cs.GetOAuthClient(clientID)
	if svcErr != nil {
		if svcErr.Code == ErrorClientNotFound.Code {
			return nil, &ErrorInvalidClientCredentials
		}
		return nil, svcErr
	}

	if oauthClient.IsPublic() {
		if clientSecret != "" {
			return nil, &ErrorInvalidClientCredentials
		}
		return oauthClient, nil
	}

	if clientSecret == "" {
		return nil, &ErrorInvalidClientCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(oauthClient.ClientSecretHash),
		[]byte(clientSecret)); err != nil {
		return nil, &ErrorInvalidClientCredentials
	}

	return oauthClient, nil
}

// validateRedirectURIs validates that each redirect URI is an absolute URI without fragments.
func validateRedirectURIs(redirectURIs []string) ([]string, error) {
	if len(redirectURIs) == 0 {
		return nil, fmt.Errorf("no redirect URIs provided")
	}

	validated := make([]string, 0, len(redirectURIs))
	for _, redirectURI := range redirectURIs {
		trimmed := strings.TrimSpace(redirectURI)
		parsed, err := url.Parse(trimmed)
		if err != nil || !parsed.IsAbs() || parsed.Fragment != "" {
			return nil, fmt.Errorf("invalid redirect URI: %s", redirectURI)
		}
		validated = append(validated, trimmed)
	}
	return validated, nil
}

// generateClientSecret generates a random URL-safe client secret.
func generateClientSecret() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(secretBytes), nil
}
