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
	"errors"
	"fmt"
	"strings"

	"github.com/asgardeo/gate/internal/system/database/provider"
	"github.com/asgardeo/gate/internal/system/log"
)

// ErrClientNotFound is returned when the requested client does not exist.
var ErrClientNotFound = errors.New("oauth client not found")

// clientStoreInterface defines the persistence operations for OAuth clients.
type clientStoreInterface interface {
	createOAuthClient(oauthClient OAuthClient) error
	getOAuthClientByClientID(clientID string) (*OAuthClient, error)
	updateOAuthClient(oauthClient OAuthClient) error
}

// clientStore is the default database-backed implementation of clientStoreInterface.
type clientStore struct {
	dbProvider provider.DBProviderInterface
}

func newClientStore() clientStoreInterface {
	return &clientStore{
		dbProvider: provider.GetDBProvider(),
	}
}

// createOAuthClient persists a new OAuth client.
func (s *clientStore) createOAuthClient(oauthClient OAuthClient) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryCreateOAuthClient, oauthClient.ClientID, oauthClient.ClientName,
		oauthClient.ClientSecretHash, strings.Join(oauthClient.RedirectURIs, ","),
		strings.Join(oauthClient.GrantTypes, ","), oauthClient.TokenEndpointAuthMethod,
		oauthClient.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

// getOAuthClientByClientID retrieves an OAuth client by its client id.
func (s *clientStore) getOAuthClientByClientID(clientID string) (*OAuthClient, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "OAuthClientStore"))

	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetOAuthClientByClientID, clientID)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrClientNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildOAuthClientFromResultRow(results[0])
}

// updateOAuthClient replaces the registration data of an existing OAuth client.
func (s *clientStore) updateOAuthClient(oauthClient OAuthClient) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(queryUpdateOAuthClient, oauthClient.ClientID,
		oauthClient.ClientName, oauthClient.ClientSecretHash,
		strings.Join(oauthClient.RedirectURIs, ","), strings.Join(oauthClient.GrantTypes, ","),
		oauthClient.TokenEndpointAuthMethod)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if rowsAffected == 0 {
		return ErrClientNotFound
	}
	return nil
}

func buildOAuthClientFromResultRow(row map[string]interface{}) (*OAuthClient, error) {
	clientID, ok := row["client_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse client_id as string")
	}

	oauthClient := &OAuthClient{
		ClientID: clientID,
	}

	if name, ok := row["client_name"].(string); ok {
		oauthClient.ClientName = name
	}
	if secretHash, ok := row["client_secret_hash"].(string); ok {
		oauthClient.ClientSecretHash = secretHash
	}
	if redirectURIs, ok := row["redirect_uris"].(string); ok && redirectURIs != "" {
		oauthClient.RedirectURIs = strings.Split(redirectURIs, ",")
	}
	if grantTypes, ok := row["grant_types"].(string); ok && grantTypes != "" {
		oauthClient.GrantTypes = strings.Split(grantTypes, ",")
	}
	if authMethod, ok := row["token_endpoint_auth_method"].(string); ok {
		oauthClient.TokenEndpointAuthMethod = authMethod
	}

	switch createdAt := row["created_at"].(type) {
	case int64:
		oauthClient.CreatedAt = createdAt
	case float64:
		oauthClient.CreatedAt = int64(createdAt)
	}

	return oauthClient, nil
}
