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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asgardeo/gate/internal/system/database/provider"
	"github.com/asgardeo/gate/internal/system/log"
)

// Authorization code store errors.
var (
	ErrAuthorizationCodeNotFound = errors.New("authorization code not found")
	ErrAuthorizationCodeConsumed = errors.New("authorization code already consumed")
)

// CodeStoreInterface defines the persistence operations for authorization codes.
type CodeStoreInterface interface {
	InsertAuthorizationCode(authzCode AuthorizationCode) error
	GetAuthorizationCode(clientID, code string) (AuthorizationCode, error)
	ConsumeAuthorizationCode(codeID string) error
	ExpireAuthorizationCode(codeID string) error
	RevokeAuthorizationCode(codeID string) error
}

// CodeStore is the default database-backed implementation of CodeStoreInterface.
type CodeStore struct {
	dbProvider provider.DBProviderInterface
}

// NewCodeStore creates a new authorization code store.
func NewCodeStore() CodeStoreInterface {
	return &CodeStore{
		dbProvider: provider.GetDBProvider(),
	}
}

// InsertAuthorizationCode inserts a new authorization code.
func (s *CodeStore) InsertAuthorizationCode(authzCode AuthorizationCode) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationCodeStore"))

	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryInsertAuthorizationCode, authzCode.CodeID, authzCode.Code,
		authzCode.ClientID, authzCode.RedirectURI, authzCode.AuthorizedUserID,
		authzCode.CodeChallenge, authzCode.CodeChallengeMethod, authzCode.Resource,
		strings.Join(authzCode.Scopes, " "), authzCode.TimeCreated.Unix(),
		authzCode.ExpiryTime.Unix(), authzCode.State)
	if err != nil {
		logger.Error("Failed to insert authorization code", log.Error(err))
		return fmt.Errorf("failed to insert authorization code: %w", err)
	}
	return nil
}

// GetAuthorizationCode retrieves an authorization code by client id and code value.
func (s *CodeStore) GetAuthorizationCode(clientID, code string) (AuthorizationCode, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AuthorizationCodeStore"))

	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return AuthorizationCode{}, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetAuthorizationCode, clientID, code)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return AuthorizationCode{}, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return AuthorizationCode{}, ErrAuthorizationCodeNotFound
	}
	if len(results) != 1 {
		return AuthorizationCode{}, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildAuthorizationCodeFromResultRow(results[0])
}

// ConsumeAuthorizationCode atomically marks an active authorization code as used.
// Returns ErrAuthorizationCodeConsumed if the code was not in the active state.
func (s *CodeStore) ConsumeAuthorizationCode(codeID string) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(queryConsumeAuthorizationCode, codeID)
	if err != nil {
		return fmt.Errorf("failed to consume authorization code: %w", err)
	}
	if rowsAffected == 0 {
		return ErrAuthorizationCodeConsumed
	}
	return nil
}

// ExpireAuthorizationCode marks an authorization code as expired.
func (s *CodeStore) ExpireAuthorizationCode(codeID string) error {
	return s.updateAuthorizationCodeState(codeID, AuthCodeStateExpired)
}

// RevokeAuthorizationCode marks an authorization code as revoked.
func (s *CodeStore) RevokeAuthorizationCode(codeID string) error {
	return s.updateAuthorizationCodeState(codeID, AuthCodeStateRevoked)
}

func (s *CodeStore) updateAuthorizationCodeState(codeID, newState string) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryUpdateAuthorizationCodeState, newState, codeID)
	if err != nil {
		return fmt.Errorf("failed to update authorization code state: %w", err)
	}
	return nil
}

func buildAuthorizationCodeFromResultRow(row map[string]interface{}) (AuthorizationCode, error) {
	authzCode := AuthorizationCode{}

	var ok bool
	if authzCode.CodeID, ok = row["code_id"].(string); !ok {
		return AuthorizationCode{}, fmt.Errorf("failed to parse code_id as string")
	}
	if authzCode.Code, ok = row["authorization_code"].(string); !ok {
		return AuthorizationCode{}, fmt.Errorf("failed to parse authorization_code as string")
	}

	authzCode.ClientID, _ = row["client_id"].(string)
	authzCode.RedirectURI, _ = row["redirect_uri"].(string)
	authzCode.AuthorizedUserID, _ = row["authz_user_id"].(string)
	authzCode.CodeChallenge, _ = row["code_challenge"].(string)
	authzCode.CodeChallengeMethod, _ = row["code_challenge_method"].(string)
	authzCode.Resource, _ = row["resource"].(string)
	authzCode.State, _ = row["state"].(string)

	if scopes, ok := row["scopes"].(string); ok && scopes != "" {
		authzCode.Scopes = strings.Split(scopes, " ")
	}

	timeCreated, err := parseEpochField(row["time_created"], "time_created")
	if err != nil {
		return AuthorizationCode{}, err
	}
	authzCode.TimeCreated = timeCreated

	expiryTime, err := parseEpochField(row["expiry_time"], "expiry_time")
	if err != nil {
		return AuthorizationCode{}, err
	}
	authzCode.ExpiryTime = expiryTime

	return authzCode, nil
}

// parseEpochField parses an epoch-seconds column that drivers may return as differing numeric types.
func parseEpochField(field interface{}, fieldName string) (time.Time, error) {
	switch v := field.(type) {
	case int64:
		return time.Unix(v, 0), nil
	case int:
		return time.Unix(int64(v), 0), nil
	case float64:
		return time.Unix(int64(v), 0), nil
	default:
		return time.Time{}, fmt.Errorf("failed to parse %s as epoch seconds", fieldName)
	}
}
