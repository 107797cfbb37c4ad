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

package refresh

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asgardeo/gate/internal/system/crypto/hash"
	"github.com/asgardeo/gate/internal/system/database/provider"
	"github.com/asgardeo/gate/internal/system/log"
)

// Refresh token store errors.
var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token already revoked")
)

// TokenStoreInterface defines the persistence operations for refresh tokens.
type TokenStoreInterface interface {
	InsertRefreshToken(token RefreshToken) error
	GetRefreshToken(tokenValue string) (RefreshToken, error)
	RevokeRefreshToken(tokenID string) error
	RotateRefreshToken(oldTokenID string, newToken RefreshToken) error
}

// TokenStore is the default database-backed implementation of TokenStoreInterface.
type TokenStore struct {
	dbProvider provider.DBProviderInterface
}

// NewTokenStore creates a new refresh token store.
func NewTokenStore() TokenStoreInterface {
	return &TokenStore{
		dbProvider: provider.GetDBProvider(),
	}
}

// HashToken returns the SHA-256 lookup hash for a refresh token value.
func HashToken(tokenValue string) string {
	return hash.HashString(tokenValue)
}

// InsertRefreshToken inserts a new refresh token record.
func (s *TokenStore) InsertRefreshToken(token RefreshToken) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RefreshTokenStore"))

	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryInsertRefreshToken, token.TokenID, token.TokenHash,
		token.ClientID, token.UserID, token.AgentID, token.Resource,
		strings.Join(token.Scopes, " "), token.TimeCreated.Unix(), token.ExpiryTime.Unix(),
		token.State)
	if err != nil {
		logger.Error("Failed to insert refresh token", log.Error(err))
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken retrieves a refresh token record by its raw token value.
func (s *TokenStore) GetRefreshToken(tokenValue string) (RefreshToken, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RefreshTokenStore"))

	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return RefreshToken{}, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetRefreshTokenByHash, HashToken(tokenValue))
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return RefreshToken{}, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return RefreshToken{}, ErrRefreshTokenNotFound
	}
	if len(results) != 1 {
		return RefreshToken{}, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildRefreshTokenFromResultRow(results[0])
}

// RevokeRefreshToken revokes an active refresh token. Returns ErrRefreshTokenRevoked
// if the token was not in the active state.
func (s *TokenStore) RevokeRefreshToken(tokenID string) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(queryRevokeRefreshToken, tokenID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRefreshTokenRevoked
	}
	return nil
}

// RotateRefreshToken atomically revokes the superseded refresh token and inserts its
// replacement. The revocation carries the active-state predicate, so a concurrent
// rotation of the same token fails with ErrRefreshTokenRevoked.
func (s *TokenStore) RotateRefreshToken(oldTokenID string, newToken RefreshToken) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RefreshTokenStore"))

	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return fmt.Errorf("failed to get database client: %w", err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := tx.Exec(queryRevokeRefreshToken.Query, oldTokenID)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
		}
		return fmt.Errorf("failed to revoke superseded refresh token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
		}
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
		}
		return ErrRefreshTokenRevoked
	}

	_, err = tx.Exec(queryInsertRefreshToken.Query, newToken.TokenID, newToken.TokenHash,
		newToken.ClientID, newToken.UserID, newToken.AgentID, newToken.Resource,
		strings.Join(newToken.Scopes, " "), newToken.TimeCreated.Unix(),
		newToken.ExpiryTime.Unix(), newToken.State)
	if err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
		}
		return fmt.Errorf("failed to insert replacement refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func buildRefreshTokenFromResultRow(row map[string]interface{}) (RefreshToken, error) {
	token := RefreshToken{}

	var ok bool
	if token.TokenID, ok = row["token_id"].(string); !ok {
		return RefreshToken{}, fmt.Errorf("failed to parse token_id as string")
	}
	if token.TokenHash, ok = row["token_hash"].(string); !ok {
		return RefreshToken{}, fmt.Errorf("failed to parse token_hash as string")
	}

	token.ClientID, _ = row["client_id"].(string)
	token.UserID, _ = row["user_id"].(string)
	token.AgentID, _ = row["agent_id"].(string)
	token.Resource, _ = row["resource"].(string)
	token.State, _ = row["state"].(string)

	if scopes, ok := row["scopes"].(string); ok && scopes != "" {
		token.Scopes = strings.Split(scopes, " ")
	}

	timeCreated, err := parseEpochField(row["time_created"], "time_created")
	if err != nil {
		return RefreshToken{}, err
	}
	token.TimeCreated = timeCreated

	expiryTime, err := parseEpochField(row["expiry_time"], "expiry_time")
	if err != nil {
		return RefreshToken{}, err
	}
	token.ExpiryTime = expiryTime

	return token, nil
}

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
