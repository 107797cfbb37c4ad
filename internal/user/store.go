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
	"errors"
	"fmt"

	dbmodel "github.com/asgardeo/gate/internal/system/database/model"
	"github.com/asgardeo/gate/internal/system/database/provider"
	"github.com/asgardeo/gate/internal/system/log"
)

// ErrUserNotFound is returned when no user exists for the requested key.
var ErrUserNotFound = errors.New("user not found")

// userStoreInterface defines the persistence operations for users.
type userStoreInterface interface {
	createUser(user User) error
	getUserByID(userID string) (*User, error)
	getUserByUsername(username string) (*User, error)
	listUsers() ([]User, error)
	deleteUser(userID string) error
}

// userStore is the default database-backed implementation of userStoreInterface.
type userStore struct {
	dbProvider provider.DBProviderInterface
}

func newUserStore() userStoreInterface {
	return &userStore{
		dbProvider: provider.GetDBProvider(),
	}
}

func (s *userStore) createUser(user User) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryCreateUser, user.UserID, user.Username, user.Email, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *userStore) getUserByID(userID string) (*User, error) {
	return s.getUser(queryGetUserByID, userID)
}

func (s *userStore) getUserByUsername(username string) (*User, error) {
	return s.getUser(queryGetUserByUsername, username)
}

func (s *userStore) getUser(query dbmodel.DBQuery, args ...interface{}) (*User, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "UserStore"))

	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(query, args...)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrUserNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildUserFromResultRow(results[0])
}

func (s *userStore) listUsers() ([]User, error) {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryListUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	users := make([]User, 0, len(results))
	for _, row := range results {
		user, err := buildUserFromResultRow(row)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func (s *userStore) deleteUser(userID string) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(queryDeleteUser, userID)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func buildUserFromResultRow(row map[string]interface{}) (*User, error) {
	userID, ok := row["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse user_id as string")
	}

	user := &User{UserID: userID}
	user.Username, _ = row["username"].(string)
	user.Email, _ = row["email"].(string)

	switch createdAt := row["created_at"].(type) {
	case int64:
		user.CreatedAt = createdAt
	case float64:
		user.CreatedAt = int64(createdAt)
	}

	return user, nil
}
