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

// Package pin provides the wallet PIN guard. PINs are stored as bcrypt hashes and
// repeated failures lock verification for a cooldown window.
package pin

import (
	"errors"
	"fmt"

	"github.com/asgardeo/gate/internal/system/database/provider"
)

// ErrPinNotSet is returned when the user has no PIN record.
var ErrPinNotSet = errors.New("pin not set")

// pinRecord is the stored PIN state of a user.
type pinRecord struct {
	UserID         string
	PinHash        string
	FailedAttempts int
	LockedUntil    int64
	UpdatedAt      int64
}

// pinStoreInterface defines the persistence operations for PIN records.
type pinStoreInterface interface {
	insertPin(userID, pinHash string, now int64) error
	updatePin(userID, pinHash string, now int64) error
	getPin(userID string) (*pinRecord, error)
	updateAttempts(userID string, attempts int, lockedUntil, now int64) error
}

// pinStore is the default database-backed implementation of pinStoreInterface.
type pinStore struct {
	dbProvider provider.DBProviderInterface
}

func newPinStore() pinStoreInterface {
	return &pinStore{
		dbProvider: provider.GetDBProvider(),
	}
}

func (s *pinStore) insertPin(userID, pinHash string, now int64) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryInsertPin, userID, pinHash, now)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *pinStore) updatePin(userID, pinHash string, now int64) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(queryUpdatePin, pinHash, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPinNotSet
	}
	return nil
}

func (s *pinStore) getPin(userID string) (*pinRecord, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetPin, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrPinNotSet
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildPinRecordFromResultRow(results[0])
}

func (s *pinStore) updateAttempts(userID string, attempts int, lockedUntil, now int64) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryUpdateAttempts, attempts, lockedUntil, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func buildPinRecordFromResultRow(row map[string]interface{}) (*pinRecord, error) {
	userID, ok := row["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse user_id as string")
	}

	record := &pinRecord{UserID: userID}
	record.PinHash, _ = row["pin_hash"].(string)
	record.FailedAttempts = int(parseInt64Field(row["failed_attempts"]))
	record.LockedUntil = parseInt64Field(row["locked_until"])
	record.UpdatedAt = parseInt64Field(row["updated_at"])
	return record, nil
}

func parseInt64Field(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
