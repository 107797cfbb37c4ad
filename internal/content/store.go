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

// Package content stores and serves the payloads behind catalog resources. Payloads
// are encrypted at rest and only decrypted once a settlement has paid for the fetch.
package content

import (
	"errors"
	"fmt"

	"github.com/asgardeo/gate/internal/system/database/provider"
)

// ErrContentNotFound is returned when a resource has no stored payload.
var ErrContentNotFound = errors.New("content not found")

// contentRecord is the stored encrypted payload of a resource.
type contentRecord struct {
	ResourceID  string
	Ciphertext  string
	ContentType string
	UpdatedAt   int64
}

// contentStoreInterface defines the persistence operations for encrypted payloads.
type contentStoreInterface interface {
	insertContent(record contentRecord) error
	updateContent(record contentRecord) error
	getContent(resourceID string) (*contentRecord, error)
}

// contentStore is the default database-backed implementation of contentStoreInterface.
type contentStore struct {
	dbProvider provider.DBProviderInterface
}

func newContentStore() contentStoreInterface {
	return &contentStore{
		dbProvider: provider.GetDBProvider(),
	}
}

func (s *contentStore) insertContent(record contentRecord) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryInsertContent, record.ResourceID, record.Ciphertext,
		record.ContentType, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *contentStore) updateContent(record contentRecord) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(queryUpdateContent, record.Ciphertext,
		record.ContentType, record.UpdatedAt, record.ResourceID)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if rowsAffected == 0 {
		return ErrContentNotFound
	}
	return nil
}

func (s *contentStore) getContent(resourceID string) (*contentRecord, error) {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetContent, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrContentNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	record := &contentRecord{}
	var ok bool
	if record.ResourceID, ok = results[0]["resource_id"].(string); !ok {
		return nil, fmt.Errorf("failed to parse resource_id as string")
	}
	record.Ciphertext, _ = results[0]["ciphertext"].(string)
	record.ContentType, _ = results[0]["content_type"].(string)
	switch updatedAt := results[0]["updated_at"].(type) {
	case int64:
		record.UpdatedAt = updatedAt
	case float64:
		record.UpdatedAt = int64(updatedAt)
	}
	return record, nil
}
