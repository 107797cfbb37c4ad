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

package resource

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asgardeo/gate/internal/system/database/provider"
)

// ErrResourceNotFound is returned when no catalog entry exists for the requested id.
var ErrResourceNotFound = errors.New("resource not found")

// resourceStoreInterface defines the persistence operations for the catalog.
type resourceStoreInterface interface {
	createResource(res Resource) error
	getResourceByID(resourceID string) (*Resource, error)
	listResources() ([]Resource, error)
	deleteResource(resourceID string) error
}

// resourceStore is the default database-backed implementation of resourceStoreInterface.
type resourceStore struct {
	dbProvider provider.DBProviderInterface
}

func newResourceStore() resourceStoreInterface {
	return &resourceStore{
		dbProvider: provider.GetDBProvider(),
	}
}

func (s *resourceStore) createResource(res Resource) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryCreateResource, res.ResourceID, res.ProviderUserID, res.Title,
		res.Description, strings.Join(res.Modes, ","), res.Summary, res.Price, res.UnitPricePerKB,
		res.EstimatedSize, res.Visibility, strings.Join(res.AllowedAgents, ","), res.PayoutAddress,
		res.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *resourceStore) getResourceByID(resourceID string) (*Resource, error) {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetResourceByID, resourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrResourceNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildResourceFromResultRow(results[0])
}

func (s *resourceStore) listResources() ([]Resource, error) {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryListResources)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	resources := make([]Resource, 0, len(results))
	for _, row := range results {
		res, err := buildResourceFromResultRow(row)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}
	return resources, nil
}

func (s *resourceStore) deleteResource(resourceID string) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(queryDeleteResource, resourceID)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if rowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

func buildResourceFromResultRow(row map[string]interface{}) (*Resource, error) {
	resourceID, ok := row["resource_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse resource_id as string")
	}

	res := &Resource{ResourceID: resourceID}
	res.ProviderUserID, _ = row["provider_user_id"].(string)
	res.Title, _ = row["title"].(string)
	res.Description, _ = row["description"].(string)
	res.Summary, _ = row["summary"].(string)
	res.Visibility, _ = row["visibility"].(string)
	res.PayoutAddress, _ = row["payout_address"].(string)
	if modes, ok := row["modes"].(string); ok {
		res.Modes = splitList(modes)
	}
	if agents, ok := row["allowed_agents"].(string); ok {
		res.AllowedAgents = splitList(agents)
	}
	res.Price = parseInt64Field(row["price"])
	res.UnitPricePerKB = parseInt64Field(row["unit_price_per_kb"])
	res.EstimatedSize = parseInt64Field(row["estimated_size"])
	res.CreatedAt = parseInt64Field(row["created_at"])
	return res, nil
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
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
