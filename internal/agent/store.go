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

package agent

import (
	"errors"
	"fmt"

	dbmodel "github.com/asgardeo/gate/internal/system/database/model"
	"github.com/asgardeo/gate/internal/system/database/provider"
	"github.com/asgardeo/gate/internal/system/log"
)

// ErrAgentNotFound is returned when no agent exists for the requested key.
var ErrAgentNotFound = errors.New("agent not found")

// agentStoreInterface defines the persistence operations for agent bindings.
type agentStoreInterface interface {
	createAgent(agent Agent) error
	getAgentByUserAndClient(userID, clientID string) (*Agent, error)
	getAgentByID(agentID string) (*Agent, error)
}

// agentStore is the default database-backed implementation of agentStoreInterface.
type agentStore struct {
	dbProvider provider.DBProviderInterface
}

func newAgentStore() agentStoreInterface {
	return &agentStore{
		dbProvider: provider.GetDBProvider(),
	}
}

func (s *agentStore) createAgent(agent Agent) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryCreateAgent, agent.AgentID, agent.UserID, agent.ClientID,
		agent.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *agentStore) getAgentByUserAndClient(userID, clientID string) (*Agent, error) {
	return s.getAgent(queryGetAgentByUserAndClient, userID, clientID)
}

func (s *agentStore) getAgentByID(agentID string) (*Agent, error) {
	return s.getAgent(queryGetAgentByID, agentID)
}

func (s *agentStore) getAgent(query dbmodel.DBQuery, args ...interface{}) (*Agent, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AgentStore"))

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
		return nil, ErrAgentNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildAgentFromResultRow(results[0])
}

func buildAgentFromResultRow(row map[string]interface{}) (*Agent, error) {
	agentID, ok := row["agent_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse agent_id as string")
	}

	agent := &Agent{AgentID: agentID}
	agent.UserID, _ = row["user_id"].(string)
	agent.ClientID, _ = row["client_id"].(string)

	switch createdAt := row["created_at"].(type) {
	case int64:
		agent.CreatedAt = createdAt
	case float64:
		agent.CreatedAt = int64(createdAt)
	}

	return agent, nil
}
