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
	"time"

	"github.com/asgardeo/gate/internal/system/cache"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

// Agent service errors.
var (
	// ErrorInvalidAgentKey is returned when the user or client id is missing.
	ErrorInvalidAgentKey = serviceerror.ServiceError{
		Code:             "AGT-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_agent_key",
		ErrorDescription: "Both a user id and a client id are required",
	}
	// ErrorAgentNotFound is returned when no agent exists for the given id.
	ErrorAgentNotFound = serviceerror.ServiceError{
		Code:             "AGT-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "agent_not_found",
		ErrorDescription: "Agent not found",
	}
	// ErrorAgentServerError is returned on unexpected persistence failures.
	ErrorAgentServerError = serviceerror.ServiceError{
		Code:             "AGT-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "An unexpected error occurred",
	}
)

// AgentServiceInterface defines the operations for agent identity management.
type AgentServiceInterface interface {
	ResolveAgent(userID, clientID string) (*Agent, *serviceerror.ServiceError)
	GetAgent(agentID string) (*Agent, *serviceerror.ServiceError)
}

// AgentService is the default implementation of AgentServiceInterface.
type AgentService struct {
	store      agentStoreInterface
	agentCache cache.CacheInterface[Agent]
}

// NewAgentService creates a new agent service instance.
func NewAgentService() AgentServiceInterface {
	return &AgentService{
		store:      newAgentStore(),
		agentCache: cache.NewCache[Agent]("AgentCache"),
	}
}

// ResolveAgent returns the durable agent for the given (user, client) pair, creating
// it on first use. The operation is idempotent: a concurrent create losing the race
// falls back to the winner's row.
func (as *AgentService) ResolveAgent(userID, clientID string) (*Agent, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AgentService"))

	if userID == "" || clientID == "" {
		return nil, &ErrorInvalidAgentKey
	}

	existing, err := as.store.getAgentByUserAndClient(userID, clientID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrAgentNotFound) {
		logger.Error("Failed to look up agent", log.Error(err))
		return nil, &ErrorAgentServerError
	}

	newAgent := Agent{
		AgentID:   utils.GenerateUUID(),
		UserID:    userID,
		ClientID:  clientID,
		CreatedAt: time.Now().Unix(),
	}
	if createErr := as.store.createAgent(newAgent); createErr != nil {
		// A concurrent issuance may have created the binding first; the unique
		// (user, client) constraint rejects the duplicate. Re-read before failing.
		existing, err = as.store.getAgentByUserAndClient(userID, clientID)
		if err == nil {
			return existing, nil
		}
		logger.Error("Failed to create agent", log.Error(createErr))
		return nil, &ErrorAgentServerError
	}

	logger.Debug("Created agent binding", log.String(log.LoggerKeyAgentID, newAgent.AgentID),
		log.String(log.LoggerKeyClientID, clientID))
	return &newAgent, nil
}

// GetAgent retrieves an agent by its id.
func (as *AgentService) GetAgent(agentID string) (*Agent, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "AgentService"))

	if agentID == "" {
		return nil, &ErrorAgentNotFound
	}

	cacheKey := cache.CacheKey{Key: agentID}
	if cached, ok := as.agentCache.Get(cacheKey); ok {
		return &cached, nil
	}

	resolved, err := as.store.getAgentByID(agentID)
	if err != nil {
		if errors.Is(err, ErrAgentNotFound) {
			return nil, &ErrorAgentNotFound
		}
		logger.Error("Failed to retrieve agent", log.Error(err))
		return nil, &ErrorAgentServerError
	}

	if err := as.agentCache.Set(cacheKey, *resolved); err != nil {
		logger.Debug("Failed to cache agent", log.Error(err))
	}
	return resolved, nil
}
