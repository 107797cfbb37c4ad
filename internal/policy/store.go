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

package policy

import (
	"errors"
	"fmt"

	dbmodel "github.com/asgardeo/gate/internal/system/database/model"
	"github.com/asgardeo/gate/internal/system/database/provider"
)

// ErrRuleNotFound is returned when no policy rule exists for the requested key.
var ErrRuleNotFound = errors.New("policy rule not found")

// policyStoreInterface defines the persistence operations for spending policies.
type policyStoreInterface interface {
	insertRule(rule PolicyRule) error
	listRules(userID string) ([]PolicyRule, error)
	deleteRule(ruleID, userID string) error
	deleteMatchingRules(userID string, scope PolicyScope, scopeKey string, window PolicyWindow) error
	sumSettledSpend(userID string, scope PolicyScope, scopeKey string, since int64) (int64, error)
}

// policyStore is the default database-backed implementation of policyStoreInterface.
type policyStore struct {
	dbProvider provider.DBProviderInterface
}

func newPolicyStore() policyStoreInterface {
	return &policyStore{
		dbProvider: provider.GetDBProvider(),
	}
}

func (s *policyStore) insertRule(rule PolicyRule) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryInsertPolicyRule, rule.RuleID, rule.UserID, string(rule.Scope),
		rule.ScopeKey, string(rule.Window), rule.CapAmount, rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *policyStore) listRules(userID string) ([]PolicyRule, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryListPolicyRules, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	rules := make([]PolicyRule, 0, len(results))
	for _, row := range results {
		rule, err := buildPolicyRuleFromResultRow(row)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

func (s *policyStore) deleteRule(ruleID, userID string) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(queryDeletePolicyRule, ruleID, userID)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (s *policyStore) deleteMatchingRules(userID string, scope PolicyScope, scopeKey string,
	window PolicyWindow) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryDeleteMatchingRules, userID, string(scope), scopeKey, string(window))
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *policyStore) sumSettledSpend(userID string, scope PolicyScope, scopeKey string,
	since int64) (int64, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return 0, fmt.Errorf("failed to get database client: %w", err)
	}

	var query dbmodel.DBQuery
	args := []interface{}{userID, since}
	switch scope {
	case ScopeResource:
		query = querySumSettledByResource
		args = append(args, scopeKey)
	case ScopeMode:
		query = querySumSettledByMode
		args = append(args, scopeKey)
	default:
		query = querySumSettledGlobal
	}

	results, err := dbClient.Query(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("unexpected number of results: %d", len(results))
	}
	return parseInt64Field(results[0]["total"]), nil
}

func buildPolicyRuleFromResultRow(row map[string]interface{}) (*PolicyRule, error) {
	ruleID, ok := row["rule_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse rule_id as string")
	}

	rule := &PolicyRule{RuleID: ruleID}
	rule.UserID, _ = row["user_id"].(string)
	rule.ScopeKey, _ = row["scope_key"].(string)
	if scope, ok := row["scope"].(string); ok {
		rule.Scope = PolicyScope(scope)
	}
	if window, ok := row["window_kind"].(string); ok {
		rule.Window = PolicyWindow(window)
	}
	rule.CapAmount = parseInt64Field(row["cap_amount"])
	rule.CreatedAt = parseInt64Field(row["created_at"])
	return rule, nil
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
