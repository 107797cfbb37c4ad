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
	"time"

	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

const loggerComponentName = "PolicyService"

const (
	daySeconds  = int64(24 * 60 * 60)
	weekSeconds = 7 * daySeconds
)

// Spending policy service errors.
var (
	// ErrorInvalidRule is returned when a rule request is malformed.
	ErrorInvalidRule = serviceerror.ServiceError{
		Code:             "POL-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Policy rule is malformed",
	}
	// ErrorRuleNotFound is returned when no rule exists for the given id.
	ErrorRuleNotFound = serviceerror.ServiceError{
		Code:             "POL-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "not_found",
		ErrorDescription: "Policy rule not found",
	}
	// ErrorInternalServerError is returned on unexpected persistence failures.
	ErrorInternalServerError = serviceerror.ServiceError{
		Code:             "POL-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "An unexpected error occurred",
	}
)

// PolicyServiceInterface defines the spending policy operations.
type PolicyServiceInterface interface {
	SetRule(userID string, request *PolicyRuleRequest) (*PolicyRule, *serviceerror.ServiceError)
	ListRules(userID string) ([]PolicyRule, *serviceerror.ServiceError)
	DeleteRule(userID, ruleID string) *serviceerror.ServiceError
	CheckSpend(userID, resourceID, accessMode string, amount int64) (*Decision, *serviceerror.ServiceError)
}

// PolicyService is the default implementation of PolicyServiceInterface.
type PolicyService struct {
	store policyStoreInterface
}

// NewPolicyService creates a new policy service instance.
func NewPolicyService() PolicyServiceInterface {
	return &PolicyService{
		store: newPolicyStore(),
	}
}

// SetRule creates a spending cap, replacing any existing cap with the same scope,
// scope key, and window.
func (ps *PolicyService) SetRule(userID string,
	request *PolicyRuleRequest) (*PolicyRule, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if svcErr := validateRuleRequest(request); svcErr != nil {
		return nil, svcErr
	}

	if err := ps.store.deleteMatchingRules(userID, request.Scope, request.ScopeKey,
		request.Window); err != nil {
		logger.Error("Failed to clear superseded rules", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	rule := PolicyRule{
		RuleID:    utils.GenerateUUID(),
		UserID:    userID,
		Scope:     request.Scope,
		ScopeKey:  request.ScopeKey,
		Window:    request.Window,
		CapAmount: request.CapAmount,
		CreatedAt: time.Now().Unix(),
	}
	if err := ps.store.insertRule(rule); err != nil {
		logger.Error("Failed to insert policy rule", log.Error(err))
		return nil, &ErrorInternalServerError
	}
	return &rule, nil
}

// ListRules returns all spending caps of a user.
func (ps *PolicyService) ListRules(userID string) ([]PolicyRule, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	rules, err := ps.store.listRules(userID)
	if err != nil {
		logger.Error("Failed to list policy rules", log.Error(err))
		return nil, &ErrorInternalServerError
	}
	return rules, nil
}

// DeleteRule removes a spending cap.
func (ps *PolicyService) DeleteRule(userID, ruleID string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := ps.store.deleteRule(ruleID, userID); err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			return &ErrorRuleNotFound
		}
		logger.Error("Failed to delete policy rule", log.Error(err))
		return &ErrorInternalServerError
	}
	return nil
}

// CheckSpend decides whether a prospective spend fits the user's caps. Rules are
// checked global first, then per-resource, then per-mode; the first exceeded cap
// denies the spend. A user with no rules has no caps.
func (ps *PolicyService) CheckSpend(userID, resourceID, accessMode string,
	amount int64) (*Decision, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	rules, err := ps.store.listRules(userID)
	if err != nil {
		logger.Error("Failed to list policy rules", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	for _, scope := range []PolicyScope{ScopeGlobal, ScopeResource, ScopeMode} {
		for _, rule := range rules {
			if rule.Scope != scope {
				continue
			}
			switch scope {
			case ScopeResource:
				if rule.ScopeKey != resourceID {
					continue
				}
			case ScopeMode:
				if rule.ScopeKey != accessMode {
					continue
				}
			}

			since := time.Now().Unix() - windowSeconds(rule.Window)
			current, err := ps.store.sumSettledSpend(userID, rule.Scope, rule.ScopeKey, since)
			if err != nil {
				logger.Error("Failed to sum settled spend", log.Error(err))
				return nil, &ErrorInternalServerError
			}

			if current+amount > rule.CapAmount {
				return &Decision{
					Allowed: false,
					Reason:  denialReason(rule),
					Limit:   rule.CapAmount,
					Current: current,
				}, nil
			}
		}
	}

	return &Decision{Allowed: true}, nil
}

func validateRuleRequest(request *PolicyRuleRequest) *serviceerror.ServiceError {
	if request.CapAmount <= 0 {
		return &ErrorInvalidRule
	}
	switch request.Window {
	case WindowDaily, WindowWeekly:
	default:
		return &ErrorInvalidRule
	}
	switch request.Scope {
	case ScopeGlobal:
		if request.ScopeKey != "" {
			return &ErrorInvalidRule
		}
	case ScopeResource, ScopeMode:
		if request.ScopeKey == "" {
			return &ErrorInvalidRule
		}
	default:
		return &ErrorInvalidRule
	}
	return nil
}

func windowSeconds(window PolicyWindow) int64 {
	if window == WindowDaily {
		return daySeconds
	}
	return weekSeconds
}

func denialReason(rule PolicyRule) string {
	switch rule.Scope {
	case ScopeResource:
		return fmt.Sprintf("resource %s cap exceeded", rule.ScopeKey)
	case ScopeMode:
		return fmt.Sprintf("mode %s cap exceeded", rule.ScopeKey)
	}
	return "global spending cap exceeded"
}
