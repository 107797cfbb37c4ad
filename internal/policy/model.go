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

// Package policy provides spending policies. A policy caps what an agent may spend
// from its user's wallet over a rolling window, globally, per resource, or per
// access mode. All amounts are cents.
package policy

// PolicyScope identifies what a cap applies to.
type PolicyScope string

const (
	// ScopeGlobal caps all spending of the user.
	ScopeGlobal PolicyScope = "GLOBAL"
	// ScopeResource caps spending against a single catalog resource.
	ScopeResource PolicyScope = "RESOURCE"
	// ScopeMode caps spending through a single access mode.
	ScopeMode PolicyScope = "MODE"
)

// PolicyWindow identifies the rolling window a cap is measured over.
type PolicyWindow string

const (
	// WindowDaily measures spend over the trailing 24 hours.
	WindowDaily PolicyWindow = "DAILY"
	// WindowWeekly measures spend over the trailing 7 days.
	WindowWeekly PolicyWindow = "WEEKLY"
)

// PolicyRule is a single spending cap.
type PolicyRule struct {
	RuleID    string       `json:"rule_id"`
	UserID    string       `json:"user_id"`
	Scope     PolicyScope  `json:"scope"`
	ScopeKey  string       `json:"scope_key,omitempty"`
	Window    PolicyWindow `json:"window"`
	CapAmount int64        `json:"cap_amount"`
	CreatedAt int64        `json:"created_at"`
}

// PolicyRuleRequest represents a rule creation or replacement request.
type PolicyRuleRequest struct {
	Scope     PolicyScope  `json:"scope"`
	ScopeKey  string       `json:"scope_key,omitempty"`
	Window    PolicyWindow `json:"window"`
	CapAmount int64        `json:"cap_amount"`
}

// Decision is the outcome of a spending check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Limit   int64  `json:"limit,omitempty"`
	Current int64  `json:"current,omitempty"`
}
