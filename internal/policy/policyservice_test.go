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
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/system/config"
)

// spendKey addresses a recorded spend total in the mock store.
type spendKey struct {
	scope    PolicyScope
	scopeKey string
}

type mockPolicyStore struct {
	rules map[string]PolicyRule
	spend map[spendKey]int64
}

func newMockPolicyStore() *mockPolicyStore {
	return &mockPolicyStore{
		rules: make(map[string]PolicyRule),
		spend: make(map[spendKey]int64),
	}
}

func (m *mockPolicyStore) insertRule(rule PolicyRule) error {
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockPolicyStore) listRules(userID string) ([]PolicyRule, error) {
	rules := []PolicyRule{}
	for _, rule := range m.rules {
		if rule.UserID == userID {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (m *mockPolicyStore) deleteRule(ruleID, userID string) error {
	if rule, ok := m.rules[ruleID]; !ok || rule.UserID != userID {
		return ErrRuleNotFound
	}
	delete(m.rules, ruleID)
	return nil
}

func (m *mockPolicyStore) deleteMatchingRules(userID string, scope PolicyScope, scopeKey string,
	window PolicyWindow) error {
	for id, rule := range m.rules {
		if rule.UserID == userID && rule.Scope == scope && rule.ScopeKey == scopeKey &&
			rule.Window == window {
			delete(m.rules, id)
		}
	}
	return nil
}

func (m *mockPolicyStore) sumSettledSpend(userID string, scope PolicyScope, scopeKey string,
	since int64) (int64, error) {
	return m.spend[spendKey{scope: scope, scopeKey: scopeKey}], nil
}

type PolicyServiceTestSuite struct {
	suite.Suite
	store   *mockPolicyStore
	service *PolicyService
}

func TestPolicyServiceSuite(t *testing.T) {
	suite.Run(t, new(PolicyServiceTestSuite))
}

func (s *PolicyServiceTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{})
	s.Require().NoError(err)

	s.store = newMockPolicyStore()
	s.service = &PolicyService{store: s.store}
}

func (s *PolicyServiceTestSuite) setRule(scope PolicyScope, scopeKey string, window PolicyWindow,
	cap int64) *PolicyRule {
	rule, svcErr := s.service.SetRule("user-1", &PolicyRuleRequest{
		Scope:     scope,
		ScopeKey:  scopeKey,
		Window:    window,
		CapAmount: cap,
	})
	s.Require().Nil(svcErr)
	return rule
}

func (s *PolicyServiceTestSuite) TestSetRuleReplacesMatchingRule() {
	first := s.setRule(ScopeGlobal, "", WindowWeekly, 10000)
	second := s.setRule(ScopeGlobal, "", WindowWeekly, 5000)

	rules, svcErr := s.service.ListRules("user-1")
	s.Require().Nil(svcErr)
	s.Len(rules, 1)
	s.NotEqual(first.RuleID, rules[0].RuleID)
	s.Equal(second.CapAmount, rules[0].CapAmount)
}

func (s *PolicyServiceTestSuite) TestSetRuleValidation() {
	cases := []PolicyRuleRequest{
		{Scope: ScopeGlobal, Window: WindowWeekly, CapAmount: 0},
		{Scope: ScopeGlobal, Window: "MONTHLY", CapAmount: 100},
		{Scope: ScopeGlobal, ScopeKey: "res-1", Window: WindowWeekly, CapAmount: 100},
		{Scope: ScopeResource, Window: WindowDaily, CapAmount: 100},
		{Scope: "UNKNOWN", Window: WindowDaily, CapAmount: 100},
	}
	for _, request := range cases {
		_, svcErr := s.service.SetRule("user-1", &request)
		s.Require().NotNil(svcErr)
		s.Equal(ErrorInvalidRule.Code, svcErr.Code)
	}
}

func (s *PolicyServiceTestSuite) TestCheckSpendNoRulesAllows() {
	decision, svcErr := s.service.CheckSpend("user-1", "res-1", "article", 100000)
	s.Require().Nil(svcErr)
	s.True(decision.Allowed)
}

func (s *PolicyServiceTestSuite) TestCheckSpendGlobalCap() {
	s.setRule(ScopeGlobal, "", WindowWeekly, 1000)
	s.store.spend[spendKey{scope: ScopeGlobal}] = 800

	decision, svcErr := s.service.CheckSpend("user-1", "res-1", "article", 200)
	s.Require().Nil(svcErr)
	s.True(decision.Allowed)

	decision, svcErr = s.service.CheckSpend("user-1", "res-1", "article", 201)
	s.Require().Nil(svcErr)
	s.False(decision.Allowed)
	s.Equal(int64(1000), decision.Limit)
	s.Equal(int64(800), decision.Current)
	s.Contains(decision.Reason, "global")
}

func (s *PolicyServiceTestSuite) TestCheckSpendResourceCap() {
	s.setRule(ScopeResource, "res-1", WindowDaily, 500)
	s.store.spend[spendKey{scope: ScopeResource, scopeKey: "res-1"}] = 450

	decision, svcErr := s.service.CheckSpend("user-1", "res-1", "article", 100)
	s.Require().Nil(svcErr)
	s.False(decision.Allowed)
	s.Contains(decision.Reason, "res-1")

	// A different resource is not constrained by this cap.
	decision, svcErr = s.service.CheckSpend("user-1", "res-2", "article", 100)
	s.Require().Nil(svcErr)
	s.True(decision.Allowed)
}

func (s *PolicyServiceTestSuite) TestCheckSpendModeCap() {
	s.setRule(ScopeMode, "video", WindowWeekly, 2000)
	s.store.spend[spendKey{scope: ScopeMode, scopeKey: "video"}] = 2000

	decision, svcErr := s.service.CheckSpend("user-1", "res-1", "video", 1)
	s.Require().Nil(svcErr)
	s.False(decision.Allowed)

	decision, svcErr = s.service.CheckSpend("user-1", "res-1", "article", 1)
	s.Require().Nil(svcErr)
	s.True(decision.Allowed)
}

func (s *PolicyServiceTestSuite) TestCheckSpendGlobalCapWinsOverResourceCap() {
	s.setRule(ScopeGlobal, "", WindowWeekly, 100)
	s.setRule(ScopeResource, "res-1", WindowDaily, 1000)
	s.store.spend[spendKey{scope: ScopeGlobal}] = 100

	decision, svcErr := s.service.CheckSpend("user-1", "res-1", "article", 50)
	s.Require().Nil(svcErr)
	s.False(decision.Allowed)
	s.Contains(decision.Reason, "global")
}

func (s *PolicyServiceTestSuite) TestDeleteRule() {
	rule := s.setRule(ScopeGlobal, "", WindowWeekly, 1000)

	s.Require().Nil(s.service.DeleteRule("user-1", rule.RuleID))

	svcErr := s.service.DeleteRule("user-1", rule.RuleID)
	s.Require().NotNil(svcErr)
	s.Equal(ErrorRuleNotFound.Code, svcErr.Code)
}
