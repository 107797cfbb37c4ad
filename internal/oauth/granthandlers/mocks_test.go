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

package granthandlers

import (
	"crypto/rsa"

	"github.com/asgardeo/gate/internal/agent"
	"github.com/asgardeo/gate/internal/oauth/authz"
	"github.com/asgardeo/gate/internal/oauth/refresh"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
)

type mockCodeStore struct {
	getFunc      func(clientID, code string) (authz.AuthorizationCode, error)
	consumeFunc  func(codeID string) error
	expiredCodes []string
	consumed     []string
}

func (m *mockCodeStore) InsertAuthorizationCode(authzCode authz.AuthorizationCode) error {
	return nil
}

func (m *mockCodeStore) GetAuthorizationCode(clientID, code string) (authz.AuthorizationCode, error) {
	if m.getFunc != nil {
		return m.getFunc(clientID, code)
	}
	return authz.AuthorizationCode{}, authz.ErrAuthorizationCodeNotFound
}

func (m *mockCodeStore) ConsumeAuthorizationCode(codeID string) error {
	m.consumed = append(m.consumed, codeID)
	if m.consumeFunc != nil {
		return m.consumeFunc(codeID)
	}
	return nil
}

func (m *mockCodeStore) ExpireAuthorizationCode(codeID string) error {
	m.expiredCodes = append(m.expiredCodes, codeID)
	return nil
}

func (m *mockCodeStore) RevokeAuthorizationCode(codeID string) error { return nil }

type mockTokenStore struct {
	getFunc    func(tokenValue string) (refresh.RefreshToken, error)
	rotateFunc func(oldTokenID string, newToken refresh.RefreshToken) error
	inserted   []refresh.RefreshToken
	rotated    []string
}

func (m *mockTokenStore) InsertRefreshToken(token refresh.RefreshToken) error {
	m.inserted = append(m.inserted, token)
	return nil
}

func (m *mockTokenStore) GetRefreshToken(tokenValue string) (refresh.RefreshToken, error) {
	if m.getFunc != nil {
		return m.getFunc(tokenValue)
	}
	return refresh.RefreshToken{}, refresh.ErrRefreshTokenNotFound
}

func (m *mockTokenStore) RevokeRefreshToken(tokenID string) error { return nil }

func (m *mockTokenStore) RotateRefreshToken(oldTokenID string, newToken refresh.RefreshToken) error {
	m.rotated = append(m.rotated, oldTokenID)
	if m.rotateFunc != nil {
		return m.rotateFunc(oldTokenID, newToken)
	}
	m.inserted = append(m.inserted, newToken)
	return nil
}

type mockAgentService struct {
	resolveFunc func(userID, clientID string) (*agent.Agent, *serviceerror.ServiceError)
}

func (m *mockAgentService) ResolveAgent(userID, clientID string) (*agent.Agent,
	*serviceerror.ServiceError) {
	if m.resolveFunc != nil {
		return m.resolveFunc(userID, clientID)
	}
	return &agent.Agent{AgentID: "agent-1", UserID: userID, ClientID: clientID}, nil
}

func (m *mockAgentService) GetAgent(agentID string) (*agent.Agent, *serviceerror.ServiceError) {
	return &agent.Agent{AgentID: agentID}, nil
}

type jwtCall struct {
	sub      string
	aud      string
	validity int64
	claims   map[string]string
}

type mockJWTService struct {
	generateErr error
	calls       []jwtCall
}

func (m *mockJWTService) Init() error { return nil }

func (m *mockJWTService) GetPublicKey() *rsa.PublicKey { return nil }

func (m *mockJWTService) GenerateJWT(sub, aud string, validityPeriod int64,
	claims map[string]string) (string, int64, error) {
	m.calls = append(m.calls, jwtCall{sub: sub, aud: aud, validity: validityPeriod, claims: claims})
	if m.generateErr != nil {
		return "", 0, m.generateErr
	}
	return "signed-access-token", 0, nil
}

func (m *mockJWTService) SignPayload(payload []byte) (string, error) { return "signature", nil }

func (m *mockJWTService) VerifyJWTSignature(jwtToken string, jwtPublicKey *rsa.PublicKey) error {
	return nil
}

func (m *mockJWTService) VerifyJWTSignatureWithJWKS(jwtToken string, jwksURL string) error {
	return nil
}
