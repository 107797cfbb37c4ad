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

package introspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/oauth/token"
)

type mockVerifier struct {
	claims *token.AccessTokenClaims
	err    error
}

func (m *mockVerifier) VerifyAccessToken(tokenValue string) (*token.AccessTokenClaims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

type IntrospectionHandlerTestSuite struct {
	suite.Suite
}

func TestIntrospectionHandlerSuite(t *testing.T) {
	suite.Run(t, new(IntrospectionHandlerTestSuite))
}

func (s *IntrospectionHandlerTestSuite) postToken(handler *IntrospectionHandler, tokenValue string) *httptest.ResponseRecorder {
	form := url.Values{}
	if tokenValue != "" {
		form.Set("token", tokenValue)
	}
	req := httptest.NewRequest(http.MethodPost, "/oauth2/introspect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.HandleIntrospectionRequest(rec, req)
	return rec
}

func (s *IntrospectionHandlerTestSuite) TestActiveToken() {
	handler := &IntrospectionHandler{
		verifier: &mockVerifier{
			claims: &token.AccessTokenClaims{
				Subject:  "user-1",
				Audience: "https://content.gate.io",
				ClientID: "client-1",
				AgentID:  "agent-1",
				Scopes:   []string{"wallet.read", "content.fetch"},
				TokenID:  "jti-1",
			},
		},
	}

	rec := s.postToken(handler, "valid-token")
	s.Equal(http.StatusOK, rec.Code)

	var response IntrospectionResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.True(response.Active)
	s.Equal("wallet.read content.fetch", response.Scope)
	s.Equal("client-1", response.ClientID)
	s.Equal("user-1", response.Subject)
	s.Equal("agent-1", response.AgentID)
	s.Equal("jti-1", response.TokenID)
}

func (s *IntrospectionHandlerTestSuite) TestInvalidTokenReturnsInactive() {
	handler := &IntrospectionHandler{
		verifier: &mockVerifier{err: token.ErrInvalidToken},
	}

	rec := s.postToken(handler, "garbage")
	s.Equal(http.StatusOK, rec.Code)

	var response IntrospectionResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.False(response.Active)
	s.Empty(response.ClientID)
}

func (s *IntrospectionHandlerTestSuite) TestMissingTokenParameter() {
	handler := &IntrospectionHandler{verifier: &mockVerifier{err: token.ErrInvalidToken}}

	rec := s.postToken(handler, "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *IntrospectionHandlerTestSuite) TestNonPostRejected() {
	handler := &IntrospectionHandler{verifier: &mockVerifier{err: token.ErrInvalidToken}}

	req := httptest.NewRequest(http.MethodGet, "/oauth2/introspect", nil)
	rec := httptest.NewRecorder()
	handler.HandleIntrospectionRequest(rec, req)
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}
