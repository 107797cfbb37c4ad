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

package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/oauth/token"
	"github.com/asgardeo/gate/internal/resource"
	"github.com/asgardeo/gate/internal/settlement"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
)

type mockResourceService struct {
	resources map[string]*resource.Resource
	discover  func(query, agentID string, limit int) ([]resource.DiscoveryResult, *serviceerror.ServiceError)
}

func (m *mockResourceService) CreateResource(
	request *resource.CreateResourceRequest) (*resource.Resource, *serviceerror.ServiceError) {
	return nil, &resource.ErrorInternalServerError
}

func (m *mockResourceService) GetResource(
	resourceID string) (*resource.Resource, *serviceerror.ServiceError) {
	if res, ok := m.resources[resourceID]; ok {
		return res, nil
	}
	return nil, &resource.ErrorResourceNotFound
}

func (m *mockResourceService) ListResources() ([]resource.Resource, *serviceerror.ServiceError) {
	return nil, nil
}

func (m *mockResourceService) DeleteResource(resourceID string) *serviceerror.ServiceError {
	return nil
}

func (m *mockResourceService) Discover(query, agentID string,
	limit int) ([]resource.DiscoveryResult, *serviceerror.ServiceError) {
	return m.discover(query, agentID, limit)
}

type mockSettlementService struct {
	fetch func(input *settlement.FetchInput) (*settlement.FetchOutcome, *serviceerror.ServiceError)
}

func (m *mockSettlementService) Fetch(ctx context.Context,
	input *settlement.FetchInput) (*settlement.FetchOutcome, *serviceerror.ServiceError) {
	return m.fetch(input)
}

func (m *mockSettlementService) GetRequest(
	requestID string) (*settlement.Request, *serviceerror.ServiceError) {
	return nil, &settlement.ErrorRequestNotFound
}

func (m *mockSettlementService) GetReceipt(
	requestID string) (*settlement.Receipt, *serviceerror.ServiceError) {
	return nil, &settlement.ErrorReceiptNotFound
}

type ToolsTestSuite struct {
	suite.Suite
	resourceService   *mockResourceService
	settlementService *mockSettlementService
	deps              ToolDependencies
	ctx               context.Context
}

func TestToolsTestSuite(t *testing.T) {
	suite.Run(t, new(ToolsTestSuite))
}

func (s *ToolsTestSuite) SetupTest() {
	s.resourceService = &mockResourceService{
		resources: map[string]*resource.Resource{},
	}
	s.settlementService = &mockSettlementService{}
	s.deps = ToolDependencies{
		ResourceService:   s.resourceService,
		SettlementService: s.settlementService,
	}
	s.ctx = context.WithValue(context.Background(), claimsContextKey{},
		&token.AccessTokenClaims{
			Subject:  "user-1",
			ClientID: "client-1",
			AgentID:  "agent-1",
		})
}

func (s *ToolsTestSuite) TestDiscoverPassesAgentIdentity() {
	var gotAgentID string
	var gotLimit int
	s.resourceService.discover = func(query, agentID string,
		limit int) ([]resource.DiscoveryResult, *serviceerror.ServiceError) {
		gotAgentID = agentID
		gotLimit = limit
		return []resource.DiscoveryResult{{ResourceID: "res-1", Title: "Report"}}, nil
	}

	handler := discoverHandler(s.deps)
	callResult, result, err := handler(s.ctx, &mcp.CallToolRequest{}, DiscoverInput{Query: "report"})

	s.Require().NoError(err)
	s.Require().NotNil(result)
	s.Equal("agent-1", gotAgentID)
	s.Equal(defaultDiscoverLimit, gotLimit)
	s.Len(result.Results, 1)
	s.Equal("res-1", result.Results[0].ResourceID)
	s.Equal("res-1", result.RecommendedID)
	s.False(callResult.IsError)
}

func (s *ToolsTestSuite) TestDiscoverHonorsLimit() {
	var gotLimit int
	s.resourceService.discover = func(query, agentID string,
		limit int) ([]resource.DiscoveryResult, *serviceerror.ServiceError) {
		gotLimit = limit
		return nil, nil
	}

	handler := discoverHandler(s.deps)
	_, result, err := handler(s.ctx, &mcp.CallToolRequest{}, DiscoverInput{Limit: 5})

	s.Require().NoError(err)
	s.Equal(5, gotLimit)
	s.NotNil(result.Results)
	s.Empty(result.Results)
}

func (s *ToolsTestSuite) TestDiscoverRequiresIdentity() {
	handler := discoverHandler(s.deps)
	_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, DiscoverInput{})

	s.Error(err)
}

func (s *ToolsTestSuite) TestFetchReturnsSettledContent() {
	var gotInput *settlement.FetchInput
	s.settlementService.fetch = func(
		input *settlement.FetchInput) (*settlement.FetchOutcome, *serviceerror.ServiceError) {
		gotInput = input
		return &settlement.FetchOutcome{
			Request:     settlement.Request{RequestID: "req-1", Status: settlement.StatusSettled},
			Receipt:     settlement.Receipt{RequestID: "req-1", Amount: 40},
			Content:     []byte("quarterly numbers"),
			ContentType: "text/plain",
		}, nil
	}

	handler := fetchHandler(s.deps)
	callResult, result, err := handler(s.ctx, &mcp.CallToolRequest{},
		FetchInput{ResourceID: "res-1", Mode: "raw"})

	s.Require().NoError(err)
	s.Require().NotNil(result)

	s.Equal("user-1", gotInput.UserID)
	s.Equal("client-1", gotInput.ClientID)
	s.Equal("res-1", gotInput.ResourceID)
	s.Equal("raw", gotInput.Mode)

	decoded, decodeErr := base64.StdEncoding.DecodeString(result.Content)
	s.Require().NoError(decodeErr)
	s.Equal("quarterly numbers", string(decoded))
	s.Equal(int64(40), result.Receipt.Amount)
	s.False(callResult.IsError)
}

func (s *ToolsTestSuite) TestFetchDenialCarriesQuote() {
	s.resourceService.resources["res-1"] = &resource.Resource{
		ResourceID: "res-1",
		Price:      500,
	}
	s.settlementService.fetch = func(
		input *settlement.FetchInput) (*settlement.FetchOutcome, *serviceerror.ServiceError) {
		svcErr := serviceerror.ServiceError{
			Code:             "WLT-1002",
			Type:             serviceerror.ClientErrorType,
			Error:            "insufficient_funds",
			ErrorDescription: "The wallet balance cannot cover this operation",
		}
		return nil, &svcErr
	}

	handler := fetchHandler(s.deps)
	callResult, result, err := handler(s.ctx, &mcp.CallToolRequest{},
		FetchInput{ResourceID: "res-1"})

	s.Require().NoError(err)
	s.Nil(result)
	s.Require().NotNil(callResult)
	s.True(callResult.IsError)

	textContent, ok := callResult.Content[0].(*mcp.TextContent)
	s.Require().True(ok)

	var denial fetchDenial
	s.Require().NoError(json.Unmarshal([]byte(textContent.Text), &denial))
	s.Equal("insufficient_funds", denial.Error)
	s.Require().NotNil(denial.Quote)
	s.Equal(int64(500), denial.Quote.Cost)
}

func (s *ToolsTestSuite) TestFetchDenialWithoutQuoteForNonPaymentErrors() {
	s.settlementService.fetch = func(
		input *settlement.FetchInput) (*settlement.FetchOutcome, *serviceerror.ServiceError) {
		return nil, &settlement.ErrorResourceForbidden
	}

	handler := fetchHandler(s.deps)
	callResult, result, err := handler(s.ctx, &mcp.CallToolRequest{},
		FetchInput{ResourceID: "res-1"})

	s.Require().NoError(err)
	s.Nil(result)
	s.True(callResult.IsError)

	textContent := callResult.Content[0].(*mcp.TextContent)
	var denial fetchDenial
	s.Require().NoError(json.Unmarshal([]byte(textContent.Text), &denial))
	s.Equal(settlement.ErrorResourceForbidden.Code, denial.Code)
	s.Nil(denial.Quote)
}

func (s *ToolsTestSuite) TestFetchRequiresIdentity() {
	handler := fetchHandler(s.deps)
	_, _, err := handler(context.Background(), &mcp.CallToolRequest{},
		FetchInput{ResourceID: "res-1"})

	s.Error(err)
}

type mockVerifier struct {
	claims *token.AccessTokenClaims
}

func (m *mockVerifier) VerifyAccessToken(tokenValue string) (*token.AccessTokenClaims, error) {
	if m.claims != nil && tokenValue == "good-token" {
		return m.claims, nil
	}
	return nil, token.ErrInvalidToken
}

type AuthMiddlewareTestSuite struct {
	suite.Suite
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) TestValidBearerTokenAttachesClaims() {
	verifier := &mockVerifier{claims: &token.AccessTokenClaims{
		Subject: "user-1",
		AgentID: "agent-1",
	}}

	var gotClaims *token.AccessTokenClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	request.Header.Set("Authorization", "Bearer good-token")

	bearerAuthMiddleware(verifier, next).ServeHTTP(recorder, request)

	s.Equal(http.StatusOK, recorder.Code)
	s.Require().NotNil(gotClaims)
	s.Equal("agent-1", gotClaims.AgentID)
}

func (s *AuthMiddlewareTestSuite) TestMissingTokenRejected() {
	verifier := &mockVerifier{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Fail("handler must not run without a token")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/mcp", nil)

	bearerAuthMiddleware(verifier, next).ServeHTTP(recorder, request)

	s.Equal(http.StatusUnauthorized, recorder.Code)
	s.Contains(recorder.Header().Get("WWW-Authenticate"), "invalid_token")
}

func (s *AuthMiddlewareTestSuite) TestBadTokenRejectedUniformly() {
	verifier := &mockVerifier{claims: &token.AccessTokenClaims{Subject: "user-1"}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Fail("handler must not run with a bad token")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	request.Header.Set("Authorization", "Bearer forged-token")

	bearerAuthMiddleware(verifier, next).ServeHTTP(recorder, request)

	s.Equal(http.StatusUnauthorized, recorder.Code)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&body))
	s.Equal("invalid_token", body["error"])
}

func (s *AuthMiddlewareTestSuite) TestMalformedAuthorizationHeaderRejected() {
	verifier := &mockVerifier{claims: &token.AccessTokenClaims{Subject: "user-1"}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Fail("handler must not run with a malformed header")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	request.Header.Set("Authorization", "Basic Zm9vOmJhcg==")

	bearerAuthMiddleware(verifier, next).ServeHTTP(recorder, request)

	s.Equal(http.StatusUnauthorized, recorder.Code)
}
