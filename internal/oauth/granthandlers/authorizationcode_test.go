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
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/oauth/authz"
	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/oauth/pkce"
	"github.com/asgardeo/gate/internal/oauth/refresh"
	"github.com/asgardeo/gate/internal/system/config"
)

const (
	testResource     = "https://gate.example.com/api"
	testRedirectURI  = "https://agent.example.com/callback"
	testCodeVerifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
)

type AuthorizationCodeGrantTestSuite struct {
	suite.Suite
	codeStore    *mockCodeStore
	tokenStore   *mockTokenStore
	agentService *mockAgentService
	jwtService   *mockJWTService
	handler      *AuthorizationCodeGrantHandler
	oauthClient  *client.OAuthClient
}

func TestAuthorizationCodeGrantTestSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationCodeGrantTestSuite))
}

func (suite *AuthorizationCodeGrantTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{
		OAuth: config.OAuthConfig{ProtectedResource: testResource},
	})
	suite.Require().NoError(err)

	suite.codeStore = &mockCodeStore{}
	suite.tokenStore = &mockTokenStore{}
	suite.agentService = &mockAgentService{}
	suite.jwtService = &mockJWTService{}
	suite.handler = &AuthorizationCodeGrantHandler{
		codeStore:    suite.codeStore,
		tokenStore:   suite.tokenStore,
		agentService: suite.agentService,
		jwtService:   suite.jwtService,
	}
	suite.oauthClient = &client.OAuthClient{
		ClientID:                "client-1",
		RedirectURIs:            []string{testRedirectURI},
		GrantTypes:              []string{"authorization_code", "refresh_token"},
		TokenEndpointAuthMethod: "none",
	}
}

func (suite *AuthorizationCodeGrantTestSuite) activeCode() authz.AuthorizationCode {
	challenge, err := pkce.GenerateCodeChallenge(testCodeVerifier)
	suite.Require().NoError(err)

	now := time.Now()
	return authz.AuthorizationCode{
		CodeID:              "code-id-1",
		Code:                "auth-code-1",
		ClientID:            "client-1",
		RedirectURI:         testRedirectURI,
		AuthorizedUserID:    "user-1",
		CodeChallenge:       challenge,
		CodeChallengeMethod: pkce.CodeChallengeMethodS256,
		Resource:            testResource,
		Scopes:              []string{"read", "search"},
		TimeCreated:         now,
		ExpiryTime:          now.Add(5 * time.Minute),
		State:               authz.AuthCodeStateActive,
	}
}

func (suite *AuthorizationCodeGrantTestSuite) tokenRequest() *model.TokenRequest {
	return &model.TokenRequest{
		GrantType:    string(constants.GrantTypeAuthorizationCode),
		ClientID:     "client-1",
		Code:         "auth-code-1",
		RedirectURI:  testRedirectURI,
		CodeVerifier: testCodeVerifier,
	}
}

func (suite *AuthorizationCodeGrantTestSuite) TestValidateGrant() {
	suite.Nil(suite.handler.ValidateGrant(suite.tokenRequest(), suite.oauthClient))

	request := suite.tokenRequest()
	request.GrantType = "client_credentials"
	errResp := suite.handler.ValidateGrant(request, suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorUnsupportedGrantType, errResp.Error)

	request = suite.tokenRequest()
	request.Code = ""
	errResp = suite.handler.ValidateGrant(request, suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidRequest, errResp.Error)

	request = suite.tokenRequest()
	request.CodeVerifier = ""
	errResp = suite.handler.ValidateGrant(request, suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidRequest, errResp.Error)

	restricted := &client.OAuthClient{ClientID: "client-1", GrantTypes: []string{"refresh_token"}}
	errResp = suite.handler.ValidateGrant(suite.tokenRequest(), restricted)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorUnauthorizedClient, errResp.Error)
}

func (suite *AuthorizationCodeGrantTestSuite) TestHandleGrantSuccess() {
	code := suite.activeCode()
	suite.codeStore.getFunc = func(clientID, codeValue string) (authz.AuthorizationCode, error) {
		suite.Equal("client-1", clientID)
		suite.Equal("auth-code-1", codeValue)
		return code, nil
	}

	response, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)

	suite.Require().Nil(errResp)
	suite.Equal("signed-access-token", response.AccessToken)
	suite.Equal(constants.TokenTypeBearer, response.TokenType)
	suite.Equal(int64(defaultAccessTokenValidity), response.ExpiresIn)
	suite.NotEmpty(response.RefreshToken)
	suite.Equal("read search", response.Scope)
	suite.Equal(testResource, response.Resource)

	// The code must be consumed exactly once.
	suite.Equal([]string{"code-id-1"}, suite.codeStore.consumed)

	// The access token carries subject, audience and the agent binding.
	suite.Require().Len(suite.jwtService.calls, 1)
	call := suite.jwtService.calls[0]
	suite.Equal("user-1", call.sub)
	suite.Equal(testResource, call.aud)
	suite.Equal("read search", call.claims[constants.ClaimScope])
	suite.Equal("client-1", call.claims[constants.ClaimClientID])
	suite.Equal("agent-1", call.claims[constants.ClaimAgentID])

	// Only the hash of the refresh token value is persisted.
	suite.Require().Len(suite.tokenStore.inserted, 1)
	stored := suite.tokenStore.inserted[0]
	suite.Equal(refresh.HashToken(response.RefreshToken), stored.TokenHash)
	suite.NotEqual(response.RefreshToken, stored.TokenHash)
	suite.Equal("agent-1", stored.AgentID)
	suite.Equal(refresh.RefreshTokenStateActive, stored.State)
}

func (suite *AuthorizationCodeGrantTestSuite) TestHandleGrantUnknownCode() {
	_, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}

func (suite *AuthorizationCodeGrantTestSuite) TestHandleGrantExpiredCode() {
	code := suite.activeCode()
	code.ExpiryTime = time.Now().Add(-time.Minute)
	suite.codeStore.getFunc = func(clientID, codeValue string) (authz.AuthorizationCode, error) {
		return code, nil
	}

	_, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
	suite.Equal([]string{"code-id-1"}, suite.codeStore.expiredCodes)
}

func (suite *AuthorizationCodeGrantTestSuite) TestHandleGrantRedirectURIMismatch() {
	code := suite.activeCode()
	suite.codeStore.getFunc = func(clientID, codeValue string) (authz.AuthorizationCode, error) {
		return code, nil
	}

	request := suite.tokenRequest()
	request.RedirectURI = "https://agent.example.com/other"
	_, errResp := suite.handler.HandleGrant(request, suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
	suite.Empty(suite.codeStore.consumed)
}

func (suite *AuthorizationCodeGrantTestSuite) TestHandleGrantResourceMismatch() {
	code := suite.activeCode()
	suite.codeStore.getFunc = func(clientID, codeValue string) (authz.AuthorizationCode, error) {
		return code, nil
	}

	request := suite.tokenRequest()
	request.Resource = "https://other.example.com/api"
	_, errResp := suite.handler.HandleGrant(request, suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}

func (suite *AuthorizationCodeGrantTestSuite) TestHandleGrantPKCEMismatch() {
	code := suite.activeCode()
	suite.codeStore.getFunc = func(clientID, codeValue string) (authz.AuthorizationCode, error) {
		return code, nil
	}

	request := suite.tokenRequest()
	request.CodeVerifier = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	_, errResp := suite.handler.HandleGrant(request, suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
	suite.Empty(suite.codeStore.consumed)
}

func (suite *AuthorizationCodeGrantTestSuite) TestHandleGrantReplayedCode() {
	code := suite.activeCode()
	suite.codeStore.getFunc = func(clientID, codeValue string) (authz.AuthorizationCode, error) {
		return code, nil
	}
	suite.codeStore.consumeFunc = func(codeID string) error {
		return authz.ErrAuthorizationCodeConsumed
	}

	_, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
	suite.Empty(suite.tokenStore.inserted)
}
