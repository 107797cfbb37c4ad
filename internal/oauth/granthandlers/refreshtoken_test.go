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

	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/oauth/refresh"
	"github.com/asgardeo/gate/internal/system/config"
)

type RefreshTokenGrantTestSuite struct {
	suite.Suite
	tokenStore  *mockTokenStore
	jwtService  *mockJWTService
	handler     *RefreshTokenGrantHandler
	oauthClient *client.OAuthClient
}

func TestRefreshTokenGrantTestSuite(t *testing.T) {
	suite.Run(t, new(RefreshTokenGrantTestSuite))
}

func (suite *RefreshTokenGrantTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{
		OAuth: config.OAuthConfig{ProtectedResource: testResource},
	})
	suite.Require().NoError(err)

	suite.tokenStore = &mockTokenStore{}
	suite.jwtService = &mockJWTService{}
	suite.handler = &RefreshTokenGrantHandler{
		tokenStore: suite.tokenStore,
		jwtService: suite.jwtService,
	}
	suite.oauthClient = &client.OAuthClient{
		ClientID:                "client-1",
		GrantTypes:              []string{"authorization_code", "refresh_token"},
		TokenEndpointAuthMethod: "none",
	}
}

func (suite *RefreshTokenGrantTestSuite) activeToken() refresh.RefreshToken {
	now := time.Now()
	return refresh.RefreshToken{
		TokenID:     "token-id-1",
		TokenHash:   refresh.HashToken("refresh-value-1"),
		ClientID:    "client-1",
		UserID:      "user-1",
		AgentID:     "agent-1",
		Resource:    testResource,
		Scopes:      []string{"read"},
		TimeCreated: now,
		ExpiryTime:  now.Add(24 * time.Hour),
		State:       refresh.RefreshTokenStateActive,
	}
}

func (suite *RefreshTokenGrantTestSuite) tokenRequest() *model.TokenRequest {
	return &model.TokenRequest{
		GrantType:    string(constants.GrantTypeRefreshToken),
		ClientID:     "client-1",
		RefreshToken: "refresh-value-1",
	}
}

func (suite *RefreshTokenGrantTestSuite) TestValidateGrant() {
	suite.Nil(suite.handler.ValidateGrant(suite.tokenRequest(), suite.oauthClient))

	request := suite.tokenRequest()
	request.RefreshToken = ""
	errResp := suite.handler.ValidateGrant(request, suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidRequest, errResp.Error)

	restricted := &client.OAuthClient{ClientID: "client-1", GrantTypes: []string{"authorization_code"}}
	errResp = suite.handler.ValidateGrant(suite.tokenRequest(), restricted)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorUnauthorizedClient, errResp.Error)
}

func (suite *RefreshTokenGrantTestSuite) TestHandleGrantRotatesToken() {
	token := suite.activeToken()
	suite.tokenStore.getFunc = func(tokenValue string) (refresh.RefreshToken, error) {
		suite.Equal("refresh-value-1", tokenValue)
		return token, nil
	}

	response, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)

	suite.Require().Nil(errResp)
	suite.Equal("signed-access-token", response.AccessToken)
	suite.NotEmpty(response.RefreshToken)
	suite.NotEqual("refresh-value-1", response.RefreshToken)

	// The superseded token is revoked within the rotation.
	suite.Equal([]string{"token-id-1"}, suite.tokenStore.rotated)

	// The replacement keeps the original binding.
	suite.Require().Len(suite.tokenStore.inserted, 1)
	replacement := suite.tokenStore.inserted[0]
	suite.Equal("user-1", replacement.UserID)
	suite.Equal("agent-1", replacement.AgentID)
	suite.Equal(testResource, replacement.Resource)
	suite.Equal([]string{"read"}, replacement.Scopes)
	suite.NotEqual(token.TokenID, replacement.TokenID)
}

func (suite *RefreshTokenGrantTestSuite) TestHandleGrantUnknownToken() {
	_, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}

func (suite *RefreshTokenGrantTestSuite) TestHandleGrantExpiredToken() {
	token := suite.activeToken()
	token.ExpiryTime = time.Now().Add(-time.Minute)
	suite.tokenStore.getFunc = func(tokenValue string) (refresh.RefreshToken, error) {
		return token, nil
	}

	_, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}

func (suite *RefreshTokenGrantTestSuite) TestHandleGrantRevokedToken() {
	token := suite.activeToken()
	token.State = refresh.RefreshTokenStateRevoked
	suite.tokenStore.getFunc = func(tokenValue string) (refresh.RefreshToken, error) {
		return token, nil
	}

	_, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}

func (suite *RefreshTokenGrantTestSuite) TestHandleGrantClientMismatch() {
	token := suite.activeToken()
	token.ClientID = "client-2"
	suite.tokenStore.getFunc = func(tokenValue string) (refresh.RefreshToken, error) {
		return token, nil
	}

	_, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}

func (suite *RefreshTokenGrantTestSuite) TestHandleGrantResourceMismatch() {
	token := suite.activeToken()
	suite.tokenStore.getFunc = func(tokenValue string) (refresh.RefreshToken, error) {
		return token, nil
	}

	request := suite.tokenRequest()
	request.Resource = "https://other.example.com/api"
	_, errResp := suite.handler.HandleGrant(request, suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}

func (suite *RefreshTokenGrantTestSuite) TestHandleGrantConcurrentRotation() {
	token := suite.activeToken()
	suite.tokenStore.getFunc = func(tokenValue string) (refresh.RefreshToken, error) {
		return token, nil
	}
	suite.tokenStore.rotateFunc = func(oldTokenID string, newToken refresh.RefreshToken) error {
		return refresh.ErrRefreshTokenRevoked
	}

	_, errResp := suite.handler.HandleGrant(suite.tokenRequest(), suite.oauthClient)
	suite.Require().NotNil(errResp)
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}
