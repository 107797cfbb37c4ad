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

package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/pkce"
	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
)

const (
	testProtectedResource = "https://gate.example.com/api"
	testRedirectURI       = "https://agent.example.com/callback"
	testCodeVerifier      = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
)

type mockCodeStore struct {
	inserted    []AuthorizationCode
	insertErr   error
	getFunc     func(clientID, code string) (AuthorizationCode, error)
	consumeFunc func(codeID string) error
}

func (m *mockCodeStore) InsertAuthorizationCode(authzCode AuthorizationCode) error {
	m.inserted = append(m.inserted, authzCode)
	return m.insertErr
}

func (m *mockCodeStore) GetAuthorizationCode(clientID, code string) (AuthorizationCode, error) {
	if m.getFunc != nil {
		return m.getFunc(clientID, code)
	}
	return AuthorizationCode{}, ErrAuthorizationCodeNotFound
}

func (m *mockCodeStore) ConsumeAuthorizationCode(codeID string) error {
	if m.consumeFunc != nil {
		return m.consumeFunc(codeID)
	}
	return nil
}

func (m *mockCodeStore) ExpireAuthorizationCode(codeID string) error { return nil }

func (m *mockCodeStore) RevokeAuthorizationCode(codeID string) error { return nil }

type mockClientService struct {
	getFunc func(clientID string) (*client.OAuthClient, *serviceerror.ServiceError)
}

func (m *mockClientService) RegisterClient(request *client.RegistrationRequest) (
	*client.RegistrationResponse, *serviceerror.ServiceError) {
	return nil, nil
}

func (m *mockClientService) GetOAuthClient(clientID string) (*client.OAuthClient,
	*serviceerror.ServiceError) {
	if m.getFunc != nil {
		return m.getFunc(clientID)
	}
	return nil, &client.ErrorClientNotFound
}

func (m *mockClientService) AuthenticateClient(clientID, clientSecret string) (*client.OAuthClient,
	*serviceerror.ServiceError) {
	return m.GetOAuthClient(clientID)
}

type AuthorizeServiceTestSuite struct {
	suite.Suite
	codeStore     *mockCodeStore
	clientService *mockClientService
	service       *AuthorizeService
}

func TestAuthorizeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthorizeServiceTestSuite))
}

func (suite *AuthorizeServiceTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{
		OAuth: config.OAuthConfig{
			ProtectedResource: testProtectedResource,
		},
	})
	suite.Require().NoError(err)

	suite.codeStore = &mockCodeStore{}
	suite.clientService = &mockClientService{
		getFunc: func(clientID string) (*client.OAuthClient, *serviceerror.ServiceError) {
			return &client.OAuthClient{
				ClientID:                clientID,
				RedirectURIs:            []string{testRedirectURI},
				TokenEndpointAuthMethod: "none",
			}, nil
		},
	}
	suite.service = &AuthorizeService{
		codeStore:     suite.codeStore,
		clientService: suite.clientService,
	}
}

func (suite *AuthorizeServiceTestSuite) validRequest() *AuthorizeRequest {
	challenge, err := pkce.GenerateCodeChallenge(testCodeVerifier)
	suite.Require().NoError(err)

	return &AuthorizeRequest{
		ResponseType:        constants.ResponseTypeCode,
		ClientID:            "client-1",
		RedirectURI:         testRedirectURI,
		CodeChallenge:       challenge,
		CodeChallengeMethod: pkce.CodeChallengeMethodS256,
		Resource:            testProtectedResource,
		Scope:               "read search",
		State:               "xyz",
		AuthorizedUserID:    "user-1",
	}
}

func (suite *AuthorizeServiceTestSuite) TestAuthorizeSuccess() {
	result, svcErr := suite.service.Authorize(suite.validRequest())

	suite.Require().Nil(svcErr)
	suite.NotEmpty(result.Code)
	suite.Equal("xyz", result.State)
	suite.Equal(testRedirectURI, result.RedirectURI)

	suite.Require().Len(suite.codeStore.inserted, 1)
	stored := suite.codeStore.inserted[0]
	suite.Equal(result.Code, stored.Code)
	suite.Equal(AuthCodeStateActive, stored.State)
	suite.Equal([]string{"read", "search"}, stored.Scopes)
	suite.Equal(testProtectedResource, stored.Resource)
	suite.Equal("user-1", stored.AuthorizedUserID)
	suite.WithinDuration(time.Now().Add(defaultAuthCodeValidity*time.Second),
		stored.ExpiryTime, 5*time.Second)
}

func (suite *AuthorizeServiceTestSuite) TestAuthorizeUnsupportedResponseType() {
	request := suite.validRequest()
	request.ResponseType = "token"

	_, svcErr := suite.service.Authorize(request)
	suite.Require().NotNil(svcErr)
	suite.Equal(ErrorUnsupportedResponseType.Code, svcErr.Code)
}

func (suite *AuthorizeServiceTestSuite) TestAuthorizeUnknownClient() {
	suite.clientService.getFunc = nil

	_, svcErr := suite.service.Authorize(suite.validRequest())
	suite.Require().NotNil(svcErr)
	suite.Equal(ErrorInvalidClient.Code, svcErr.Code)
}

func (suite *AuthorizeServiceTestSuite) TestAuthorizeUnregisteredRedirectURI() {
	request := suite.validRequest()
	request.RedirectURI = "https://evil.example.com/callback"

	_, svcErr := suite.service.Authorize(request)
	suite.Require().NotNil(svcErr)
	suite.Equal(ErrorInvalidRedirectURI.Code, svcErr.Code)
}

func (suite *AuthorizeServiceTestSuite) TestAuthorizeInvalidCodeChallenge() {
	testCases := []struct {
		name      string
		challenge string
		method    string
	}{
		{"MissingChallenge", "", pkce.CodeChallengeMethodS256},
		{"PlainMethod", "valid-looking-challenge-of-43-characters-xx", "plain"},
		{"MalformedChallenge", "not-base64url!", pkce.CodeChallengeMethodS256},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			request := suite.validRequest()
			request.CodeChallenge = tc.challenge
			request.CodeChallengeMethod = tc.method

			_, svcErr := suite.service.Authorize(request)
			suite.Require().NotNil(svcErr)
			suite.Equal(ErrorInvalidCodeChallenge.Code, svcErr.Code)
		})
	}
}

func (suite *AuthorizeServiceTestSuite) TestAuthorizeResourceMismatch() {
	request := suite.validRequest()
	request.Resource = "https://other.example.com/api"

	_, svcErr := suite.service.Authorize(request)
	suite.Require().NotNil(svcErr)
	suite.Equal(ErrorInvalidTarget.Code, svcErr.Code)
	suite.Equal(constants.ErrorInvalidTarget, svcErr.Error)
}

func (suite *AuthorizeServiceTestSuite) TestAuthorizeEmptyScope() {
	request := suite.validRequest()
	request.Scope = "   "

	_, svcErr := suite.service.Authorize(request)
	suite.Require().NotNil(svcErr)
	suite.Equal(ErrorInvalidScope.Code, svcErr.Code)
}

func (suite *AuthorizeServiceTestSuite) TestAuthorizeUnauthenticatedUser() {
	request := suite.validRequest()
	request.AuthorizedUserID = ""

	_, svcErr := suite.service.Authorize(request)
	suite.Require().NotNil(svcErr)
	suite.Equal(ErrorUserNotAuthenticated.Code, svcErr.Code)
	suite.Empty(suite.codeStore.inserted)
}
