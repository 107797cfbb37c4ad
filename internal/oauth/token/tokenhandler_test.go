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

package token

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/granthandlers"
	"github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
)

type mockGrantHandler struct {
	validateResp *model.ErrorResponse
	handleResp   *model.TokenResponse
	handleErr    *model.ErrorResponse
}

func (m *mockGrantHandler) ValidateGrant(tokenRequest *model.TokenRequest,
	oauthClient *client.OAuthClient) *model.ErrorResponse {
	return m.validateResp
}

func (m *mockGrantHandler) HandleGrant(tokenRequest *model.TokenRequest,
	oauthClient *client.OAuthClient) (*model.TokenResponse, *model.ErrorResponse) {
	return m.handleResp, m.handleErr
}

type mockGrantHandlerProvider struct {
	handlers map[string]granthandlers.GrantHandlerInterface
}

func (m *mockGrantHandlerProvider) GetGrantHandler(grantType string) (
	granthandlers.GrantHandlerInterface, bool) {
	handler, ok := m.handlers[grantType]
	return handler, ok
}

type mockClientService struct {
	authFunc func(clientID, clientSecret string) (*client.OAuthClient, *serviceerror.ServiceError)
}

func (m *mockClientService) RegisterClient(request *client.RegistrationRequest) (
	*client.RegistrationResponse, *serviceerror.ServiceError) {
	return nil, nil
}

func (m *mockClientService) GetOAuthClient(clientID string) (*client.OAuthClient,
	*serviceerror.ServiceError) {
	return nil, &client.ErrorClientNotFound
}

func (m *mockClientService) AuthenticateClient(clientID, clientSecret string) (*client.OAuthClient,
	*serviceerror.ServiceError) {
	if m.authFunc != nil {
		return m.authFunc(clientID, clientSecret)
	}
	return &client.OAuthClient{ClientID: clientID, TokenEndpointAuthMethod: "none"}, nil
}

type TokenHandlerTestSuite struct {
	suite.Suite
	grantHandler  *mockGrantHandler
	clientService *mockClientService
	handler       *TokenHandler
}

func TestTokenHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TokenHandlerTestSuite))
}

func (suite *TokenHandlerTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{})
	suite.Require().NoError(err)

	suite.grantHandler = &mockGrantHandler{
		handleResp: &model.TokenResponse{
			AccessToken: "access-token",
			TokenType:   constants.TokenTypeBearer,
			ExpiresIn:   300,
		},
	}
	suite.clientService = &mockClientService{}
	suite.handler = &TokenHandler{
		grantHandlerProvider: &mockGrantHandlerProvider{
			handlers: map[string]granthandlers.GrantHandlerInterface{
				"authorization_code": suite.grantHandler,
			},
		},
		clientService: suite.clientService,
	}
}

func (suite *TokenHandlerTestSuite) postForm(form url.Values) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, constants.OAuth2TokenEndpoint,
		strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	suite.handler.HandleTokenRequest(recorder, request)
	return recorder
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestSuccess() {
	form := url.Values{}
	form.Set(constants.GrantType, "authorization_code")
	form.Set(constants.ClientID, "client-1")
	form.Set(constants.Code, "auth-code")

	recorder := suite.postForm(form)

	suite.Equal(http.StatusOK, recorder.Code)
	suite.Equal("no-store", recorder.Header().Get("Cache-Control"))
	suite.Equal("no-cache", recorder.Header().Get("Pragma"))

	var response model.TokenResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	suite.Equal("access-token", response.AccessToken)
	suite.Equal(constants.TokenTypeBearer, response.TokenType)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestBasicAuthCredentials() {
	var gotID, gotSecret string
	suite.clientService.authFunc = func(clientID, clientSecret string) (*client.OAuthClient,
		*serviceerror.ServiceError) {
		gotID = clientID
		gotSecret = clientSecret
		return &client.OAuthClient{ClientID: clientID, TokenEndpointAuthMethod: "client_secret_basic"}, nil
	}

	form := url.Values{}
	form.Set(constants.GrantType, "authorization_code")
	form.Set(constants.Code, "auth-code")

	request := httptest.NewRequest(http.MethodPost, constants.OAuth2TokenEndpoint,
		strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.SetBasicAuth("client-1", "top-secret")
	recorder := httptest.NewRecorder()
	suite.handler.HandleTokenRequest(recorder, request)

	suite.Equal(http.StatusOK, recorder.Code)
	suite.Equal("client-1", gotID)
	suite.Equal("top-secret", gotSecret)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestMethodNotAllowed() {
	request := httptest.NewRequest(http.MethodGet, constants.OAuth2TokenEndpoint, nil)
	recorder := httptest.NewRecorder()
	suite.handler.HandleTokenRequest(recorder, request)

	suite.Equal(http.StatusMethodNotAllowed, recorder.Code)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestMissingGrantType() {
	recorder := suite.postForm(url.Values{})

	suite.Equal(http.StatusBadRequest, recorder.Code)
	var errResp model.ErrorResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &errResp))
	suite.Equal(constants.ErrorInvalidRequest, errResp.Error)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestUnsupportedGrantType() {
	form := url.Values{}
	form.Set(constants.GrantType, "client_credentials")

	recorder := suite.postForm(form)

	suite.Equal(http.StatusBadRequest, recorder.Code)
	var errResp model.ErrorResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &errResp))
	suite.Equal(constants.ErrorUnsupportedGrantType, errResp.Error)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestClientAuthFailure() {
	suite.clientService.authFunc = func(clientID, clientSecret string) (*client.OAuthClient,
		*serviceerror.ServiceError) {
		return nil, &client.ErrorInvalidClientCredentials
	}

	form := url.Values{}
	form.Set(constants.GrantType, "authorization_code")
	form.Set(constants.ClientID, "client-1")
	form.Set(constants.ClientSecret, "wrong")

	recorder := suite.postForm(form)

	suite.Equal(http.StatusUnauthorized, recorder.Code)
	var errResp model.ErrorResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &errResp))
	suite.Equal(constants.ErrorInvalidClient, errResp.Error)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestValidateFailure() {
	suite.grantHandler.validateResp = &model.ErrorResponse{
		Error:            constants.ErrorInvalidRequest,
		ErrorDescription: "Authorization code is required",
	}

	form := url.Values{}
	form.Set(constants.GrantType, "authorization_code")
	form.Set(constants.ClientID, "client-1")

	recorder := suite.postForm(form)
	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *TokenHandlerTestSuite) TestHandleTokenRequestGrantFailure() {
	suite.grantHandler.handleResp = nil
	suite.grantHandler.handleErr = &model.ErrorResponse{Error: constants.ErrorInvalidGrant}

	form := url.Values{}
	form.Set(constants.GrantType, "authorization_code")
	form.Set(constants.ClientID, "client-1")
	form.Set(constants.Code, "bad-code")

	recorder := suite.postForm(form)

	suite.Equal(http.StatusBadRequest, recorder.Code)
	var errResp model.ErrorResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &errResp))
	suite.Equal(constants.ErrorInvalidGrant, errResp.Error)
}
