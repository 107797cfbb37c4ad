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

// Package granthandlers provides the grant type handlers for the token endpoint.
package granthandlers

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/asgardeo/gate/internal/oauth/client"
	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/oauth/model"
	"github.com/asgardeo/gate/internal/oauth/refresh"
	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/jwt"
	"github.com/asgardeo/gate/internal/system/utils"
)

const (
	// defaultAccessTokenValidity is the access token lifetime in seconds when no
	// value is configured.
	defaultAccessTokenValidity = 300
	// defaultRefreshTokenValidity is the refresh token lifetime in seconds when no
	// value is configured (30 days).
	defaultRefreshTokenValidity = 2592000
)

// GrantHandlerInterface defines the contract a grant type handler must satisfy.
type GrantHandlerInterface interface {
	// ValidateGrant performs grant specific validations on the token request.
	ValidateGrant(tokenRequest *model.TokenRequest, oauthClient *client.OAuthClient) *model.ErrorResponse
	// HandleGrant processes the token request and issues the token pair.
	HandleGrant(tokenRequest *model.TokenRequest, oauthClient *client.OAuthClient) (*model.TokenResponse,
		*model.ErrorResponse)
}

// tokenGrant carries the resolved inputs of a token pair issuance.
type tokenGrant struct {
	userID   string
	clientID string
	agentID  string
	resource string
	scopes   []string
}

// issueTokenPair mints a signed access token and a rotated or fresh refresh token for
// the grant. The refresh token value leaves the server exactly once; only its SHA-256
// hash is persisted. supersededTokenID selects rotation over plain insertion.
func issueTokenPair(grant tokenGrant, tokenStore refresh.TokenStoreInterface,
	jwtService jwt.JWTServiceInterface, supersededTokenID string) (*model.TokenResponse, error) {
	oauthConfig := config.GetGateRuntime().Config.OAuth

	accessTokenValidity := oauthConfig.JWT.ValidityPeriod
	if accessTokenValidity <= 0 {
		accessTokenValidity = defaultAccessTokenValidity
	}

	accessToken, _, err := jwtService.GenerateJWT(grant.userID, grant.resource, accessTokenValidity,
		map[string]string{
			constants.ClaimScope:    strings.Join(grant.scopes, " "),
			constants.ClaimClientID: grant.clientID,
			constants.ClaimAgentID:  grant.agentID,
		})
	if err != nil {
		return nil, err
	}

	refreshTokenValue, err := generateRefreshTokenValue()
	if err != nil {
		return nil, err
	}

	refreshTokenValidity := oauthConfig.RefreshToken.ValidityPeriod
	if refreshTokenValidity <= 0 {
		refreshTokenValidity = defaultRefreshTokenValidity
	}

	now := time.Now()
	refreshToken := refresh.RefreshToken{
		TokenID:     utils.GenerateUUID(),
		TokenHash:   refresh.HashToken(refreshTokenValue),
		ClientID:    grant.clientID,
		UserID:      grant.userID,
		AgentID:     grant.agentID,
		Resource:    grant.resource,
		Scopes:      grant.scopes,
		TimeCreated: now,
		ExpiryTime:  now.Add(time.Duration(refreshTokenValidity) * time.Second),
		State:       refresh.RefreshTokenStateActive,
	}

	if supersededTokenID != "" {
		err = tokenStore.RotateRefreshToken(supersededTokenID, refreshToken)
	} else {
		err = tokenStore.InsertRefreshToken(refreshToken)
	}
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             constants.TokenTypeBearer,
		ExpiresIn:             accessTokenValidity,
		RefreshToken:          refreshTokenValue,
		RefreshTokenExpiresIn: refreshTokenValidity,
		Scope:                 strings.Join(grant.scopes, " "),
		Resource:              grant.resource,
	}, nil
}

// generateRefreshTokenValue generates a random URL-safe refresh token value.
func generateRefreshTokenValue() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}
