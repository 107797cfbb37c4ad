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

// Package authz provides the OAuth2 authorization endpoint and authorization code handling.
package authz

import "time"

// Authorization code states.
const (
	AuthCodeStateActive  = "ACTIVE"
	AuthCodeStateUsed    = "USED"
	AuthCodeStateRevoked = "REVOKED"
	AuthCodeStateExpired = "EXPIRED"
)

// AuthorizationCode represents a one-time authorization code issued by the authorize endpoint.
type AuthorizationCode struct {
	CodeID              string
	Code                string
	ClientID            string
	RedirectURI         string
	AuthorizedUserID    string
	CodeChallenge       string
	CodeChallengeMethod string
	Resource            string
	Scopes              []string
	TimeCreated         time.Time
	ExpiryTime          time.Time
	State               string
}

// IsExpired reports whether the code has passed its expiry time.
func (c *AuthorizationCode) IsExpired() bool {
	return time.Now().After(c.ExpiryTime)
}

// AuthorizeRequest represents a parsed authorization request.
type AuthorizeRequest struct {
	ResponseType        string
	ClientID            string
	RedirectURI         string
	CodeChallenge       string
	CodeChallengeMethod string
	Resource            string
	Scope               string
	State               string
	ResponseMode        string

	// AuthorizedUserID is the end-user identity resolved by the fronting login layer.
	AuthorizedUserID string
}

// AuthorizeResult represents a successful authorization response.
type AuthorizeResult struct {
	Code        string `json:"code"`
	State       string `json:"state,omitempty"`
	RedirectURI string `json:"-"`
}
