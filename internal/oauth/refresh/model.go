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

// Package refresh provides refresh token persistence. Only a SHA-256 hash of the
// token value is ever stored.
package refresh

import "time"

// Refresh token states.
const (
	RefreshTokenStateActive  = "ACTIVE"
	RefreshTokenStateRevoked = "REVOKED"
)

// RefreshToken represents a persisted refresh token record.
type RefreshToken struct {
	TokenID     string
	TokenHash   string
	ClientID    string
	UserID      string
	AgentID     string
	Resource    string
	Scopes      []string
	TimeCreated time.Time
	ExpiryTime  time.Time
	State       string
}

// IsExpired reports whether the refresh token has passed its expiry time.
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiryTime)
}
