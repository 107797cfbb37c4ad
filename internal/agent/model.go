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

// Package agent provides the durable agent identity binding one OAuth client to one user.
package agent

// Agent represents a durable logical identity for one OAuth client acting on behalf
// of one user.
type Agent struct {
	AgentID   string `json:"agent_id"`
	UserID    string `json:"user_id"`
	ClientID  string `json:"client_id"`
	CreatedAt int64  `json:"created_at"`
}
