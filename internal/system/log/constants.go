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

package log

const (
	// LoggerKeyComponentName is the key used to identify the component name in the logger.
	LoggerKeyComponentName = "component"
	// LoggerKeyRequestID is the key used to identify the settlement request ID in the logger.
	LoggerKeyRequestID = "requestId"
	// LoggerKeyWalletID is the key used to identify the wallet ID in the logger.
	LoggerKeyWalletID = "walletId"
	// LoggerKeyAgentID is the key used to identify the agent ID in the logger.
	LoggerKeyAgentID = "agentId"
	// LoggerKeyClientID is the key used to identify the OAuth client ID in the logger.
	LoggerKeyClientID = "clientId"
	// LoggerKeyResourceID is the key used to identify the catalog resource ID in the logger.
	LoggerKeyResourceID = "resourceId"
)
