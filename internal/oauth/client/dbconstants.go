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

package client

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryCreateOAuthClient is the query to create a new OAuth client.
	queryCreateOAuthClient = dbmodel.DBQuery{
		ID: "GTQ-CLI_MGT-01",
		Query: "INSERT INTO OAUTH_CLIENT (CLIENT_ID, CLIENT_NAME, CLIENT_SECRET_HASH, REDIRECT_URIS, " +
			"GRANT_TYPES, TOKEN_ENDPOINT_AUTH_METHOD, CREATED_AT) VALUES ($1, $2, $3, $4, $5, $6, $7)",
	}

	// queryGetOAuthClientByClientID is the query to retrieve an OAuth client by client id.
	queryGetOAuthClientByClientID = dbmodel.DBQuery{
		ID: "GTQ-CLI_MGT-02",
		Query: "SELECT CLIENT_ID, CLIENT_NAME, CLIENT_SECRET_HASH, REDIRECT_URIS, GRANT_TYPES, " +
			"TOKEN_ENDPOINT_AUTH_METHOD, CREATED_AT FROM OAUTH_CLIENT WHERE CLIENT_ID = $1",
	}

	// queryUpdateOAuthClient is the query to replace a client's registration data.
	queryUpdateOAuthClient = dbmodel.DBQuery{
		ID: "GTQ-CLI_MGT-03",
		Query: "UPDATE OAUTH_CLIENT SET CLIENT_NAME = $2, CLIENT_SECRET_HASH = $3, REDIRECT_URIS = $4, " +
			"GRANT_TYPES = $5, TOKEN_ENDPOINT_AUTH_METHOD = $6 WHERE CLIENT_ID = $1",
	}
)
