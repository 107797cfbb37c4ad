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

package refresh

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryInsertRefreshToken is the query to insert a new refresh token record.
	queryInsertRefreshToken = dbmodel.DBQuery{
		ID: "GTQ-REFRESH-01",
		Query: "INSERT INTO REFRESH_TOKEN (TOKEN_ID, TOKEN_HASH, CLIENT_ID, USER_ID, AGENT_ID, " +
			"RESOURCE, SCOPES, TIME_CREATED, EXPIRY_TIME, STATE) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
	}

	// queryGetRefreshTokenByHash is the query to retrieve a refresh token by its hash.
	queryGetRefreshTokenByHash = dbmodel.DBQuery{
		ID: "GTQ-REFRESH-02",
		Query: "SELECT TOKEN_ID, TOKEN_HASH, CLIENT_ID, USER_ID, AGENT_ID, RESOURCE, SCOPES, " +
			"TIME_CREATED, EXPIRY_TIME, STATE FROM REFRESH_TOKEN WHERE TOKEN_HASH = $1",
	}

	// queryRevokeRefreshToken revokes an active refresh token. The state predicate makes
	// rotation single-use: revoking an already revoked token matches zero rows.
	queryRevokeRefreshToken = dbmodel.DBQuery{
		ID:    "GTQ-REFRESH-03",
		Query: "UPDATE REFRESH_TOKEN SET STATE = 'REVOKED' WHERE TOKEN_ID = $1 AND STATE = 'ACTIVE'",
	}
)
