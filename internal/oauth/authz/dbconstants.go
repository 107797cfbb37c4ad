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

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryInsertAuthorizationCode is the query to insert a new authorization code.
	queryInsertAuthorizationCode = dbmodel.DBQuery{
		ID: "GTQ-AUTHZ-01",
		Query: "INSERT INTO AUTHORIZATION_CODE (CODE_ID, AUTHORIZATION_CODE, CLIENT_ID, REDIRECT_URI, " +
			"AUTHZ_USER_ID, CODE_CHALLENGE, CODE_CHALLENGE_METHOD, RESOURCE, SCOPES, TIME_CREATED, " +
			"EXPIRY_TIME, STATE) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)",
	}

	// queryGetAuthorizationCode is the query to retrieve an authorization code by client id and code.
	queryGetAuthorizationCode = dbmodel.DBQuery{
		ID: "GTQ-AUTHZ-02",
		Query: "SELECT CODE_ID, AUTHORIZATION_CODE, CLIENT_ID, REDIRECT_URI, AUTHZ_USER_ID, " +
			"CODE_CHALLENGE, CODE_CHALLENGE_METHOD, RESOURCE, SCOPES, TIME_CREATED, EXPIRY_TIME, STATE " +
			"FROM AUTHORIZATION_CODE WHERE CLIENT_ID = $1 AND AUTHORIZATION_CODE = $2",
	}

	// queryConsumeAuthorizationCode marks an active code as used. The state predicate makes
	// redemption single-use: a second attempt matches zero rows.
	queryConsumeAuthorizationCode = dbmodel.DBQuery{
		ID:    "GTQ-AUTHZ-03",
		Query: "UPDATE AUTHORIZATION_CODE SET STATE = 'USED' WHERE CODE_ID = $1 AND STATE = 'ACTIVE'",
	}

	// queryUpdateAuthorizationCodeState is the query to update the state of an authorization code.
	queryUpdateAuthorizationCodeState = dbmodel.DBQuery{
		ID:    "GTQ-AUTHZ-04",
		Query: "UPDATE AUTHORIZATION_CODE SET STATE = $1 WHERE CODE_ID = $2",
	}
)
