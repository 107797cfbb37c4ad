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

package pin

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryInsertPin is the query to set a user's PIN for the first time.
	queryInsertPin = dbmodel.DBQuery{
		ID: "GTQ-PIN-01",
		Query: "INSERT INTO WALLET_PIN (USER_ID, PIN_HASH, FAILED_ATTEMPTS, LOCKED_UNTIL, " +
			"UPDATED_AT) VALUES ($1, $2, 0, 0, $3)",
	}

	// queryUpdatePin is the query to replace a user's PIN and clear its lockout state.
	queryUpdatePin = dbmodel.DBQuery{
		ID: "GTQ-PIN-02",
		Query: "UPDATE WALLET_PIN SET PIN_HASH = $1, FAILED_ATTEMPTS = 0, LOCKED_UNTIL = 0, " +
			"UPDATED_AT = $2 WHERE USER_ID = $3",
	}

	// queryGetPin is the query to retrieve a user's PIN record.
	queryGetPin = dbmodel.DBQuery{
		ID: "GTQ-PIN-03",
		Query: "SELECT USER_ID, PIN_HASH, FAILED_ATTEMPTS, LOCKED_UNTIL, UPDATED_AT " +
			"FROM WALLET_PIN WHERE USER_ID = $1",
	}

	// queryUpdateAttempts is the query to record a verification outcome.
	queryUpdateAttempts = dbmodel.DBQuery{
		ID: "GTQ-PIN-04",
		Query: "UPDATE WALLET_PIN SET FAILED_ATTEMPTS = $1, LOCKED_UNTIL = $2, UPDATED_AT = $3 " +
			"WHERE USER_ID = $4",
	}
)
