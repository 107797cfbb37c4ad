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

package policy

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryInsertPolicyRule is the query to create a spending cap.
	queryInsertPolicyRule = dbmodel.DBQuery{
		ID: "GTQ-POLICY-01",
		Query: "INSERT INTO SPENDING_POLICY (RULE_ID, USER_ID, SCOPE, SCOPE_KEY, WINDOW_KIND, " +
			"CAP_AMOUNT, CREATED_AT) VALUES ($1, $2, $3, $4, $5, $6, $7)",
	}

	// queryListPolicyRules is the query to list all caps of a user.
	queryListPolicyRules = dbmodel.DBQuery{
		ID: "GTQ-POLICY-02",
		Query: "SELECT RULE_ID, USER_ID, SCOPE, SCOPE_KEY, WINDOW_KIND, CAP_AMOUNT, CREATED_AT " +
			"FROM SPENDING_POLICY WHERE USER_ID = $1",
	}

	// queryDeletePolicyRule is the query to delete a cap.
	queryDeletePolicyRule = dbmodel.DBQuery{
		ID:    "GTQ-POLICY-03",
		Query: "DELETE FROM SPENDING_POLICY WHERE RULE_ID = $1 AND USER_ID = $2",
	}

	// queryDeleteMatchingRules is the query to remove caps superseded by a replacement.
	queryDeleteMatchingRules = dbmodel.DBQuery{
		ID: "GTQ-POLICY-04",
		Query: "DELETE FROM SPENDING_POLICY WHERE USER_ID = $1 AND SCOPE = $2 AND SCOPE_KEY = $3 " +
			"AND WINDOW_KIND = $4",
	}

	// querySumSettledGlobal is the query to sum a user's settled spend in a window.
	querySumSettledGlobal = dbmodel.DBQuery{
		ID: "GTQ-POLICY-05",
		Query: "SELECT COALESCE(SUM(FINAL_AMOUNT), 0) AS TOTAL FROM SETTLEMENT_REQUEST " +
			"WHERE USER_ID = $1 AND STATUS = 'SETTLED' AND SETTLED_AT >= $2",
	}

	// querySumSettledByResource is the query to sum settled spend against one resource.
	querySumSettledByResource = dbmodel.DBQuery{
		ID: "GTQ-POLICY-06",
		Query: "SELECT COALESCE(SUM(FINAL_AMOUNT), 0) AS TOTAL FROM SETTLEMENT_REQUEST " +
			"WHERE USER_ID = $1 AND STATUS = 'SETTLED' AND SETTLED_AT >= $2 AND RESOURCE_ID = $3",
	}

	// querySumSettledByMode is the query to sum settled spend through one access mode.
	querySumSettledByMode = dbmodel.DBQuery{
		ID: "GTQ-POLICY-07",
		Query: "SELECT COALESCE(SUM(FINAL_AMOUNT), 0) AS TOTAL FROM SETTLEMENT_REQUEST " +
			"WHERE USER_ID = $1 AND STATUS = 'SETTLED' AND SETTLED_AT >= $2 AND ACCESS_MODE = $3",
	}
)
