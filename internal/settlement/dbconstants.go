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

package settlement

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryInsertRequest is the query to record a new settlement request.
	queryInsertRequest = dbmodel.DBQuery{
		ID: "GTQ-SETTLE-01",
		Query: "INSERT INTO SETTLEMENT_REQUEST (REQUEST_ID, USER_ID, AGENT_ID, CLIENT_ID, " +
			"RESOURCE_ID, REQUESTED_MODE, ACCESS_MODE, HOLD_ID, ESTIMATED_AMOUNT, FINAL_AMOUNT, " +
			"BYTES_BILLED, STATUS, FAILURE_REASON, CREATED_AT, SETTLED_AT) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10, '', $11, 0)",
	}

	// queryGetRequestByID is the query to retrieve a settlement request by id.
	queryGetRequestByID = dbmodel.DBQuery{
		ID: "GTQ-SETTLE-02",
		Query: "SELECT REQUEST_ID, USER_ID, AGENT_ID, CLIENT_ID, RESOURCE_ID, REQUESTED_MODE, " +
			"ACCESS_MODE, HOLD_ID, ESTIMATED_AMOUNT, FINAL_AMOUNT, BYTES_BILLED, STATUS, " +
			"FAILURE_REASON, CREATED_AT, SETTLED_AT FROM SETTLEMENT_REQUEST WHERE REQUEST_ID = $1",
	}

	// querySettleRequest is the query to mark a request settled. The status predicate
	// makes settling single-use.
	querySettleRequest = dbmodel.DBQuery{
		ID: "GTQ-SETTLE-03",
		Query: "UPDATE SETTLEMENT_REQUEST SET STATUS = 'SETTLED', FINAL_AMOUNT = $1, " +
			"BYTES_BILLED = $2, SETTLED_AT = $3 WHERE REQUEST_ID = $4 AND STATUS = 'INITIATED'",
	}

	// queryFailRequest is the query to mark a request failed. The status predicate
	// makes failing single-use.
	queryFailRequest = dbmodel.DBQuery{
		ID: "GTQ-SETTLE-04",
		Query: "UPDATE SETTLEMENT_REQUEST SET STATUS = 'FAILED', FAILURE_REASON = $1, " +
			"SETTLED_AT = $2 WHERE REQUEST_ID = $3 AND STATUS = 'INITIATED'",
	}

	// queryAttachHold is the query to attach the escrow hold placed for an
	// initiated request.
	queryAttachHold = dbmodel.DBQuery{
		ID: "GTQ-SETTLE-07",
		Query: "UPDATE SETTLEMENT_REQUEST SET HOLD_ID = $1 " +
			"WHERE REQUEST_ID = $2 AND STATUS = 'INITIATED'",
	}

	// queryInsertReceipt is the query to store a signed receipt.
	queryInsertReceipt = dbmodel.DBQuery{
		ID: "GTQ-SETTLE-05",
		Query: "INSERT INTO SETTLEMENT_RECEIPT (RECEIPT_ID, REQUEST_ID, USER_ID, AGENT_ID, " +
			"RESOURCE_ID, REQUESTED_MODE, ACCESS_MODE, BYTES_BILLED, PRICING_BASIS, AMOUNT, " +
			"PLATFORM_FEE, PROVIDER_AMOUNT, CURRENCY, PAYOUT_REFERENCE, ISSUED_AT, SIGNATURE) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)",
	}

	// queryGetReceiptByRequestID is the query to retrieve the receipt of a request.
	queryGetReceiptByRequestID = dbmodel.DBQuery{
		ID: "GTQ-SETTLE-06",
		Query: "SELECT RECEIPT_ID, REQUEST_ID, USER_ID, AGENT_ID, RESOURCE_ID, REQUESTED_MODE, " +
			"ACCESS_MODE, BYTES_BILLED, PRICING_BASIS, AMOUNT, PLATFORM_FEE, PROVIDER_AMOUNT, " +
			"CURRENCY, PAYOUT_REFERENCE, ISSUED_AT, SIGNATURE " +
			"FROM SETTLEMENT_RECEIPT WHERE REQUEST_ID = $1",
	}
)
