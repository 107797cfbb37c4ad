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

package resource

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryCreateResource is the query to create a catalog entry.
	queryCreateResource = dbmodel.DBQuery{
		ID: "GTQ-RES_MGT-01",
		Query: "INSERT INTO CATALOG_RESOURCE (RESOURCE_ID, PROVIDER_USER_ID, TITLE, DESCRIPTION, " +
			"MODES, SUMMARY, PRICE, UNIT_PRICE_PER_KB, ESTIMATED_SIZE, VISIBILITY, ALLOWED_AGENTS, " +
			"PAYOUT_ADDRESS, CREATED_AT) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)",
	}

	// queryGetResourceByID is the query to retrieve a catalog entry by id.
	queryGetResourceByID = dbmodel.DBQuery{
		ID: "GTQ-RES_MGT-02",
		Query: "SELECT RESOURCE_ID, PROVIDER_USER_ID, TITLE, DESCRIPTION, MODES, SUMMARY, PRICE, " +
			"UNIT_PRICE_PER_KB, ESTIMATED_SIZE, VISIBILITY, ALLOWED_AGENTS, PAYOUT_ADDRESS, " +
			"CREATED_AT FROM CATALOG_RESOURCE WHERE RESOURCE_ID = $1",
	}

	// queryListResources is the query to list all catalog entries.
	queryListResources = dbmodel.DBQuery{
		ID: "GTQ-RES_MGT-03",
		Query: "SELECT RESOURCE_ID, PROVIDER_USER_ID, TITLE, DESCRIPTION, MODES, SUMMARY, PRICE, " +
			"UNIT_PRICE_PER_KB, ESTIMATED_SIZE, VISIBILITY, ALLOWED_AGENTS, PAYOUT_ADDRESS, " +
			"CREATED_AT FROM CATALOG_RESOURCE ORDER BY CREATED_AT",
	}

	// queryDeleteResource is the query to delete a catalog entry.
	queryDeleteResource = dbmodel.DBQuery{
		ID:    "GTQ-RES_MGT-04",
		Query: "DELETE FROM CATALOG_RESOURCE WHERE RESOURCE_ID = $1",
	}
)
