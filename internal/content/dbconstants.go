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

package content

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryInsertContent is the query to store a resource's encrypted payload.
	queryInsertContent = dbmodel.DBQuery{
		ID: "GTQ-CONTENT-01",
		Query: "INSERT INTO RESOURCE_CONTENT (RESOURCE_ID, CIPHERTEXT, CONTENT_TYPE, UPDATED_AT) " +
			"VALUES ($1, $2, $3, $4)",
	}

	// queryUpdateContent is the query to replace a resource's encrypted payload.
	queryUpdateContent = dbmodel.DBQuery{
		ID: "GTQ-CONTENT-02",
		Query: "UPDATE RESOURCE_CONTENT SET CIPHERTEXT = $1, CONTENT_TYPE = $2, UPDATED_AT = $3 " +
			"WHERE RESOURCE_ID = $4",
	}

	// queryGetContent is the query to retrieve a resource's encrypted payload.
	queryGetContent = dbmodel.DBQuery{
		ID: "GTQ-CONTENT-03",
		Query: "SELECT RESOURCE_ID, CIPHERTEXT, CONTENT_TYPE, UPDATED_AT FROM RESOURCE_CONTENT " +
			"WHERE RESOURCE_ID = $1",
	}
)
