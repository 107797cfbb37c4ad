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

package agent

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryCreateAgent is the query to create a new agent binding.
	queryCreateAgent = dbmodel.DBQuery{
		ID:    "GTQ-AGENT-01",
		Query: "INSERT INTO AGENT (AGENT_ID, USER_ID, CLIENT_ID, CREATED_AT) VALUES ($1, $2, $3, $4)",
	}

	// queryGetAgentByUserAndClient is the query to retrieve an agent by its (user, client) pair.
	queryGetAgentByUserAndClient = dbmodel.DBQuery{
		ID:    "GTQ-AGENT-02",
		Query: "SELECT AGENT_ID, USER_ID, CLIENT_ID, CREATED_AT FROM AGENT WHERE USER_ID = $1 AND CLIENT_ID = $2",
	}

	// queryGetAgentByID is the query to retrieve an agent by its id.
	queryGetAgentByID = dbmodel.DBQuery{
		ID:    "GTQ-AGENT-03",
		Query: "SELECT AGENT_ID, USER_ID, CLIENT_ID, CREATED_AT FROM AGENT WHERE AGENT_ID = $1",
	}
)
