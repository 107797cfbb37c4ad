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

package user

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryCreateUser is the query to create a new user.
	queryCreateUser = dbmodel.DBQuery{
		ID:    "GTQ-USR_MGT-01",
		Query: "INSERT INTO PLATFORM_USER (USER_ID, USERNAME, EMAIL, CREATED_AT) VALUES ($1, $2, $3, $4)",
	}

	// queryGetUserByID is the query to retrieve a user by id.
	queryGetUserByID = dbmodel.DBQuery{
		ID:    "GTQ-USR_MGT-02",
		Query: "SELECT USER_ID, USERNAME, EMAIL, CREATED_AT FROM PLATFORM_USER WHERE USER_ID = $1",
	}

	// queryGetUserByUsername is the query to retrieve a user by username.
	queryGetUserByUsername = dbmodel.DBQuery{
		ID:    "GTQ-USR_MGT-03",
		Query: "SELECT USER_ID, USERNAME, EMAIL, CREATED_AT FROM PLATFORM_USER WHERE USERNAME = $1",
	}

	// queryListUsers is the query to list all users.
	queryListUsers = dbmodel.DBQuery{
		ID:    "GTQ-USR_MGT-04",
		Query: "SELECT USER_ID, USERNAME, EMAIL, CREATED_AT FROM PLATFORM_USER ORDER BY CREATED_AT",
	}

	// queryDeleteUser is the query to delete a user.
	queryDeleteUser = dbmodel.DBQuery{
		ID:    "GTQ-USR_MGT-05",
		Query: "DELETE FROM PLATFORM_USER WHERE USER_ID = $1",
	}
)
