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

package wallet

import dbmodel "github.com/asgardeo/gate/internal/system/database/model"

var (
	// queryCreateWallet is the query to create a new wallet.
	queryCreateWallet = dbmodel.DBQuery{
		ID: "GTQ-WALLET-01",
		Query: "INSERT INTO WALLET (WALLET_ID, USER_ID, ROLE, STATUS, AVAILABLE, HELD, CURRENCY, " +
			"CREATED_AT, UPDATED_AT) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
	}

	// queryGetWalletByUserRole is the query to retrieve one of a user's wallets.
	queryGetWalletByUserRole = dbmodel.DBQuery{
		ID: "GTQ-WALLET-02",
		Query: "SELECT WALLET_ID, USER_ID, ROLE, STATUS, AVAILABLE, HELD, CURRENCY, CREATED_AT, " +
			"UPDATED_AT FROM WALLET WHERE USER_ID = $1 AND ROLE = $2",
	}

	// queryListWalletsByUserID is the query to list all wallets of a user.
	queryListWalletsByUserID = dbmodel.DBQuery{
		ID: "GTQ-WALLET-15",
		Query: "SELECT WALLET_ID, USER_ID, ROLE, STATUS, AVAILABLE, HELD, CURRENCY, CREATED_AT, " +
			"UPDATED_AT FROM WALLET WHERE USER_ID = $1 ORDER BY ROLE",
	}

	// queryUpdateWalletStatus is the query to freeze or unfreeze a wallet.
	queryUpdateWalletStatus = dbmodel.DBQuery{
		ID:    "GTQ-WALLET-16",
		Query: "UPDATE WALLET SET STATUS = $1, UPDATED_AT = $2 WHERE WALLET_ID = $3",
	}

	// queryCreditWallet is the query to add funds to the available balance.
	queryCreditWallet = dbmodel.DBQuery{
		ID:    "GTQ-WALLET-04",
		Query: "UPDATE WALLET SET AVAILABLE = AVAILABLE + $1, UPDATED_AT = $2 WHERE WALLET_ID = $3",
	}

	// queryDebitWallet is the query to remove funds from the available balance. The
	// balance predicate makes concurrent over-spends fail with zero rows affected, and
	// the status predicate blocks spends from frozen wallets.
	queryDebitWallet = dbmodel.DBQuery{
		ID: "GTQ-WALLET-05",
		Query: "UPDATE WALLET SET AVAILABLE = AVAILABLE - $1, UPDATED_AT = $2 " +
			"WHERE WALLET_ID = $3 AND AVAILABLE >= $1 AND STATUS = 'ACTIVE'",
	}

	// queryMoveAvailableToHeld is the query to reserve funds under a hold.
	queryMoveAvailableToHeld = dbmodel.DBQuery{
		ID: "GTQ-WALLET-06",
		Query: "UPDATE WALLET SET AVAILABLE = AVAILABLE - $1, HELD = HELD + $1, UPDATED_AT = $2 " +
			"WHERE WALLET_ID = $3 AND AVAILABLE >= $1 AND STATUS = 'ACTIVE'",
	}

	// queryMoveHeldToAvailable is the query to return reserved funds.
	queryMoveHeldToAvailable = dbmodel.DBQuery{
		ID: "GTQ-WALLET-07",
		Query: "UPDATE WALLET SET HELD = HELD - $1, AVAILABLE = AVAILABLE + $1, UPDATED_AT = $2 " +
			"WHERE WALLET_ID = $3 AND HELD >= $1",
	}

	// querySettleHeld is the query to settle a hold: the captured amount leaves the
	// held balance and the remainder returns to available.
	querySettleHeld = dbmodel.DBQuery{
		ID: "GTQ-WALLET-08",
		Query: "UPDATE WALLET SET HELD = HELD - $1, AVAILABLE = AVAILABLE + $2, UPDATED_AT = $3 " +
			"WHERE WALLET_ID = $4 AND HELD >= $1",
	}

	// queryInsertHold is the query to record a new hold.
	queryInsertHold = dbmodel.DBQuery{
		ID: "GTQ-WALLET-09",
		Query: "INSERT INTO WALLET_HOLD (HOLD_ID, WALLET_ID, AGENT_ID, AMOUNT, REFERENCE, STATUS, " +
			"CREATED_AT, EXPIRES_AT) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
	}

	// queryGetHoldByID is the query to retrieve a hold by its id.
	queryGetHoldByID = dbmodel.DBQuery{
		ID: "GTQ-WALLET-10",
		Query: "SELECT HOLD_ID, WALLET_ID, AGENT_ID, AMOUNT, REFERENCE, STATUS, CREATED_AT, " +
			"EXPIRES_AT FROM WALLET_HOLD WHERE HOLD_ID = $1",
	}

	// queryTransitionHold is the query to move an active hold to a terminal status.
	// The status predicate makes the transition single-use.
	queryTransitionHold = dbmodel.DBQuery{
		ID:    "GTQ-WALLET-11",
		Query: "UPDATE WALLET_HOLD SET STATUS = $1 WHERE HOLD_ID = $2 AND STATUS = 'ACTIVE'",
	}

	// queryListExpiredHolds is the query to list active holds past their expiry.
	queryListExpiredHolds = dbmodel.DBQuery{
		ID: "GTQ-WALLET-12",
		Query: "SELECT HOLD_ID, WALLET_ID, AGENT_ID, AMOUNT, REFERENCE, STATUS, CREATED_AT, " +
			"EXPIRES_AT FROM WALLET_HOLD WHERE STATUS = 'ACTIVE' AND EXPIRES_AT < $1",
	}

	// queryInsertLedgerEntry is the query to record a balance movement.
	queryInsertLedgerEntry = dbmodel.DBQuery{
		ID: "GTQ-WALLET-13",
		Query: "INSERT INTO WALLET_LEDGER (ENTRY_ID, WALLET_ID, ENTRY_TYPE, AMOUNT, REFERENCE, " +
			"CREATED_AT) VALUES ($1, $2, $3, $4, $5, $6)",
	}

	// queryListLedgerEntries is the query to list ledger entries for a wallet.
	queryListLedgerEntries = dbmodel.DBQuery{
		ID: "GTQ-WALLET-14",
		Query: "SELECT ENTRY_ID, WALLET_ID, ENTRY_TYPE, AMOUNT, REFERENCE, CREATED_AT " +
			"FROM WALLET_LEDGER WHERE WALLET_ID = $1 ORDER BY CREATED_AT DESC",
	}
)
