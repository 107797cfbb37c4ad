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

// Package wallet provides the wallet ledger. Balances are integer minor currency
// units (cents). Every balance movement is recorded as a ledger entry, and spend
// flows move funds through holds so that a failed operation can return them.
package wallet

// WalletRole distinguishes the spending wallet from the earnings wallet of a user.
type WalletRole string

const (
	// RolePayer is the wallet debited by deposits, withdrawals, and holds.
	RolePayer WalletRole = "PAYER"
	// RolePayout is the wallet credited with provider earnings and fees.
	RolePayout WalletRole = "PAYOUT"
)

// WalletStatus represents the operational state of a wallet.
type WalletStatus string

const (
	// WalletStatusActive indicates the wallet accepts all operations.
	WalletStatusActive WalletStatus = "ACTIVE"
	// WalletStatusFrozen indicates spends are blocked. Credits still land so that
	// in-flight captures cannot strand funds.
	WalletStatusFrozen WalletStatus = "FROZEN"
)

// HoldStatus represents the lifecycle state of a hold.
type HoldStatus string

const (
	// HoldStatusActive indicates the hold is reserving funds.
	HoldStatusActive HoldStatus = "ACTIVE"
	// HoldStatusReleased indicates the hold was released back to the available balance.
	HoldStatusReleased HoldStatus = "RELEASED"
	// HoldStatusCaptured indicates the hold was settled.
	HoldStatusCaptured HoldStatus = "CAPTURED"
)

// Ledger entry types.
const (
	EntryTypeDeposit  = "DEPOSIT"
	EntryTypeWithdraw = "WITHDRAW"
	EntryTypeHold     = "HOLD"
	EntryTypeRelease  = "RELEASE"
	EntryTypeCapture  = "CAPTURE"
	EntryTypeCredit   = "CREDIT"
)

// Wallet represents a user's balance. Available is spendable; Held is reserved by
// active holds. Both are cents and never negative.
type Wallet struct {
	WalletID  string       `json:"wallet_id"`
	UserID    string       `json:"user_id"`
	Role      WalletRole   `json:"role"`
	Status    WalletStatus `json:"status"`
	Available int64        `json:"available"`
	Held      int64        `json:"held"`
	Currency  string       `json:"currency"`
	CreatedAt int64        `json:"created_at"`
	UpdatedAt int64        `json:"updated_at"`
}

// Hold represents funds reserved out of a wallet pending settlement.
type Hold struct {
	HoldID    string     `json:"hold_id"`
	WalletID  string     `json:"wallet_id"`
	AgentID   string     `json:"agent_id,omitempty"`
	Amount    int64      `json:"amount"`
	Reference string     `json:"reference,omitempty"`
	Status    HoldStatus `json:"status"`
	CreatedAt int64      `json:"created_at"`
	ExpiresAt int64      `json:"expires_at"`
}

// LedgerEntry records a single balance movement. Amount is signed from the wallet
// owner's perspective.
type LedgerEntry struct {
	EntryID   string `json:"entry_id"`
	WalletID  string `json:"wallet_id"`
	EntryType string `json:"entry_type"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Credit is a capture-time payout to another wallet.
type Credit struct {
	WalletID  string
	Amount    int64
	Reference string
}
