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

// Package settlement runs the monetized fetch pipeline: mode and visibility
// checks, policy check, escrow hold, content retrieval, fee-split capture, payout
// notification, and signed receipt. A request settles or fails exactly once, and
// funds held for a request that cannot settle are returned before the failure is
// reported.
package settlement

// RequestStatus represents the lifecycle state of a settlement request.
type RequestStatus string

const (
	// StatusInitiated indicates the request is in flight.
	StatusInitiated RequestStatus = "INITIATED"
	// StatusSettled indicates the request captured funds and served content.
	StatusSettled RequestStatus = "SETTLED"
	// StatusFailed indicates the request failed after being persisted.
	StatusFailed RequestStatus = "FAILED"
)

// Request represents one monetized fetch. Amounts are cents. RequestedMode is what
// the caller asked for; Mode is what was actually served after mode resolution.
type Request struct {
	RequestID       string        `json:"request_id"`
	UserID          string        `json:"user_id"`
	AgentID         string        `json:"agent_id"`
	ClientID        string        `json:"client_id"`
	ResourceID      string        `json:"resource_id"`
	RequestedMode   string        `json:"requested_mode"`
	Mode            string        `json:"mode"`
	HoldID          string        `json:"hold_id,omitempty"`
	EstimatedAmount int64         `json:"estimated_amount"`
	FinalAmount     int64         `json:"final_amount,omitempty"`
	BytesBilled     int64         `json:"bytes_billed,omitempty"`
	Status          RequestStatus `json:"status"`
	FailureReason   string        `json:"failure_reason,omitempty"`
	CreatedAt       int64         `json:"created_at"`
	SettledAt       int64         `json:"settled_at,omitempty"`
}

// Receipt is the signed proof of a settled fetch. The signature covers the
// canonical JSON of the receipt with the Signature field empty.
type Receipt struct {
	ReceiptID       string `json:"receipt_id"`
	RequestID       string `json:"request_id"`
	UserID          string `json:"user_id"`
	AgentID         string `json:"agent_id"`
	ResourceID      string `json:"resource_id"`
	RequestedMode   string `json:"requested_mode"`
	Mode            string `json:"mode"`
	BytesBilled     int64  `json:"bytes_billed"`
	PricingBasis    string `json:"pricing_basis"`
	Amount          int64  `json:"amount"`
	PlatformFee     int64  `json:"platform_fee"`
	ProviderAmount  int64  `json:"provider_amount"`
	Currency        string `json:"currency"`
	PayoutReference string `json:"payout_reference,omitempty"`
	IssuedAt        int64  `json:"issued_at"`
	Signature       string `json:"signature,omitempty"`
}

// FetchInput describes a monetized fetch on behalf of a user's agent. Mode is
// optional and defaults to raw.
type FetchInput struct {
	UserID     string
	ClientID   string
	ResourceID string
	Mode       string
}

// FetchOutcome is the result of a settled fetch.
type FetchOutcome struct {
	Request     Request `json:"request"`
	Receipt     Receipt `json:"receipt"`
	Content     []byte  `json:"content"`
	ContentType string  `json:"content_type"`
}
