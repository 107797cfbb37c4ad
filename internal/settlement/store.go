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

import (
	"errors"
	"fmt"
	"time"

	dbmodel "github.com/asgardeo/gate/internal/system/database/model"
	"github.com/asgardeo/gate/internal/system/database/provider"
)

// Settlement store errors.
var (
	// ErrRequestNotFound is returned when no request exists for the requested id.
	ErrRequestNotFound = errors.New("settlement request not found")
	// ErrRequestNotInitiated is returned when a terminal transition finds the request
	// already settled or failed.
	ErrRequestNotInitiated = errors.New("settlement request is not initiated")
	// ErrReceiptNotFound is returned when a request has no stored receipt.
	ErrReceiptNotFound = errors.New("receipt not found")
)

// requestStoreInterface defines the persistence operations for settlement requests
// and receipts.
type requestStoreInterface interface {
	insertRequest(request Request) error
	getRequestByID(requestID string) (*Request, error)
	attachHold(requestID, holdID string) error
	settleRequest(requestID string, finalAmount, bytesBilled int64) error
	failRequest(requestID, reason string) error
	insertReceipt(receipt Receipt) error
	getReceiptByRequestID(requestID string) (*Receipt, error)
}

// requestStore is the default database-backed implementation of requestStoreInterface.
type requestStore struct {
	dbProvider provider.DBProviderInterface
}

func newRequestStore() requestStoreInterface {
	return &requestStore{
		dbProvider: provider.GetDBProvider(),
	}
}

func (s *requestStore) insertRequest(request Request) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryInsertRequest, request.RequestID, request.UserID,
		request.AgentID, request.ClientID, request.ResourceID, request.RequestedMode,
		request.Mode, request.HoldID, request.EstimatedAmount, string(request.Status),
		request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *requestStore) getRequestByID(requestID string) (*Request, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetRequestByID, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrRequestNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildRequestFromResultRow(results[0])
}

// attachHold records the escrow hold placed for an initiated request.
func (s *requestStore) attachHold(requestID, holdID string) error {
	return s.transitionRequest(queryAttachHold, holdID, requestID)
}

// settleRequest marks a request settled. Returns ErrRequestNotInitiated if the
// request already reached a terminal state.
func (s *requestStore) settleRequest(requestID string, finalAmount, bytesBilled int64) error {
	return s.transitionRequest(querySettleRequest, finalAmount, bytesBilled, time.Now().Unix(),
		requestID)
}

// failRequest marks a request failed. Returns ErrRequestNotInitiated if the request
// already reached a terminal state.
func (s *requestStore) failRequest(requestID, reason string) error {
	return s.transitionRequest(queryFailRequest, reason, time.Now().Unix(), requestID)
}

func (s *requestStore) transitionRequest(query dbmodel.DBQuery, args ...interface{}) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rowsAffected, err := dbClient.Execute(query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRequestNotInitiated
	}
	return nil
}

func (s *requestStore) insertReceipt(receipt Receipt) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryInsertReceipt, receipt.ReceiptID, receipt.RequestID,
		receipt.UserID, receipt.AgentID, receipt.ResourceID, receipt.RequestedMode,
		receipt.Mode, receipt.BytesBilled, receipt.PricingBasis, receipt.Amount,
		receipt.PlatformFee, receipt.ProviderAmount, receipt.Currency,
		receipt.PayoutReference, receipt.IssuedAt, receipt.Signature)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *requestStore) getReceiptByRequestID(requestID string) (*Receipt, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetReceiptByRequestID, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrReceiptNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildReceiptFromResultRow(results[0])
}

func buildRequestFromResultRow(row map[string]interface{}) (*Request, error) {
	requestID, ok := row["request_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse request_id as string")
	}

	request := &Request{RequestID: requestID}
	request.UserID, _ = row["user_id"].(string)
	request.AgentID, _ = row["agent_id"].(string)
	request.ClientID, _ = row["client_id"].(string)
	request.ResourceID, _ = row["resource_id"].(string)
	request.RequestedMode, _ = row["requested_mode"].(string)
	request.Mode, _ = row["access_mode"].(string)
	request.HoldID, _ = row["hold_id"].(string)
	request.FailureReason, _ = row["failure_reason"].(string)
	if status, ok := row["status"].(string); ok {
		request.Status = RequestStatus(status)
	}
	request.EstimatedAmount = parseInt64Field(row["estimated_amount"])
	request.FinalAmount = parseInt64Field(row["final_amount"])
	request.BytesBilled = parseInt64Field(row["bytes_billed"])
	request.CreatedAt = parseInt64Field(row["created_at"])
	request.SettledAt = parseInt64Field(row["settled_at"])
	return request, nil
}

func buildReceiptFromResultRow(row map[string]interface{}) (*Receipt, error) {
	receiptID, ok := row["receipt_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse receipt_id as string")
	}

	receipt := &Receipt{ReceiptID: receiptID}
	receipt.RequestID, _ = row["request_id"].(string)
	receipt.UserID, _ = row["user_id"].(string)
	receipt.AgentID, _ = row["agent_id"].(string)
	receipt.ResourceID, _ = row["resource_id"].(string)
	receipt.RequestedMode, _ = row["requested_mode"].(string)
	receipt.Mode, _ = row["access_mode"].(string)
	receipt.PricingBasis, _ = row["pricing_basis"].(string)
	receipt.Currency, _ = row["currency"].(string)
	receipt.PayoutReference, _ = row["payout_reference"].(string)
	receipt.Signature, _ = row["signature"].(string)
	receipt.BytesBilled = parseInt64Field(row["bytes_billed"])
	receipt.Amount = parseInt64Field(row["amount"])
	receipt.PlatformFee = parseInt64Field(row["platform_fee"])
	receipt.ProviderAmount = parseInt64Field(row["provider_amount"])
	receipt.IssuedAt = parseInt64Field(row["issued_at"])
	return receipt, nil
}

func parseInt64Field(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
