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
	"context"
	"fmt"
	"time"

	"github.com/asgardeo/gate/internal/agent"
	"github.com/asgardeo/gate/internal/content"
	"github.com/asgardeo/gate/internal/payout"
	"github.com/asgardeo/gate/internal/policy"
	"github.com/asgardeo/gate/internal/resource"
	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/jwt"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
	"github.com/asgardeo/gate/internal/wallet"
)

const loggerComponentName = "SettlementService"

const (
	failureReasonContentUnavailable = "content_unavailable"
	failureReasonCaptureFailed      = "capture_failed"
)

const summaryContentType = "text/plain; charset=utf-8"

var (
	// ErrorInvalidFetchRequest is returned when the fetch input is malformed.
	ErrorInvalidFetchRequest = serviceerror.ServiceError{
		Code:             "STL-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "A user id, client id and resource id are required",
	}
	// ErrorModeNotAllowed is returned when the requested access mode cannot be
	// served by the resource, including when a summary request cannot fall back
	// to raw.
	ErrorModeNotAllowed = serviceerror.ServiceError{
		Code:             "STL-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "mode_not_allowed",
		ErrorDescription: "Requested access mode is not offered by the resource",
	}
	// ErrorResourceForbidden is returned when a restricted resource is fetched by
	// an agent outside its allow list.
	ErrorResourceForbidden = serviceerror.ServiceError{
		Code:             "STL-1003",
		Type:             serviceerror.ClientErrorType,
		Error:            "forbidden",
		ErrorDescription: "Resource is not accessible to this agent",
	}
	// ErrorPayoutAddressMissing is returned when a priced resource has no payout
	// address. The fetch fails before any funds move.
	ErrorPayoutAddressMissing = serviceerror.ServiceError{
		Code:             "STL-1004",
		Type:             serviceerror.ClientErrorType,
		Error:            "payout_address_missing",
		ErrorDescription: "Resource provider has no payout address configured",
	}
	// ErrorPolicyDenied is returned when a spending policy rejects the fetch.
	ErrorPolicyDenied = serviceerror.ServiceError{
		Code:             "STL-1005",
		Type:             serviceerror.ClientErrorType,
		Error:            "policy_denied",
		ErrorDescription: "Spending policy denied the request",
	}
	// ErrorContentUnavailable is returned when the resource content cannot be
	// served. The escrow hold is released before this is reported.
	ErrorContentUnavailable = serviceerror.ServiceError{
		Code:             "STL-1006",
		Type:             serviceerror.ClientErrorType,
		Error:            "content_unavailable",
		ErrorDescription: "Resource content is not available",
	}
	// ErrorRequestNotFound is returned when no settlement request exists for the
	// given id.
	ErrorRequestNotFound = serviceerror.ServiceError{
		Code:             "STL-1007",
		Type:             serviceerror.ClientErrorType,
		Error:            "not_found",
		ErrorDescription: "Settlement request not found",
	}
	// ErrorReceiptNotFound is returned when a request has no receipt, for example
	// because it failed or is still in flight.
	ErrorReceiptNotFound = serviceerror.ServiceError{
		Code:             "STL-1008",
		Type:             serviceerror.ClientErrorType,
		Error:            "not_found",
		ErrorDescription: "Receipt not found for the settlement request",
	}
	// ErrorSettlementServerError is returned on unexpected pipeline failures.
	ErrorSettlementServerError = serviceerror.ServiceError{
		Code:             "STL-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "An unexpected error occurred",
	}
)

// SettlementServiceInterface runs monetized fetches and serves their records.
type SettlementServiceInterface interface {
	Fetch(ctx context.Context, input *FetchInput) (*FetchOutcome, *serviceerror.ServiceError)
	GetRequest(requestID string) (*Request, *serviceerror.ServiceError)
	GetReceipt(requestID string) (*Receipt, *serviceerror.ServiceError)
}

// SettlementService is the default implementation of SettlementServiceInterface.
type SettlementService struct {
	store            requestStoreInterface
	agentService     agent.AgentServiceInterface
	resourceService  resource.ResourceServiceInterface
	contentService   content.ContentServiceInterface
	walletService    wallet.WalletServiceInterface
	policyService    policy.PolicyServiceInterface
	payoutDispatcher payout.DispatcherInterface
	jwtService       jwt.JWTServiceInterface
}

// NewSettlementService creates a new settlement service instance.
func NewSettlementService() SettlementServiceInterface {
	return &SettlementService{
		store:            newRequestStore(),
		agentService:     agent.NewAgentService(),
		resourceService:  resource.NewResourceService(),
		contentService:   content.NewContentService(),
		walletService:    wallet.NewWalletService(),
		policyService:    policy.NewPolicyService(),
		payoutDispatcher: payout.NewHTTPDispatcher(),
		jwtService:       jwt.GetJWTService(),
	}
}

// Fetch runs the settlement pipeline for one monetized fetch: guard checks, an
// escrow hold for the estimated price, the content fetch, byte-metered
// reconciliation, a fee-split capture, an advisory payout notification, and a
// signed receipt. Policy denials and insufficient funds leave the request
// INITIATED with no funds moved; failures after the hold is placed release the
// hold and mark the request FAILED.
func (ss *SettlementService) Fetch(ctx context.Context, input *FetchInput) (
	*FetchOutcome, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if input == nil || input.UserID == "" || input.ClientID == "" || input.ResourceID == "" {
		return nil, &ErrorInvalidFetchRequest
	}

	resolvedAgent, svcErr := ss.agentService.ResolveAgent(input.UserID, input.ClientID)
	if svcErr != nil {
		return nil, svcErr
	}

	res, svcErr := ss.resourceService.GetResource(input.ResourceID)
	if svcErr != nil {
		return nil, svcErr
	}

	requestedMode := input.Mode
	if requestedMode == "" {
		requestedMode = resource.ModeRaw
	}
	mode, svcErr := resolveMode(res, requestedMode)
	if svcErr != nil {
		return nil, svcErr
	}

	if !res.AllowsAgent(resolvedAgent.AgentID) {
		logger.Debug("Restricted resource denied fetch",
			log.String(log.LoggerKeyAgentID, resolvedAgent.AgentID),
			log.String(log.LoggerKeyResourceID, res.ResourceID))
		return nil, &ErrorResourceForbidden
	}

	// A provider fetching its own resource pays nothing.
	sameOwner := res.ProviderUserID == input.UserID
	estimated := int64(0)
	if !sameOwner {
		estimated = res.EstimatedPrice()
	}

	if estimated > 0 && res.PayoutAddress == "" {
		return nil, &ErrorPayoutAddressMissing
	}

	request := Request{
		RequestID:       utils.GenerateUUID(),
		UserID:          input.UserID,
		AgentID:         resolvedAgent.AgentID,
		ClientID:        input.ClientID,
		ResourceID:      res.ResourceID,
		RequestedMode:   requestedMode,
		Mode:            mode,
		EstimatedAmount: estimated,
		Status:          StatusInitiated,
		CreatedAt:       time.Now().Unix(),
	}
	if err := ss.store.insertRequest(request); err != nil {
		logger.Error("Failed to record settlement request", log.Error(err),
			log.String(log.LoggerKeyRequestID, request.RequestID))
		return nil, &ErrorSettlementServerError
	}

	if estimated > 0 {
		decision, svcErr := ss.policyService.CheckSpend(input.UserID, res.ResourceID,
			mode, estimated)
		if svcErr != nil {
			return nil, svcErr
		}
		if !decision.Allowed {
			logger.Debug("Spending policy denied fetch",
				log.String(log.LoggerKeyAgentID, resolvedAgent.AgentID),
				log.String(log.LoggerKeyResourceID, res.ResourceID),
				log.String("reason", decision.Reason))
			denied := ErrorPolicyDenied
			denied.ErrorDescription = fmt.Sprintf("%s (limit %d, spent %d)",
				decision.Reason, decision.Limit, decision.Current)
			return nil, &denied
		}

		hold, svcErr := ss.walletService.CreateHold(input.UserID, resolvedAgent.AgentID,
			estimated, request.RequestID)
		if svcErr != nil {
			return nil, svcErr
		}
		request.HoldID = hold.HoldID
		if err := ss.store.attachHold(request.RequestID, hold.HoldID); err != nil {
			logger.Error("Failed to attach hold to settlement request", log.Error(err),
				log.String(log.LoggerKeyRequestID, request.RequestID))
			ss.releaseHold(logger, hold.HoldID)
			return nil, &ErrorSettlementServerError
		}
	}

	// Past this point the hold must end up captured or released.
	holdDone := request.HoldID == ""
	defer func() {
		if !holdDone {
			ss.releaseHold(logger, request.HoldID)
		}
	}()

	data, contentType, svcErr := ss.serveContent(res, mode)
	if svcErr != nil {
		ss.markFailed(logger, &request, failureReasonContentUnavailable)
		if svcErr.Type == serviceerror.ServerErrorType {
			return nil, svcErr
		}
		return nil, &ErrorContentUnavailable
	}

	bytesBilled := int64(len(data))
	finalAmount := int64(0)
	basis := "free"
	if !sameOwner {
		finalAmount = res.PriceFor(bytesBilled)
		if finalAmount > estimated {
			// Metered cost only moves downward from the estimate.
			finalAmount = estimated
		}
		basis = res.PricingBasis()
	}

	receipt, svcErr := ss.settle(ctx, logger, &request, res, requestedMode, mode,
		finalAmount, bytesBilled, basis)
	if svcErr != nil {
		return nil, svcErr
	}
	if finalAmount > 0 {
		// CaptureHold returned the unbilled remainder and closed the hold.
		holdDone = true
	}

	request.Status = StatusSettled
	request.FinalAmount = finalAmount
	request.BytesBilled = bytesBilled
	request.SettledAt = receipt.IssuedAt

	return &FetchOutcome{
		Request:     request,
		Receipt:     *receipt,
		Content:     data,
		ContentType: contentType,
	}, nil
}

// GetRequest returns the settlement request with the given id.
func (ss *SettlementService) GetRequest(requestID string) (*Request, *serviceerror.ServiceError) {
	request, err := ss.store.getRequestByID(requestID)
	if err != nil {
		if err == ErrRequestNotFound {
			return nil, &ErrorRequestNotFound
		}
		logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))
		logger.Error("Failed to retrieve settlement request", log.Error(err))
		return nil, &ErrorSettlementServerError
	}
	return request, nil
}

// GetReceipt returns the receipt issued for the given settlement request.
func (ss *SettlementService) GetReceipt(requestID string) (*Receipt, *serviceerror.ServiceError) {
	receipt, err := ss.store.getReceiptByRequestID(requestID)
	if err != nil {
		if err == ErrReceiptNotFound {
			return nil, &ErrorReceiptNotFound
		}
		logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))
		logger.Error("Failed to retrieve receipt", log.Error(err))
		return nil, &ErrorSettlementServerError
	}
	return receipt, nil
}

// resolveMode picks the effective access mode. A summary request falls back to
// raw when the resource offers raw but has no summary to serve.
func resolveMode(res *resource.Resource, requested string) (string, *serviceerror.ServiceError) {
	switch requested {
	case resource.ModeRaw:
		if res.AllowsMode(resource.ModeRaw) {
			return resource.ModeRaw, nil
		}
	case resource.ModeSummary:
		if res.AllowsMode(resource.ModeSummary) && res.Summary != "" {
			return resource.ModeSummary, nil
		}
		if res.AllowsMode(resource.ModeRaw) {
			return resource.ModeRaw, nil
		}
	}
	return "", &ErrorModeNotAllowed
}

// serveContent returns the payload for the effective mode. Summary mode serves
// the catalog summary without touching the content store.
func (ss *SettlementService) serveContent(res *resource.Resource, mode string) (
	[]byte, string, *serviceerror.ServiceError) {
	if mode == resource.ModeSummary {
		return []byte(res.Summary), summaryContentType, nil
	}
	fetched, svcErr := ss.contentService.FetchContent(res.ResourceID)
	if svcErr != nil {
		return nil, "", svcErr
	}
	return fetched.Data, fetched.ContentType, nil
}

// settle captures the hold with the fee split, marks the request settled, sends
// the payout notification and issues the signed receipt. A zero final amount
// skips the capture and leaves the hold for the caller to release.
func (ss *SettlementService) settle(ctx context.Context, logger *log.Logger, request *Request,
	res *resource.Resource, requestedMode, mode string, finalAmount, bytesBilled int64,
	basis string) (*Receipt, *serviceerror.ServiceError) {
	settlementConfig := config.GetGateRuntime().Config.Settlement

	platformFee := int64(0)
	if settlementConfig.PlatformFeeBps > 0 && settlementConfig.PlatformFeeUserID != "" {
		platformFee = finalAmount * settlementConfig.PlatformFeeBps / 10000
	}
	providerAmount := finalAmount - platformFee

	if finalAmount > 0 {
		credits, svcErr := ss.buildCredits(res.ProviderUserID,
			settlementConfig.PlatformFeeUserID, providerAmount, platformFee, request.RequestID)
		if svcErr != nil {
			ss.markFailed(logger, request, failureReasonCaptureFailed)
			return nil, svcErr
		}
		if svcErr := ss.walletService.CaptureHold(request.HoldID, finalAmount, credits); svcErr != nil {
			ss.markFailed(logger, request, failureReasonCaptureFailed)
			return nil, svcErr
		}
	}

	if err := ss.store.settleRequest(request.RequestID, finalAmount, bytesBilled); err != nil {
		// Funds already moved; surface the inconsistency loudly instead of unwinding.
		logger.Error("Failed to mark settlement request settled", log.Error(err),
			log.String(log.LoggerKeyRequestID, request.RequestID))
		return nil, &ErrorSettlementServerError
	}

	payoutReference := ""
	if finalAmount > 0 {
		payoutReference = res.PayoutAddress
		notification := payout.Notification{
			PayoutAddress: res.PayoutAddress,
			Amount:        providerAmount,
			Currency:      ss.currency(settlementConfig.Currency),
			RequestID:     request.RequestID,
			ResourceID:    res.ResourceID,
		}
		if err := ss.payoutDispatcher.Dispatch(ctx, notification); err != nil {
			// Payout notification is advisory. The settlement stands.
			logger.Warn("Payout notification dispatch failed", log.Error(err),
				log.String(log.LoggerKeyRequestID, request.RequestID))
		}
	}

	receipt := Receipt{
		ReceiptID:       utils.GenerateUUID(),
		RequestID:       request.RequestID,
		UserID:          request.UserID,
		AgentID:         request.AgentID,
		ResourceID:      request.ResourceID,
		RequestedMode:   requestedMode,
		Mode:            mode,
		BytesBilled:     bytesBilled,
		PricingBasis:    basis,
		Amount:          finalAmount,
		PlatformFee:     platformFee,
		ProviderAmount:  providerAmount,
		Currency:        ss.currency(settlementConfig.Currency),
		PayoutReference: payoutReference,
		IssuedAt:        time.Now().Unix(),
	}
	if err := signReceipt(ss.jwtService, &receipt); err != nil {
		logger.Error("Failed to sign receipt", log.Error(err),
			log.String(log.LoggerKeyRequestID, request.RequestID))
		return nil, &ErrorSettlementServerError
	}
	if err := ss.store.insertReceipt(receipt); err != nil {
		logger.Error("Failed to store receipt", log.Error(err),
			log.String(log.LoggerKeyRequestID, request.RequestID))
		return nil, &ErrorSettlementServerError
	}

	return &receipt, nil
}

// buildCredits composes the capture credits for the fee split. Payout wallets
// are created on first credit.
func (ss *SettlementService) buildCredits(providerUserID, platformUserID string,
	providerAmount, platformFee int64, reference string) ([]wallet.Credit, *serviceerror.ServiceError) {
	providerWallet, svcErr := ss.walletService.GetOrInitWallet(providerUserID, wallet.RolePayout)
	if svcErr != nil {
		return nil, svcErr
	}
	credits := []wallet.Credit{{
		WalletID:  providerWallet.WalletID,
		Amount:    providerAmount,
		Reference: reference,
	}}

	if platformFee > 0 {
		platformWallet, svcErr := ss.walletService.GetOrInitWallet(platformUserID, wallet.RolePayout)
		if svcErr != nil {
			return nil, svcErr
		}
		credits = append(credits, wallet.Credit{
			WalletID:  platformWallet.WalletID,
			Amount:    platformFee,
			Reference: reference,
		})
	}
	return credits, nil
}

// markFailed records the terminal failure. The hold release is left to the
// deferred guard in Fetch so a missed status write cannot strand funds.
func (ss *SettlementService) markFailed(logger *log.Logger, request *Request, reason string) {
	request.Status = StatusFailed
	request.FailureReason = reason
	if err := ss.store.failRequest(request.RequestID, reason); err != nil {
		logger.Error("Failed to mark settlement request failed", log.Error(err),
			log.String(log.LoggerKeyRequestID, request.RequestID))
	}
}

func (ss *SettlementService) releaseHold(logger *log.Logger, holdID string) {
	if holdID == "" {
		return
	}
	if svcErr := ss.walletService.ReleaseHold(holdID); svcErr != nil {
		logger.Error("Failed to release hold",
			log.String("error", svcErr.ErrorDescription), log.String("holdId", holdID))
	}
}

func (ss *SettlementService) currency(configured string) string {
	if configured == "" {
		return "USD"
	}
	return configured
}
