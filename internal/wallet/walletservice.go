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

import (
	"errors"
	"time"

	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

const loggerComponentName = "WalletService"

const (
	defaultCurrency = "USD"
	defaultHoldTTL  = 900
)

// Wallet service errors.
var (
	// ErrorInvalidAmount is returned when an amount is zero or negative.
	ErrorInvalidAmount = serviceerror.ServiceError{
		Code:             "WLT-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Amount must be a positive number of cents",
	}
	// ErrorInsufficientFunds is returned when the available balance cannot cover a debit.
	ErrorInsufficientFunds = serviceerror.ServiceError{
		Code:             "WLT-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "insufficient_funds",
		ErrorDescription: "Available balance cannot cover the requested amount",
	}
	// ErrorWalletNotFound is returned when no wallet exists for the given user and role.
	ErrorWalletNotFound = serviceerror.ServiceError{
		Code:             "WLT-1003",
		Type:             serviceerror.ClientErrorType,
		Error:            "not_found",
		ErrorDescription: "Wallet not found",
	}
	// ErrorHoldNotFound is returned when no hold exists for the given id.
	ErrorHoldNotFound = serviceerror.ServiceError{
		Code:             "WLT-1004",
		Type:             serviceerror.ClientErrorType,
		Error:            "not_found",
		ErrorDescription: "Hold not found",
	}
	// ErrorHoldNotActive is returned when a hold has already been released or captured.
	ErrorHoldNotActive = serviceerror.ServiceError{
		Code:             "WLT-1005",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Hold is no longer active",
	}
	// ErrorInvalidCapture is returned when a capture does not fit the hold it settles.
	ErrorInvalidCapture = serviceerror.ServiceError{
		Code:             "WLT-1006",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Capture amount must not exceed the held amount and credits must sum to it",
	}
	// ErrorWalletFrozen is returned when a spend is attempted from a frozen wallet.
	ErrorWalletFrozen = serviceerror.ServiceError{
		Code:             "WLT-1007",
		Type:             serviceerror.ClientErrorType,
		Error:            "wallet_frozen",
		ErrorDescription: "Wallet is frozen and cannot spend",
	}
	// ErrorInvalidRole is returned when the wallet role is not payer or payout.
	ErrorInvalidRole = serviceerror.ServiceError{
		Code:             "WLT-1008",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Wallet role must be PAYER or PAYOUT",
	}
	// ErrorInvalidStatus is returned when the wallet status is not active or frozen.
	ErrorInvalidStatus = serviceerror.ServiceError{
		Code:             "WLT-1009",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Wallet status must be ACTIVE or FROZEN",
	}
	// ErrorInternalServerError is returned on unexpected persistence failures.
	ErrorInternalServerError = serviceerror.ServiceError{
		Code:             "WLT-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "An unexpected error occurred",
	}
)

// WalletServiceInterface defines the wallet ledger operations. Every user has up
// to two wallets, one per role: the payer wallet spends, the payout wallet earns.
type WalletServiceInterface interface {
	GetOrInitWallet(userID string, role WalletRole) (*Wallet, *serviceerror.ServiceError)
	GetWallet(userID string, role WalletRole) (*Wallet, *serviceerror.ServiceError)
	ListWallets(userID string) ([]Wallet, *serviceerror.ServiceError)
	GetLedger(userID string, role WalletRole) ([]LedgerEntry, *serviceerror.ServiceError)
	Deposit(userID string, role WalletRole, amount int64, reference string) (*Wallet, *serviceerror.ServiceError)
	Withdraw(userID string, role WalletRole, amount int64, reference string) (*Wallet, *serviceerror.ServiceError)
	SetWalletStatus(userID string, role WalletRole, status WalletStatus) (*Wallet, *serviceerror.ServiceError)
	CreateHold(userID, agentID string, amount int64, reference string) (*Hold, *serviceerror.ServiceError)
	ReleaseHold(holdID string) *serviceerror.ServiceError
	CaptureHold(holdID string, finalAmount int64, credits []Credit) *serviceerror.ServiceError
	ReleaseExpiredHolds() (int, error)
}

// WalletService is the default implementation of WalletServiceInterface.
type WalletService struct {
	store walletStoreInterface
}

// NewWalletService creates a new wallet service instance.
func NewWalletService() WalletServiceInterface {
	return &WalletService{
		store: newWalletStore(),
	}
}

// GetOrInitWallet returns the user's wallet for the role, creating an empty one
// on first use.
func (ws *WalletService) GetOrInitWallet(userID string,
	role WalletRole) (*Wallet, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if svcErr := validateRole(role); svcErr != nil {
		return nil, svcErr
	}

	existing, err := ws.store.getWalletByUserRole(userID, role)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		logger.Error("Failed to retrieve wallet", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	currency := config.GetGateRuntime().Config.Settlement.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now().Unix()
	newWallet := Wallet{
		WalletID:  utils.GenerateUUID(),
		UserID:    userID,
		Role:      role,
		Status:    WalletStatusActive,
		Available: 0,
		Held:      0,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ws.store.createWallet(newWallet); err != nil {
		// A concurrent initializer may have won; fall back to a re-read.
		if retried, retryErr := ws.store.getWalletByUserRole(userID, role); retryErr == nil {
			return retried, nil
		}
		logger.Error("Failed to create wallet", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	logger.Debug("Wallet initialized", log.String(log.LoggerKeyWalletID, newWallet.WalletID),
		log.String("role", string(role)))
	return &newWallet, nil
}

// GetWallet returns the user's wallet for the role.
func (ws *WalletService) GetWallet(userID string,
	role WalletRole) (*Wallet, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if svcErr := validateRole(role); svcErr != nil {
		return nil, svcErr
	}

	w, err := ws.store.getWalletByUserRole(userID, role)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return nil, &ErrorWalletNotFound
		}
		logger.Error("Failed to retrieve wallet", log.Error(err))
		return nil, &ErrorInternalServerError
	}
	return w, nil
}

// ListWallets returns both of the user's wallets, initializing any that do not
// exist yet.
func (ws *WalletService) ListWallets(userID string) ([]Wallet, *serviceerror.ServiceError) {
	wallets := make([]Wallet, 0, 2)
	for _, role := range []WalletRole{RolePayer, RolePayout} {
		w, svcErr := ws.GetOrInitWallet(userID, role)
		if svcErr != nil {
			return nil, svcErr
		}
		wallets = append(wallets, *w)
	}
	return wallets, nil
}

// GetLedger returns the ledger entries of the user's wallet, newest first.
func (ws *WalletService) GetLedger(userID string,
	role WalletRole) ([]LedgerEntry, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	w, svcErr := ws.GetWallet(userID, role)
	if svcErr != nil {
		return nil, svcErr
	}

	entries, err := ws.store.listLedgerEntries(w.WalletID)
	if err != nil {
		logger.Error("Failed to list ledger entries", log.Error(err))
		return nil, &ErrorInternalServerError
	}
	return entries, nil
}

// Deposit adds funds to the wallet's available balance, initializing the wallet
// if needed.
func (ws *WalletService) Deposit(userID string, role WalletRole, amount int64,
	reference string) (*Wallet, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if amount <= 0 {
		return nil, &ErrorInvalidAmount
	}

	w, svcErr := ws.GetOrInitWallet(userID, role)
	if svcErr != nil {
		return nil, svcErr
	}

	if err := ws.store.creditWallet(w.WalletID, amount, EntryTypeDeposit, reference); err != nil {
		logger.Error("Failed to deposit", log.Error(err),
			log.String(log.LoggerKeyWalletID, w.WalletID))
		return nil, &ErrorInternalServerError
	}
	return ws.GetWallet(userID, role)
}

// Withdraw removes funds from the wallet's available balance. Frozen wallets
// cannot withdraw.
func (ws *WalletService) Withdraw(userID string, role WalletRole, amount int64,
	reference string) (*Wallet, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if amount <= 0 {
		return nil, &ErrorInvalidAmount
	}

	w, svcErr := ws.GetWallet(userID, role)
	if svcErr != nil {
		return nil, svcErr
	}
	if w.Status == WalletStatusFrozen {
		return nil, &ErrorWalletFrozen
	}

	if err := ws.store.debitWallet(w.WalletID, amount, EntryTypeWithdraw, reference); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, &ErrorInsufficientFunds
		}
		logger.Error("Failed to withdraw", log.Error(err),
			log.String(log.LoggerKeyWalletID, w.WalletID))
		return nil, &ErrorInternalServerError
	}
	return ws.GetWallet(userID, role)
}

// SetWalletStatus freezes or unfreezes a wallet.
func (ws *WalletService) SetWalletStatus(userID string, role WalletRole,
	status WalletStatus) (*Wallet, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if status != WalletStatusActive && status != WalletStatusFrozen {
		return nil, &ErrorInvalidStatus
	}

	w, svcErr := ws.GetWallet(userID, role)
	if svcErr != nil {
		return nil, svcErr
	}

	if err := ws.store.updateWalletStatus(w.WalletID, status); err != nil {
		logger.Error("Failed to update wallet status", log.Error(err),
			log.String(log.LoggerKeyWalletID, w.WalletID))
		return nil, &ErrorInternalServerError
	}
	return ws.GetWallet(userID, role)
}

// CreateHold reserves funds from the user's payer wallet for a pending settlement.
// The hold expires after the configured TTL so the sweeper can return stranded
// funds.
func (ws *WalletService) CreateHold(userID, agentID string, amount int64,
	reference string) (*Hold, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if amount <= 0 {
		return nil, &ErrorInvalidAmount
	}

	w, svcErr := ws.GetWallet(userID, RolePayer)
	if svcErr != nil {
		return nil, svcErr
	}
	if w.Status == WalletStatusFrozen {
		return nil, &ErrorWalletFrozen
	}

	ttl := config.GetGateRuntime().Config.Settlement.HoldTTL
	if ttl <= 0 {
		ttl = defaultHoldTTL
	}

	now := time.Now().Unix()
	hold := Hold{
		HoldID:    utils.GenerateUUID(),
		WalletID:  w.WalletID,
		AgentID:   agentID,
		Amount:    amount,
		Reference: reference,
		Status:    HoldStatusActive,
		CreatedAt: now,
		ExpiresAt: now + ttl,
	}
	if err := ws.store.createHold(hold); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, &ErrorInsufficientFunds
		}
		logger.Error("Failed to create hold", log.Error(err),
			log.String(log.LoggerKeyWalletID, w.WalletID))
		return nil, &ErrorInternalServerError
	}
	return &hold, nil
}

// ReleaseHold returns a hold's funds to the owning wallet.
func (ws *WalletService) ReleaseHold(holdID string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	hold, err := ws.store.getHoldByID(holdID)
	if err != nil {
		if errors.Is(err, ErrHoldNotFound) {
			return &ErrorHoldNotFound
		}
		logger.Error("Failed to retrieve hold", log.Error(err))
		return &ErrorInternalServerError
	}

	if err := ws.store.releaseHold(*hold, EntryTypeRelease); err != nil {
		if errors.Is(err, ErrHoldNotActive) {
			return &ErrorHoldNotActive
		}
		logger.Error("Failed to release hold", log.Error(err))
		return &ErrorInternalServerError
	}
	return nil
}

// CaptureHold settles a hold for finalAmount and distributes the credits. The
// final amount must not exceed the held amount, and the credits must sum to it.
func (ws *WalletService) CaptureHold(holdID string, finalAmount int64,
	credits []Credit) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if finalAmount <= 0 {
		return &ErrorInvalidAmount
	}

	hold, err := ws.store.getHoldByID(holdID)
	if err != nil {
		if errors.Is(err, ErrHoldNotFound) {
			return &ErrorHoldNotFound
		}
		logger.Error("Failed to retrieve hold", log.Error(err))
		return &ErrorInternalServerError
	}

	if finalAmount > hold.Amount {
		return &ErrorInvalidCapture
	}
	var creditTotal int64
	for _, credit := range credits {
		if credit.Amount < 0 {
			return &ErrorInvalidCapture
		}
		creditTotal += credit.Amount
	}
	if creditTotal != finalAmount {
		return &ErrorInvalidCapture
	}

	if err := ws.store.captureHold(*hold, finalAmount, credits); err != nil {
		if errors.Is(err, ErrHoldNotActive) {
			return &ErrorHoldNotActive
		}
		logger.Error("Failed to capture hold", log.Error(err))
		return &ErrorInternalServerError
	}
	return nil
}

// ReleaseExpiredHolds releases all active holds past their expiry and returns how
// many were released. A hold that fails to release is logged and skipped so one bad
// row cannot stall the sweep.
func (ws *WalletService) ReleaseExpiredHolds() (int, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	expired, err := ws.store.listExpiredHolds(time.Now().Unix())
	if err != nil {
		return 0, err
	}

	released := 0
	for _, hold := range expired {
		if err := ws.store.releaseHold(hold, EntryTypeRelease); err != nil {
			if errors.Is(err, ErrHoldNotActive) {
				continue
			}
			logger.Error("Failed to release expired hold", log.Error(err),
				log.String("holdID", hold.HoldID))
			continue
		}
		released++
	}
	return released, nil
}

func validateRole(role WalletRole) *serviceerror.ServiceError {
	if role != RolePayer && role != RolePayout {
		return &ErrorInvalidRole
	}
	return nil
}
