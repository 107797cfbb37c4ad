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

package pin

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

const loggerComponentName = "PinService"

const (
	defaultMaxAttempts = 5
	defaultLockout     = 900

	minPinLength = 4
	maxPinLength = 6
)

// PIN guard service errors.
var (
	// ErrorInvalidPinFormat is returned when the PIN is not 4 to 6 digits.
	ErrorInvalidPinFormat = serviceerror.ServiceError{
		Code:             "PIN-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "PIN must be 4 to 6 digits",
	}
	// ErrorPinNotSet is returned when the user has not configured a PIN.
	ErrorPinNotSet = serviceerror.ServiceError{
		Code:             "PIN-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "pin_not_set",
		ErrorDescription: "No PIN is configured for this wallet",
	}
	// ErrorPinInvalid is returned when PIN verification fails.
	ErrorPinInvalid = serviceerror.ServiceError{
		Code:             "PIN-1003",
		Type:             serviceerror.ClientErrorType,
		Error:            "pin_invalid",
		ErrorDescription: "PIN verification failed",
	}
	// ErrorPinLocked is returned when verification is locked out after repeated failures.
	ErrorPinLocked = serviceerror.ServiceError{
		Code:             "PIN-1004",
		Type:             serviceerror.ClientErrorType,
		Error:            "pin_locked",
		ErrorDescription: "PIN verification is temporarily locked",
	}
	// ErrorPinAlreadySet is returned when setting a PIN over an existing one.
	ErrorPinAlreadySet = serviceerror.ServiceError{
		Code:             "PIN-1005",
		Type:             serviceerror.ClientErrorType,
		Error:            "pin_already_set",
		ErrorDescription: "A PIN already exists; use the change operation",
	}
	// ErrorPinRequired is returned when an operation needs a PIN that was not supplied.
	ErrorPinRequired = serviceerror.ServiceError{
		Code:             "PIN-1006",
		Type:             serviceerror.ClientErrorType,
		Error:            "pin_required",
		ErrorDescription: "A PIN is required for this operation",
	}
	// ErrorInternalServerError is returned on unexpected persistence failures.
	ErrorInternalServerError = serviceerror.ServiceError{
		Code:             "PIN-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "An unexpected error occurred",
	}
)

// PinServiceInterface defines the wallet PIN guard operations.
type PinServiceInterface interface {
	SetPin(userID, pinValue string) *serviceerror.ServiceError
	ChangePin(userID, currentPin, newPin string) *serviceerror.ServiceError
	VerifyPin(userID, pinValue string) *serviceerror.ServiceError
	HasPin(userID string) (bool, *serviceerror.ServiceError)
}

// PinService is the default implementation of PinServiceInterface.
type PinService struct {
	store pinStoreInterface
}

// NewPinService creates a new PIN service instance.
func NewPinService() PinServiceInterface {
	return &PinService{
		store: newPinStore(),
	}
}

// SetPin sets the user's initial PIN. An existing PIN can only be replaced
// through ChangePin.
func (ps *PinService) SetPin(userID, pinValue string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if !isValidPinFormat(pinValue) {
		return &ErrorInvalidPinFormat
	}

	hasPin, svcErr := ps.HasPin(userID)
	if svcErr != nil {
		return svcErr
	}
	if hasPin {
		return &ErrorPinAlreadySet
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(pinValue), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash PIN", log.Error(err))
		return &ErrorInternalServerError
	}

	if err := ps.store.insertPin(userID, string(pinHash), time.Now().Unix()); err != nil {
		logger.Error("Failed to insert PIN", log.Error(err))
		return &ErrorInternalServerError
	}
	return nil
}

// ChangePin replaces the user's PIN after verifying the current one. A failed
// verification counts toward the lockout threshold; a successful change clears
// any lockout state.
func (ps *PinService) ChangePin(userID, currentPin, newPin string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if !isValidPinFormat(newPin) {
		return &ErrorInvalidPinFormat
	}

	if svcErr := ps.VerifyPin(userID, currentPin); svcErr != nil {
		return svcErr
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(newPin), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash PIN", log.Error(err))
		return &ErrorInternalServerError
	}

	if err := ps.store.updatePin(userID, string(pinHash), time.Now().Unix()); err != nil {
		logger.Error("Failed to update PIN", log.Error(err))
		return &ErrorInternalServerError
	}
	return nil
}

// VerifyPin checks the given PIN against the stored hash. Each failure counts
// toward the lockout threshold; crossing it locks verification for the cooldown
// window regardless of subsequent correct attempts.
func (ps *PinService) VerifyPin(userID, pinValue string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	record, err := ps.store.getPin(userID)
	if err != nil {
		if errors.Is(err, ErrPinNotSet) {
			return &ErrorPinNotSet
		}
		logger.Error("Failed to retrieve PIN record", log.Error(err))
		return &ErrorInternalServerError
	}

	now := time.Now().Unix()
	if record.LockedUntil > now {
		return &ErrorPinLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PinHash), []byte(pinValue)) != nil {
		attempts := record.FailedAttempts + 1
		lockedUntil := int64(0)
		if attempts >= maxAttempts() {
			lockedUntil = now + lockoutSeconds()
			attempts = 0
		}
		if err := ps.store.updateAttempts(userID, attempts, lockedUntil, now); err != nil {
			logger.Error("Failed to record PIN failure", log.Error(err))
			return &ErrorInternalServerError
		}
		if lockedUntil > 0 {
			return &ErrorPinLocked
		}
		return &ErrorPinInvalid
	}

	if record.FailedAttempts > 0 || record.LockedUntil != 0 {
		if err := ps.store.updateAttempts(userID, 0, 0, now); err != nil {
			logger.Error("Failed to reset PIN attempts", log.Error(err))
			return &ErrorInternalServerError
		}
	}
	return nil
}

// HasPin reports whether the user has a PIN configured.
func (ps *PinService) HasPin(userID string) (bool, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if _, err := ps.store.getPin(userID); err != nil {
		if errors.Is(err, ErrPinNotSet) {
			return false, nil
		}
		logger.Error("Failed to retrieve PIN record", log.Error(err))
		return false, &ErrorInternalServerError
	}
	return true, nil
}

func maxAttempts() int {
	if configured := config.GetGateRuntime().Config.Wallet.PinMaxAttempts; configured > 0 {
		return configured
	}
	return defaultMaxAttempts
}

func lockoutSeconds() int64 {
	if configured := config.GetGateRuntime().Config.Wallet.PinLockout; configured > 0 {
		return configured
	}
	return defaultLockout
}

func isValidPinFormat(pinValue string) bool {
	if len(pinValue) < minPinLength || len(pinValue) > maxPinLength {
		return false
	}
	for _, r := range pinValue {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
