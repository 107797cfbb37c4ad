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
	"encoding/json"
	"net/http"
	"strings"

	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/wallet/pin"
)

// depositRequest is the body of deposit requests. Amount is cents.
type depositRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

// withdrawRequest is the body of withdrawal requests. The PIN is required once
// the user has one set. To is the external destination address and becomes the
// ledger entry reference.
type withdrawRequest struct {
	Amount    int64  `json:"amount"`
	To        string `json:"to,omitempty"`
	Reference string `json:"reference,omitempty"`
	Pin       string `json:"pin,omitempty"`
}

// statusRequest is the body of wallet status updates.
type statusRequest struct {
	Status string `json:"status"`
}

// WalletHandler handles wallet API requests.
type WalletHandler struct {
	walletService WalletServiceInterface
	pinService    pin.PinServiceInterface
}

// NewWalletHandler creates a new wallet handler.
func NewWalletHandler() *WalletHandler {
	return &WalletHandler{
		walletService: NewWalletService(),
		pinService:    pin.NewPinService(),
	}
}

// HandleWalletListRequest returns both of a user's wallets, initializing them on
// first use.
func (h *WalletHandler) HandleWalletListRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	wallets, svcErr := h.walletService.ListWallets(userID)
	if svcErr != nil {
		writeWalletError(w, svcErr)
		return
	}
	writeWalletJSON(w, http.StatusOK, wallets)
}

// HandleWalletGetRequest returns one wallet of a user, initializing it on first use.
func (h *WalletHandler) HandleWalletGetRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	retrieved, svcErr := h.walletService.GetOrInitWallet(userID, pathRole(r))
	if svcErr != nil {
		writeWalletError(w, svcErr)
		return
	}
	writeWalletJSON(w, http.StatusOK, retrieved)
}

// HandleDepositRequest adds funds to a user's wallet.
func (h *WalletHandler) HandleDepositRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var request depositRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeWalletError(w, &ErrorInvalidAmount)
		return
	}

	updated, svcErr := h.walletService.Deposit(userID, pathRole(r), request.Amount,
		request.Reference)
	if svcErr != nil {
		writeWalletError(w, svcErr)
		return
	}
	writeWalletJSON(w, http.StatusOK, updated)
}

// HandleWithdrawRequest removes funds from a user's wallet. Withdrawals are PIN
// guarded: the user must have a PIN set and present it.
func (h *WalletHandler) HandleWithdrawRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var request withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeWalletError(w, &ErrorInvalidAmount)
		return
	}

	hasPin, svcErr := h.pinService.HasPin(userID)
	if svcErr != nil {
		writeWalletError(w, svcErr)
		return
	}
	if !hasPin {
		writeWalletError(w, &pin.ErrorPinNotSet)
		return
	}
	if request.Pin == "" {
		writeWalletError(w, &pin.ErrorPinRequired)
		return
	}
	if svcErr := h.pinService.VerifyPin(userID, request.Pin); svcErr != nil {
		writeWalletError(w, svcErr)
		return
	}

	reference := request.Reference
	if request.To != "" {
		reference = request.To
	}
	updated, svcErr := h.walletService.Withdraw(userID, pathRole(r), request.Amount,
		reference)
	if svcErr != nil {
		writeWalletError(w, svcErr)
		return
	}
	writeWalletJSON(w, http.StatusOK, updated)
}

// HandleStatusUpdateRequest freezes or unfreezes a user's wallet.
func (h *WalletHandler) HandleStatusUpdateRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var request statusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeWalletError(w, &ErrorInvalidStatus)
		return
	}

	updated, svcErr := h.walletService.SetWalletStatus(userID, pathRole(r),
		WalletStatus(strings.ToUpper(request.Status)))
	if svcErr != nil {
		writeWalletError(w, svcErr)
		return
	}
	writeWalletJSON(w, http.StatusOK, updated)
}

// HandleLedgerGetRequest returns the ledger entries of a user's wallet.
func (h *WalletHandler) HandleLedgerGetRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	entries, svcErr := h.walletService.GetLedger(userID, pathRole(r))
	if svcErr != nil {
		writeWalletError(w, svcErr)
		return
	}
	writeWalletJSON(w, http.StatusOK, entries)
}

func pathRole(r *http.Request) WalletRole {
	return WalletRole(strings.ToUpper(r.PathValue("role")))
}

func writeWalletJSON(w http.ResponseWriter, status int, payload interface{}) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "WalletHandler"))

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", log.Error(err))
	}
}

func writeWalletError(w http.ResponseWriter, svcErr *serviceerror.ServiceError) {
	status := http.StatusBadRequest
	switch {
	case svcErr.Type == serviceerror.ServerErrorType:
		status = http.StatusInternalServerError
	case svcErr.Code == ErrorWalletNotFound.Code || svcErr.Code == ErrorHoldNotFound.Code:
		status = http.StatusNotFound
	case svcErr.Code == ErrorInsufficientFunds.Code:
		status = http.StatusPaymentRequired
	case svcErr.Code == ErrorWalletFrozen.Code:
		status = http.StatusForbidden
	case strings.HasPrefix(svcErr.Code, "PIN-"):
		status = http.StatusForbidden
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":        svcErr.Code,
		"error":       svcErr.Error,
		"description": svcErr.ErrorDescription,
	})
}
