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
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/asgardeo/gate/internal/resource"
	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

// fetchRequestBody is the body of monetized fetch requests.
type fetchRequestBody struct {
	UserID     string `json:"user_id"`
	ClientID   string `json:"client_id"`
	ResourceID string `json:"resource_id"`
	Mode       string `json:"mode,omitempty"`
}

// fetchResponseBody is the success response of a monetized fetch. The content is
// base64 encoded so binary payloads survive the JSON envelope.
type fetchResponseBody struct {
	Request     Request `json:"request"`
	Receipt     Receipt `json:"receipt"`
	Content     string  `json:"content"`
	ContentType string  `json:"content_type"`
}

// quote carries the estimated cost of a denied fetch so the caller can decide
// whether to fund the wallet or raise a policy cap.
type quote struct {
	Cost     int64  `json:"cost"`
	Currency string `json:"currency,omitempty"`
}

// SettlementHandler handles monetized fetch API requests.
type SettlementHandler struct {
	settlementService SettlementServiceInterface
	resourceService   resource.ResourceServiceInterface
}

// NewSettlementHandler creates a new settlement handler.
func NewSettlementHandler() *SettlementHandler {
	return &SettlementHandler{
		settlementService: NewSettlementService(),
		resourceService:   resource.NewResourceService(),
	}
}

// HandleFetchRequest runs the settlement pipeline for one monetized fetch.
func (h *SettlementHandler) HandleFetchRequest(w http.ResponseWriter, r *http.Request) {
	var body fetchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeSettlementError(w, &ErrorInvalidFetchRequest, nil)
		return
	}

	outcome, svcErr := h.settlementService.Fetch(r.Context(), &FetchInput{
		UserID:     body.UserID,
		ClientID:   body.ClientID,
		ResourceID: body.ResourceID,
		Mode:       body.Mode,
	})
	if svcErr != nil {
		writeSettlementError(w, svcErr, h.quoteFor(body.ResourceID, svcErr))
		return
	}

	writeSettlementJSON(w, http.StatusOK, fetchResponseBody{
		Request:     outcome.Request,
		Receipt:     outcome.Receipt,
		Content:     base64.StdEncoding.EncodeToString(outcome.Content),
		ContentType: outcome.ContentType,
	})
}

// HandleRequestGetRequest returns the settlement request with the given id.
func (h *SettlementHandler) HandleRequestGetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("requestId")
	request, svcErr := h.settlementService.GetRequest(requestID)
	if svcErr != nil {
		writeSettlementError(w, svcErr, nil)
		return
	}
	writeSettlementJSON(w, http.StatusOK, request)
}

// HandleReceiptGetRequest returns the signed receipt of a settled request.
func (h *SettlementHandler) HandleReceiptGetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("requestId")
	receipt, svcErr := h.settlementService.GetReceipt(requestID)
	if svcErr != nil {
		writeSettlementError(w, svcErr, nil)
		return
	}
	writeSettlementJSON(w, http.StatusOK, receipt)
}

// quoteFor attaches an estimated-cost quote to payment-related denials.
func (h *SettlementHandler) quoteFor(resourceID string,
	svcErr *serviceerror.ServiceError) *quote {
	if svcErr.Error != "insufficient_funds" && svcErr.Code != ErrorPolicyDenied.Code {
		return nil
	}
	res, resErr := h.resourceService.GetResource(resourceID)
	if resErr != nil {
		return nil
	}
	return &quote{Cost: res.EstimatedPrice()}
}

func writeSettlementJSON(w http.ResponseWriter, status int, payload interface{}) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "SettlementHandler"))

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", log.Error(err))
	}
}

func writeSettlementError(w http.ResponseWriter, svcErr *serviceerror.ServiceError, q *quote) {
	status := http.StatusBadRequest
	switch {
	case svcErr.Type == serviceerror.ServerErrorType:
		status = http.StatusInternalServerError
	case svcErr.Error == "not_found":
		status = http.StatusNotFound
	case svcErr.Error == "insufficient_funds" || svcErr.Code == ErrorPolicyDenied.Code:
		status = http.StatusPaymentRequired
	case svcErr.Code == ErrorResourceForbidden.Code || svcErr.Error == "wallet_frozen":
		status = http.StatusForbidden
	}

	body := map[string]interface{}{
		"code":        svcErr.Code,
		"error":       svcErr.Error,
		"description": svcErr.ErrorDescription,
	}
	if q != nil {
		body["quote"] = q
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
