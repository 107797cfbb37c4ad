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

package policy

import (
	"encoding/json"
	"net/http"

	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

// PolicyHandler handles spending policy API requests.
type PolicyHandler struct {
	policyService PolicyServiceInterface
}

// NewPolicyHandler creates a new policy handler.
func NewPolicyHandler() *PolicyHandler {
	return &PolicyHandler{
		policyService: NewPolicyService(),
	}
}

// HandleRulePostRequest creates or replaces a spending cap for a user.
func (h *PolicyHandler) HandleRulePostRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	var request PolicyRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writePolicyError(w, &ErrorInvalidRule)
		return
	}

	rule, svcErr := h.policyService.SetRule(userID, &request)
	if svcErr != nil {
		writePolicyError(w, svcErr)
		return
	}
	writePolicyJSON(w, http.StatusCreated, rule)
}

// HandleRuleListRequest lists the spending caps of a user.
func (h *PolicyHandler) HandleRuleListRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	rules, svcErr := h.policyService.ListRules(userID)
	if svcErr != nil {
		writePolicyError(w, svcErr)
		return
	}
	writePolicyJSON(w, http.StatusOK, rules)
}

// HandleRuleDeleteRequest deletes a spending cap.
func (h *PolicyHandler) HandleRuleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	ruleID := r.PathValue("ruleId")
	if svcErr := h.policyService.DeleteRule(userID, ruleID); svcErr != nil {
		writePolicyError(w, svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writePolicyJSON(w http.ResponseWriter, status int, payload interface{}) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PolicyHandler"))

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", log.Error(err))
	}
}

func writePolicyError(w http.ResponseWriter, svcErr *serviceerror.ServiceError) {
	status := http.StatusBadRequest
	switch {
	case svcErr.Type == serviceerror.ServerErrorType:
		status = http.StatusInternalServerError
	case svcErr.Code == ErrorRuleNotFound.Code:
		status = http.StatusNotFound
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":        svcErr.Code,
		"error":       svcErr.Error,
		"description": svcErr.ErrorDescription,
	})
}
