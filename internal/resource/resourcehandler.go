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

package resource

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/asgardeo/gate/internal/content"
	serverconst "github.com/asgardeo/gate/internal/system/constants"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

// maxContentUploadBytes caps a single content upload.
const maxContentUploadBytes = 32 << 20

// ResourceHandler handles catalog and content upload API requests.
type ResourceHandler struct {
	resourceService ResourceServiceInterface
	contentService  content.ContentServiceInterface
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler() *ResourceHandler {
	return &ResourceHandler{
		resourceService: NewResourceService(),
		contentService:  content.NewContentService(),
	}
}

// HandleResourcePostRequest creates a catalog entry.
func (h *ResourceHandler) HandleResourcePostRequest(w http.ResponseWriter, r *http.Request) {
	var request CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeResourceError(w, &ErrorInvalidResource)
		return
	}

	res, svcErr := h.resourceService.CreateResource(&request)
	if svcErr != nil {
		writeResourceError(w, svcErr)
		return
	}
	writeResourceJSON(w, http.StatusCreated, res)
}

// HandleResourceGetRequest returns the catalog entry with the given id.
func (h *ResourceHandler) HandleResourceGetRequest(w http.ResponseWriter, r *http.Request) {
	resourceID := r.PathValue("resourceId")
	res, svcErr := h.resourceService.GetResource(resourceID)
	if svcErr != nil {
		writeResourceError(w, svcErr)
		return
	}
	writeResourceJSON(w, http.StatusOK, res)
}

// HandleResourceListRequest returns all catalog entries.
func (h *ResourceHandler) HandleResourceListRequest(w http.ResponseWriter, r *http.Request) {
	resources, svcErr := h.resourceService.ListResources()
	if svcErr != nil {
		writeResourceError(w, svcErr)
		return
	}
	writeResourceJSON(w, http.StatusOK, resources)
}

// HandleResourceDeleteRequest removes a catalog entry.
func (h *ResourceHandler) HandleResourceDeleteRequest(w http.ResponseWriter, r *http.Request) {
	resourceID := r.PathValue("resourceId")
	if svcErr := h.resourceService.DeleteResource(resourceID); svcErr != nil {
		writeResourceError(w, svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDiscoverRequest searches the catalog. The agent_id parameter scopes
// restricted entries to what the calling agent may see.
func (h *ResourceHandler) HandleDiscoverRequest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	agentID := r.URL.Query().Get("agent_id")

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			writeResourceError(w, &ErrorInvalidResource)
			return
		}
		limit = parsed
	}

	results, svcErr := h.resourceService.Discover(query, agentID, limit)
	if svcErr != nil {
		writeResourceError(w, svcErr)
		return
	}
	if results == nil {
		results = []DiscoveryResult{}
	}
	response := discoveryResponse{Results: results}
	if len(results) > 0 {
		response.RecommendedID = results[0].ResourceID
	}
	writeResourceJSON(w, http.StatusOK, response)
}

// discoveryResponse wraps ranked discovery matches with the top pick.
type discoveryResponse struct {
	Results       []DiscoveryResult `json:"results"`
	RecommendedID string            `json:"recommended_id,omitempty"`
}

// HandleContentPutRequest stores the raw payload of a catalog entry. The request
// body is the payload itself and the Content-Type header is preserved for later
// fetches.
func (h *ResourceHandler) HandleContentPutRequest(w http.ResponseWriter, r *http.Request) {
	resourceID := r.PathValue("resourceId")
	if _, svcErr := h.resourceService.GetResource(resourceID); svcErr != nil {
		writeResourceError(w, svcErr)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxContentUploadBytes))
	if err != nil {
		writeResourceError(w, &content.ErrorInternalServerError)
		return
	}

	contentType := r.Header.Get(serverconst.ContentTypeHeaderName)
	if svcErr := h.contentService.PutContent(resourceID, data, contentType); svcErr != nil {
		writeResourceError(w, svcErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeResourceJSON(w http.ResponseWriter, status int, payload interface{}) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ResourceHandler"))

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", log.Error(err))
	}
}

func writeResourceError(w http.ResponseWriter, svcErr *serviceerror.ServiceError) {
	status := http.StatusBadRequest
	switch {
	case svcErr.Type == serviceerror.ServerErrorType:
		status = http.StatusInternalServerError
	case svcErr.Error == "not_found":
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
