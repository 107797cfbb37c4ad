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
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/asgardeo/gate/internal/system/cache"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

const loggerComponentName = "ResourceService"

const defaultDiscoverLimit = 10

// Relevance weights for discovery ranking. A term hit in the title outweighs one in
// the description.
const (
	titleMatchWeight       = 3
	descriptionMatchWeight = 1
)

// Resource catalog service errors.
var (
	// ErrorInvalidResource is returned when a catalog entry request is malformed.
	ErrorInvalidResource = serviceerror.ServiceError{
		Code:             "RES-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Catalog entry is malformed",
	}
	// ErrorResourceNotFound is returned when no catalog entry exists for the given id.
	ErrorResourceNotFound = serviceerror.ServiceError{
		Code:             "RES-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "not_found",
		ErrorDescription: "Resource not found",
	}
	// ErrorInternalServerError is returned on unexpected persistence failures.
	ErrorInternalServerError = serviceerror.ServiceError{
		Code:             "RES-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "An unexpected error occurred",
	}
)

// ResourceServiceInterface defines the catalog operations.
type ResourceServiceInterface interface {
	CreateResource(request *CreateResourceRequest) (*Resource, *serviceerror.ServiceError)
	GetResource(resourceID string) (*Resource, *serviceerror.ServiceError)
	ListResources() ([]Resource, *serviceerror.ServiceError)
	DeleteResource(resourceID string) *serviceerror.ServiceError
	Discover(query, agentID string, limit int) ([]DiscoveryResult, *serviceerror.ServiceError)
}

// ResourceService is the default implementation of ResourceServiceInterface.
type ResourceService struct {
	store         resourceStoreInterface
	resourceCache cache.CacheInterface[Resource]
}

// NewResourceService creates a new resource service instance.
func NewResourceService() ResourceServiceInterface {
	return &ResourceService{
		store:         newResourceStore(),
		resourceCache: cache.NewCache[Resource]("CatalogResourceCache"),
	}
}

// CreateResource creates a catalog entry.
func (rs *ResourceService) CreateResource(
	request *CreateResourceRequest) (*Resource, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if strings.TrimSpace(request.Title) == "" || request.ProviderUserID == "" ||
		len(request.Modes) == 0 || request.Price < 0 || request.UnitPricePerKB < 0 ||
		request.EstimatedSize < 0 {
		return nil, &ErrorInvalidResource
	}
	for _, mode := range request.Modes {
		if mode != ModeRaw && mode != ModeSummary {
			return nil, &ErrorInvalidResource
		}
	}

	visibility := request.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if visibility != VisibilityPublic && visibility != VisibilityRestricted {
		return nil, &ErrorInvalidResource
	}

	res := Resource{
		ResourceID:     utils.GenerateUUID(),
		ProviderUserID: request.ProviderUserID,
		Title:          strings.TrimSpace(request.Title),
		Description:    strings.TrimSpace(request.Description),
		Modes:          request.Modes,
		Summary:        request.Summary,
		Price:          request.Price,
		UnitPricePerKB: request.UnitPricePerKB,
		EstimatedSize:  request.EstimatedSize,
		Visibility:     visibility,
		AllowedAgents:  request.AllowedAgents,
		PayoutAddress:  request.PayoutAddress,
		CreatedAt:      time.Now().Unix(),
	}
	if err := rs.store.createResource(res); err != nil {
		logger.Error("Failed to create resource", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	logger.Debug("Resource created", log.String(log.LoggerKeyResourceID, res.ResourceID))
	return &res, nil
}

// GetResource retrieves a catalog entry by id.
func (rs *ResourceService) GetResource(resourceID string) (*Resource, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if resourceID == "" {
		return nil, &ErrorResourceNotFound
	}

	cacheKey := cache.CacheKey{Key: resourceID}
	if cached, ok := rs.resourceCache.Get(cacheKey); ok {
		return &cached, nil
	}

	retrieved, err := rs.store.getResourceByID(resourceID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, &ErrorResourceNotFound
		}
		logger.Error("Failed to retrieve resource", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	rs.resourceCache.Set(cacheKey, *retrieved)
	return retrieved, nil
}

// ListResources lists all catalog entries.
func (rs *ResourceService) ListResources() ([]Resource, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	resources, err := rs.store.listResources()
	if err != nil {
		logger.Error("Failed to list resources", log.Error(err))
		return nil, &ErrorInternalServerError
	}
	return resources, nil
}

// DeleteResource deletes a catalog entry.
func (rs *ResourceService) DeleteResource(resourceID string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := rs.store.deleteResource(resourceID); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return &ErrorResourceNotFound
		}
		logger.Error("Failed to delete resource", log.Error(err))
		return &ErrorInternalServerError
	}

	rs.resourceCache.Delete(cache.CacheKey{Key: resourceID})
	return nil
}

// Discover ranks visible catalog entries against a free-text query. Restricted
// entries only surface for agents on their allow-list. Each query term scores hits
// in the title above hits in the description; entries with no hit are dropped, and
// ties break on the price estimate so cheaper content surfaces first.
func (rs *ResourceService) Discover(query, agentID string,
	limit int) ([]DiscoveryResult, *serviceerror.ServiceError) {
	resources, svcErr := rs.ListResources()
	if svcErr != nil {
		return nil, svcErr
	}

	if limit <= 0 {
		limit = defaultDiscoverLimit
	}
	terms := strings.Fields(strings.ToLower(query))

	matches := []DiscoveryResult{}
	for _, res := range resources {
		if !res.AllowsAgent(agentID) {
			continue
		}

		relevance := 0
		title := strings.ToLower(res.Title)
		description := strings.ToLower(res.Description)
		for _, term := range terms {
			if strings.Contains(title, term) {
				relevance += titleMatchWeight
			}
			if strings.Contains(description, term) {
				relevance += descriptionMatchWeight
			}
		}
		// An empty query lists everything the agent may see.
		if relevance == 0 && len(terms) > 0 {
			continue
		}

		matches = append(matches, DiscoveryResult{
			ResourceID:    res.ResourceID,
			Title:         res.Title,
			Description:   res.Description,
			Modes:         res.Modes,
			PriceEstimate: res.EstimatedPrice(),
			Relevance:     relevance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Relevance != matches[j].Relevance {
			return matches[i].Relevance > matches[j].Relevance
		}
		return matches[i].PriceEstimate < matches[j].PriceEstimate
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
