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
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/system/cache"
	"github.com/asgardeo/gate/internal/system/config"
)

type mockResourceStore struct {
	resources map[string]Resource
}

func newMockResourceStore() *mockResourceStore {
	return &mockResourceStore{resources: make(map[string]Resource)}
}

func (m *mockResourceStore) createResource(res Resource) error {
	m.resources[res.ResourceID] = res
	return nil
}

func (m *mockResourceStore) getResourceByID(resourceID string) (*Resource, error) {
	if res, ok := m.resources[resourceID]; ok {
		return &res, nil
	}
	return nil, ErrResourceNotFound
}

func (m *mockResourceStore) listResources() ([]Resource, error) {
	resources := make([]Resource, 0, len(m.resources))
	for _, res := range m.resources {
		resources = append(resources, res)
	}
	return resources, nil
}

func (m *mockResourceStore) deleteResource(resourceID string) error {
	if _, ok := m.resources[resourceID]; !ok {
		return ErrResourceNotFound
	}
	delete(m.resources, resourceID)
	return nil
}

type ResourceServiceTestSuite struct {
	suite.Suite
	store   *mockResourceStore
	service *ResourceService
}

func TestResourceServiceSuite(t *testing.T) {
	suite.Run(t, new(ResourceServiceTestSuite))
}

func (s *ResourceServiceTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{})
	s.Require().NoError(err)

	s.store = newMockResourceStore()
	s.service = &ResourceService{
		store:         s.store,
		resourceCache: cache.NewCache[Resource]("CatalogResourceCache"),
	}
}

func (s *ResourceServiceTestSuite) createResource(request CreateResourceRequest) *Resource {
	if request.ProviderUserID == "" {
		request.ProviderUserID = "provider-1"
	}
	if len(request.Modes) == 0 {
		request.Modes = []string{ModeRaw}
	}
	if request.PayoutAddress == "" {
		request.PayoutAddress = "acct:provider-1"
	}
	res, svcErr := s.service.CreateResource(&request)
	s.Require().Nil(svcErr)
	return res
}

func (s *ResourceServiceTestSuite) TestCreateAndGetResource() {
	created := s.createResource(CreateResourceRequest{
		Title:       "Market Brief",
		Description: "Daily markets digest",
		Modes:       []string{ModeRaw, ModeSummary},
		Summary:     "Markets were mixed.",
		Price:       150,
	})

	retrieved, svcErr := s.service.GetResource(created.ResourceID)
	s.Require().Nil(svcErr)
	s.Equal("Market Brief", retrieved.Title)
	s.Equal(VisibilityPublic, retrieved.Visibility)
	s.Equal(int64(150), retrieved.Price)
	s.True(retrieved.AllowsMode(ModeSummary))
}

func (s *ResourceServiceTestSuite) TestCreateResourceValidation() {
	cases := []CreateResourceRequest{
		{ProviderUserID: "p", Modes: []string{ModeRaw}, Price: 10},
		{Title: "t", Modes: []string{ModeRaw}, Price: 10},
		{Title: "t", ProviderUserID: "p", Price: 10},
		{Title: "t", ProviderUserID: "p", Modes: []string{"stream"}, Price: 10},
		{Title: "t", ProviderUserID: "p", Modes: []string{ModeRaw}, Price: -1},
		{Title: "t", ProviderUserID: "p", Modes: []string{ModeRaw}, UnitPricePerKB: -1},
		{Title: "t", ProviderUserID: "p", Modes: []string{ModeRaw}, Visibility: "HIDDEN"},
	}
	for _, request := range cases {
		_, svcErr := s.service.CreateResource(&request)
		s.Require().NotNil(svcErr)
		s.Equal(ErrorInvalidResource.Code, svcErr.Code)
	}
}

func (s *ResourceServiceTestSuite) TestGetResourceNotFound() {
	_, svcErr := s.service.GetResource("missing")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorResourceNotFound.Code, svcErr.Code)
}

func (s *ResourceServiceTestSuite) TestPriceForFlatAndMetered() {
	flat := s.createResource(CreateResourceRequest{Title: "Flat", Price: 100})
	s.Equal(int64(100), flat.PriceFor(999999))
	s.Equal("flat", flat.PricingBasis())

	metered := s.createResource(CreateResourceRequest{
		Title:          "Metered",
		UnitPricePerKB: 1,
		EstimatedSize:  102400,
	})
	s.Equal(int64(100), metered.EstimatedPrice())
	s.Equal(int64(80), metered.PriceFor(81920))
	// Partial kilobytes round up to a whole cent.
	s.Equal(int64(2), metered.PriceFor(1025))
	s.Equal("per_kb", metered.PricingBasis())

	free := s.createResource(CreateResourceRequest{Title: "Free"})
	s.Equal(int64(0), free.EstimatedPrice())
	s.Equal("free", free.PricingBasis())
}

func (s *ResourceServiceTestSuite) TestDiscoverRanksTitleAboveDescription() {
	s.createResource(CreateResourceRequest{Title: "Go tutorial", Description: "an introduction", Price: 100})
	s.createResource(CreateResourceRequest{Title: "Rust tutorial", Description: "covers go interop", Price: 100})
	s.createResource(CreateResourceRequest{Title: "Cooking basics", Description: "kitchen skills", Price: 100})

	results, svcErr := s.service.Discover("go", "agent-1", 10)
	s.Require().Nil(svcErr)
	s.Require().Len(results, 2)
	s.Equal("Go tutorial", results[0].Title)
	s.Equal("Rust tutorial", results[1].Title)
	s.Greater(results[0].Relevance, results[1].Relevance)
}

func (s *ResourceServiceTestSuite) TestDiscoverTiesBreakOnPrice() {
	s.createResource(CreateResourceRequest{Title: "Jazz history", Description: "music", Price: 300})
	s.createResource(CreateResourceRequest{Title: "Jazz theory", Description: "music", Price: 100})

	results, svcErr := s.service.Discover("jazz", "agent-1", 10)
	s.Require().Nil(svcErr)
	s.Require().Len(results, 2)
	s.Equal("Jazz theory", results[0].Title)
	s.Equal(int64(100), results[0].PriceEstimate)
}

func (s *ResourceServiceTestSuite) TestDiscoverRestrictedVisibility() {
	s.createResource(CreateResourceRequest{
		Title:         "Secret report",
		Description:   "internal",
		Price:         100,
		Visibility:    VisibilityRestricted,
		AllowedAgents: []string{"agent-1"},
	})

	results, svcErr := s.service.Discover("secret", "agent-2", 10)
	s.Require().Nil(svcErr)
	s.Empty(results)

	results, svcErr = s.service.Discover("secret", "agent-1", 10)
	s.Require().Nil(svcErr)
	s.Len(results, 1)
}

func (s *ResourceServiceTestSuite) TestDiscoverEmptyQueryListsVisible() {
	s.createResource(CreateResourceRequest{Title: "Weather feed", Description: "hourly", Price: 100})
	s.createResource(CreateResourceRequest{
		Title:         "Secret report",
		Description:   "internal",
		Price:         100,
		Visibility:    VisibilityRestricted,
		AllowedAgents: []string{"agent-1"},
	})

	results, svcErr := s.service.Discover("", "agent-2", 10)
	s.Require().Nil(svcErr)
	s.Len(results, 1)
	s.Equal("Weather feed", results[0].Title)
}

func (s *ResourceServiceTestSuite) TestDiscoverAppliesLimit() {
	s.createResource(CreateResourceRequest{Title: "News one", Description: "daily news", Price: 100})
	s.createResource(CreateResourceRequest{Title: "News two", Description: "daily news", Price: 100})
	s.createResource(CreateResourceRequest{Title: "News three", Description: "daily news", Price: 100})

	results, svcErr := s.service.Discover("news", "agent-1", 2)
	s.Require().Nil(svcErr)
	s.Len(results, 2)
}

func (s *ResourceServiceTestSuite) TestDeleteResource() {
	created := s.createResource(CreateResourceRequest{Title: "Market Brief", Price: 150})

	s.Require().Nil(s.service.DeleteResource(created.ResourceID))

	svcErr := s.service.DeleteResource(created.ResourceID)
	s.Require().NotNil(svcErr)
	s.Equal(ErrorResourceNotFound.Code, svcErr.Code)
}
