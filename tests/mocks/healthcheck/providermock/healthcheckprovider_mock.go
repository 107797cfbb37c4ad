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

// Package providermock provides a mock implementation of the health check provider for testing.
package providermock

import (
	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/gate/internal/system/healthcheck/service"
)

// HealthCheckProviderInterfaceMock is a mock implementation of the HealthCheckProviderInterface.
type HealthCheckProviderInterfaceMock struct {
	mock.Mock
}

// GetHealthCheckService mocks the GetHealthCheckService method.
func (m *HealthCheckProviderInterfaceMock) GetHealthCheckService() service.HealthCheckServiceInterface {
	args := m.Called()
	if svc, ok := args.Get(0).(service.HealthCheckServiceInterface); ok {
		return svc
	}
	return nil
}
