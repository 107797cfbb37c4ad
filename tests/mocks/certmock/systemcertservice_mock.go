/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
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

// Package certmock provides mock implementations of certificate service interfaces for testing.
package certmock

import (
	"crypto/tls"
	"testing"

	"github.com/asgardeo/gate/internal/system/config"
)

// SystemCertificateServiceInterfaceMock is a mock implementation of the
// SystemCertificateServiceInterface.
type SystemCertificateServiceInterfaceMock struct {
	t *testing.T

	// MockGetTLSConfig defines the behavior for the GetTLSConfig method.
	MockGetTLSConfig func(cfg *config.Config, currentDirectory string) (*tls.Config, error)

	// MockGetCertificateKid defines the behavior for the GetCertificateKid method.
	MockGetCertificateKid func() (string, error)

	// GetTLSConfigCalls tracks the calls to GetTLSConfig.
	GetTLSConfigCalls int

	// GetCertificateKidCalls tracks the calls to GetCertificateKid.
	GetCertificateKidCalls int
}

// NewSystemCertificateServiceInterfaceMock creates a new mock instance.
func NewSystemCertificateServiceInterfaceMock(t *testing.T) *SystemCertificateServiceInterfaceMock {
	return &SystemCertificateServiceInterfaceMock{t: t}
}

// GetTLSConfig mocks the GetTLSConfig method.
func (m *SystemCertificateServiceInterfaceMock) GetTLSConfig(cfg *config.Config,
	currentDirectory string) (*tls.Config, error) {
	m.GetTLSConfigCalls++
	if m.MockGetTLSConfig != nil {
		return m.MockGetTLSConfig(cfg, currentDirectory)
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}, nil
}

// GetCertificateKid mocks the GetCertificateKid method.
func (m *SystemCertificateServiceInterfaceMock) GetCertificateKid() (string, error) {
	m.GetCertificateKidCalls++
	if m.MockGetCertificateKid != nil {
		return m.MockGetCertificateKid()
	}
	return "test-kid", nil
}
