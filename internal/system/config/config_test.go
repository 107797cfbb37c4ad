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

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const testResourceDir = "../../../tests/resources"

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) getFilePath(filename string) string {
	return filepath.Join(testResourceDir, filename)
}

func (suite *ConfigTestSuite) TestLoadConfigValid() {
	configPath := suite.getFilePath("deployment.yaml")
	config, err := LoadConfig(configPath)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), config)

	// Verify server config
	assert.Equal(suite.T(), "localhost", config.Server.Hostname)
	assert.Equal(suite.T(), 8080, config.Server.Port)

	// Verify security config
	assert.Equal(suite.T(), "/path/to/cert.pem", config.Security.CertFile)
	assert.Equal(suite.T(), "/path/to/key.pem", config.Security.KeyFile)

	// Verify database config
	assert.Equal(suite.T(), "postgres", config.Database.Identity.Type)
	assert.Equal(suite.T(), "postgres", config.Database.Identity.Username)
	assert.Equal(suite.T(), "sqlite", config.Database.Runtime.Type)
	assert.Equal(suite.T(), "/data/runtime.db", config.Database.Runtime.Path)

	// Verify OAuth config
	assert.Equal(suite.T(), "gate", config.OAuth.JWT.Issuer)
	assert.Equal(suite.T(), int64(3600), config.OAuth.JWT.ValidityPeriod)
	assert.Equal(suite.T(), "https://gate.local/api", config.OAuth.ProtectedResource)
	assert.Equal(suite.T(), int64(86400), config.OAuth.RefreshToken.ValidityPeriod)
	assert.Equal(suite.T(), int64(600), config.OAuth.AuthCode.ValidityPeriod)

	// Verify settlement config
	assert.Equal(suite.T(), int64(300), config.Settlement.PlatformFeeBps)
	assert.Equal(suite.T(), "platform-user", config.Settlement.PlatformFeeUserID)
	assert.Equal(suite.T(), int64(900), config.Settlement.HoldTTL)
	assert.Equal(suite.T(), int64(60), config.Settlement.SweepInterval)
	assert.Equal(suite.T(), "USD", config.Settlement.Currency)

	// Verify wallet config
	assert.Equal(suite.T(), 5, config.Wallet.PinMaxAttempts)
	assert.Equal(suite.T(), int64(900), config.Wallet.PinLockout)
}

func (suite *ConfigTestSuite) TestLoadConfigFileNotFound() {
	configPath := suite.getFilePath("non_existent_config.yaml")
	config, err := LoadConfig(configPath)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "no such file or directory")
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidYAML() {
	configPath := suite.getFilePath("invalid_deployment.yaml")

	config, err := LoadConfig(configPath)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
}
