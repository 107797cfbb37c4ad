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

package utils

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type HTTPUtilTestSuite struct {
	suite.Suite
}

func TestHTTPUtilSuite(t *testing.T) {
	suite.Run(t, new(HTTPUtilTestSuite))
}

func (suite *HTTPUtilTestSuite) TestExtractBasicAuthCredentials() {
	testCases := []struct {
		name           string
		authHeader     string
		expectedUser   string
		expectedPass   string
		expectedErrMsg string
	}{
		{
			name:           "ValidBasicAuth",
			authHeader:     "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass")),
			expectedUser:   "user",
			expectedPass:   "pass",
			expectedErrMsg: "",
		},
		{
			name:           "MissingBasicPrefix",
			authHeader:     base64.StdEncoding.EncodeToString([]byte("user:pass")),
			expectedUser:   "",
			expectedPass:   "",
			expectedErrMsg: "invalid authorization header",
		},
		{
			name:           "InvalidBase64",
			authHeader:     "Basic invalid-base64",
			expectedUser:   "",
			expectedPass:   "",
			expectedErrMsg: "failed to decode authorization header",
		},
		{
			name:           "NoColonSeparator",
			authHeader:     "Basic " + base64.StdEncoding.EncodeToString([]byte("userpass")),
			expectedUser:   "",
			expectedPass:   "",
			expectedErrMsg: "invalid authorization header format",
		},
		{
			name:           "EmptyHeader",
			authHeader:     "",
			expectedUser:   "",
			expectedPass:   "",
			expectedErrMsg: "invalid authorization header",
		},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			user, pass, err := ExtractBasicAuthCredentials(req)

			if tc.expectedErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				assert.Empty(t, user)
				assert.Empty(t, pass)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedUser, user)
				assert.Equal(t, tc.expectedPass, pass)
			}
		})
	}
}
