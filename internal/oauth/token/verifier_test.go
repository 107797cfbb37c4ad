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

package token

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/system/config"
	jwtutils "github.com/asgardeo/gate/internal/system/crypto/jwt/utils"
)

const (
	testIssuer   = "gate"
	testResource = "https://gate.example.com/api"
)

// signingJWTService backs the verifier with a test RSA key.
type signingJWTService struct {
	key *rsa.PrivateKey
}

func (s *signingJWTService) Init() error { return nil }

func (s *signingJWTService) GetPublicKey() *rsa.PublicKey { return &s.key.PublicKey }

func (s *signingJWTService) GenerateJWT(sub, aud string, validityPeriod int64,
	claims map[string]string) (string, int64, error) {
	return "", 0, nil
}

func (s *signingJWTService) SignPayload(payload []byte) (string, error) { return "", nil }

func (s *signingJWTService) VerifyJWTSignature(jwtToken string, jwtPublicKey *rsa.PublicKey) error {
	return jwtutils.VerifyJWTSignature(jwtToken, jwtPublicKey)
}

func (s *signingJWTService) VerifyJWTSignatureWithJWKS(jwtToken string, jwksURL string) error {
	return nil
}

type VerifierTestSuite struct {
	suite.Suite
	key      *rsa.PrivateKey
	verifier *Verifier
}

func TestVerifierTestSuite(t *testing.T) {
	suite.Run(t, new(VerifierTestSuite))
}

func (suite *VerifierTestSuite) SetupSuite() {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	suite.Require().NoError(err)
	suite.key = key
}

func (suite *VerifierTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{
		OAuth: config.OAuthConfig{
			ProtectedResource: testResource,
			JWT:               config.JWTConfig{Issuer: testIssuer},
		},
	})
	suite.Require().NoError(err)

	suite.verifier = &Verifier{jwtService: &signingJWTService{key: suite.key}}
}

// signToken builds an RS256 token with the suite key over the given payload.
func (suite *VerifierTestSuite) signToken(payload map[string]interface{}) string {
	header := map[string]string{"alg": "RS256", "typ": "JWT"}
	headerJSON, err := json.Marshal(header)
	suite.Require().NoError(err)
	payloadJSON, err := json.Marshal(payload)
	suite.Require().NoError(err)

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." +
		base64.RawURLEncoding.EncodeToString(payloadJSON)
	hashed := sha256.Sum256([]byte(signingInput))
	signature, err := rsa.SignPKCS1v15(rand.Reader, suite.key, crypto.SHA256, hashed[:])
	suite.Require().NoError(err)

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature)
}

func (suite *VerifierTestSuite) validPayload() map[string]interface{} {
	now := time.Now().Unix()
	return map[string]interface{}{
		"sub":       "user-1",
		"iss":       testIssuer,
		"aud":       testResource,
		"exp":       now + 300,
		"iat":       now,
		"nbf":       now,
		"jti":       "token-1",
		"scope":     "read search",
		"client_id": "client-1",
		"agent_id":  "agent-1",
	}
}

func (suite *VerifierTestSuite) TestVerifyAccessTokenSuccess() {
	claims, err := suite.verifier.VerifyAccessToken(suite.signToken(suite.validPayload()))

	suite.Require().NoError(err)
	suite.Equal("user-1", claims.Subject)
	suite.Equal(testResource, claims.Audience)
	suite.Equal("client-1", claims.ClientID)
	suite.Equal("agent-1", claims.AgentID)
	suite.Equal([]string{"read", "search"}, claims.Scopes)
	suite.Equal("token-1", claims.TokenID)
}

func (suite *VerifierTestSuite) TestVerifyAccessTokenFailures() {
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	suite.Require().NoError(err)

	testCases := []struct {
		name   string
		mutate func(payload map[string]interface{}) string
	}{
		{"Empty", func(payload map[string]interface{}) string { return "" }},
		{"Malformed", func(payload map[string]interface{}) string { return "not.a.jwt" }},
		{"WrongKey", func(payload map[string]interface{}) string {
			original := suite.key
			suite.key = otherKey
			token := suite.signToken(payload)
			suite.key = original
			return token
		}},
		{"WrongIssuer", func(payload map[string]interface{}) string {
			payload["iss"] = "someone-else"
			return suite.signToken(payload)
		}},
		{"WrongAudience", func(payload map[string]interface{}) string {
			payload["aud"] = "https://other.example.com/api"
			return suite.signToken(payload)
		}},
		{"Expired", func(payload map[string]interface{}) string {
			payload["exp"] = time.Now().Unix() - 10
			return suite.signToken(payload)
		}},
		{"NotYetValid", func(payload map[string]interface{}) string {
			payload["nbf"] = time.Now().Unix() + 300
			return suite.signToken(payload)
		}},
		{"EmptyScope", func(payload map[string]interface{}) string {
			payload["scope"] = ""
			return suite.signToken(payload)
		}},
		{"MissingClientID", func(payload map[string]interface{}) string {
			delete(payload, "client_id")
			return suite.signToken(payload)
		}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			token := tc.mutate(suite.validPayload())
			_, err := suite.verifier.VerifyAccessToken(token)

			// Every failure mode surfaces the same opaque error.
			suite.Require().Error(err)
			suite.ErrorIs(err, ErrInvalidToken)
		})
	}
}
