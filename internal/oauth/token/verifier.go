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
	"errors"
	"strings"
	"time"

	"github.com/asgardeo/gate/internal/oauth/constants"
	"github.com/asgardeo/gate/internal/system/config"
	jwtutils "github.com/asgardeo/gate/internal/system/crypto/jwt/utils"
	"github.com/asgardeo/gate/internal/system/jwt"
)

// ErrInvalidToken is the single opaque verification error. Callers must not learn
// whether a token was malformed, expired, or mis-scoped.
var ErrInvalidToken = errors.New(constants.ErrorInvalidToken)

// AccessTokenClaims carries the verified claims of an access token.
type AccessTokenClaims struct {
	Subject  string
	Audience string
	ClientID string
	AgentID  string
	Scopes   []string
	TokenID  string
}

// VerifierInterface defines access token verification.
type VerifierInterface interface {
	VerifyAccessToken(tokenValue string) (*AccessTokenClaims, error)
}

// Verifier is the default implementation of VerifierInterface.
type Verifier struct {
	jwtService jwt.JWTServiceInterface
}

// NewVerifier creates a new access token verifier.
func NewVerifier() VerifierInterface {
	return &Verifier{
		jwtService: jwt.GetJWTService(),
	}
}

// VerifyAccessToken verifies the signature and claims of an access token. Validity
// requires the signature, issuer match, audience equal to the configured protected
// resource, unexpired lifetime, and non-empty scope and client_id claims.
func (v *Verifier) VerifyAccessToken(tokenValue string) (*AccessTokenClaims, error) {
	if tokenValue == "" {
		return nil, ErrInvalidToken
	}

	publicKey := v.jwtService.GetPublicKey()
	if publicKey == nil {
		return nil, ErrInvalidToken
	}
	if err := v.jwtService.VerifyJWTSignature(tokenValue, publicKey); err != nil {
		return nil, ErrInvalidToken
	}

	claims, err := jwtutils.ParseJWTClaims(tokenValue)
	if err != nil {
		return nil, ErrInvalidToken
	}

	oauthConfig := config.GetGateRuntime().Config.OAuth

	if issuer, _ := claims["iss"].(string); issuer != oauthConfig.JWT.Issuer {
		return nil, ErrInvalidToken
	}

	audience, _ := claims["aud"].(string)
	if audience == "" || audience != oauthConfig.ProtectedResource {
		return nil, ErrInvalidToken
	}

	if exp, ok := claims["exp"].(float64); !ok || time.Now().Unix() >= int64(exp) {
		return nil, ErrInvalidToken
	}
	if nbf, ok := claims["nbf"].(float64); ok && time.Now().Unix() < int64(nbf) {
		return nil, ErrInvalidToken
	}

	scope, _ := claims[constants.ClaimScope].(string)
	scopes := strings.Fields(scope)
	if len(scopes) == 0 {
		return nil, ErrInvalidToken
	}

	clientID, _ := claims[constants.ClaimClientID].(string)
	if clientID == "" {
		return nil, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	agentID, _ := claims[constants.ClaimAgentID].(string)
	tokenID, _ := claims["jti"].(string)

	return &AccessTokenClaims{
		Subject:  subject,
		Audience: audience,
		ClientID: clientID,
		AgentID:  agentID,
		Scopes:   scopes,
		TokenID:  tokenID,
	}, nil
}
