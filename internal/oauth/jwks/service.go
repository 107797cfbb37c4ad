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

// Package jwks provides the JSON Web Key Set of the deployment's signing key.
package jwks

import (
	"crypto/rsa"
	"encoding/base64"

	"github.com/asgardeo/gate/internal/cert"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/jwt"
)

// JWKS service errors.
var (
	// ErrorNoSigningKey is returned when no signing key has been loaded.
	ErrorNoSigningKey = serviceerror.ServiceError{
		Code:             "JWKS-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "Signing key is not available",
	}
	// ErrorKidUnavailable is returned when the certificate kid cannot be computed.
	ErrorKidUnavailable = serviceerror.ServiceError{
		Code:             "JWKS-1501",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "Failed to compute the key identifier",
	}
)

// JWK represents a single JSON Web Key.
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSResponse represents the JSON Web Key Set response.
type JWKSResponse struct {
	Keys []JWK `json:"keys"`
}

// JWKSServiceInterface defines the JWKS retrieval operation.
type JWKSServiceInterface interface {
	GetJWKS() (*JWKSResponse, *serviceerror.ServiceError)
}

// JWKSService is the default implementation of JWKSServiceInterface.
type JWKSService struct {
	jwtService        jwt.JWTServiceInterface
	systemCertService cert.SystemCertificateServiceInterface
}

// NewJWKSService creates a new JWKS service instance.
func NewJWKSService() JWKSServiceInterface {
	return &JWKSService{
		jwtService:        jwt.GetJWTService(),
		systemCertService: cert.NewSystemCertificateService(),
	}
}

// GetJWKS returns the key set containing the deployment's RS256 signing key.
func (s *JWKSService) GetJWKS() (*JWKSResponse, *serviceerror.ServiceError) {
	publicKey := s.jwtService.GetPublicKey()
	if publicKey == nil {
		return nil, &ErrorNoSigningKey
	}

	kid, err := s.systemCertService.GetCertificateKid()
	if err != nil {
		svcErr := ErrorKidUnavailable
		svcErr.ErrorDescription = err.Error()
		return nil, &svcErr
	}

	return &JWKSResponse{
		Keys: []JWK{buildRSAKey(publicKey, kid)},
	}, nil
}

func buildRSAKey(publicKey *rsa.PublicKey, kid string) JWK {
	// Encode the exponent as a big-endian byte slice trimmed of leading zeros.
	eBytes := make([]byte, 0, 8)
	e := publicKey.E
	for e > 0 {
		eBytes = append([]byte{byte(e & 0xff)}, eBytes...)
		e >>= 8
	}
	if len(eBytes) == 0 {
		eBytes = []byte{0}
	}

	return JWK{
		Kid: kid,
		Kty: "RSA",
		Use: "sig",
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(eBytes),
	}
}
