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

package settlement

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/asgardeo/gate/internal/system/jwt"
)

// canonicalReceiptPayload returns the byte string a receipt signature covers: the
// JSON encoding of the receipt with the signature field cleared. json.Marshal emits
// struct fields in declaration order, so the encoding is stable.
func canonicalReceiptPayload(receipt Receipt) ([]byte, error) {
	receipt.Signature = ""
	payload, err := json.Marshal(receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal receipt: %w", err)
	}
	return payload, nil
}

// signReceipt signs the receipt in place with the server's signing key.
func signReceipt(jwtService jwt.JWTServiceInterface, receipt *Receipt) error {
	payload, err := canonicalReceiptPayload(*receipt)
	if err != nil {
		return err
	}

	signature, err := jwtService.SignPayload(payload)
	if err != nil {
		return fmt.Errorf("failed to sign receipt: %w", err)
	}
	receipt.Signature = signature
	return nil
}

// VerifyReceiptSignature verifies a receipt signature against the server's public
// key. Holders of a receipt can prove a fetch was settled without trusting storage.
func VerifyReceiptSignature(receipt Receipt, publicKey *rsa.PublicKey) error {
	payload, err := canonicalReceiptPayload(receipt)
	if err != nil {
		return err
	}

	signature, err := base64.RawURLEncoding.DecodeString(receipt.Signature)
	if err != nil {
		return fmt.Errorf("failed to decode receipt signature: %w", err)
	}

	hashed := sha256.Sum256(payload)
	if err := rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, hashed[:], signature); err != nil {
		return fmt.Errorf("receipt signature verification failed: %w", err)
	}
	return nil
}
