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

package content

import (
	"errors"
	"time"

	"github.com/asgardeo/gate/internal/system/crypto"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
)

const loggerComponentName = "ContentService"

// Content service errors.
var (
	// ErrorContentNotFound is returned when a resource has no stored payload.
	ErrorContentNotFound = serviceerror.ServiceError{
		Code:             "CNT-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "not_found",
		ErrorDescription: "No content is stored for this resource",
	}
	// ErrorEmptyPayload is returned when storing an empty payload.
	ErrorEmptyPayload = serviceerror.ServiceError{
		Code:             "CNT-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Content payload must not be empty",
	}
	// ErrorInternalServerError is returned on unexpected failures.
	ErrorInternalServerError = serviceerror.ServiceError{
		Code:             "CNT-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "An unexpected error occurred",
	}
)

// Content is a decrypted payload ready to serve.
type Content struct {
	ResourceID  string `json:"resource_id"`
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// cryptoInterface is the slice of the crypto service the content store uses.
type cryptoInterface interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(encodedData string) ([]byte, error)
}

// ContentServiceInterface defines the encrypted payload operations. FetchContent
// returns plaintext; callers gate it behind settlement.
type ContentServiceInterface interface {
	PutContent(resourceID string, data []byte, contentType string) *serviceerror.ServiceError
	FetchContent(resourceID string) (*Content, *serviceerror.ServiceError)
}

// ContentService is the default implementation of ContentServiceInterface.
type ContentService struct {
	store         contentStoreInterface
	cryptoService cryptoInterface
}

// NewContentService creates a new content service instance.
func NewContentService() ContentServiceInterface {
	return &ContentService{
		store:         newContentStore(),
		cryptoService: crypto.GetCryptoService(),
	}
}

// PutContent encrypts and stores a resource's payload, replacing any previous one.
func (cs *ContentService) PutContent(resourceID string, data []byte,
	contentType string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if len(data) == 0 {
		return &ErrorEmptyPayload
	}

	ciphertext, err := cs.cryptoService.Encrypt(data)
	if err != nil {
		logger.Error("Failed to encrypt content", log.Error(err))
		return &ErrorInternalServerError
	}

	record := contentRecord{
		ResourceID:  resourceID,
		Ciphertext:  ciphertext,
		ContentType: contentType,
		UpdatedAt:   time.Now().Unix(),
	}
	if err := cs.store.updateContent(record); err != nil {
		if !errors.Is(err, ErrContentNotFound) {
			logger.Error("Failed to update content", log.Error(err))
			return &ErrorInternalServerError
		}
		if err := cs.store.insertContent(record); err != nil {
			logger.Error("Failed to insert content", log.Error(err))
			return &ErrorInternalServerError
		}
	}
	return nil
}

// FetchContent retrieves and decrypts a resource's payload.
func (cs *ContentService) FetchContent(resourceID string) (*Content, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	record, err := cs.store.getContent(resourceID)
	if err != nil {
		if errors.Is(err, ErrContentNotFound) {
			return nil, &ErrorContentNotFound
		}
		logger.Error("Failed to retrieve content", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	data, err := cs.cryptoService.Decrypt(record.Ciphertext)
	if err != nil {
		logger.Error("Failed to decrypt content", log.Error(err),
			log.String(log.LoggerKeyResourceID, resourceID))
		return nil, &ErrorInternalServerError
	}

	return &Content{
		ResourceID:  record.ResourceID,
		Data:        data,
		ContentType: record.ContentType,
		Size:        int64(len(data)),
	}, nil
}
