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

package user

import (
	"errors"
	"strings"
	"time"

	"github.com/asgardeo/gate/internal/system/cache"
	"github.com/asgardeo/gate/internal/system/error/serviceerror"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

const loggerComponentName = "UserService"

// User management service errors.
var (
	// ErrorInvalidUsername is returned when the username is empty or malformed.
	ErrorInvalidUsername = serviceerror.ServiceError{
		Code:             "USR-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Username is required",
	}
	// ErrorUsernameTaken is returned when the requested username already exists.
	ErrorUsernameTaken = serviceerror.ServiceError{
		Code:             "USR-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "invalid_request",
		ErrorDescription: "Username is already taken",
	}
	// ErrorUserNotFound is returned when no user exists for the given id.
	ErrorUserNotFound = serviceerror.ServiceError{
		Code:             "USR-1003",
		Type:             serviceerror.ClientErrorType,
		Error:            "not_found",
		ErrorDescription: "User not found",
	}
	// ErrorInternalServerError is returned on unexpected persistence failures.
	ErrorInternalServerError = serviceerror.ServiceError{
		Code:             "USR-1500",
		Type:             serviceerror.ServerErrorType,
		Error:            "server_error",
		ErrorDescription: "An unexpected error occurred",
	}
)

// UserServiceInterface defines the operations for user management.
type UserServiceInterface interface {
	CreateUser(request *CreateUserRequest) (*User, *serviceerror.ServiceError)
	GetUser(userID string) (*User, *serviceerror.ServiceError)
	GetUserByUsername(username string) (*User, *serviceerror.ServiceError)
	ListUsers() ([]User, *serviceerror.ServiceError)
	DeleteUser(userID string) *serviceerror.ServiceError
}

// UserService is the default implementation of UserServiceInterface.
type UserService struct {
	store     userStoreInterface
	userCache cache.CacheInterface[User]
}

// NewUserService creates a new user service instance.
func NewUserService() UserServiceInterface {
	return &UserService{
		store:     newUserStore(),
		userCache: cache.NewCache[User]("UserCache"),
	}
}

// CreateUser creates a new user with the given username.
func (us *UserService) CreateUser(request *CreateUserRequest) (*User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	username := strings.TrimSpace(request.Username)
	if username == "" {
		return nil, &ErrorInvalidUsername
	}

	if _, err := us.store.getUserByUsername(username); err == nil {
		return nil, &ErrorUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		logger.Error("Failed to check username availability", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	newUser := User{
		UserID:    utils.GenerateUUID(),
		Username:  username,
		Email:     strings.TrimSpace(request.Email),
		CreatedAt: time.Now().Unix(),
	}
	if err := us.store.createUser(newUser); err != nil {
		logger.Error("Failed to create user", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	logger.Debug("User created", log.String("userID", newUser.UserID))
	return &newUser, nil
}

// GetUser retrieves a user by id.
func (us *UserService) GetUser(userID string) (*User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if userID == "" {
		return nil, &ErrorUserNotFound
	}

	cacheKey := cache.CacheKey{Key: userID}
	if cached, ok := us.userCache.Get(cacheKey); ok {
		return &cached, nil
	}

	retrieved, err := us.store.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, &ErrorUserNotFound
		}
		logger.Error("Failed to retrieve user", log.Error(err))
		return nil, &ErrorInternalServerError
	}

	us.userCache.Set(cacheKey, *retrieved)
	return retrieved, nil
}

// GetUserByUsername retrieves a user by username.
func (us *UserService) GetUserByUsername(username string) (*User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	retrieved, err := us.store.getUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, &ErrorUserNotFound
		}
		logger.Error("Failed to retrieve user", log.Error(err))
		return nil, &ErrorInternalServerError
	}
	return retrieved, nil
}

// ListUsers lists all users.
func (us *UserService) ListUsers() ([]User, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	users, err := us.store.listUsers()
	if err != nil {
		logger.Error("Failed to list users", log.Error(err))
		return nil, &ErrorInternalServerError
	}
	return users, nil
}

// DeleteUser deletes a user by id.
func (us *UserService) DeleteUser(userID string) *serviceerror.ServiceError {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if err := us.store.deleteUser(userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return &ErrorUserNotFound
		}
		logger.Error("Failed to delete user", log.Error(err))
		return &ErrorInternalServerError
	}

	us.userCache.Delete(cache.CacheKey{Key: userID})
	return nil
}
