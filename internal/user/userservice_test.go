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
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/system/cache"
	"github.com/asgardeo/gate/internal/system/config"
)

type mockUserStore struct {
	users    map[string]User
	storeErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]User)}
}

func (m *mockUserStore) createUser(user User) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserStore) getUserByID(userID string) (*User, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	if user, ok := m.users[userID]; ok {
		return &user, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockUserStore) getUserByUsername(username string) (*User, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	for _, user := range m.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserStore) listUsers() ([]User, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	users := make([]User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *mockUserStore) deleteUser(userID string) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	if _, ok := m.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, userID)
	return nil
}

type UserServiceTestSuite struct {
	suite.Suite
	store   *mockUserStore
	service *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{})
	s.Require().NoError(err)

	s.store = newMockUserStore()
	s.service = &UserService{
		store:     s.store,
		userCache: cache.NewCache[User]("UserCache"),
	}
}

func (s *UserServiceTestSuite) TestCreateUser() {
	created, svcErr := s.service.CreateUser(&CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	s.Require().Nil(svcErr)
	s.NotEmpty(created.UserID)
	s.Equal("alice", created.Username)
	s.NotZero(created.CreatedAt)

	stored, ok := s.store.users[created.UserID]
	s.True(ok)
	s.Equal("alice@example.com", stored.Email)
}

func (s *UserServiceTestSuite) TestCreateUserEmptyUsername() {
	_, svcErr := s.service.CreateUser(&CreateUserRequest{Username: "   "})
	s.Require().NotNil(svcErr)
	s.Equal(ErrorInvalidUsername.Code, svcErr.Code)
}

func (s *UserServiceTestSuite) TestCreateUserDuplicateUsername() {
	_, svcErr := s.service.CreateUser(&CreateUserRequest{Username: "alice"})
	s.Require().Nil(svcErr)

	_, svcErr = s.service.CreateUser(&CreateUserRequest{Username: "alice"})
	s.Require().NotNil(svcErr)
	s.Equal(ErrorUsernameTaken.Code, svcErr.Code)
}

func (s *UserServiceTestSuite) TestGetUser() {
	created, svcErr := s.service.CreateUser(&CreateUserRequest{Username: "bob"})
	s.Require().Nil(svcErr)

	retrieved, svcErr := s.service.GetUser(created.UserID)
	s.Require().Nil(svcErr)
	s.Equal("bob", retrieved.Username)
}

func (s *UserServiceTestSuite) TestGetUserNotFound() {
	_, svcErr := s.service.GetUser("missing")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorUserNotFound.Code, svcErr.Code)
}

func (s *UserServiceTestSuite) TestGetUserByUsername() {
	_, svcErr := s.service.CreateUser(&CreateUserRequest{Username: "carol"})
	s.Require().Nil(svcErr)

	retrieved, svcErr := s.service.GetUserByUsername("carol")
	s.Require().Nil(svcErr)
	s.Equal("carol", retrieved.Username)
}

func (s *UserServiceTestSuite) TestDeleteUser() {
	created, svcErr := s.service.CreateUser(&CreateUserRequest{Username: "dave"})
	s.Require().Nil(svcErr)

	svcErr = s.service.DeleteUser(created.UserID)
	s.Require().Nil(svcErr)

	svcErr = s.service.DeleteUser(created.UserID)
	s.Require().NotNil(svcErr)
	s.Equal(ErrorUserNotFound.Code, svcErr.Code)
}

func (s *UserServiceTestSuite) TestStoreFailureIsServerError() {
	s.store.storeErr = errors.New("db down")
	_, svcErr := s.service.CreateUser(&CreateUserRequest{Username: "erin"})
	s.Require().NotNil(svcErr)
	s.Equal(ErrorInternalServerError.Code, svcErr.Code)
}
