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

package pin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/gate/internal/system/config"
)

type mockPinStore struct {
	records map[string]*pinRecord
}

func newMockPinStore() *mockPinStore {
	return &mockPinStore{records: make(map[string]*pinRecord)}
}

func (m *mockPinStore) insertPin(userID, pinHash string, now int64) error {
	m.records[userID] = &pinRecord{UserID: userID, PinHash: pinHash, UpdatedAt: now}
	return nil
}

func (m *mockPinStore) updatePin(userID, pinHash string, now int64) error {
	record, ok := m.records[userID]
	if !ok {
		return ErrPinNotSet
	}
	record.PinHash = pinHash
	record.FailedAttempts = 0
	record.LockedUntil = 0
	record.UpdatedAt = now
	return nil
}

func (m *mockPinStore) getPin(userID string) (*pinRecord, error) {
	if record, ok := m.records[userID]; ok {
		copied := *record
		return &copied, nil
	}
	return nil, ErrPinNotSet
}

func (m *mockPinStore) updateAttempts(userID string, attempts int, lockedUntil, now int64) error {
	record, ok := m.records[userID]
	if !ok {
		return ErrPinNotSet
	}
	record.FailedAttempts = attempts
	record.LockedUntil = lockedUntil
	record.UpdatedAt = now
	return nil
}

type PinServiceTestSuite struct {
	suite.Suite
	store   *mockPinStore
	service *PinService
}

func TestPinServiceSuite(t *testing.T) {
	suite.Run(t, new(PinServiceTestSuite))
}

func (s *PinServiceTestSuite) SetupTest() {
	config.ResetGateRuntime()
	err := config.InitializeGateRuntime("/tmp", &config.Config{
		Wallet: config.WalletConfig{
			PinMaxAttempts: 5,
			PinLockout:     900,
		},
	})
	s.Require().NoError(err)

	s.store = newMockPinStore()
	s.service = &PinService{store: s.store}
}

func (s *PinServiceTestSuite) TestSetAndVerifyPin() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))
	s.Require().Nil(s.service.VerifyPin("user-1", "4321"))

	// The raw PIN is never stored.
	s.NotEqual("4321", s.store.records["user-1"].PinHash)
}

func (s *PinServiceTestSuite) TestSetPinRejectsBadFormat() {
	for _, pinValue := range []string{"", "123", "1234567", "12a4", "12 4"} {
		svcErr := s.service.SetPin("user-1", pinValue)
		s.Require().NotNil(svcErr)
		s.Equal(ErrorInvalidPinFormat.Code, svcErr.Code)
	}
}

func (s *PinServiceTestSuite) TestSetPinRejectsExistingPin() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))

	svcErr := s.service.SetPin("user-1", "9876")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorPinAlreadySet.Code, svcErr.Code)

	// The original PIN still verifies.
	s.Require().Nil(s.service.VerifyPin("user-1", "4321"))
}

func (s *PinServiceTestSuite) TestVerifyPinNotSet() {
	svcErr := s.service.VerifyPin("user-1", "4321")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorPinNotSet.Code, svcErr.Code)
}

func (s *PinServiceTestSuite) TestVerifyPinWrongValue() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))

	svcErr := s.service.VerifyPin("user-1", "0000")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorPinInvalid.Code, svcErr.Code)
	s.Equal(1, s.store.records["user-1"].FailedAttempts)
}

func (s *PinServiceTestSuite) TestLockoutAfterMaxFailures() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))

	for i := 0; i < 4; i++ {
		svcErr := s.service.VerifyPin("user-1", "0000")
		s.Require().NotNil(svcErr)
		s.Equal(ErrorPinInvalid.Code, svcErr.Code)
	}

	// The fifth failure trips the lockout.
	svcErr := s.service.VerifyPin("user-1", "0000")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorPinLocked.Code, svcErr.Code)

	// Even the correct PIN is refused while locked.
	svcErr = s.service.VerifyPin("user-1", "4321")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorPinLocked.Code, svcErr.Code)
}

func (s *PinServiceTestSuite) TestLockoutExpires() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))
	s.store.records["user-1"].LockedUntil = time.Now().Unix() - 1

	s.Require().Nil(s.service.VerifyPin("user-1", "4321"))
	s.Equal(0, s.store.records["user-1"].FailedAttempts)
	s.Zero(s.store.records["user-1"].LockedUntil)
}

func (s *PinServiceTestSuite) TestSuccessResetsAttempts() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))

	svcErr := s.service.VerifyPin("user-1", "0000")
	s.Require().NotNil(svcErr)
	s.Equal(1, s.store.records["user-1"].FailedAttempts)

	s.Require().Nil(s.service.VerifyPin("user-1", "4321"))
	s.Equal(0, s.store.records["user-1"].FailedAttempts)
}

func (s *PinServiceTestSuite) TestChangePin() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))
	s.Require().Nil(s.service.ChangePin("user-1", "4321", "9876"))

	s.Require().Nil(s.service.VerifyPin("user-1", "9876"))
	svcErr := s.service.VerifyPin("user-1", "4321")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorPinInvalid.Code, svcErr.Code)
}

func (s *PinServiceTestSuite) TestChangePinWrongCurrent() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))

	svcErr := s.service.ChangePin("user-1", "0000", "9876")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorPinInvalid.Code, svcErr.Code)
	s.Equal(1, s.store.records["user-1"].FailedAttempts)

	// The old PIN is unchanged.
	s.Require().Nil(s.service.VerifyPin("user-1", "4321"))
}

func (s *PinServiceTestSuite) TestChangePinWhileLocked() {
	s.Require().Nil(s.service.SetPin("user-1", "4321"))
	s.store.records["user-1"].LockedUntil = time.Now().Unix() + 900

	svcErr := s.service.ChangePin("user-1", "4321", "9876")
	s.Require().NotNil(svcErr)
	s.Equal(ErrorPinLocked.Code, svcErr.Code)
}

func (s *PinServiceTestSuite) TestHasPin() {
	exists, svcErr := s.service.HasPin("user-1")
	s.Require().Nil(svcErr)
	s.False(exists)

	s.Require().Nil(s.service.SetPin("user-1", "4321"))

	exists, svcErr = s.service.HasPin("user-1")
	s.Require().Nil(svcErr)
	s.True(exists)
}
