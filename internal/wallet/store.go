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

package wallet

import (
	"errors"
	"fmt"
	"time"

	dbmodel "github.com/asgardeo/gate/internal/system/database/model"
	"github.com/asgardeo/gate/internal/system/database/provider"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/system/utils"
)

// Wallet store errors.
var (
	// ErrWalletNotFound is returned when no wallet exists for the requested key.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrHoldNotFound is returned when no hold exists for the requested id.
	ErrHoldNotFound = errors.New("hold not found")
	// ErrInsufficientFunds is returned when a conditional balance update matched no row.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrHoldNotActive is returned when a hold transition finds the hold already settled.
	ErrHoldNotActive = errors.New("hold is not active")
)

// walletStoreInterface defines the persistence operations for wallets, holds, and
// the ledger. Balance movements are transactional and guarded: an update that would
// drive a balance negative affects zero rows and the transaction is rolled back.
type walletStoreInterface interface {
	createWallet(w Wallet) error
	getWalletByUserRole(userID string, role WalletRole) (*Wallet, error)
	listWalletsByUserID(userID string) ([]Wallet, error)
	updateWalletStatus(walletID string, status WalletStatus) error
	creditWallet(walletID string, amount int64, entryType, reference string) error
	debitWallet(walletID string, amount int64, entryType, reference string) error
	createHold(hold Hold) error
	getHoldByID(holdID string) (*Hold, error)
	releaseHold(hold Hold, entryType string) error
	captureHold(hold Hold, finalAmount int64, credits []Credit) error
	listExpiredHolds(now int64) ([]Hold, error)
	listLedgerEntries(walletID string) ([]LedgerEntry, error)
}

// walletStore is the default database-backed implementation of walletStoreInterface.
type walletStore struct {
	dbProvider provider.DBProviderInterface
}

func newWalletStore() walletStoreInterface {
	return &walletStore{
		dbProvider: provider.GetDBProvider(),
	}
}

func (s *walletStore) createWallet(w Wallet) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	_, err = dbClient.Execute(queryCreateWallet, w.WalletID, w.UserID, string(w.Role),
		string(w.Status), w.Available, w.Held, w.Currency, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	return nil
}

func (s *walletStore) getWalletByUserRole(userID string, role WalletRole) (*Wallet, error) {
	return s.getWallet(queryGetWalletByUserRole, userID, string(role))
}

func (s *walletStore) listWalletsByUserID(userID string) ([]Wallet, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryListWalletsByUserID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	wallets := make([]Wallet, 0, len(results))
	for _, row := range results {
		w, err := buildWalletFromResultRow(row)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, *w)
	}
	return wallets, nil
}

func (s *walletStore) updateWalletStatus(walletID string, status WalletStatus) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	result, err := dbClient.Execute(queryUpdateWalletStatus, string(status), time.Now().Unix(),
		walletID)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if result == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (s *walletStore) getWallet(query dbmodel.DBQuery, args ...interface{}) (*Wallet, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrWalletNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildWalletFromResultRow(results[0])
}

// creditWallet adds funds to the available balance and records a ledger entry.
func (s *walletStore) creditWallet(walletID string, amount int64, entryType, reference string) error {
	return s.inTx(func(tx dbmodel.TxInterface, now int64) error {
		result, err := tx.Exec(queryCreditWallet.Query, amount, now, walletID)
		if err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
		if err := requireRowAffected(result, ErrWalletNotFound); err != nil {
			return err
		}
		return insertLedgerEntry(tx, walletID, entryType, amount, reference, now)
	})
}

// debitWallet removes funds from the available balance. Returns ErrInsufficientFunds
// when the balance cannot cover the amount.
func (s *walletStore) debitWallet(walletID string, amount int64, entryType, reference string) error {
	return s.inTx(func(tx dbmodel.TxInterface, now int64) error {
		result, err := tx.Exec(queryDebitWallet.Query, amount, now, walletID)
		if err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}
		if err := requireRowAffected(result, ErrInsufficientFunds); err != nil {
			return err
		}
		return insertLedgerEntry(tx, walletID, entryType, -amount, reference, now)
	})
}

// createHold reserves funds under a new hold. The reservation and the hold row are
// written in one transaction so a crash cannot strand reserved funds without a hold.
func (s *walletStore) createHold(hold Hold) error {
	return s.inTx(func(tx dbmodel.TxInterface, now int64) error {
		result, err := tx.Exec(queryMoveAvailableToHeld.Query, hold.Amount, now, hold.WalletID)
		if err != nil {
			return fmt.Errorf("failed to reserve funds: %w", err)
		}
		if err := requireRowAffected(result, ErrInsufficientFunds); err != nil {
			return err
		}

		_, err = tx.Exec(queryInsertHold.Query, hold.HoldID, hold.WalletID, hold.AgentID,
			hold.Amount, hold.Reference, string(hold.Status), hold.CreatedAt, hold.ExpiresAt)
		if err != nil {
			return fmt.Errorf("failed to insert hold: %w", err)
		}
		return insertLedgerEntry(tx, hold.WalletID, EntryTypeHold, -hold.Amount, hold.HoldID, now)
	})
}

func (s *walletStore) getHoldByID(holdID string) (*Hold, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryGetHoldByID, holdID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrHoldNotFound
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	return buildHoldFromResultRow(results[0])
}

// releaseHold returns a hold's funds to the available balance. The status predicate
// on the hold transition makes release and capture mutually exclusive: whichever
// runs second fails with ErrHoldNotActive.
func (s *walletStore) releaseHold(hold Hold, entryType string) error {
	return s.inTx(func(tx dbmodel.TxInterface, now int64) error {
		result, err := tx.Exec(queryTransitionHold.Query, string(HoldStatusReleased), hold.HoldID)
		if err != nil {
			return fmt.Errorf("failed to transition hold: %w", err)
		}
		if err := requireRowAffected(result, ErrHoldNotActive); err != nil {
			return err
		}

		result, err = tx.Exec(queryMoveHeldToAvailable.Query, hold.Amount, now, hold.WalletID)
		if err != nil {
			return fmt.Errorf("failed to return reserved funds: %w", err)
		}
		if err := requireRowAffected(result, ErrInsufficientFunds); err != nil {
			return err
		}
		return insertLedgerEntry(tx, hold.WalletID, entryType, hold.Amount, hold.HoldID, now)
	})
}

// captureHold settles a hold for finalAmount. The captured amount leaves the payer's
// held balance, the remainder returns to available, and each credit lands on the
// payee wallet, all in one transaction.
func (s *walletStore) captureHold(hold Hold, finalAmount int64, credits []Credit) error {
	return s.inTx(func(tx dbmodel.TxInterface, now int64) error {
		result, err := tx.Exec(queryTransitionHold.Query, string(HoldStatusCaptured), hold.HoldID)
		if err != nil {
			return fmt.Errorf("failed to transition hold: %w", err)
		}
		if err := requireRowAffected(result, ErrHoldNotActive); err != nil {
			return err
		}

		remainder := hold.Amount - finalAmount
		result, err = tx.Exec(querySettleHeld.Query, hold.Amount, remainder, now, hold.WalletID)
		if err != nil {
			return fmt.Errorf("failed to settle reserved funds: %w", err)
		}
		if err := requireRowAffected(result, ErrInsufficientFunds); err != nil {
			return err
		}
		if err := insertLedgerEntry(tx, hold.WalletID, EntryTypeCapture, -finalAmount,
			hold.HoldID, now); err != nil {
			return err
		}

		for _, credit := range credits {
			result, err := tx.Exec(queryCreditWallet.Query, credit.Amount, now, credit.WalletID)
			if err != nil {
				return fmt.Errorf("failed to credit payee wallet: %w", err)
			}
			if err := requireRowAffected(result, ErrWalletNotFound); err != nil {
				return err
			}
			if err := insertLedgerEntry(tx, credit.WalletID, EntryTypeCredit, credit.Amount,
				credit.Reference, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *walletStore) listExpiredHolds(now int64) ([]Hold, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryListExpiredHolds, now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	holds := make([]Hold, 0, len(results))
	for _, row := range results {
		hold, err := buildHoldFromResultRow(row)
		if err != nil {
			return nil, err
		}
		holds = append(holds, *hold)
	}
	return holds, nil
}

func (s *walletStore) listLedgerEntries(walletID string) ([]LedgerEntry, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(queryListLedgerEntries, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	entries := make([]LedgerEntry, 0, len(results))
	for _, row := range results {
		entry, err := buildLedgerEntryFromResultRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// inTx runs fn inside a transaction, rolling back on any error.
func (s *walletStore) inTx(fn func(tx dbmodel.TxInterface, now int64) error) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "WalletStore"))

	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx, time.Now().Unix()); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to rollback transaction", log.Error(rollbackErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func requireRowAffected(result interface{ RowsAffected() (int64, error) }, notMatched error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notMatched
	}
	return nil
}

func insertLedgerEntry(tx dbmodel.TxInterface, walletID, entryType string, amount int64,
	reference string, now int64) error {
	_, err := tx.Exec(queryInsertLedgerEntry.Query, utils.GenerateUUID(), walletID, entryType,
		amount, reference, now)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

func buildWalletFromResultRow(row map[string]interface{}) (*Wallet, error) {
	walletID, ok := row["wallet_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse wallet_id as string")
	}

	w := &Wallet{WalletID: walletID}
	w.UserID, _ = row["user_id"].(string)
	w.Currency, _ = row["currency"].(string)
	if role, ok := row["role"].(string); ok {
		w.Role = WalletRole(role)
	}
	if status, ok := row["status"].(string); ok {
		w.Status = WalletStatus(status)
	}
	w.Available = parseInt64Field(row["available"])
	w.Held = parseInt64Field(row["held"])
	w.CreatedAt = parseInt64Field(row["created_at"])
	w.UpdatedAt = parseInt64Field(row["updated_at"])
	return w, nil
}

func buildHoldFromResultRow(row map[string]interface{}) (*Hold, error) {
	holdID, ok := row["hold_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse hold_id as string")
	}

	hold := &Hold{HoldID: holdID}
	hold.WalletID, _ = row["wallet_id"].(string)
	hold.AgentID, _ = row["agent_id"].(string)
	hold.Reference, _ = row["reference"].(string)
	if status, ok := row["status"].(string); ok {
		hold.Status = HoldStatus(status)
	}
	hold.Amount = parseInt64Field(row["amount"])
	hold.CreatedAt = parseInt64Field(row["created_at"])
	hold.ExpiresAt = parseInt64Field(row["expires_at"])
	return hold, nil
}

func buildLedgerEntryFromResultRow(row map[string]interface{}) (*LedgerEntry, error) {
	entryID, ok := row["entry_id"].(string)
	if !ok {
		return nil, fmt.Errorf("failed to parse entry_id as string")
	}

	entry := &LedgerEntry{EntryID: entryID}
	entry.WalletID, _ = row["wallet_id"].(string)
	entry.EntryType, _ = row["entry_type"].(string)
	entry.Reference, _ = row["reference"].(string)
	entry.Amount = parseInt64Field(row["amount"])
	entry.CreatedAt = parseInt64Field(row["created_at"])
	return entry, nil
}

// parseInt64Field normalizes the numeric types different drivers hand back.
func parseInt64Field(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
