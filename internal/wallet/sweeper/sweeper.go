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

// Package sweeper periodically releases wallet holds that were never settled, so
// funds stranded by a crashed or abandoned settlement return to their owners.
package sweeper

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/asgardeo/gate/internal/system/config"
	"github.com/asgardeo/gate/internal/system/log"
	"github.com/asgardeo/gate/internal/wallet"
)

const loggerComponentName = "HoldSweeper"

const defaultSweepInterval = 60

// HoldSweeper runs the periodic expired-hold release job.
type HoldSweeper struct {
	scheduler     *cron.Cron
	walletService wallet.WalletServiceInterface
}

// NewHoldSweeper creates a new hold sweeper.
func NewHoldSweeper() *HoldSweeper {
	return &HoldSweeper{
		scheduler:     cron.New(),
		walletService: wallet.NewWalletService(),
	}
}

// Start schedules the sweep at the configured interval and begins running it.
func (hs *HoldSweeper) Start() error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	interval := config.GetGateRuntime().Config.Settlement.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	if _, err := hs.scheduler.AddFunc(fmt.Sprintf("@every %ds", interval), hs.Sweep); err != nil {
		return fmt.Errorf("failed to schedule hold sweep: %w", err)
	}
	hs.scheduler.Start()

	logger.Info("Hold sweeper started", log.Int64("intervalSeconds", interval))
	return nil
}

// Stop stops the scheduler. A sweep in flight runs to completion.
func (hs *HoldSweeper) Stop() {
	<-hs.scheduler.Stop().Done()
}

// Sweep releases all expired holds once.
func (hs *HoldSweeper) Sweep() {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	released, err := hs.walletService.ReleaseExpiredHolds()
	if err != nil {
		logger.Error("Hold sweep failed", log.Error(err))
		return
	}
	if released > 0 {
		logger.Info("Released expired holds", log.Int("count", released))
	}
}
