// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package staketx

import (
	"log/slog"
)

type StakeTxOptionFunc func(*StakeTx)

// WithLogger specifies the logger
func WithLogger(logger *slog.Logger) StakeTxOptionFunc {
	return func(s *StakeTx) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStakeKeyRegDeposit overrides the fixed deposit constant (in lovelace)
// used for payment planning and de-registration refunds
func WithStakeKeyRegDeposit(deposit uint64) StakeTxOptionFunc {
	return func(s *StakeTx) {
		s.stakeKeyRegDeposit = deposit
	}
}

// WithDummyMinOutputValue overrides the minimal payment amount (in
// lovelace) used to trigger input selection for categories without deposits
func WithDummyMinOutputValue(amount uint64) StakeTxOptionFunc {
	return func(s *StakeTx) {
		s.dummyMinOutputValue = amount
	}
}
