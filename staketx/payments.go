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

// Payment is an advisory payment requirement consumed by input selection.
// It never becomes a transaction artifact directly; it only guarantees that
// enough spendable value is attached to the draft before deposits are
// subtracted.
type Payment struct {
	Address string
	Amount  uint64
}

// buildStakePayments emits payment requirements in fixed category order
// (registration, de-registration, delegation, withdrawal), independent of
// the order the actions were accumulated in.
func (s *StakeTx) buildStakePayments(fromAddress string) []Payment {
	var payments []Payment
	if len(s.registrations) == 0 &&
		len(s.deregistrations) == 0 &&
		len(s.delegations) == 0 &&
		len(s.withdrawals) == 0 {
		return payments
	}

	if len(s.registrations) > 0 {
		// Dummy pay to fromAddress to add deposit. Uses the fixed deposit
		// constant; registration mutation resolves the live protocol
		// parameter, which may differ.
		totalDeposit := s.stakeKeyRegDeposit * uint64(len(s.registrations))
		payments = append(payments, Payment{
			Address: fromAddress,
			Amount:  totalDeposit,
		})
	}

	if len(s.deregistrations) > 0 {
		// Dummy output to sender fromAddress to trigger input selection
		payments = append(payments, Payment{
			Address: fromAddress,
			Amount:  s.dummyMinOutputValue,
		})
	}

	if len(s.delegations) > 0 {
		// Dummy output to sender fromAddress to trigger input selection
		payments = append(payments, Payment{
			Address: fromAddress,
			Amount:  s.dummyMinOutputValue,
		})
	}

	if len(s.withdrawals) > 0 {
		// Dummy output to sender fromAddress to trigger input selection
		payments = append(payments, Payment{
			Address: fromAddress,
			Amount:  s.dummyMinOutputValue,
		})
	}

	return payments
}
