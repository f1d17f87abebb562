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
	"fmt"
	"slices"
	"strconv"

	"github.com/lucky777ada/cardano-client-lib/ledger"
	"github.com/lucky777ada/cardano-client-lib/txbuilder"
)

// Build returns the payment requirements for input selection plus a
// TxBuilder that inserts certificates, redeemers, and output adjustments
// for the accumulated stake actions. Mutators run in fixed order:
// registration, de-registration, delegation, withdrawal.
//
// The returned TxBuilder must be applied at most once per draft; applying
// it again to its own output re-appends certificates. Rebuild the draft (or
// clone the pre-mutation draft) between balancing attempts.
func (s *StakeTx) Build(
	fromAddress string,
	changeAddress string,
) ([]Payment, txbuilder.TxBuilder) {
	payments := s.buildStakePayments(fromAddress)

	builder := txbuilder.NoopTxBuilder()
	builder = s.buildStakeAddressRegistration(builder, fromAddress)
	builder = s.buildStakeAddressDeregistration(builder, fromAddress)
	builder = s.buildStakeDelegation(builder)
	builder = s.buildWithdrawal(builder, changeAddress)

	return payments, builder
}

func (s *StakeTx) buildStakeAddressRegistration(
	builder txbuilder.TxBuilder,
	fromAddress string,
) txbuilder.TxBuilder {
	if len(s.registrations) == 0 {
		return builder
	}

	return builder.AndThen(func(ctx *txbuilder.Context, tx *txbuilder.Tx) error {
		if len(s.registrations) == 0 {
			return nil
		}

		// Add stake registration certificates
		for _, cert := range s.registrations {
			tx.Body.Certificates = append(tx.Body.Certificates, cert)
		}

		keyDeposit, err := strconv.ParseUint(
			ctx.ProtocolParams.KeyDeposit,
			10,
			64,
		)
		if err != nil {
			return fmt.Errorf(
				"invalid key deposit in protocol parameters: %w",
				err,
			)
		}
		totalDeposit := keyDeposit * uint64(len(s.registrations))
		s.logger.Debug(
			"total stake key registration deposit",
			"component", "staketx",
			"deposit", totalDeposit,
		)

		// Remove the deposit amount from the largest qualifying output at
		// the from address
		matchIdx := -1
		for i, out := range tx.Body.Outputs {
			if out.Address.String() != fromAddress ||
				out.Value.Coin < totalDeposit {
				continue
			}
			if matchIdx < 0 ||
				out.Value.Coin > tx.Body.Outputs[matchIdx].Value.Coin {
				matchIdx = i
			}
		}
		if matchIdx < 0 {
			return DepositSourceNotFoundError{Address: fromAddress}
		}
		match := tx.Body.Outputs[matchIdx]
		match.Value.Coin -= totalDeposit
		if match.Value.Coin == 0 && match.Value.IsCoinOnly() {
			tx.Body.Outputs = slices.Delete(
				tx.Body.Outputs,
				matchIdx,
				matchIdx+1,
			)
		}
		return nil
	})
}

func (s *StakeTx) buildStakeAddressDeregistration(
	builder txbuilder.TxBuilder,
	fromAddress string,
) txbuilder.TxBuilder {
	if len(s.deregistrations) == 0 {
		return builder
	}

	return builder.AndThen(func(ctx *txbuilder.Context, tx *txbuilder.Tx) error {
		if len(s.deregistrations) == 0 {
			return nil
		}

		witnessSet := tx.EnsureWitnessSet()

		for _, tmpCtx := range s.deregistrations {
			tx.Body.Certificates = append(tx.Body.Certificates, tmpCtx.cert)

			if tmpCtx.refundAddress == "" {
				tmpCtx.refundAddress = fromAddress
			}

			if tmpCtx.redeemer != nil {
				// The redeemer index is the position of the certificate we
				// just placed
				witnessSet.Redeemers = append(
					witnessSet.Redeemers,
					tmpCtx.redeemer.resolve(
						uint32(len(tx.Body.Certificates)-1), // #nosec G115 -- cert count bounded by tx size limits
					),
				)
			}

			// Add deposit refund
			if err := creditOutput(
				&tx.Body,
				tmpCtx.refundAddress,
				s.stakeKeyRegDeposit,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *StakeTx) buildStakeDelegation(
	builder txbuilder.TxBuilder,
) txbuilder.TxBuilder {
	if len(s.delegations) == 0 {
		return builder
	}

	return builder.AndThen(func(ctx *txbuilder.Context, tx *txbuilder.Tx) error {
		if len(s.delegations) == 0 {
			return nil
		}

		witnessSet := tx.EnsureWitnessSet()

		for _, tmpCtx := range s.delegations {
			tx.Body.Certificates = append(tx.Body.Certificates, tmpCtx.cert)

			if tmpCtx.redeemer != nil {
				witnessSet.Redeemers = append(
					witnessSet.Redeemers,
					tmpCtx.redeemer.resolve(
						uint32(len(tx.Body.Certificates)-1), // #nosec G115 -- cert count bounded by tx size limits
					),
				)
			}
		}
		return nil
	})
}

func (s *StakeTx) buildWithdrawal(
	builder txbuilder.TxBuilder,
	changeAddress string,
) txbuilder.TxBuilder {
	if len(s.withdrawals) == 0 {
		return builder
	}

	return builder.AndThen(func(ctx *txbuilder.Context, tx *txbuilder.Tx) error {
		if len(s.withdrawals) == 0 {
			return nil
		}

		if tx.Body.Withdrawals == nil {
			tx.Body.Withdrawals = []*txbuilder.Withdrawal{}
		}

		for _, tmpCtx := range s.withdrawals {
			tx.Body.Withdrawals = append(
				tx.Body.Withdrawals,
				tmpCtx.withdrawal,
			)

			if tmpCtx.receiver == "" {
				tmpCtx.receiver = changeAddress
			}

			if tmpCtx.redeemer != nil {
				witnessSet := tx.EnsureWitnessSet()
				witnessSet.Redeemers = append(
					witnessSet.Redeemers,
					tmpCtx.redeemer.resolve(
						uint32(len(tx.Body.Withdrawals)-1), // #nosec G115 -- withdrawal count bounded by tx size limits
					),
				)
			}

			// Add withdrawal amount to the receiver address
			if err := creditOutput(
				&tx.Body,
				tmpCtx.receiver,
				tmpCtx.withdrawal.Amount,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// patchFirstOutput applies adjust to the first output satisfying match.
// When no output matches, synthesize is called to produce a new output that
// is appended to the body.
func patchFirstOutput(
	body *txbuilder.TransactionBody,
	match func(*txbuilder.TransactionOutput) bool,
	adjust func(*txbuilder.TransactionOutput),
	synthesize func() (*txbuilder.TransactionOutput, error),
) error {
	for _, out := range body.Outputs {
		if match(out) {
			adjust(out)
			return nil
		}
	}
	out, err := synthesize()
	if err != nil {
		return err
	}
	body.Outputs = append(body.Outputs, out)
	return nil
}

// creditOutput adds amount to the coin of the first output at the provided
// address, creating a new coin-only output there when none exists
func creditOutput(
	body *txbuilder.TransactionBody,
	address string,
	amount uint64,
) error {
	return patchFirstOutput(
		body,
		func(out *txbuilder.TransactionOutput) bool {
			return out.Address.String() == address
		},
		func(out *txbuilder.TransactionOutput) {
			out.Value.Coin += amount
		},
		func() (*txbuilder.TransactionOutput, error) {
			tmpAddr, err := ledger.NewAddress(address)
			if err != nil {
				return nil, fmt.Errorf(
					"failed to parse output address %s: %w",
					address,
					err,
				)
			}
			return &txbuilder.TransactionOutput{
				Address: tmpAddr,
				Value:   txbuilder.Value{Coin: amount},
			}, nil
		},
	)
}
