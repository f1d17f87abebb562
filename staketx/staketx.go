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

// Package staketx composes the stake-related portion of a transaction:
// stake key registration, de-registration, pool delegation, and reward
// withdrawal. Accumulated actions are turned into payment requirements for
// input selection and a pipeline of draft-transaction mutations by Build.
package staketx

import (
	"log/slog"
	"strings"

	"github.com/blinklabs-io/plutigo/data"

	"github.com/lucky777ada/cardano-client-lib/ledger"
	"github.com/lucky777ada/cardano-client-lib/txbuilder"
)

const (
	// StakeKeyRegDeposit is the fixed deposit (in lovelace) used for payment
	// planning and de-registration refunds. Registration itself uses the
	// live protocol-parameter deposit at mutation time, so the two can
	// disagree when the parameter changes between planning and mutation.
	StakeKeyRegDeposit = 2_000_000

	// DummyMinOutputValue is the payment amount (in lovelace) used to force
	// input selection to include at least one spendable input from the
	// sender
	DummyMinOutputValue = 1_000_000

	// Placeholder execution budget for redeemers; the final budget is
	// expected to be filled in by script cost evaluation downstream
	placeholderExUnitsMemory = 10000
	placeholderExUnitsSteps  = 1000
)

// redeemerSpec holds the script data for a pending redeemer. The final
// redeemer record is only constructed once the position of its certificate
// or withdrawal within the draft is known.
type redeemerSpec struct {
	tag  ledger.RedeemerTag
	data data.PlutusData
}

func (r *redeemerSpec) resolve(index uint32) *ledger.Redeemer {
	return &ledger.Redeemer{
		Tag:   r.tag,
		Index: index,
		Data:  r.data,
		ExUnits: ledger.ExUnits{
			Memory: placeholderExUnitsMemory,
			Steps:  placeholderExUnitsSteps,
		},
	}
}

type deregistrationContext struct {
	cert     *ledger.StakeDeregistrationCertificate
	redeemer *redeemerSpec
	// refundAddress may be empty until build, at which point it defaults to
	// the from address
	refundAddress string
}

type delegationContext struct {
	cert     *ledger.StakeDelegationCertificate
	redeemer *redeemerSpec
}

type withdrawalContext struct {
	withdrawal *txbuilder.Withdrawal
	redeemer   *redeemerSpec
	// receiver may be empty until build, at which point it defaults to the
	// change address
	receiver string
}

// StakeTx accumulates stake actions for a single transaction-building
// session. It is not safe for concurrent use; create one instance per
// session, consume it with Build, and discard it.
type StakeTx struct {
	logger              *slog.Logger
	stakeKeyRegDeposit  uint64
	dummyMinOutputValue uint64
	registrations       []*ledger.StakeRegistrationCertificate
	deregistrations     []*deregistrationContext
	delegations         []*delegationContext
	withdrawals         []*withdrawalContext
}

// New returns a new StakeTx with the provided options applied
func New(options ...StakeTxOptionFunc) *StakeTx {
	s := &StakeTx{
		logger:              slog.Default(),
		stakeKeyRegDeposit:  StakeKeyRegDeposit,
		dummyMinOutputValue: DummyMinOutputValue,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// RegisterStakeAddress adds a stake key registration for the provided
// address. The address must carry a delegation credential, so it should be
// a base address or stake address. Registering the same credential twice
// produces two certificates; de-duplication is left to the caller.
func (s *StakeTx) RegisterStakeAddress(addr ledger.Address) error {
	cred := addr.DelegationCredential()
	if cred == nil {
		return InvalidAddressError{Address: addr.String()}
	}
	s.registrations = append(
		s.registrations,
		ledger.NewStakeRegistrationCertificate(*cred),
	)
	return nil
}

// DeregisterStakeAddress adds a stake key de-registration for the provided
// address. The key deposit is refunded to refundAddress, or to the from
// address passed to Build when refundAddress is empty. redeemerData is the
// script data to use when the credential is script-controlled; pass nil for
// a key-controlled credential.
func (s *StakeTx) DeregisterStakeAddress(
	addr ledger.Address,
	redeemerData data.PlutusData,
	refundAddress string,
) error {
	cred := addr.DelegationCredential()
	if cred == nil {
		return InvalidAddressError{Address: addr.String()}
	}
	tmpCtx := &deregistrationContext{
		cert:          ledger.NewStakeDeregistrationCertificate(*cred),
		refundAddress: refundAddress,
	}
	if redeemerData != nil {
		tmpCtx.redeemer = &redeemerSpec{
			tag:  ledger.RedeemerTagCert,
			data: redeemerData,
		}
	}
	s.deregistrations = append(s.deregistrations, tmpCtx)
	return nil
}

// DelegateTo adds a stake delegation of the provided address to a stake
// pool. The pool ID may be bech32 (pool1...) or hex encoded. redeemerData
// is the script data to use when the credential is script-controlled; pass
// nil for a key-controlled credential.
func (s *StakeTx) DelegateTo(
	addr ledger.Address,
	poolId string,
	redeemerData data.PlutusData,
) error {
	cred := addr.DelegationCredential()
	if cred == nil {
		return InvalidAddressError{Address: addr.String()}
	}
	var tmpPoolId ledger.PoolId
	var err error
	if strings.HasPrefix(poolId, "pool") {
		tmpPoolId, err = ledger.NewPoolIdFromBech32(poolId)
	} else {
		tmpPoolId, err = ledger.NewPoolIdFromHex(poolId)
	}
	if err != nil {
		return InvalidPoolIdError{PoolId: poolId, Err: err}
	}
	tmpCtx := &delegationContext{
		cert: ledger.NewStakeDelegationCertificate(*cred, tmpPoolId),
	}
	if redeemerData != nil {
		tmpCtx.redeemer = &redeemerSpec{
			tag:  ledger.RedeemerTagCert,
			data: redeemerData,
		}
	}
	s.delegations = append(s.delegations, tmpCtx)
	return nil
}

// Withdraw adds a reward withdrawal of the provided amount (in lovelace)
// from a reward address. The withdrawn amount is credited to receiver, or
// to the change address passed to Build when receiver is empty.
// redeemerData is the script data to use when the reward address is
// script-controlled; pass nil otherwise.
func (s *StakeTx) Withdraw(
	addr ledger.Address,
	amount uint64,
	redeemerData data.PlutusData,
	receiver string,
) error {
	if !addr.IsRewardAddress() {
		return InvalidAddressTypeError{Address: addr.String()}
	}
	tmpCtx := &withdrawalContext{
		withdrawal: &txbuilder.Withdrawal{
			Address: addr,
			Amount:  amount,
		},
		receiver: receiver,
	}
	if redeemerData != nil {
		tmpCtx.redeemer = &redeemerSpec{
			tag:  ledger.RedeemerTagReward,
			data: redeemerData,
		}
	}
	s.withdrawals = append(s.withdrawals, tmpCtx)
	return nil
}
