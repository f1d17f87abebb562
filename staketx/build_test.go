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
	"testing"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucky777ada/cardano-client-lib/ledger"
	"github.com/lucky777ada/cardano-client-lib/txbuilder"
)

func testContext() *txbuilder.Context {
	return &txbuilder.Context{
		ProtocolParams: txbuilder.ProtocolParameters{
			KeyDeposit: "2000000",
		},
	}
}

func testDraft(t *testing.T, outputs ...*txbuilder.TransactionOutput) *txbuilder.Tx {
	t.Helper()
	return &txbuilder.Tx{
		Body: txbuilder.TransactionBody{
			Outputs: outputs,
		},
	}
}

func testOutput(
	t *testing.T,
	address string,
	coin uint64,
) *txbuilder.TransactionOutput {
	t.Helper()
	return &txbuilder.TransactionOutput{
		Address: mustAddr(t, address),
		Value:   txbuilder.Value{Coin: coin},
	}
}

func TestRegistrationMutator(t *testing.T) {
	s := New()
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressA)))
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressB)))

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(
		t,
		testOutput(t, testBaseAddressB, 20_000_000),
		testOutput(t, testBaseAddressA, 10_000_000),
	)
	require.NoError(t, builder(testContext(), tx))

	// Two registration certificates in order
	require.Len(t, tx.Body.Certificates, 2)
	for _, cert := range tx.Body.Certificates {
		assert.Equal(
			t,
			uint(ledger.CertificateTypeStakeRegistration),
			cert.Type(),
		)
	}
	// Deposit of 2x 2 ADA subtracted from the fromAddress output only
	assert.Equal(t, uint64(6_000_000), tx.Body.Outputs[1].Value.Coin)
	assert.Equal(t, uint64(20_000_000), tx.Body.Outputs[0].Value.Coin)
}

func TestRegistrationMutatorSelectsLargestOutput(t *testing.T) {
	s := New()
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressA)))

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(
		t,
		testOutput(t, testBaseAddressA, 5_000_000),
		testOutput(t, testBaseAddressA, 8_000_000),
		testOutput(t, testBaseAddressA, 3_000_000),
	)
	require.NoError(t, builder(testContext(), tx))

	assert.Equal(t, uint64(5_000_000), tx.Body.Outputs[0].Value.Coin)
	assert.Equal(t, uint64(6_000_000), tx.Body.Outputs[1].Value.Coin)
	assert.Equal(t, uint64(3_000_000), tx.Body.Outputs[2].Value.Coin)
}

func TestRegistrationMutatorRemovesEmptyOutput(t *testing.T) {
	s := New()
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressA)))

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(
		t,
		testOutput(t, testBaseAddressA, 2_000_000),
		testOutput(t, testBaseAddressB, 7_000_000),
	)
	require.NoError(t, builder(testContext(), tx))

	// The drained coin-only output is removed entirely
	require.Len(t, tx.Body.Outputs, 1)
	assert.Equal(
		t,
		testBaseAddressB,
		tx.Body.Outputs[0].Address.String(),
	)
}

func TestRegistrationMutatorKeepsEmptyOutputWithAssets(t *testing.T) {
	s := New()
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressA)))

	out := testOutput(t, testBaseAddressA, 2_000_000)
	out.Value.Assets = txbuilder.MultiAsset{
		ledger.Blake2b224Hash([]byte("policy")): {
			"token": 5,
		},
	}
	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(t, out)
	require.NoError(t, builder(testContext(), tx))

	// Output drained to zero coin but still carrying assets is kept
	require.Len(t, tx.Body.Outputs, 1)
	assert.Equal(t, uint64(0), tx.Body.Outputs[0].Value.Coin)
	assert.Equal(t, 1, tx.Body.Outputs[0].Value.Assets.Len())
}

func TestRegistrationMutatorDepositSourceNotFound(t *testing.T) {
	s := New()
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressA)))

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(
		t,
		// Too small to absorb the deposit
		testOutput(t, testBaseAddressA, 1_000_000),
		// Large enough but wrong address
		testOutput(t, testBaseAddressB, 10_000_000),
	)
	err := builder(testContext(), tx)
	var depositErr DepositSourceNotFoundError
	require.ErrorAs(t, err, &depositErr)
	assert.Equal(t, testBaseAddressA, depositErr.Address)
}

func TestDeregistrationMutatorCreditsExistingOutput(t *testing.T) {
	s := New()
	require.NoError(
		t,
		s.DeregisterStakeAddress(
			mustAddr(t, testBaseAddressA),
			nil,
			testBaseAddressB,
		),
	)

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(t, testOutput(t, testBaseAddressB, 3_000_000))
	require.NoError(t, builder(testContext(), tx))

	require.Len(t, tx.Body.Certificates, 1)
	assert.Equal(
		t,
		uint(ledger.CertificateTypeStakeDeregistration),
		tx.Body.Certificates[0].Type(),
	)
	// Refund added to the existing output; no new output created
	require.Len(t, tx.Body.Outputs, 1)
	assert.Equal(
		t,
		uint64(3_000_000+StakeKeyRegDeposit),
		tx.Body.Outputs[0].Value.Coin,
	)
}

func TestDeregistrationMutatorCreatesRefundOutput(t *testing.T) {
	s := New()
	require.NoError(
		t,
		s.DeregisterStakeAddress(
			mustAddr(t, testBaseAddressA),
			nil,
			testBaseAddressB,
		),
	)

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(t)
	require.NoError(t, builder(testContext(), tx))

	require.Len(t, tx.Body.Outputs, 1)
	assert.Equal(
		t,
		testBaseAddressB,
		tx.Body.Outputs[0].Address.String(),
	)
	assert.Equal(
		t,
		uint64(StakeKeyRegDeposit),
		tx.Body.Outputs[0].Value.Coin,
	)
	assert.True(t, tx.Body.Outputs[0].Value.IsCoinOnly())
}

func TestDeregistrationMutatorDefaultsRefundToFromAddress(t *testing.T) {
	s := New()
	require.NoError(
		t,
		s.DeregisterStakeAddress(mustAddr(t, testBaseAddressA), nil, ""),
	)

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(t, testOutput(t, testBaseAddressA, 1_000_000))
	require.NoError(t, builder(testContext(), tx))

	require.Len(t, tx.Body.Outputs, 1)
	assert.Equal(
		t,
		uint64(1_000_000+StakeKeyRegDeposit),
		tx.Body.Outputs[0].Value.Coin,
	)
}

func TestRedeemerIndexesAcrossCategories(t *testing.T) {
	s := New()
	redeemerData := data.NewConstr(0)
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressA)))
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressB)))
	require.NoError(
		t,
		s.DeregisterStakeAddress(
			mustAddr(t, testBaseAddressA),
			redeemerData,
			"",
		),
	)
	require.NoError(
		t,
		s.DelegateTo(
			mustAddr(t, testBaseAddressB),
			testPoolIdBech32,
			redeemerData,
		),
	)
	require.NoError(
		t,
		s.Withdraw(mustAddr(t, testRewardAddress), 1_500_000, redeemerData, ""),
	)

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(t, testOutput(t, testBaseAddressA, 10_000_000))
	require.NoError(t, builder(testContext(), tx))

	// Certificates: 2 registrations, 1 deregistration, 1 delegation
	require.Len(t, tx.Body.Certificates, 4)
	require.Len(t, tx.Body.Withdrawals, 1)

	require.NotNil(t, tx.WitnessSet)
	require.Len(t, tx.WitnessSet.Redeemers, 3)
	// Deregistration certificate landed at position 2
	assert.Equal(t, ledger.RedeemerTagCert, tx.WitnessSet.Redeemers[0].Tag)
	assert.Equal(t, uint32(2), tx.WitnessSet.Redeemers[0].Index)
	// Delegation certificate landed at position 3
	assert.Equal(t, ledger.RedeemerTagCert, tx.WitnessSet.Redeemers[1].Tag)
	assert.Equal(t, uint32(3), tx.WitnessSet.Redeemers[1].Index)
	// First withdrawal landed at position 0
	assert.Equal(t, ledger.RedeemerTagReward, tx.WitnessSet.Redeemers[2].Tag)
	assert.Equal(t, uint32(0), tx.WitnessSet.Redeemers[2].Index)
	// Placeholder execution budget until script cost evaluation
	for _, redeemer := range tx.WitnessSet.Redeemers {
		assert.Equal(
			t,
			ledger.ExUnits{Memory: 10000, Steps: 1000},
			redeemer.ExUnits,
		)
	}
}

func TestWithdrawalMutator(t *testing.T) {
	s := New()
	require.NoError(
		t,
		s.Withdraw(mustAddr(t, testRewardAddress), 4_200_000, nil, ""),
	)

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	// No output at the change address yet
	tx := testDraft(t, testOutput(t, testBaseAddressA, 1_000_000))
	require.NoError(t, builder(testContext(), tx))

	require.Len(t, tx.Body.Withdrawals, 1)
	assert.Equal(
		t,
		testRewardAddress,
		tx.Body.Withdrawals[0].Address.String(),
	)
	assert.Equal(t, uint64(4_200_000), tx.Body.Withdrawals[0].Amount)

	// Receiver defaulted to the change address and a new output was created
	require.Len(t, tx.Body.Outputs, 2)
	assert.Equal(
		t,
		testBaseAddressB,
		tx.Body.Outputs[1].Address.String(),
	)
	assert.Equal(t, uint64(4_200_000), tx.Body.Outputs[1].Value.Coin)
}

func TestWithdrawalMutatorCreditsExistingOutput(t *testing.T) {
	s := New()
	require.NoError(
		t,
		s.Withdraw(
			mustAddr(t, testRewardAddress),
			4_200_000,
			nil,
			testBaseAddressA,
		),
	)
	require.NoError(
		t,
		s.Withdraw(
			mustAddr(t, testRewardAddress),
			800_000,
			nil,
			testBaseAddressA,
		),
	)

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(t, testOutput(t, testBaseAddressA, 1_000_000))
	require.NoError(t, builder(testContext(), tx))

	require.Len(t, tx.Body.Withdrawals, 2)
	// Both withdrawals credit the same output; no duplicates created
	require.Len(t, tx.Body.Outputs, 1)
	assert.Equal(t, uint64(6_000_000), tx.Body.Outputs[0].Value.Coin)
}

// TestBuildCombinedActions covers registering two stake addresses and
// delegating one of them to a pool with no redeemer
func TestBuildCombinedActions(t *testing.T) {
	s := New()
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressA)))
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressB)))
	require.NoError(
		t,
		s.DelegateTo(mustAddr(t, testBaseAddressA), testPoolIdBech32, nil),
	)

	payments, builder := s.Build(testBaseAddressA, testBaseAddressB)

	require.Len(t, payments, 2)
	assert.Equal(
		t,
		Payment{Address: testBaseAddressA, Amount: 4_000_000},
		payments[0],
	)
	assert.Equal(
		t,
		Payment{Address: testBaseAddressA, Amount: DummyMinOutputValue},
		payments[1],
	)

	tx := testDraft(t, testOutput(t, testBaseAddressA, 9_000_000))
	require.NoError(t, builder(testContext(), tx))

	require.Len(t, tx.Body.Certificates, 3)
	assert.Equal(
		t,
		uint(ledger.CertificateTypeStakeRegistration),
		tx.Body.Certificates[0].Type(),
	)
	assert.Equal(
		t,
		uint(ledger.CertificateTypeStakeRegistration),
		tx.Body.Certificates[1].Type(),
	)
	assert.Equal(
		t,
		uint(ledger.CertificateTypeStakeDelegation),
		tx.Body.Certificates[2].Type(),
	)
	// Deposit of 4 ADA subtracted from the fromAddress output
	require.Len(t, tx.Body.Outputs, 1)
	assert.Equal(t, uint64(5_000_000), tx.Body.Outputs[0].Value.Coin)
	// No redeemers were accumulated
	assert.Nil(t, tx.WitnessSet.Redeemers)
}

func TestBuildInvalidKeyDeposit(t *testing.T) {
	s := New()
	require.NoError(t, s.RegisterStakeAddress(mustAddr(t, testBaseAddressA)))

	_, builder := s.Build(testBaseAddressA, testBaseAddressB)
	tx := testDraft(t, testOutput(t, testBaseAddressA, 10_000_000))
	ctx := &txbuilder.Context{
		ProtocolParams: txbuilder.ProtocolParameters{
			KeyDeposit: "not-a-number",
		},
	}
	assert.Error(t, builder(ctx, tx))
}
