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

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"

	"github.com/lucky777ada/cardano-client-lib/internal/test"
)

var testCredentialHash = test.DecodeHexString(
	"e557890352095f1cf6fd2b7d1a28e3c3cb029f48cf34ff890a28d176",
)

var testPoolIdHex = "21bd8c2e0df2fbe92137f78dbaba48f62308e52303049f0d628b6c4c"

func TestStakeRegistrationCertificate(t *testing.T) {
	cred := NewCredentialFromKeyHash(testCredentialHash)
	cert := NewStakeRegistrationCertificate(cred)
	assert.Equal(t, uint(CertificateTypeStakeRegistration), cert.Type())

	ret, err := cert.Utxorpc()
	require.NoError(t, err)
	stakeReg, ok := ret.Certificate.(*utxorpc.Certificate_StakeRegistration)
	require.True(t, ok)
	keyHash, ok := stakeReg.StakeRegistration.StakeCredential.(*utxorpc.StakeCredential_AddrKeyHash)
	require.True(t, ok)
	assert.Equal(t, testCredentialHash, keyHash.AddrKeyHash)
}

func TestStakeDeregistrationCertificate(t *testing.T) {
	cred := NewCredentialFromScriptHash(testCredentialHash)
	cert := NewStakeDeregistrationCertificate(cred)
	assert.Equal(t, uint(CertificateTypeStakeDeregistration), cert.Type())

	ret, err := cert.Utxorpc()
	require.NoError(t, err)
	stakeDereg, ok := ret.Certificate.(*utxorpc.Certificate_StakeDeregistration)
	require.True(t, ok)
	scriptHash, ok := stakeDereg.StakeDeregistration.StakeCredential.(*utxorpc.StakeCredential_ScriptHash)
	require.True(t, ok)
	assert.Equal(t, testCredentialHash, scriptHash.ScriptHash)
}

func TestStakeDelegationCertificate(t *testing.T) {
	cred := NewCredentialFromKeyHash(testCredentialHash)
	poolId, err := NewPoolIdFromHex(testPoolIdHex)
	require.NoError(t, err)
	cert := NewStakeDelegationCertificate(cred, poolId)
	assert.Equal(t, uint(CertificateTypeStakeDelegation), cert.Type())

	ret, err := cert.Utxorpc()
	require.NoError(t, err)
	stakeDeleg, ok := ret.Certificate.(*utxorpc.Certificate_StakeDelegation)
	require.True(t, ok)
	assert.Equal(
		t,
		test.DecodeHexString(testPoolIdHex),
		stakeDeleg.StakeDelegation.PoolKeyhash,
	)
}

func TestCredentialUtxorpcUnknownType(t *testing.T) {
	cred := Credential{CredType: 9}
	_, err := cred.Utxorpc()
	assert.Error(t, err)
}
