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
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
)

const (
	CertificateTypeStakeRegistration   = 0
	CertificateTypeStakeDeregistration = 1
	CertificateTypeStakeDelegation     = 2
)

// Certificate represents a certificate attached to a transaction body
type Certificate interface {
	isCertificate()
	Type() uint
	Utxorpc() (*utxorpc.Certificate, error)
}

type StakeRegistrationCertificate struct {
	_               struct{} `cbor:",toarray"`
	CertType        uint
	StakeCredential Credential
}

// NewStakeRegistrationCertificate returns a stake registration certificate for the provided credential
func NewStakeRegistrationCertificate(
	cred Credential,
) *StakeRegistrationCertificate {
	return &StakeRegistrationCertificate{
		CertType:        CertificateTypeStakeRegistration,
		StakeCredential: cred,
	}
}

func (c StakeRegistrationCertificate) isCertificate() {}

func (c *StakeRegistrationCertificate) Type() uint {
	return c.CertType
}

func (c *StakeRegistrationCertificate) Utxorpc() (*utxorpc.Certificate, error) {
	stakeCred, err := c.StakeCredential.Utxorpc()
	if err != nil {
		return nil, err
	}
	return &utxorpc.Certificate{
		Certificate: &utxorpc.Certificate_StakeRegistration{
			StakeRegistration: stakeCred,
		},
	}, nil
}

type StakeDeregistrationCertificate struct {
	_               struct{} `cbor:",toarray"`
	CertType        uint
	StakeCredential Credential
}

// NewStakeDeregistrationCertificate returns a stake de-registration certificate for the provided credential
func NewStakeDeregistrationCertificate(
	cred Credential,
) *StakeDeregistrationCertificate {
	return &StakeDeregistrationCertificate{
		CertType:        CertificateTypeStakeDeregistration,
		StakeCredential: cred,
	}
}

func (c StakeDeregistrationCertificate) isCertificate() {}

func (c *StakeDeregistrationCertificate) Type() uint {
	return c.CertType
}

func (c *StakeDeregistrationCertificate) Utxorpc() (*utxorpc.Certificate, error) {
	stakeCred, err := c.StakeCredential.Utxorpc()
	if err != nil {
		return nil, err
	}
	return &utxorpc.Certificate{
		Certificate: &utxorpc.Certificate_StakeDeregistration{
			StakeDeregistration: stakeCred,
		},
	}, nil
}

type StakeDelegationCertificate struct {
	_               struct{} `cbor:",toarray"`
	CertType        uint
	StakeCredential Credential
	PoolKeyHash     PoolKeyHash
}

// NewStakeDelegationCertificate returns a stake delegation certificate for the provided credential and pool
func NewStakeDelegationCertificate(
	cred Credential,
	poolId PoolId,
) *StakeDelegationCertificate {
	return &StakeDelegationCertificate{
		CertType:        CertificateTypeStakeDelegation,
		StakeCredential: cred,
		PoolKeyHash:     PoolKeyHash(poolId),
	}
}

func (c StakeDelegationCertificate) isCertificate() {}

func (c *StakeDelegationCertificate) Type() uint {
	return c.CertType
}

func (c *StakeDelegationCertificate) Utxorpc() (*utxorpc.Certificate, error) {
	stakeCred, err := c.StakeCredential.Utxorpc()
	if err != nil {
		return nil, err
	}
	return &utxorpc.Certificate{
		Certificate: &utxorpc.Certificate_StakeDelegation{
			StakeDelegation: &utxorpc.StakeDelegationCert{
				StakeCredential: stakeCred,
				PoolKeyhash:     c.PoolKeyHash[:],
			},
		},
	}, nil
}
