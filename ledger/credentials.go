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
	"fmt"

	"github.com/blinklabs-io/plutigo/data"
	utxorpc "github.com/utxorpc/go-codegen/utxorpc/v1alpha/cardano"
	"golang.org/x/crypto/blake2b"
)

const (
	CredentialTypeAddrKeyHash = 0
	CredentialTypeScriptHash  = 1
)

// Credential represents a stake credential, either a stake key hash or a script hash
type Credential struct {
	_          struct{} `cbor:",toarray"`
	CredType   uint
	Credential []byte
}

// NewCredentialFromKeyHash returns a key-hash Credential for the provided hash
func NewCredentialFromKeyHash(keyHash []byte) Credential {
	return Credential{
		CredType:   CredentialTypeAddrKeyHash,
		Credential: keyHash,
	}
}

// NewCredentialFromScriptHash returns a script-hash Credential for the provided hash
func NewCredentialFromScriptHash(scriptHash []byte) Credential {
	return Credential{
		CredType:   CredentialTypeScriptHash,
		Credential: scriptHash,
	}
}

func (c *Credential) Hash() Blake2b224 {
	hash, err := blake2b.New(28, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error creating empty blake2b hash: %s",
				err,
			),
		)
	}
	if c != nil {
		hash.Write(c.Credential[:])
	}
	return Blake2b224(hash.Sum(nil))
}

func (c *Credential) Utxorpc() (*utxorpc.StakeCredential, error) {
	ret := &utxorpc.StakeCredential{}
	switch c.CredType {
	case CredentialTypeAddrKeyHash:
		ret.StakeCredential = &utxorpc.StakeCredential_AddrKeyHash{
			AddrKeyHash: c.Credential[:],
		}
	case CredentialTypeScriptHash:
		ret.StakeCredential = &utxorpc.StakeCredential_ScriptHash{
			ScriptHash: c.Credential[:],
		}
	default:
		return nil, fmt.Errorf("unknown credential type: %d", c.CredType)
	}
	return ret, nil
}

func (c *Credential) ToPlutusData() data.PlutusData {
	switch c.CredType {
	case CredentialTypeAddrKeyHash:
		return data.NewConstr(
			0,
			data.NewByteString(c.Credential),
		)
	case CredentialTypeScriptHash:
		return data.NewConstr(
			1,
			data.NewByteString(c.Credential),
		)
	}
	return nil
}
