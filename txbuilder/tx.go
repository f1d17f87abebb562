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

package txbuilder

import (
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/lucky777ada/cardano-client-lib/ledger"
)

// MultiAsset maps policy ID to asset name to quantity
type MultiAsset map[ledger.Blake2b224]map[string]uint64

func (m MultiAsset) Len() int {
	ret := 0
	for _, assets := range m {
		ret += len(assets)
	}
	return ret
}

// Value represents the value carried by a transaction output
type Value struct {
	Coin   uint64
	Assets MultiAsset
}

// IsCoinOnly returns whether the value carries no multi-asset entries
func (v Value) IsCoinOnly() bool {
	return v.Assets == nil || v.Assets.Len() == 0
}

// TransactionOutput is a mutable draft transaction output
type TransactionOutput struct {
	Address ledger.Address
	Value   Value
}

// Withdrawal represents a reward withdrawal entry in the transaction body
type Withdrawal struct {
	Address ledger.Address
	Amount  uint64
}

// TransactionBody is a mutable draft transaction body. Certificates and
// Withdrawals start out nil and are created on first use.
type TransactionBody struct {
	Outputs      []*TransactionOutput
	Certificates []ledger.Certificate
	Withdrawals  []*Withdrawal
	Fee          uint64
}

// WitnessSet is a mutable draft witness set
type WitnessSet struct {
	Redeemers []*ledger.Redeemer
}

// Tx is a draft transaction being assembled. It is not safe for concurrent
// mutation.
type Tx struct {
	Body       TransactionBody
	WitnessSet *WitnessSet
}

// EnsureWitnessSet creates the witness set if it does not exist yet
func (t *Tx) EnsureWitnessSet() *WitnessSet {
	if t.WitnessSet == nil {
		t.WitnessSet = &WitnessSet{}
	}
	return t.WitnessSet
}

// Clone returns a deep copy of the draft. Mutators are not safe to re-apply
// to their own output, so balancing loops that need multiple attempts should
// apply each attempt against a fresh clone of the pre-mutation draft.
func (t *Tx) Clone() (*Tx, error) {
	ret := &Tx{
		Body: TransactionBody{
			Fee: t.Body.Fee,
		},
	}
	for _, out := range t.Body.Outputs {
		newOut := &TransactionOutput{
			Address: out.Address,
			Value: Value{
				Coin: out.Value.Coin,
			},
		}
		if out.Value.Assets != nil {
			newAssets := MultiAsset{}
			if err := copier.CopyWithOption(
				&newAssets,
				out.Value.Assets,
				copier.Option{DeepCopy: true},
			); err != nil {
				return nil, fmt.Errorf(
					"failed to clone output assets: %w",
					err,
				)
			}
			newOut.Value.Assets = newAssets
		}
		ret.Body.Outputs = append(ret.Body.Outputs, newOut)
	}
	if t.Body.Certificates != nil {
		ret.Body.Certificates = make(
			[]ledger.Certificate,
			len(t.Body.Certificates),
		)
		copy(ret.Body.Certificates, t.Body.Certificates)
	}
	for _, withdrawal := range t.Body.Withdrawals {
		newWithdrawal := *withdrawal
		ret.Body.Withdrawals = append(ret.Body.Withdrawals, &newWithdrawal)
	}
	if t.WitnessSet != nil {
		ret.WitnessSet = &WitnessSet{}
		for _, redeemer := range t.WitnessSet.Redeemers {
			newRedeemer := *redeemer
			ret.WitnessSet.Redeemers = append(
				ret.WitnessSet.Redeemers,
				&newRedeemer,
			)
		}
	}
	return ret, nil
}
