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
	"github.com/blinklabs-io/plutigo/data"
)

type RedeemerTag uint8

const (
	RedeemerTagSpend  RedeemerTag = 0
	RedeemerTagMint   RedeemerTag = 1
	RedeemerTagCert   RedeemerTag = 2
	RedeemerTagReward RedeemerTag = 3
)

// Redeemer carries the script data for a certificate or withdrawal that is
// authorized by a script-controlled credential. Index is the zero-based
// position of the associated certificate or withdrawal within its list in
// the transaction body; it is only meaningful once that placement has
// happened.
type Redeemer struct {
	_       struct{} `cbor:",toarray"`
	Tag     RedeemerTag
	Index   uint32
	Data    data.PlutusData
	ExUnits ExUnits
}
