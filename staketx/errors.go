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
)

// InvalidAddressError indicates an address without a delegation credential
// was used where a stake credential is required
type InvalidAddressError struct {
	Address string
}

func (e InvalidAddressError) Error() string {
	return fmt.Sprintf(
		"invalid stake address %s: address does not have delegation credential",
		e.Address,
	)
}

// InvalidAddressTypeError indicates a non-reward address was used for a
// withdrawal
type InvalidAddressTypeError struct {
	Address string
}

func (e InvalidAddressTypeError) Error() string {
	return fmt.Sprintf(
		"invalid address type for %s: only a reward address can be used for withdrawal",
		e.Address,
	)
}

// InvalidPoolIdError indicates a malformed bech32 or hex pool identifier
type InvalidPoolIdError struct {
	PoolId string
	Err    error
}

func (e InvalidPoolIdError) Error() string {
	return fmt.Sprintf(
		"invalid pool ID %s: %v",
		e.PoolId,
		e.Err,
	)
}

func (e InvalidPoolIdError) Unwrap() error { return e.Err }

// DepositSourceNotFoundError indicates no draft output at the from address
// holds enough coin to absorb the stake key registration deposit
type DepositSourceNotFoundError struct {
	Address string
}

func (e DepositSourceNotFoundError) Error() string {
	return fmt.Sprintf(
		"output for from address not found to remove deposit amount: %s",
		e.Address,
	)
}
