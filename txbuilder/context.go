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

// ProtocolParameters carries the protocol parameters consumed while building
// a transaction. Amounts are integer strings, matching the form they arrive
// in from chain query backends.
type ProtocolParameters struct {
	KeyDeposit  string
	PoolDeposit string
	MinFeeA     uint
	MinFeeB     uint
}

// Context carries the external collaborators a TxBuilder needs while
// mutating a draft
type Context struct {
	ProtocolParams ProtocolParameters
}

// TxBuilder mutates a draft transaction in place. Builders are composed with
// AndThen and applied once per draft.
type TxBuilder func(ctx *Context, tx *Tx) error

// AndThen returns a TxBuilder that applies b and then next against the same
// draft, stopping at the first error
func (b TxBuilder) AndThen(next TxBuilder) TxBuilder {
	return func(ctx *Context, tx *Tx) error {
		if err := b(ctx, tx); err != nil {
			return err
		}
		return next(ctx, tx)
	}
}

// NoopTxBuilder returns a TxBuilder that leaves the draft untouched
func NoopTxBuilder() TxBuilder {
	return func(ctx *Context, tx *Tx) error {
		return nil
	}
}
