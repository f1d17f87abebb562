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

	"github.com/lucky777ada/cardano-client-lib/internal/test"
)

func TestPoolIdRoundTrip(t *testing.T) {
	poolIdHex := "21bd8c2e0df2fbe92137f78dbaba48f62308e52303049f0d628b6c4c"
	poolId, err := NewPoolIdFromHex(poolIdHex)
	if err != nil {
		t.Fatalf("failed to create pool ID from hex: %s", err)
	}
	encoded := poolId.String()
	assert.Equal(
		t,
		"pool1yx7cctsd7ta7jgfh77xm4wjg7c3s3efrqvzf7rtz3dkycxklz05",
		encoded,
	)
	decoded, err := NewPoolIdFromBech32(encoded)
	if err != nil {
		t.Fatalf("failed to decode bech32 pool ID: %s", err)
	}
	assert.Equal(t, poolId, decoded)
}

func TestPoolIdInvalid(t *testing.T) {
	testDefs := []struct {
		name   string
		poolId string
		hex    bool
	}{
		{
			name:   "TruncatedHex",
			poolId: "21bd8c2e0df2fbe92137f78dbaba48f62308e523",
			hex:    true,
		},
		{
			name:   "NotHex",
			poolId: "zzzz",
			hex:    true,
		},
		{
			name:   "MalformedBech32",
			poolId: "pool1qqqqqq",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			var err error
			if testDef.hex {
				_, err = NewPoolIdFromHex(testDef.poolId)
			} else {
				_, err = NewPoolIdFromBech32(testDef.poolId)
			}
			assert.Error(t, err)
		})
	}
}

func TestBlake2b224Hash(t *testing.T) {
	// Empty blake2b-224 hash
	expected := "836cc68931c2e4e3e838602eca1902591d216837bafddfe6f0c8cb07"
	result := Blake2b224Hash(nil)
	assert.Equal(t, expected, result.String())
}

func TestBlake2b224Bech32(t *testing.T) {
	hash := NewBlake2b224(
		test.DecodeHexString(
			"21bd8c2e0df2fbe92137f78dbaba48f62308e52303049f0d628b6c4c",
		),
	)
	encoded := hash.Bech32("pool")
	assert.Equal(
		t,
		"pool1yx7cctsd7ta7jgfh77xm4wjg7c3s3efrqvzf7rtz3dkycxklz05",
		encoded,
	)
}
