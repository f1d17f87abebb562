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
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"slices"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/fxamacker/cbor/v2"
)

const (
	AddressHeaderTypeMask    = 0xF0
	AddressHeaderNetworkMask = 0x0F
	AddressHashSize          = 28

	AddressNetworkTestnet = 0
	AddressNetworkMainnet = 1

	AddressTypeKeyKey        = 0b0000
	AddressTypeScriptKey     = 0b0001
	AddressTypeKeyScript     = 0b0010
	AddressTypeScriptScript  = 0b0011
	AddressTypeKeyPointer    = 0b0100
	AddressTypeScriptPointer = 0b0101
	AddressTypeKeyNone       = 0b0110
	AddressTypeScriptNone    = 0b0111
	AddressTypeByron         = 0b1000
	AddressTypeNoneKey       = 0b1110
	AddressTypeNoneScript    = 0b1111
)

type Address struct {
	addressType      uint8
	networkId        uint8
	paymentPayload   AddressPayload
	stakingPayload   AddressPayload
	extraData        []byte
	byronAddressType uint64
	byronAddressAttr []byte
}

// NewAddress returns an Address based on the provided bech32/base58 address string
// It detects if the string has mixed case assumes it is a base58 encoded address
// otherwise, it assumes it is bech32 encoded
func NewAddress(addr string) (Address, error) {
	var decoded []byte
	if strings.ToLower(addr) != addr {
		// Mixed case detected: Assume Base58 encoding (e.g., Byron addresses)
		decoded = base58.Decode(addr)
	} else {
		_, data, err := bech32.DecodeNoLimit(addr)
		if err != nil {
			return Address{}, err
		}
		decoded, err = bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			return Address{}, err
		}
	}
	a := Address{}
	if err := a.populateFromBytes(decoded); err != nil {
		return Address{}, err
	}
	return a, nil
}

// NewAddressFromBytes returns an Address based on the raw bytes provided
func NewAddressFromBytes(addrBytes []byte) (Address, error) {
	var ret Address
	if err := ret.populateFromBytes(addrBytes); err != nil {
		return Address{}, err
	}
	return ret, nil
}

// NewAddressFromParts returns an Address based on the individual parts of the address that are provided
func NewAddressFromParts(
	addrType uint8,
	networkId uint8,
	paymentAddr []byte,
	stakingAddr []byte,
) (Address, error) {
	// Validate network ID
	if networkId != AddressNetworkTestnet &&
		networkId != AddressNetworkMainnet {
		return Address{}, errors.New("invalid network ID")
	}
	// Build address bytes
	buf := bytes.NewBuffer(nil)
	header := (addrType << 4) | (networkId & AddressHeaderNetworkMask)
	if err := buf.WriteByte(header); err != nil {
		return Address{}, err
	}
	if _, err := buf.Write(paymentAddr); err != nil {
		return Address{}, err
	}
	if _, err := buf.Write(stakingAddr); err != nil {
		return Address{}, err
	}
	return NewAddressFromBytes(buf.Bytes())
}

type byronAddress struct {
	_        struct{} `cbor:",toarray"`
	Payload  cbor.RawTag
	Checksum uint32
}

type byronAddressPayload struct {
	_        struct{} `cbor:",toarray"`
	Hash     []byte
	Attr     cbor.RawMessage
	AddrType uint64
}

func (a *Address) populateFromBytes(data []byte) error {
	if len(data) == 0 {
		return errors.New("invalid address data: empty")
	}
	// Extract header info
	header := data[0]
	a.addressType = (header & AddressHeaderTypeMask) >> 4
	a.networkId = header & AddressHeaderNetworkMask
	// Byron addresses
	if a.addressType == AddressTypeByron {
		var rawAddr byronAddress
		if err := cbor.Unmarshal(data, &rawAddr); err != nil {
			return err
		}
		var payloadBytes []byte
		if err := cbor.Unmarshal(rawAddr.Payload.Content, &payloadBytes); err != nil ||
			rawAddr.Payload.Number != 24 {
			return errors.New(
				"invalid Byron address data: unexpected payload content",
			)
		}
		payloadChecksum := crc32.ChecksumIEEE(payloadBytes)
		if rawAddr.Checksum != payloadChecksum {
			return errors.New(
				"invalid Byron address data: checksum does not match",
			)
		}
		var byronAddr byronAddressPayload
		if err := cbor.Unmarshal(payloadBytes, &byronAddr); err != nil {
			return err
		}
		if len(byronAddr.Hash) != AddressHashSize {
			return errors.New(
				"invalid Byron address data: hash is not expected length",
			)
		}
		a.byronAddressType = byronAddr.AddrType
		a.byronAddressAttr = byronAddr.Attr
		a.paymentPayload = AddressPayloadKeyHash{
			Hash: AddrKeyHash(byronAddr.Hash),
		}
		return nil
	}
	// Payment payload
	payload := data[1:]
	switch a.addressType {
	case AddressTypeKeyKey, AddressTypeKeyScript, AddressTypeKeyPointer, AddressTypeKeyNone:
		if len(payload) < AddressHashSize {
			return errors.New("invalid payment payload: key hash too small")
		}
		a.paymentPayload = AddressPayloadKeyHash{
			Hash: AddrKeyHash(payload[0:AddressHashSize]),
		}
		payload = payload[AddressHashSize:]
	case AddressTypeScriptKey, AddressTypeScriptScript, AddressTypeScriptPointer, AddressTypeScriptNone:
		if len(payload) < AddressHashSize {
			return errors.New("invalid payment payload: script hash too small")
		}
		a.paymentPayload = AddressPayloadScriptHash{
			Hash: ScriptHash(payload[0:AddressHashSize]),
		}
		payload = payload[AddressHashSize:]
	}
	// Staking payload
	switch a.addressType {
	case AddressTypeKeyKey, AddressTypeScriptKey, AddressTypeNoneKey:
		if len(payload) < AddressHashSize {
			return errors.New("invalid staking payload: key hash too small")
		}
		a.stakingPayload = AddressPayloadKeyHash{
			Hash: AddrKeyHash(payload[0:AddressHashSize]),
		}
		payload = payload[AddressHashSize:]
	case AddressTypeKeyScript, AddressTypeScriptScript, AddressTypeNoneScript:
		if len(payload) < AddressHashSize {
			return errors.New("invalid staking payload: script hash too small")
		}
		a.stakingPayload = AddressPayloadScriptHash{
			Hash: ScriptHash(payload[0:AddressHashSize]),
		}
		payload = payload[AddressHashSize:]
	case AddressTypeKeyPointer, AddressTypeScriptPointer:
		var tmpPointer AddressPayloadPointer
		n, err := tmpPointer.decode(payload)
		if err != nil {
			return err
		}
		a.stakingPayload = tmpPointer
		payload = payload[n:]
	}
	// Store any extra address data
	if len(payload) > 0 {
		a.extraData = payload[:]
	}
	return nil
}

func (a Address) NetworkId() uint {
	if a.addressType == AddressTypeByron {
		// Byron addresses only carry a network ID on testnets
		return AddressNetworkMainnet
	}
	return uint(a.networkId)
}

func (a Address) Type() uint8 {
	return a.addressType
}

// IsRewardAddress returns whether the address is a stake/reward address
func (a Address) IsRewardAddress() bool {
	return a.addressType == AddressTypeNoneKey ||
		a.addressType == AddressTypeNoneScript
}

// DelegationCredential returns the stake credential from the address's
// delegation part, or nil if the address has none (enterprise, pointer, or
// Byron addresses). For reward addresses the credential comes from the
// address's only hash part.
func (a Address) DelegationCredential() *Credential {
	switch p := a.stakingPayload.(type) {
	case AddressPayloadKeyHash:
		ret := NewCredentialFromKeyHash(p.Hash.Bytes())
		return &ret
	case AddressPayloadScriptHash:
		ret := NewCredentialFromScriptHash(p.Hash.Bytes())
		return &ret
	default:
		return nil
	}
}

// PaymentKeyHash returns the hash of the payment key or script
func (a *Address) PaymentKeyHash() Blake2b224 {
	switch p := a.paymentPayload.(type) {
	case AddressPayloadKeyHash:
		return Blake2b224(p.Hash[:])
	case AddressPayloadScriptHash:
		return Blake2b224(p.Hash[:])
	default:
		// Return empty hash
		return Blake2b224([AddressHashSize]byte{})
	}
}

// StakeKeyHash returns the hash of the stake key or script
func (a *Address) StakeKeyHash() Blake2b224 {
	switch p := a.stakingPayload.(type) {
	case AddressPayloadKeyHash:
		return Blake2b224(p.Hash[:])
	case AddressPayloadScriptHash:
		return Blake2b224(p.Hash[:])
	default:
		// Return empty hash
		return Blake2b224([AddressHashSize]byte{})
	}
}

// StakingPayload returns the staking payload
func (a *Address) StakingPayload() AddressPayload {
	return a.stakingPayload
}

// StakeAddress returns a new Address with only the stake key portion. This will return nil if the address is not a payment/staking key pair
func (a Address) StakeAddress() *Address {
	var addrType uint8
	switch a.addressType {
	case AddressTypeKeyKey, AddressTypeScriptKey:
		addrType = AddressTypeNoneKey
	case AddressTypeScriptScript, AddressTypeNoneScript:
		addrType = AddressTypeNoneScript
	default:
		// Unsupported address type
		return nil
	}
	newAddr := &Address{
		addressType:    addrType,
		networkId:      a.networkId,
		stakingPayload: a.stakingPayload,
	}
	return newAddr
}

func (a Address) generateHRP() string {
	var ret string
	if a.addressType == AddressTypeNoneKey ||
		a.addressType == AddressTypeNoneScript {
		ret = "stake"
	} else {
		ret = "addr"
	}
	// Add test_ suffix if not mainnet
	if a.networkId != AddressNetworkMainnet {
		ret += "_test"
	}
	return ret
}

// Bytes returns the underlying bytes for the address
func (a Address) Bytes() ([]byte, error) {
	if a.addressType == AddressTypeByron {
		tmpPayload := byronAddressPayload{
			Hash:     a.paymentPayload.(AddressPayloadKeyHash).Hash.Bytes(),
			Attr:     a.byronAddressAttr,
			AddrType: a.byronAddressType,
		}
		rawPayload, err := cbor.Marshal(tmpPayload)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to encode Byron address payload: %w",
				err,
			)
		}
		tmpData := []any{
			cbor.Tag{
				Number:  24,
				Content: rawPayload,
			},
			crc32.ChecksumIEEE(rawPayload),
		}
		ret, err := cbor.Marshal(tmpData)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to encode Byron address data: %w",
				err,
			)
		}
		return ret, nil
	}
	buf := bytes.NewBuffer(nil)
	header := (a.addressType << 4) | (a.networkId & AddressHeaderNetworkMask)
	if err := buf.WriteByte(header); err != nil {
		return nil, err
	}
	if a.paymentPayload != nil {
		var paymentPayload []byte
		switch p := a.paymentPayload.(type) {
		case AddressPayloadKeyHash:
			paymentPayload = p.Hash.Bytes()
		case AddressPayloadScriptHash:
			paymentPayload = p.Hash.Bytes()
		}
		if _, err := buf.Write(paymentPayload); err != nil {
			return nil, err
		}
	}
	if a.stakingPayload != nil {
		var stakingPayload []byte
		switch p := a.stakingPayload.(type) {
		case AddressPayloadKeyHash:
			stakingPayload = p.Hash.Bytes()
		case AddressPayloadScriptHash:
			stakingPayload = p.Hash.Bytes()
		case AddressPayloadPointer:
			stakingPayload = p.encode()
		}
		if _, err := buf.Write(stakingPayload); err != nil {
			return nil, err
		}
	}
	if _, err := buf.Write(a.extraData); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the bech32-encoded version of the address
func (a Address) String() string {
	data, err := a.Bytes()
	if err != nil {
		panic(fmt.Sprintf("failed to get address bytes: %v", err))
	}
	if a.addressType == AddressTypeByron {
		// Encode data to base58
		return base58.Encode(data)
	}
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	hrp := a.generateHRP()
	encoded, err := bech32.Encode(hrp, convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

type AddressPayload interface {
	isAddressPayload()
}

type AddressPayloadKeyHash struct {
	Hash AddrKeyHash
}

func (AddressPayloadKeyHash) isAddressPayload() {}

type AddressPayloadScriptHash struct {
	Hash ScriptHash
}

func (AddressPayloadScriptHash) isAddressPayload() {}

type AddressPayloadPointer struct {
	Slot      uint64
	TxIndex   uint64
	CertIndex uint64
}

func (AddressPayloadPointer) isAddressPayload() {}

func (a *AddressPayloadPointer) decode(data []byte) (int, error) {
	readVarUint := func(buf *bytes.Reader) (uint64, error) {
		var ret uint64
		for {
			byt, err := buf.ReadByte()
			if err != nil {
				return 0, err
			}
			ret = (ret << 7) | uint64(byt&0x7F)
			if (byt & 0x80) == 0 {
				return ret, nil
			}
		}
	}
	buf := bytes.NewReader(data)
	var err error
	a.Slot, err = readVarUint(buf)
	if err != nil {
		return 0, err
	}
	a.TxIndex, err = readVarUint(buf)
	if err != nil {
		return 0, err
	}
	a.CertIndex, err = readVarUint(buf)
	if err != nil {
		return 0, err
	}
	return len(data) - buf.Len(), nil
}

func (a *AddressPayloadPointer) encode() []byte {
	writeVarUint := func(buf *bytes.Buffer, val uint64) {
		data := []byte{
			byte(val & 0x7F),
		}
		val /= 128
		for val > 0 {
			data = append(
				data,
				byte((val&0x7F)|0x80),
			)
			val /= 128
		}
		slices.Reverse(data)
		buf.Write(data)
	}
	buf := bytes.NewBuffer(nil)
	writeVarUint(buf, a.Slot)
	writeVarUint(buf, a.TxIndex)
	writeVarUint(buf, a.CertIndex)
	return buf.Bytes()
}
