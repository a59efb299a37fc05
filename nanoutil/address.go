// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nanoutil

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/npy0/nanopy/chaincfg"
)

// addrAlphabet is the base32 alphabet accounts are encoded with.  It omits
// the easily-confused characters 0, 2, l, and v.
const addrAlphabet = "13456789abcdefghijkmnopqrstuwxyz"

const (
	// addrKeyChars is the number of alphabet characters encoding the
	// 256-bit public key (260 bits with 4 leading pad bits).
	addrKeyChars = 52

	// addrChecksumChars is the number of alphabet characters encoding the
	// 40-bit checksum.
	addrChecksumChars = 8

	// addrChecksumSize is the checksum length in bytes.
	addrChecksumSize = 5
)

// addrDigits maps an ASCII byte to its alphabet value, or 0xff when the byte
// is not part of the alphabet.
var addrDigits [256]byte

func init() {
	for i := range addrDigits {
		addrDigits[i] = 0xff
	}
	for i := 0; i < len(addrAlphabet); i++ {
		addrDigits[addrAlphabet[i]] = byte(i)
	}
}

// Address is an account address: a 256-bit public key bound to the network
// prefix it renders with.  The zero value represents an absent address, as
// for the representative of an account that has never been opened.
type Address struct {
	prefix string
	pubKey [32]byte
}

// NewAddressPubKey returns the address of the passed 32-byte account public
// key using the canonical prefix of the given network.
func NewAddressPubKey(pubKey []byte, params *chaincfg.Params) (Address, error) {
	if len(pubKey) != 32 {
		str := fmt.Sprintf("account public key is %d bytes, must be 32",
			len(pubKey))
		return Address{}, makeError(ErrMalformedAddress, str)
	}
	addr := Address{prefix: params.AddressPrefix}
	copy(addr.pubKey[:], pubKey)
	return addr, nil
}

// DecodeAddress decodes a textual account address, validating its prefix
// against the network and its checksum against the embedded public key.  The
// returned address re-encodes with the network's canonical prefix even when a
// legacy prefix was supplied.
func DecodeAddress(addr string, params *chaincfg.Params) (Address, error) {
	var body string
	var matched bool
	for _, prefix := range params.AcceptedPrefixes() {
		if strings.HasPrefix(addr, prefix) {
			body = addr[len(prefix):]
			matched = true
			break
		}
	}
	if !matched {
		str := fmt.Sprintf("address %q does not carry a recognized %s "+
			"prefix", addr, params.Name)
		return Address{}, makeError(ErrUnknownPrefix, str)
	}
	if len(body) != addrKeyChars+addrChecksumChars {
		str := fmt.Sprintf("address %q has a %d character body, must be %d",
			addr, len(body), addrKeyChars+addrChecksumChars)
		return Address{}, makeError(ErrMalformedAddress, str)
	}

	var pubKey [32]byte
	err := decodeBase32(body[:addrKeyChars], 4, pubKey[:])
	if err != nil {
		str := fmt.Sprintf("address %q: %v", addr, err)
		return Address{}, makeError(ErrMalformedAddress, str)
	}
	var checksum [addrChecksumSize]byte
	err = decodeBase32(body[addrKeyChars:], 0, checksum[:])
	if err != nil {
		str := fmt.Sprintf("address %q: %v", addr, err)
		return Address{}, makeError(ErrMalformedAddress, str)
	}
	if checksum != addrChecksum(pubKey) {
		str := fmt.Sprintf("address %q checksum mismatch", addr)
		return Address{}, makeError(ErrChecksumMismatch, str)
	}

	return Address{prefix: params.AddressPrefix, pubKey: pubKey}, nil
}

// String renders the address in its textual form.  The zero value renders as
// an empty string.
func (a Address) String() string {
	if a.prefix == "" {
		return ""
	}
	body := make([]byte, 0, addrKeyChars+addrChecksumChars)
	body = appendBase32(body, 4, a.pubKey[:])
	checksum := addrChecksum(a.pubKey)
	body = appendBase32(body, 0, checksum[:])
	return a.prefix + string(body)
}

// PubKey returns the 256-bit account public key the address encodes.
func (a Address) PubKey() [32]byte {
	return a.pubKey
}

// IsZero reports whether the address is the absent zero value.
func (a Address) IsZero() bool {
	return a == Address{}
}

// addrChecksum computes the 5-byte address checksum: a blake2b-40 digest of
// the public key with its byte order reversed.
func addrChecksum(pubKey [32]byte) [addrChecksumSize]byte {
	h, _ := blake2b.New(addrChecksumSize, nil)
	h.Write(pubKey[:])
	digest := h.Sum(nil)
	var checksum [addrChecksumSize]byte
	for i := 0; i < addrChecksumSize; i++ {
		checksum[i] = digest[addrChecksumSize-1-i]
	}
	return checksum
}

// appendBase32 appends the alphabet encoding of src to dst and returns the
// extended buffer.  pad is the number of zero bits conceptually prepended to
// src so its total bit length divides evenly by five.
func appendBase32(dst []byte, pad uint, src []byte) []byte {
	var acc uint
	var bits uint = pad
	for _, b := range src {
		acc = acc<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			dst = append(dst, addrAlphabet[acc>>bits&0x1f])
		}
	}
	return dst
}

// decodeBase32 decodes alphabet characters into dst, expecting pad leading
// zero bits.  It errors on characters outside the alphabet and on non-zero
// padding, which would make the encoding ambiguous.
func decodeBase32(s string, pad uint, dst []byte) error {
	var acc, bits uint
	out := 0
	for i := 0; i < len(s); i++ {
		v := addrDigits[s[i]]
		if v == 0xff {
			return fmt.Errorf("invalid character %q", s[i])
		}
		if i == 0 && pad > 0 {
			if v>>(5-pad) != 0 {
				return fmt.Errorf("non-canonical leading character %q", s[i])
			}
			acc, bits = uint(v), 5-pad
		} else {
			acc = acc<<5 | uint(v)
			bits += 5
		}
		for bits >= 8 {
			bits -= 8
			if out == len(dst) {
				return fmt.Errorf("encoding longer than %d bytes", len(dst))
			}
			dst[out] = byte(acc >> bits)
			out++
		}
	}
	if out != len(dst) || bits != 0 {
		return fmt.Errorf("encoding is not exactly %d bytes", len(dst))
	}
	return nil
}
