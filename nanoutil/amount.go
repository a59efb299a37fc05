// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nanoutil

import (
	"fmt"
	"math/big"
	"strings"
)

// Amount represents a non-negative quantity of raw, the smallest indivisible
// unit of the ledger.  The zero value represents zero raw.
//
// Amounts are exact arbitrary-precision integers.  No floating-point
// representation is ever involved, so balances accumulated over any number of
// operations never drift.  An Amount is immutable once created; all
// arithmetic returns a new value.
type Amount struct {
	val *big.Int
}

// bigVal returns the underlying integer, substituting zero for the zero
// value.  The returned integer must not be mutated.
func (a Amount) bigVal() *big.Int {
	if a.val == nil {
		return big.NewInt(0)
	}
	return a.val
}

// NewAmount creates an Amount from a non-negative big integer denominated in
// raw.  The passed integer is copied, so the caller retains ownership.
func NewAmount(n *big.Int) (Amount, error) {
	if n.Sign() < 0 {
		str := fmt.Sprintf("amount %v is negative", n)
		return Amount{}, makeError(ErrNegativeAmount, str)
	}
	return Amount{val: new(big.Int).Set(n)}, nil
}

// AmountFromRaw parses a base-10 string denominated in raw.  It errors on
// empty, non-numeric, or negative input.  This is the form balances and
// transfer amounts take on the RPC wire.
func AmountFromRaw(s string) (Amount, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		str := fmt.Sprintf("malformed raw amount %q", s)
		return Amount{}, makeError(ErrMalformedAmount, str)
	}
	if n.Sign() < 0 {
		str := fmt.Sprintf("raw amount %q is negative", s)
		return Amount{}, makeError(ErrNegativeAmount, str)
	}
	return Amount{val: n}, nil
}

// AmountFromString parses a decimal display-unit value such as "3" or
// "0.000133" and scales it by the given network exponent to an exact raw
// amount.  It errors on malformed or negative input and on values with more
// fractional digits than the exponent permits.
func AmountFromString(s string, exponent uint) (Amount, error) {
	whole := s
	var frac string
	if dot := strings.IndexByte(s, '.'); dot != -1 {
		whole, frac = s[:dot], s[dot+1:]
	}
	if strings.HasPrefix(whole, "-") {
		str := fmt.Sprintf("display amount %q is negative", s)
		return Amount{}, makeError(ErrNegativeAmount, str)
	}
	if whole == "" && frac == "" {
		return Amount{}, makeError(ErrMalformedAmount, "empty amount")
	}
	if uint(len(frac)) > exponent {
		str := fmt.Sprintf("display amount %q has more than %d fractional "+
			"digits", s, exponent)
		return Amount{}, makeError(ErrMalformedAmount, str)
	}

	// Scale by appending the missing fractional digits so the whole parse
	// happens in exact integer space.
	digits := whole + frac + strings.Repeat("0", int(exponent)-len(frac))
	if !isDecimal(digits) {
		str := fmt.Sprintf("malformed display amount %q", s)
		return Amount{}, makeError(ErrMalformedAmount, str)
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		str := fmt.Sprintf("malformed display amount %q", s)
		return Amount{}, makeError(ErrMalformedAmount, str)
	}
	return Amount{val: n}, nil
}

// isDecimal reports whether s is a non-empty string of ASCII digits.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Add returns the sum of the two amounts.  The sum of two valid amounts is
// always representable, so no error is possible.
func (a Amount) Add(b Amount) Amount {
	return Amount{val: new(big.Int).Add(a.bigVal(), b.bigVal())}
}

// Sub returns a minus b.  It errors with ErrInsufficientBalance when b
// exceeds a; a negative Amount is never produced.
func (a Amount) Sub(b Amount) (Amount, error) {
	av, bv := a.bigVal(), b.bigVal()
	if bv.Cmp(av) > 0 {
		str := fmt.Sprintf("cannot subtract %v raw from balance %v raw",
			bv, av)
		return Amount{}, makeError(ErrInsufficientBalance, str)
	}
	return Amount{val: new(big.Int).Sub(av, bv)}, nil
}

// Cmp compares two amounts and returns -1, 0, or 1 when a is respectively
// less than, equal to, or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.bigVal().Cmp(b.bigVal())
}

// IsZero reports whether the amount is exactly zero raw.
func (a Amount) IsZero() bool {
	return a.bigVal().Sign() == 0
}

// Raw returns the exact base-10 raw representation used on the RPC wire.
func (a Amount) Raw() string {
	return a.bigVal().String()
}

// BigInt returns a copy of the amount as a big integer in raw.
func (a Amount) BigInt() *big.Int {
	return new(big.Int).Set(a.bigVal())
}

// Bytes16 returns the amount as a 16-byte big-endian integer, the form
// balances take inside block hashing preimages.  It errors when the amount
// exceeds 128 bits, which no valid ledger balance can.
func (a Amount) Bytes16() ([16]byte, error) {
	var buf [16]byte
	v := a.bigVal()
	if v.BitLen() > 128 {
		str := fmt.Sprintf("amount %v overflows 128 bits", v)
		return buf, makeError(ErrAmountTooLarge, str)
	}
	v.FillBytes(buf[:])
	return buf, nil
}

// String renders the amount in display units with the given network exponent
// in canonical form: no trailing fractional zeros and no exponent notation.
// Parsing the result with AmountFromString reproduces the amount exactly.
func (a Amount) String(exponent uint) string {
	digits := a.bigVal().String()
	if exponent == 0 {
		return digits
	}
	if uint(len(digits)) <= exponent {
		digits = strings.Repeat("0", int(exponent)-len(digits)+1) + digits
	}
	split := len(digits) - int(exponent)
	whole, frac := digits[:split], digits[split:]
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
