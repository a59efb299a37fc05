// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nanoutil

import (
	"errors"
	"math/big"
	"testing"
)

// TestAmountFromString ensures parsing display-unit values produces exact raw
// amounts and rejects malformed input.
func TestAmountFromString(t *testing.T) {
	tests := []struct {
		name     string    // test description
		input    string    // display value to parse
		exponent uint      // raw digits per display unit
		wantRaw  string    // expected raw value
		wantErr  error     // expected error kind, or nil
	}{{
		name:     "whole units",
		input:    "3",
		exponent: 6,
		wantRaw:  "3000000",
	}, {
		name:     "fractional",
		input:    "1.25",
		exponent: 6,
		wantRaw:  "1250000",
	}, {
		name:     "full precision",
		input:    "0.000001",
		exponent: 6,
		wantRaw:  "1",
	}, {
		name:     "mainnet exponent",
		input:    "1",
		exponent: 30,
		wantRaw:  "1000000000000000000000000000000",
	}, {
		name:     "zero",
		input:    "0",
		exponent: 30,
		wantRaw:  "0",
	}, {
		name:     "bare fraction",
		input:    ".5",
		exponent: 1,
		wantRaw:  "5",
	}, {
		name:     "negative",
		input:    "-1",
		exponent: 6,
		wantErr:  ErrNegativeAmount,
	}, {
		name:     "not a number",
		input:    "12x4",
		exponent: 6,
		wantErr:  ErrMalformedAmount,
	}, {
		name:     "empty",
		input:    "",
		exponent: 6,
		wantErr:  ErrMalformedAmount,
	}, {
		name:     "lone dot",
		input:    ".",
		exponent: 6,
		wantErr:  ErrMalformedAmount,
	}, {
		name:     "too precise",
		input:    "0.0000001",
		exponent: 6,
		wantErr:  ErrMalformedAmount,
	}, {
		name:     "exponent notation",
		input:    "1e3",
		exponent: 6,
		wantErr:  ErrMalformedAmount,
	}}

	for _, test := range tests {
		amt, err := AmountFromString(test.input, test.exponent)
		if test.wantErr != nil {
			if !errors.Is(err, test.wantErr) {
				t.Errorf("%q: unexpected error -- got %v, want %v", test.name,
					err, test.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.name, err)
			continue
		}
		if amt.Raw() != test.wantRaw {
			t.Errorf("%q: unexpected raw value -- got %s, want %s", test.name,
				amt.Raw(), test.wantRaw)
		}
	}
}

// TestAmountDisplayRoundTrip ensures rendering a parsed canonical display
// string reproduces the input exactly.
func TestAmountDisplayRoundTrip(t *testing.T) {
	tests := []struct {
		input    string
		exponent uint
	}{
		{"0", 30},
		{"1", 30},
		{"3.14", 30},
		{"0.000000000000000000000000000001", 30},
		{"133248289.196499221154116917710445381553", 30},
		{"42", 0},
		{"0.5", 1},
	}

	for _, test := range tests {
		amt, err := AmountFromString(test.input, test.exponent)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.input, err)
			continue
		}
		if got := amt.String(test.exponent); got != test.input {
			t.Errorf("%q: round trip mismatch -- got %q", test.input, got)
		}
	}
}

// TestAmountSub ensures subtraction is exact and refuses to produce a
// negative amount.
func TestAmountSub(t *testing.T) {
	tests := []struct {
		name    string // test description
		a       string // minuend in raw
		b       string // subtrahend in raw
		want    string // expected difference in raw
		wantErr error  // expected error kind, or nil
	}{{
		name: "basic",
		a:    "5000000",
		b:    "3000000",
		want: "2000000",
	}, {
		name: "to zero",
		a:    "5000000",
		b:    "5000000",
		want: "0",
	}, {
		name:    "overdraw",
		a:       "5000000",
		b:       "6000000",
		wantErr: ErrInsufficientBalance,
	}, {
		name:    "overdraw from zero",
		a:       "0",
		b:       "1",
		wantErr: ErrInsufficientBalance,
	}}

	for _, test := range tests {
		a, err := AmountFromRaw(test.a)
		if err != nil {
			t.Fatalf("%q: unexpected err parsing minuend: %v", test.name, err)
		}
		b, err := AmountFromRaw(test.b)
		if err != nil {
			t.Fatalf("%q: unexpected err parsing subtrahend: %v", test.name,
				err)
		}

		diff, err := a.Sub(b)
		if test.wantErr != nil {
			if !errors.Is(err, test.wantErr) {
				t.Errorf("%q: unexpected error -- got %v, want %v", test.name,
					err, test.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.name, err)
			continue
		}
		if diff.Raw() != test.want {
			t.Errorf("%q: unexpected difference -- got %s, want %s",
				test.name, diff.Raw(), test.want)
		}
	}
}

// TestAmountAddSubSequence ensures a sequence of credits and debits nets out
// exactly with no drift.
func TestAmountAddSubSequence(t *testing.T) {
	var balance Amount
	credit, _ := AmountFromRaw("123456789123456789123456789")
	for i := 0; i < 1000; i++ {
		balance = balance.Add(credit)
	}
	for i := 0; i < 999; i++ {
		var err error
		balance, err = balance.Sub(credit)
		if err != nil {
			t.Fatalf("unexpected error on debit %d: %v", i, err)
		}
	}
	if balance.Cmp(credit) != 0 {
		t.Fatalf("unexpected net balance -- got %s, want %s", balance.Raw(),
			credit.Raw())
	}
}

// TestAmountBytes16 ensures the hashing form is big-endian, fixed width, and
// rejects values beyond 128 bits.
func TestAmountBytes16(t *testing.T) {
	amt, err := AmountFromRaw("1000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf, err := amt.Bytes16()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x0f, 0x42, 0x40}
	if buf != want {
		t.Fatalf("unexpected encoding -- got %x, want %x", buf, want)
	}

	huge, err := NewAmount(new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := huge.Bytes16(); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("unexpected error -- got %v, want %v", err, ErrAmountTooLarge)
	}
}

// TestNewAmountNegative ensures negative integers are rejected outright.
func TestNewAmountNegative(t *testing.T) {
	_, err := NewAmount(big.NewInt(-5))
	if !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("unexpected error -- got %v, want %v", err, ErrNegativeAmount)
	}
	if _, err := AmountFromRaw("-5"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("unexpected error -- got %v, want %v", err, ErrNegativeAmount)
	}
}
