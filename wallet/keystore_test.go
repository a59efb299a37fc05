// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npy0/nanopy/crypto/ed25519b"
)

// TestSeedFileRoundTrip ensures a sealed seed file opens back to the same
// seed with the right passphrase.
func TestSeedFileRoundTrip(t *testing.T) {
	var seed ed25519b.Seed
	for i := range seed {
		seed[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "wallet.seed")
	passphrase := []byte("correct horse")

	if err := CreateSeedFile(path, seed, passphrase); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("unexpected permissions %v", perm)
	}

	got, err := OpenSeedFile(path, passphrase)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != seed {
		t.Fatal("unsealed seed differs from the sealed one")
	}
}

// TestSeedFileWrongPassphrase ensures the wrong passphrase is rejected
// without yielding a seed.
func TestSeedFileWrongPassphrase(t *testing.T) {
	var seed ed25519b.Seed
	path := filepath.Join(t.TempDir(), "wallet.seed")

	if err := CreateSeedFile(path, seed, []byte("right")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := OpenSeedFile(path, []byte("wrong"))
	if !errors.Is(err, ErrBadPassphrase) {
		t.Fatalf("unexpected error -- got %v, want %v", err, ErrBadPassphrase)
	}
}

// TestSeedFileCorrupt ensures damaged or foreign files are rejected.
func TestSeedFileCorrupt(t *testing.T) {
	passphrase := []byte("pass")
	dir := t.TempDir()

	// Not a seed file at all.
	foreign := filepath.Join(dir, "foreign.seed")
	if err := os.WriteFile(foreign, []byte("not a seed file"), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := OpenSeedFile(foreign, passphrase)
	if !errors.Is(err, ErrCorruptSeedFile) {
		t.Fatalf("unexpected error -- got %v, want %v", err,
			ErrCorruptSeedFile)
	}

	// A valid file with a flipped ciphertext byte fails authentication.
	var seed ed25519b.Seed
	damaged := filepath.Join(dir, "damaged.seed")
	if err := CreateSeedFile(damaged, seed, passphrase); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf, err := os.ReadFile(damaged)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf[len(buf)-1] ^= 0x01
	if err := os.WriteFile(damaged, buf, 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = OpenSeedFile(damaged, passphrase)
	if !errors.Is(err, ErrBadPassphrase) {
		t.Fatalf("unexpected error -- got %v, want %v", err, ErrBadPassphrase)
	}
}

// TestSeedFileNoOverwrite ensures an existing seed file is never clobbered.
func TestSeedFileNoOverwrite(t *testing.T) {
	var seed ed25519b.Seed
	path := filepath.Join(t.TempDir(), "wallet.seed")

	if err := CreateSeedFile(path, seed, []byte("pass")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := CreateSeedFile(path, seed, []byte("pass"))
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("unexpected error -- got %v, want %v", err, os.ErrExist)
	}
}
