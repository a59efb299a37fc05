// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/npy0/nanopy/crypto/ed25519b"
)

// Sealed seed file format: magic, KDF salt, AEAD nonce, then the seed
// encrypted with XChaCha20-Poly1305 under an argon2id-derived key.  The
// magic doubles as version; a format change bumps the trailing digit.
var seedFileMagic = []byte("npyseed1")

const (
	seedFileSaltSize = 16

	// argon2id parameters: 64 MiB, one pass, four lanes.
	kdfMemory = 64 * 1024
	kdfTime   = 1
	kdfLanes  = 4
)

// deriveSeedFileKey stretches a passphrase into an AEAD key.
func deriveSeedFileKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, kdfTime, kdfMemory, kdfLanes,
		chacha20poly1305.KeySize)
}

// CreateSeedFile writes the seed to path sealed under the passphrase.  It
// refuses to overwrite an existing file: a seed file is the only copy of the
// funds it controls.
func CreateSeedFile(path string, seed ed25519b.Seed, passphrase []byte) error {
	salt := make([]byte, seedFileSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(deriveSeedFileKey(passphrase, salt))
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	buf := make([]byte, 0, len(seedFileMagic)+len(salt)+len(nonce)+
		ed25519b.SeedSize+aead.Overhead())
	buf = append(buf, seedFileMagic...)
	buf = append(buf, salt...)
	buf = append(buf, nonce...)
	buf = aead.Seal(buf, nonce, seed[:], seedFileMagic)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	log.Infof("Wrote sealed seed file %s", path)
	return nil
}

// OpenSeedFile unseals the seed stored at path with the passphrase.
func OpenSeedFile(path string, passphrase []byte) (ed25519b.Seed, error) {
	var seed ed25519b.Seed

	buf, err := os.ReadFile(path)
	if err != nil {
		return seed, err
	}
	header := len(seedFileMagic) + seedFileSaltSize + chacha20poly1305.NonceSizeX
	if len(buf) < header || !bytes.HasPrefix(buf, seedFileMagic) {
		str := fmt.Sprintf("%s is not a sealed seed file", path)
		return seed, makeError(ErrCorruptSeedFile, str)
	}
	salt := buf[len(seedFileMagic) : len(seedFileMagic)+seedFileSaltSize]
	nonce := buf[len(seedFileMagic)+seedFileSaltSize : header]

	aead, err := chacha20poly1305.NewX(deriveSeedFileKey(passphrase, salt))
	if err != nil {
		return seed, err
	}
	plain, err := aead.Open(nil, nonce, buf[header:], seedFileMagic)
	if err != nil {
		str := fmt.Sprintf("cannot unseal %s: wrong passphrase or damaged "+
			"file", path)
		return seed, makeError(ErrBadPassphrase, str)
	}
	if len(plain) != ed25519b.SeedSize {
		str := fmt.Sprintf("%s holds a %d byte secret, expected %d", path,
			len(plain), ed25519b.SeedSize)
		return seed, makeError(ErrCorruptSeedFile, str)
	}
	copy(seed[:], plain)
	return seed, nil
}
