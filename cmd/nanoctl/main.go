// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/npy0/nanopy/chaincfg"
	"github.com/npy0/nanopy/crypto/ed25519b"
	"github.com/npy0/nanopy/internal/version"
	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/rpcclient"
	"github.com/npy0/nanopy/wallet"
)

// nanoctlMain is the real main function for nanoctl.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func nanoctlMain() error {
	cfg, params, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.NoFileLog {
		logFile := filepath.Join(cfg.AppData, defaultLogDirname,
			defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			return err
		}
		defer logRotator.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	log.Infof("Version %s, network %s, node %s", version.String(),
		params.Name, cfg.RPCServer)

	switch {
	case cfg.NewSeed:
		return createSeed(cfg, params)
	case cfg.Broadcast:
		return broadcastBlock(ctx, cfg)
	case cfg.AuditSeed:
		return auditAccounts(ctx, cfg, params)
	}
	return runSession(ctx, cfg, params)
}

func main() {
	if err := nanoctlMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient creates the node RPC client from the active configuration.
func newClient(cfg *config) (*rpcclient.Client, error) {
	connCfg := rpcclient.ConnConfig{Host: cfg.RPCServer}
	if cfg.AuthHdr != "" {
		connCfg.Headers = map[string]string{"Authorization": cfg.AuthHdr}
	}
	return rpcclient.New(&connCfg)
}

// openSeed unseals the configured seed file after prompting for its
// passphrase.
func openSeed(cfg *config) (ed25519b.Seed, error) {
	fmt.Printf("Unsealing %s\n", cfg.SeedFile)
	passphrase, err := promptPassphrase(false)
	if err != nil {
		return ed25519b.Seed{}, err
	}
	return wallet.OpenSeedFile(cfg.SeedFile, passphrase)
}

// createSeed generates a fresh random seed, seals it to the configured seed
// file, and prints the address of its first account.
func createSeed(cfg *config, params *chaincfg.Params) error {
	seed, err := ed25519b.NewSeed()
	if err != nil {
		return err
	}
	defer seed.Zero()

	fmt.Println("Choose a passphrase for the new seed file.")
	passphrase, err := promptPassphrase(true)
	if err != nil {
		return err
	}
	if err := wallet.CreateSeedFile(cfg.SeedFile, seed, passphrase); err != nil {
		return err
	}

	accounts, err := wallet.DeriveAccounts(seed, 0, params)
	if err != nil {
		return err
	}
	fmt.Printf("Sealed seed written to %s\n", cfg.SeedFile)
	fmt.Printf("First account: %v\n", accounts[0])
	return nil
}

// broadcastBlock submits a block read in JSON form from standard input.  The
// block must already carry its signature and work.
func broadcastBlock(ctx context.Context, cfg *config) error {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	if !json.Valid(raw) {
		return fmt.Errorf("standard input does not hold a valid JSON block")
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	hash, err := client.ProcessRaw(ctx, raw)
	if err != nil {
		return err
	}
	fmt.Printf("Broadcast block %v\n", hash)
	return nil
}

// auditAccounts reports the balance and receivable total of every seed
// account from index 0 through the configured index.
func auditAccounts(ctx context.Context, cfg *config, params *chaincfg.Params) error {
	seed, err := openSeed(cfg)
	if err != nil {
		return err
	}
	accounts, err := wallet.DeriveAccounts(seed, cfg.Index, params)
	seed.Zero()
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	entries, err := wallet.Audit(ctx, client, accounts)
	if err != nil {
		return err
	}

	for i, entry := range entries {
		fmt.Printf("%4d %v  balance %s %s, receivable %s %s\n", i,
			entry.Account, entry.Balance.String(params.Exponent),
			params.DisplayUnit, entry.Receivable.String(params.Exponent),
			params.DisplayUnit)
	}
	return nil
}

// sessionIntent translates the send and representative options into the
// session's starting intent.
func sessionIntent(cfg *config, params *chaincfg.Params) (wallet.Intent, error) {
	var intent wallet.Intent
	switch {
	case cfg.SendTo != "":
		destination, err := nanoutil.DecodeAddress(cfg.SendTo, params)
		if err != nil {
			return intent, fmt.Errorf("--sendto: %w", err)
		}
		amount, err := nanoutil.AmountFromString(cfg.Amount, params.Exponent)
		if err != nil {
			return intent, fmt.Errorf("--amount: %w", err)
		}
		intent.Send = &wallet.SendIntent{
			Destination: destination,
			Amount:      amount,
		}

	case cfg.EmptyTo != "":
		destination, err := nanoutil.DecodeAddress(cfg.EmptyTo, params)
		if err != nil {
			return intent, fmt.Errorf("--emptyto: %w", err)
		}
		intent.Send = &wallet.SendIntent{
			Destination:  destination,
			EmptyAccount: true,
		}
	}

	if cfg.ChangeRep != "" {
		representative, err := nanoutil.DecodeAddress(cfg.ChangeRep, params)
		if err != nil {
			return intent, fmt.Errorf("--changerep: %w", err)
		}
		intent.Representative = representative
	}
	return intent, nil
}

// runSession drives an interactive wallet session on the configured account:
// the session reconciles remote state, proposes blocks one at a time, and
// broadcasts each accepted block before proposing the next.
func runSession(ctx context.Context, cfg *config, params *chaincfg.Params) error {
	intent, err := sessionIntent(cfg, params)
	if err != nil {
		return err
	}

	seed, err := openSeed(cfg)
	if err != nil {
		return err
	}
	priv := ed25519b.DeriveKey(seed, cfg.Index)
	seed.Zero()
	pub, err := ed25519b.Public(priv)
	if err != nil {
		return err
	}
	account, err := nanoutil.NewAddressPubKey(pub[:], params)
	if err != nil {
		return err
	}
	sealer := wallet.NewKeySealer(priv)
	defer sealer.Zero()
	priv.Zero()

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	var workSource wallet.WorkSource = wallet.LocalWorkSource{}
	if !cfg.LocalWork {
		workSource = &wallet.RemoteWorkSource{
			Node:     client,
			Fallback: wallet.LocalWorkSource{},
		}
	}

	sessionCfg := wallet.SessionConfig{
		Params:      params,
		Account:     account,
		Ledger:      client,
		Broadcaster: client,
		Work:        workSource,
		Sealer:      sealer,
		Prompter:    newTerminalPrompter(params),
		DryRun:      cfg.Demo,
	}

	// Confirmation tracking is best effort: a node without a websocket
	// still gets a working session, just without waiting for finality.
	if cfg.WSServer != "" && !cfg.Demo {
		notifier, err := rpcclient.NewNotifier(ctx, cfg.WSServer,
			[]string{account.String()})
		if err != nil {
			log.Warnf("Confirmation tracking unavailable: %v", err)
		} else {
			defer notifier.Close()
			sessionCfg.Confirmer = notifier
		}
	}

	fmt.Printf("Account %v on %s\n", account, params.Name)
	session, err := wallet.NewSession(&sessionCfg)
	if err != nil {
		return err
	}
	return session.Run(ctx, intent)
}
