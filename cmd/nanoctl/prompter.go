// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/npy0/nanopy/chaincfg"
	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/wallet"
	"github.com/npy0/nanopy/wire"
)

// terminalPrompter satisfies wallet.Prompter by asking the user on the
// controlling terminal.  Every block leaves the wallet through one of its
// prompts.
type terminalPrompter struct {
	params *chaincfg.Params
	reader *bufio.Reader
}

func newTerminalPrompter(params *chaincfg.Params) *terminalPrompter {
	return &terminalPrompter{
		params: params,
		reader: bufio.NewReader(os.Stdin),
	}
}

// askYesNo prints the question and reads a y/N answer.  Anything but an
// explicit yes declines.
func (p *terminalPrompter) askYesNo(question string) (bool, error) {
	fmt.Printf("%s [y/N]: ", question)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// ConfirmBlock presents the candidate in display units and asks whether to
// sign and broadcast it.
func (p *terminalPrompter) ConfirmBlock(candidate *wire.CandidateBlock) (bool, error) {
	unit := p.params.DisplayUnit
	exponent := p.params.Exponent

	fmt.Printf("\n%s block on %v\n", strings.ToUpper(candidate.Kind.String()),
		candidate.Account)
	if candidate.Kind == wire.KindSend {
		fmt.Printf("  destination:    %v\n", candidate.LinkAddress)
	}
	fmt.Printf("  new balance:    %s %s\n", candidate.Balance.String(exponent),
		unit)
	fmt.Printf("  representative: %v\n", candidate.Representative)
	return p.askYesNo("Sign and broadcast this block?")
}

// ConfirmReceive asks whether to claim the pending transfer.
func (p *terminalPrompter) ConfirmReceive(transfer *wallet.PendingTransfer) (bool, error) {
	fmt.Printf("\nReceivable %s %s from %s\n",
		transfer.Amount.String(p.params.Exponent), p.params.DisplayUnit,
		transfer.Sender)
	return p.askYesNo("Receive this transfer?")
}

// RequestRepresentative asks for a representative address.  An empty answer
// declines with a zero address.
func (p *terminalPrompter) RequestRepresentative(reason string) (nanoutil.Address, error) {
	fmt.Printf("\n%s\n", reason)
	for {
		fmt.Print("Representative address (empty to skip): ")
		line, err := p.reader.ReadString('\n')
		if err != nil {
			return nanoutil.Address{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return nanoutil.Address{}, nil
		}
		address, err := nanoutil.DecodeAddress(line, p.params)
		if err != nil {
			fmt.Printf("Invalid address: %v\n", err)
			continue
		}
		return address, nil
	}
}

// promptPassphrase reads a passphrase from the terminal without echo.  When
// confirm is set the passphrase is read twice and both reads must match.
func promptPassphrase(confirm bool) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("standard input is not a terminal; refusing " +
			"to read a passphrase")
	}

	fmt.Print("Passphrase: ")
	passphrase, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return nil, err
	}
	if !confirm {
		return passphrase, nil
	}

	fmt.Print("Confirm passphrase: ")
	again, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return nil, err
	}
	if string(passphrase) != string(again) {
		return nil, fmt.Errorf("passphrases do not match")
	}
	return passphrase, nil
}
