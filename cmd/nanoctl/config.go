// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"

	"github.com/npy0/nanopy/chaincfg"
	"github.com/npy0/nanopy/internal/version"
)

const (
	defaultConfigFilename = "nanoctl.conf"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "nanoctl.log"
	defaultSeedFilename   = "wallet.seed"
	defaultDebugLevel     = "info"
)

// config defines the configuration options for nanoctl.
//
// See loadConfig for details on the configuration load process.
type config struct {
	AppData    string `long:"appdata" description:"Application data directory"`
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical} or <subsystem>=<level>[,...] to set per-subsystem levels"`
	NoFileLog  bool   `long:"nofilelogging" description:"Disable file logging"`
	ShowVer    bool   `short:"V" long:"version" description:"Display version information and exit"`

	TestNet bool `long:"testnet" description:"Use the test network"`
	BetaNet bool `long:"betanet" description:"Use the beta network"`

	RPCServer string `short:"s" long:"rpcserver" description:"Node RPC server to connect to"`
	WSServer  string `long:"wsserver" description:"Node websocket server for confirmation tracking (empty to disable)"`
	NoWS      bool   `long:"nows" description:"Do not track confirmations over the websocket"`
	AuthHdr   string `long:"authheader" description:"Value for an Authorization header sent with each RPC request"`

	SeedFile string `short:"f" long:"seedfile" description:"Path to the sealed seed file"`
	Index    uint32 `short:"i" long:"index" description:"Account index to operate on"`

	SendTo    string `long:"sendto" description:"Address to send funds to"`
	Amount    string `long:"amount" description:"Amount to send in display units (requires --sendto)"`
	EmptyTo   string `long:"emptyto" description:"Send the entire balance to this address"`
	ChangeRep string `long:"changerep" description:"Change the account representative to this address"`
	Demo      bool   `long:"demo" description:"Present the blocks a session would produce without signing or broadcasting"`

	NewSeed   bool `short:"n" long:"new" description:"Create a new sealed seed file and print its first address"`
	AuditSeed bool `long:"audit" description:"Report balances of accounts 0 through --index"`
	Broadcast bool `long:"broadcast" description:"Read a block in JSON form from stdin and submit it"`
	LocalWork bool `long:"localwork" description:"Solve proof of work locally instead of asking the node"`
}

// defaultAppData returns the default application data directory, an
// OS-appropriate dot directory in the user's home.
func defaultAppData() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nanoctl")
}

// networkParams resolves the network selection flags into chain parameters,
// rejecting contradictory selections.
func networkParams(cfg *config) (*chaincfg.Params, error) {
	if cfg.TestNet && cfg.BetaNet {
		return nil, fmt.Errorf("--testnet and --betanet are mutually " +
			"exclusive")
	}
	switch {
	case cfg.TestNet:
		return chaincfg.TestNetParams(), nil
	case cfg.BetaNet:
		return chaincfg.BetaNetParams(), nil
	}
	return chaincfg.MainNetParams(), nil
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func loadConfig() (*config, *chaincfg.Params, error) {
	appData := defaultAppData()
	cfg := config{
		AppData:    appData,
		ConfigFile: filepath.Join(appData, defaultConfigFilename),
		DebugLevel: defaultDebugLevel,
	}

	// Pre-parse the command line options to see if an alternative config
	// file was specified.  Help requests are also surfaced here so the
	// config file is not required for them.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.PassDoubleDash)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, nil, err
	}

	parser := flags.NewParser(&cfg, flags.Default)
	configFile := preCfg.ConfigFile
	if preCfg.AppData != appData && preCfg.ConfigFile == cfg.ConfigFile {
		configFile = filepath.Join(preCfg.AppData, defaultConfigFilename)
	}
	iniParser := flags.NewIniParser(parser)
	if err := iniParser.ParseFile(configFile); err != nil {
		// Config files are optional; only syntax errors are fatal.
		if !os.IsNotExist(err) {
			return nil, nil, err
		}
	}

	if _, err := parser.Parse(); err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}

	if cfg.ShowVer {
		fmt.Printf("nanoctl version %s\n", version.String())
		os.Exit(0)
	}

	params, err := networkParams(&cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RPCServer == "" {
		cfg.RPCServer = params.DefaultRPCServer
	}
	if cfg.WSServer == "" {
		cfg.WSServer = params.DefaultWSServer
	}
	if cfg.NoWS {
		cfg.WSServer = ""
	}
	if cfg.SeedFile == "" {
		cfg.SeedFile = filepath.Join(cfg.AppData, defaultSeedFilename)
	}

	if cfg.Amount != "" && cfg.SendTo == "" {
		return nil, nil, fmt.Errorf("--amount requires --sendto")
	}
	if cfg.SendTo != "" && cfg.Amount == "" {
		return nil, nil, fmt.Errorf("--sendto requires --amount")
	}
	if cfg.SendTo != "" && cfg.EmptyTo != "" {
		return nil, nil, fmt.Errorf("--sendto and --emptyto are mutually " +
			"exclusive")
	}

	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return nil, nil, fmt.Errorf("%v\nThe valid debug levels are "+
			"{trace, debug, info, warn, error, critical}", err)
	}

	return &cfg, params, nil
}
