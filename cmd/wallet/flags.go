package main

import (
	"github.com/urfave/cli/v2"
)

var (
	// Operations.

	// GenerateFlag prints a new mnemonic.
	GenerateFlag = &cli.BoolFlag{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate a new mnemonic and print it",
	}
	// InitializeFlag creates a new vault from a fresh mnemonic.
	InitializeFlag = &cli.BoolFlag{
		Name:    "initialize",
		Aliases: []string{"i"},
		Usage:   "Initialize a new vault and store it in the vault file",
	}
	// AddressFlag prints the vault address.
	AddressFlag = &cli.BoolFlag{
		Name:    "address",
		Aliases: []string{"a"},
		Usage:   "Print the address of the vault",
	}
	// SignTransactionFlag signs the transaction given as argument or input file.
	SignTransactionFlag = &cli.BoolFlag{
		Name:    "sign-transaction",
		Aliases: []string{"s"},
		Usage:   "Sign a transaction given as argument or with --input-file",
	}
	ExportKeystoreFlag = &cli.StringFlag{
		Name:  "export-keystore",
		Usage: "Write the vault key as a Web3 Secret Storage (V3) keystore to this file",
	}
	QRFileFlag = &cli.StringFlag{
		Name:  "qr-file",
		Usage: "Write the vault address as a PNG QR code to this file",
	}
	ChangePasswordFlag = &cli.StringFlag{
		Name:  "change-password",
		Usage: "Re-encrypt the vault under a new password into this new vault file",
	}
	ServeFlag = &cli.BoolFlag{
		Name:  "serve",
		Usage: "Serve the vault over a loopback HTTP API until interrupted",
	}

	// Files and secrets.

	// PasswordFlag is the vault password. Prefer --password-file or the environment.
	PasswordFlag = &cli.StringFlag{
		Name:    "password",
		Aliases: []string{"p"},
		Usage:   "Vault password",
	}
	PasswordFileFlag = &cli.StringFlag{
		Name:  "password-file",
		Usage: "Read the vault password from this file",
	}
	NewPasswordFlag = &cli.StringFlag{
		Name:  "new-password",
		Usage: "New vault password for --change-password",
	}
	NewPasswordFileFlag = &cli.StringFlag{
		Name:  "new-password-file",
		Usage: "Read the new vault password for --change-password from this file",
	}
	// DirFlag is the base directory for all files.
	DirFlag = &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "The base directory for all files",
		Value:   ".",
	}
	FileFlag = &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Vault file",
		Value:   "vault.json",
	}
	InputFileFlag = &cli.StringFlag{
		Name:    "input-file",
		Aliases: []string{"if"},
		Usage:   "Read the transaction from this file",
	}
	OutputFileFlag = &cli.StringFlag{
		Name:    "output-file",
		Aliases: []string{"of"},
		Usage:   "Write the signed transaction to this file instead of printing it",
	}

	// Vault and signing parameters.

	KDFFlag = &cli.StringFlag{
		Name:  "kdf",
		Usage: "Key derivation function for new vaults: scrypt or pbkdf2",
	}
	CipherFlag = &cli.StringFlag{
		Name:  "cipher",
		Usage: "Cipher for new vaults: aes-256-gcm or aes-128-ctr",
	}
	DerivationPathFlag = &cli.StringFlag{
		Name:  "derivation-path",
		Usage: "BIP-32 path of the account derived from the mnemonic",
	}
	ChainIDFlag = &cli.Uint64Flag{
		Name:  "chain-id",
		Usage: "Refuse to sign transactions for any other chain id",
	}
	ListenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "Loopback address for --serve",
	}

	// Logging.

	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (trace, debug, info, warn, error)",
	}
	LogFormatFlag = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Specify log formatting. Supports: text, json, fluentd",
		Value: "text",
	}
)

var appFlags = []cli.Flag{
	GenerateFlag,
	InitializeFlag,
	AddressFlag,
	SignTransactionFlag,
	ExportKeystoreFlag,
	QRFileFlag,
	ChangePasswordFlag,
	ServeFlag,
	PasswordFlag,
	PasswordFileFlag,
	NewPasswordFlag,
	NewPasswordFileFlag,
	DirFlag,
	FileFlag,
	InputFileFlag,
	OutputFileFlag,
	KDFFlag,
	CipherFlag,
	DerivationPathFlag,
	ChainIDFlag,
	ListenFlag,
	VerbosityFlag,
	LogFormatFlag,
}
