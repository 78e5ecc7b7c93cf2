// Command wallet manages a local password-protected Ethereum key vault.
//
//	wallet -g                          print a new mnemonic
//	wallet -i -p <password>            create vault.json in --dir
//	wallet -a                          print the vault address
//	wallet -s [-if tx.json] [-of out]  sign a transaction
//	wallet -s -p <password> '<json>'   flags go before the transaction data
//
// @title        Enchanted Vault API
// @version      1.0
// @description  Loopback API for a local encrypted Ethereum key vault.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/enchanted-vault/internal/api"
	"github.com/AlexZinkM/enchanted-vault/internal/common"
	"github.com/AlexZinkM/enchanted-vault/internal/config"
	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/handler"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/internal/vaultfile"
	"github.com/AlexZinkM/enchanted-vault/wallet"

	"github.com/urfave/cli/v2"
)

const newPasswordEnvVar = "WALLET_NEW_PASSWORD"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	app := cli.NewApp()
	app.Name = "wallet"
	app.Usage = "encrypted local wallet manager"
	app.ArgsUsage = "[transaction_data]"
	app.Flags = appFlags
	app.Writer = stdout
	app.ErrWriter = stderr
	app.HideVersion = true
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Action = func(c *cli.Context) error {
		return runOperations(c, stdin, stderr)
	}

	err := app.Run(args)
	if err != nil {
		reportError(err)
	}
	return errs.ExitCode(err)
}

func runOperations(c *cli.Context, stdin *os.File, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := configureLogging(stderr, c.String(LogFormatFlag.Name), cfg.LogLevel); err != nil {
		return err
	}
	// Flag parsing stops at the first positional argument.
	if c.Args().Len() > 1 {
		return fmt.Errorf("%d unexpected arguments after transaction data: flags must come before it", c.Args().Len()-1)
	}

	m, err := wallet.New(wallet.Options{
		Dir:             cfg.Dir,
		File:            cfg.File,
		Cipher:          cfg.CipherParams(),
		Derivation:      cfg.DeriveOptions(),
		MnemonicBits:    cfg.MnemonicBits,
		ExpectedChainID: cfg.ExpectedChainID(),
		KeystoreScryptN: cfg.KeystoreScryptN,
		KeystoreScryptP: cfg.KeystoreScryptP,
	})
	if err != nil {
		return err
	}

	passwords := password.Once(password.Chain{
		password.Static(c.String(PasswordFlag.Name)),
		password.File(c.String(PasswordFileFlag.Name)),
		password.Env(password.EnvVar),
		&password.Prompt{In: stdin, Out: stderr, Label: "Password: "},
	})
	defer passwords.Wipe()

	ran := false
	out := c.App.Writer

	if c.Bool(GenerateFlag.Name) {
		ran = true
		mnemonic, err := m.GenerateMnemonic()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, mnemonic)
	}

	if c.Bool(InitializeFlag.Name) {
		ran = true
		if _, err := m.Initialize(passwords); err != nil {
			return err
		}
	}

	if c.Bool(AddressFlag.Name) {
		ran = true
		address, err := m.Address(passwords)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, address)
	}

	if c.Bool(SignTransactionFlag.Name) {
		ran = true
		req := wallet.SignRequest{
			TransactionData: c.Args().First(),
			InputFile:       c.String(InputFileFlag.Name),
			OutputFile:      c.String(OutputFileFlag.Name),
		}
		resp, err := m.SignTransaction(req, passwords)
		if err != nil {
			return err
		}
		if req.OutputFile == "" {
			fmt.Fprintln(out, resp.RawTransaction)
		}
	}

	if name := c.String(ExportKeystoreFlag.Name); name != "" {
		ran = true
		if _, err := m.ExportKeystore(passwords, name); err != nil {
			return err
		}
	}

	if name := c.String(QRFileFlag.Name); name != "" {
		ran = true
		if err := writeQR(m, passwords, name); err != nil {
			return err
		}
	}

	if name := c.String(ChangePasswordFlag.Name); name != "" {
		ran = true
		next := password.Chain{
			password.Static(c.String(NewPasswordFlag.Name)),
			password.File(c.String(NewPasswordFileFlag.Name)),
			password.Env(newPasswordEnvVar),
			&password.Prompt{In: stdin, Out: stderr, Label: "New password: "},
		}
		if _, err := m.ChangePassword(passwords, next, name); err != nil {
			return err
		}
	}

	if c.Bool(ServeFlag.Name) {
		ran = true
		if err := serve(m, passwords, cfg.Listen); err != nil {
			return err
		}
	}

	if !ran {
		return cli.ShowAppHelp(c)
	}
	return nil
}

// applyFlags overrides environment configuration with explicitly set flags.
func applyFlags(c *cli.Context, cfg *config.Config) {
	set := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	set(DirFlag.Name, &cfg.Dir)
	set(FileFlag.Name, &cfg.File)
	set(KDFFlag.Name, &cfg.KDF)
	set(CipherFlag.Name, &cfg.Cipher)
	set(DerivationPathFlag.Name, &cfg.DerivationPath)
	set(ListenFlag.Name, &cfg.Listen)
	set(VerbosityFlag.Name, &cfg.LogLevel)
	if c.IsSet(ChainIDFlag.Name) {
		cfg.ChainID = c.Uint64(ChainIDFlag.Name)
	}
}

func writeQR(m *wallet.Manager, passwords password.Source, name string) error {
	path := m.Resolve(name)
	if ok, err := common.FileExists(path); err != nil {
		return err
	} else if ok {
		return errs.Wrap("qr", path, errs.ErrOutputExists)
	}
	png, err := m.AddressQR(passwords, wallet.DefaultQRSize)
	if err != nil {
		return err
	}
	if err := common.WriteFileExclusive(path, png, 0644); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errs.Wrap("qr", path, errs.ErrOutputExists)
		}
		return fmt.Errorf("failed to write QR file: %w", err)
	}
	log.WithField("path", path).Info("Address QR code written")
	return nil
}

// serve runs the loopback API until SIGINT or SIGTERM.
func serve(m *wallet.Manager, passwords password.Source, listen string) error {
	if err := checkLoopback(listen); err != nil {
		return err
	}
	if ok, err := vaultfile.Exists(m.VaultPath()); err != nil {
		return err
	} else if !ok {
		return errs.Wrap("serve", m.VaultPath(), errs.ErrNotFound)
	}

	mem, err := password.Capture(passwords)
	if err != nil {
		return err
	}
	defer mem.Wipe()

	// Fail at startup rather than on the first request.
	if _, err := m.Address(mem); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           api.SetupRouter(handler.NewVaultHandler(m, mem)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", listen).Info("Starting vault API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down vault API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func checkLoopback(listen string) error {
	host, _, err := net.SplitHostPort(listen)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", listen, err)
	}
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("refusing to listen on non-loopback address %q", listen)
}

// reportError logs err with a message specific to its kind.
func reportError(err error) {
	entry := log.WithError(err)
	if path := errPath(err); path != "" {
		entry = entry.WithField("path", path)
	}
	switch errs.Kind(err) {
	case "already_exists":
		entry.Error("Vault file exists")
	case "not_found":
		entry.Error("Vault file not found")
	case "password_required":
		entry.Error("Password required")
	case "input_required":
		entry.Error("Transaction data required. Use --input-file or provide as argument")
	case "output_exists":
		entry.Error("Output file exists")
	case "authentication":
		entry.Error("Could not decrypt vault")
	case "format":
		entry.Error("Malformed vault or transaction")
	default:
		entry.Error("Operation failed")
	}
}

// errPath returns the innermost file path recorded in err's chain.
func errPath(err error) string {
	path := ""
	for err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			if e.Path != "" {
				path = e.Path
			}
			err = e.Err
			continue
		}
		break
	}
	return path
}
