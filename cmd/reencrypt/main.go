// Re-encrypt a vault under the configured KDF and cipher, keeping its password.
// The source vault is not modified; the result goes to a new file.
// Usage: go run ./cmd/reencrypt -d <dir> -f vault.json -o vault-v2.json --kdf pbkdf2 --cipher aes-128-ctr
package main

import (
	"os"

	"github.com/AlexZinkM/enchanted-vault/internal/config"
	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/wallet"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "reencrypt")

func main() {
	app := &cli.App{
		Name:  "reencrypt",
		Usage: "copy a vault into a new file under different encryption parameters",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "The base directory for all files"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Source vault file"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Destination vault file", Required: true},
			&cli.StringFlag{Name: "password-file", Usage: "Read the vault password from this file"},
			&cli.StringFlag{Name: "kdf", Usage: "scrypt or pbkdf2"},
			&cli.StringFlag{Name: "cipher", Usage: "aes-256-gcm or aes-128-ctr"},
		},
		Action: reencrypt,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("Re-encryption failed")
		os.Exit(errs.ExitCode(err))
	}
}

func reencrypt(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	for name, dst := range map[string]*string{
		"dir":    &cfg.Dir,
		"file":   &cfg.File,
		"kdf":    &cfg.KDF,
		"cipher": &cfg.Cipher,
	} {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}

	m, err := wallet.New(wallet.Options{
		Dir:    cfg.Dir,
		File:   cfg.File,
		Cipher: cfg.CipherParams(),
	})
	if err != nil {
		return err
	}

	passwords := password.Chain{
		password.File(c.String("password-file")),
		password.Env(password.EnvVar),
		password.NewPrompt("Password: "),
	}
	out, err := m.Reencrypt(passwords, c.String("out"))
	if err != nil {
		return err
	}
	log.WithField("path", out).Info("Done")
	return nil
}
