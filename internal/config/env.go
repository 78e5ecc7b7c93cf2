package config

import (
	"fmt"
	"math/big"

	"github.com/AlexZinkM/enchanted-vault/internal/crypto"
	"github.com/AlexZinkM/enchanted-vault/internal/hdkey"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "WALLET"

// Config contains all configuration parameters for the application.
// Command-line flags override these values.
// Note: the password is not part of Config; it is read through the password chain.
type Config struct {
	Dir              string `envconfig:"DIR" default:"."`
	File             string `envconfig:"FILE" default:"vault.json"`
	KDF              string `envconfig:"KDF" default:"scrypt"`
	ScryptN          int    `envconfig:"SCRYPT_N" default:"262144"`
	ScryptR          int    `envconfig:"SCRYPT_R" default:"8"`
	ScryptP          int    `envconfig:"SCRYPT_P" default:"1"`
	PBKDF2Iterations int    `envconfig:"PBKDF2_ITERATIONS" default:"262144"`
	Cipher           string `envconfig:"CIPHER" default:"aes-256-gcm"`
	DerivationPath   string `envconfig:"DERIVATION_PATH" default:"m/44'/60'/0'/0/0"`
	MnemonicBits     int    `envconfig:"MNEMONIC_BITS" default:"128"`
	KeystoreScryptN  int    `envconfig:"KEYSTORE_SCRYPT_N" default:"262144"`
	KeystoreScryptP  int    `envconfig:"KEYSTORE_SCRYPT_P" default:"1"`
	ChainID          uint64 `envconfig:"CHAIN_ID"`
	Listen           string `envconfig:"LISTEN" default:"127.0.0.1:8080"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from WALLET_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// CipherParams returns the KDF and cipher settings for new vaults.
func (c *Config) CipherParams() crypto.Params {
	return crypto.Params{
		KDF:              c.KDF,
		ScryptN:          c.ScryptN,
		ScryptR:          c.ScryptR,
		ScryptP:          c.ScryptP,
		PBKDF2Iterations: c.PBKDF2Iterations,
		Cipher:           c.Cipher,
	}
}

// DeriveOptions returns the account derivation settings.
func (c *Config) DeriveOptions() hdkey.DeriveOptions {
	return hdkey.DeriveOptions{Path: c.DerivationPath}
}

// ExpectedChainID returns the configured chain id, or nil when unset.
func (c *Config) ExpectedChainID() *big.Int {
	if c.ChainID == 0 {
		return nil
	}
	return new(big.Int).SetUint64(c.ChainID)
}
