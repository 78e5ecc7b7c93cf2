package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/AlexZinkM/enchanted-vault/internal/common"
	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/hdkey"
	"github.com/AlexZinkM/enchanted-vault/internal/model"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/internal/signer"
	"github.com/AlexZinkM/enchanted-vault/internal/vaultfile"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

const outputPerm = 0600

// SignRequest names the transaction to sign and where to put the result.
// TransactionData takes precedence over InputFile. InputFile and OutputFile
// are resolved against the vault directory.
type SignRequest struct {
	TransactionData string
	InputFile       string
	OutputFile      string
}

// SignTransaction signs the request with the vault key. If OutputFile is
// set the encoded transaction is written there and must not already exist.
//
// Preconditions are checked in order before the vault is decrypted:
// transaction data present, output file absent, vault present, password.
func (m *Manager) SignTransaction(req SignRequest, passwords password.Source) (*model.SignResponse, error) {
	resp, err := m.signTransaction(req, passwords)
	return resp, errs.Wrap("sign-transaction", m.VaultPath(), err)
}

func (m *Manager) signTransaction(req SignRequest, passwords password.Source) (*model.SignResponse, error) {
	inputPath := m.Resolve(req.InputFile)
	hasData := strings.TrimSpace(req.TransactionData) != ""
	if !hasData {
		if inputPath == "" {
			return nil, errs.ErrInputRequired
		}
		if ok, err := common.FileExists(inputPath); err != nil {
			return nil, fmt.Errorf("failed to stat input file: %w", err)
		} else if !ok {
			return nil, errs.ErrInputRequired
		}
	}

	outputPath := m.Resolve(req.OutputFile)
	if outputPath != "" {
		if ok, err := common.FileExists(outputPath); err != nil {
			return nil, fmt.Errorf("failed to stat output file: %w", err)
		} else if ok {
			return nil, &errs.Error{Op: "write", Path: outputPath, Err: errs.ErrOutputExists}
		}
	}

	path := m.VaultPath()
	if ok, err := vaultfile.Exists(path); err != nil {
		return nil, fmt.Errorf("failed to stat vault file: %w", err)
	} else if !ok {
		return nil, errs.ErrNotFound
	}

	data := []byte(req.TransactionData)
	if !hasData {
		var err error
		data, err = os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
	}

	key, err := m.unlock(path, passwords)
	if err != nil {
		return nil, err
	}
	defer hdkey.ZeroKey(key)

	resp, err := m.signData(key, data)
	if err != nil {
		return nil, err
	}

	if outputPath != "" {
		if err := common.WriteFileExclusive(outputPath, []byte(resp.RawTransaction), outputPerm); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return nil, &errs.Error{Op: "write", Path: outputPath, Err: errs.ErrOutputExists}
			}
			return nil, fmt.Errorf("failed to write output file: %w", err)
		}
		log.WithField("path", outputPath).Info("Signed transaction written")
	}
	return resp, nil
}

// signData parses data as a transaction request and signs it with key.
func (m *Manager) signData(key *ecdsa.PrivateKey, data []byte) (*model.SignResponse, error) {
	req, err := signer.Parse(data)
	if err != nil {
		return nil, err
	}
	tx, err := signer.Sign(key, req, m.opts.ExpectedChainID)
	if err != nil {
		return nil, err
	}
	raw, err := signer.Encode(tx)
	if err != nil {
		return nil, err
	}

	from := ethcrypto.PubkeyToAddress(key.PublicKey).Hex()
	log.WithFields(logrus.Fields{
		"from":    from,
		"chainId": tx.ChainId(),
		"nonce":   tx.Nonce(),
		"value":   common.WeiToEther(tx.Value()) + " ETH",
		"hash":    tx.Hash().Hex(),
	}).Info("Transaction signed")

	return &model.SignResponse{
		RawTransaction: hexutil.Encode(raw),
		Hash:           tx.Hash().Hex(),
		From:           from,
	}, nil
}
