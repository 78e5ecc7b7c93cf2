// Package vaultfile reads and writes vault envelopes on disk.
package vaultfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/enchanted-vault/internal/common"
	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/model"
)

const (
	filePerm = 0600
	dirPerm  = 0700
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Exists reports whether a vault file is present at path.
func Exists(path string) (bool, error) {
	return common.FileExists(path)
}

// Write stores env at path. It never replaces an existing file: the
// envelope is written to a temporary file in the same directory and then
// hard-linked into place, which fails if path appeared in the meantime.
func Write(env *model.Envelope, path string) error {
	if err := env.Validate(); err != nil {
		return err
	}
	if ok, err := Exists(path); err != nil {
		return fmt.Errorf("failed to stat vault file: %w", err)
	} else if ok {
		return errs.ErrAlreadyExists
	}

	fileData, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal vault file: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vault-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set vault permissions: %w", err)
	}
	if _, err := tmp.Write(fileData); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errs.ErrAlreadyExists
		}
		// Some filesystems have no hard links; fall back to a rename after
		// re-checking, which narrows but does not close the race.
		if ok, statErr := Exists(path); statErr == nil && ok {
			return errs.ErrAlreadyExists
		}
		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("failed to move vault into place: %w", err)
		}
	}
	return nil
}

// Read loads and validates the envelope stored at path.
func Read(path string) (*model.Envelope, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, errs.Formatf("vault path is a directory")
	}
	if fileInfo.Size() == 0 {
		return nil, errs.Formatf("vault file is empty")
	}

	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	fileData = bytes.TrimPrefix(fileData, utf8BOM)

	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(fileData, &header); err != nil {
		return nil, errs.Formatf("failed to unmarshal vault file: %v", err)
	}
	if header.Version == model.KeystoreVersion {
		return readKeystore(fileData)
	}

	var env model.Envelope
	if err := json.Unmarshal(fileData, &env); err != nil {
		return nil, errs.Formatf("failed to unmarshal vault file: %v", err)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// readKeystore opens a Web3 Secret Storage file, such as one written by
// geth or eth_account, as a vault envelope.
func readKeystore(fileData []byte) (*model.Envelope, error) {
	var ks model.Keystore
	if err := json.Unmarshal(fileData, &ks); err != nil {
		return nil, errs.Formatf("failed to unmarshal keystore file: %v", err)
	}
	return ks.Envelope()
}
