package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/model"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

const (
	KDFScrypt = "scrypt"
	KDFPBKDF2 = "pbkdf2"

	prfHMACSHA256 = "hmac-sha256"

	// scrypt parameters for local wallet
	// Security is prioritized over performance
	//
	// N=2^18 (~256MB RAM, 0.5-2s), the same cost go-ethereum uses for
	// its standard keystore, so exported and native vaults are equally hard.
	DefaultScryptN = 1 << 18
	DefaultScryptR = 8
	DefaultScryptP = 1

	DefaultPBKDF2Iterations = 1 << 18

	derivedKeyLen = 32
	saltLen       = 32

	// Upper bounds accepted when reading a vault, so a crafted file cannot
	// make us allocate gigabytes or spin for hours.
	maxScryptN      = 1 << 22
	maxScryptMemory = 1 << 30 // 128*N*r bytes
	maxScryptP      = 16
	maxPBKDF2Rounds = 1 << 24
)

// kdfParams builds the stored parameter record for p.
func kdfParams(p Params) model.KDFParams {
	switch p.KDF {
	case KDFPBKDF2:
		return model.KDFParams{C: p.PBKDF2Iterations, PRF: prfHMACSHA256, DKLen: derivedKeyLen}
	default:
		return model.KDFParams{N: p.ScryptN, R: p.ScryptR, P: p.ScryptP, DKLen: derivedKeyLen}
	}
}

// deriveKey stretches password with salt using the named KDF.
// Caller must clear the returned key.
func deriveKey(kdf string, kp model.KDFParams, password, salt []byte) ([]byte, error) {
	if kp.DKLen != derivedKeyLen {
		return nil, errs.Formatf("unsupported derived key length %d", kp.DKLen)
	}
	switch kdf {
	case KDFScrypt:
		if err := checkScrypt(kp.N, kp.R, kp.P); err != nil {
			return nil, err
		}
		key, err := scrypt.Key(password, salt, kp.N, kp.R, kp.P, kp.DKLen)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key: %w", err)
		}
		return key, nil
	case KDFPBKDF2:
		if kp.PRF != prfHMACSHA256 {
			return nil, errs.Formatf("unsupported pbkdf2 prf %q", kp.PRF)
		}
		if kp.C < 1 || kp.C > maxPBKDF2Rounds {
			return nil, errs.Formatf("pbkdf2 iteration count %d out of range", kp.C)
		}
		return pbkdf2.Key(password, salt, kp.C, kp.DKLen, sha256.New), nil
	default:
		return nil, errs.Formatf("unsupported kdf %q", kdf)
	}
}

func checkScrypt(n, r, p int) error {
	if n <= 1 || n&(n-1) != 0 {
		return errs.Formatf("scrypt N must be a power of two greater than 1, got %d", n)
	}
	if n > maxScryptN {
		return errs.Formatf("scrypt N %d exceeds limit %d", n, maxScryptN)
	}
	if r <= 0 || r > maxScryptMemory/(128*n) {
		return errs.Formatf("scrypt r=%d out of range for N=%d", r, n)
	}
	if p <= 0 || p > maxScryptP {
		return errs.Formatf("scrypt p=%d out of range", p)
	}
	return nil
}
