package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/model"
)

// Decrypt recovers the secret sealed in env.
// The integrity tag is verified before any plaintext is returned; a wrong
// password or a modified envelope yields errs.ErrAuthentication.
// password must be []byte for security (caller should zero it after use)
func Decrypt(env *model.Envelope, password []byte) ([]byte, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	// Decode salt, iv, tag and ciphertext
	salt, err := hex.DecodeString(env.KDFSalt)
	if err != nil {
		return nil, errs.Formatf("failed to decode salt")
	}
	iv, err := hex.DecodeString(env.CipherIV)
	if err != nil {
		return nil, errs.Formatf("failed to decode nonce")
	}
	tag, err := hex.DecodeString(env.CipherTag)
	if err != nil {
		return nil, errs.Formatf("failed to decode tag")
	}
	ciphertext, err := hex.DecodeString(env.CipherText)
	if err != nil {
		return nil, errs.Formatf("failed to decode ciphertext")
	}

	// Reject unknown ciphers and malformed sizes before paying for the KDF.
	switch env.Cipher {
	case CipherAES256GCM:
		if len(iv) != gcmNonceLen || len(tag) != gcmTagLen {
			return nil, errs.Formatf("invalid %s nonce or tag size", env.Cipher)
		}
	case CipherAES128CTR:
		if len(iv) != ctrIVLen || len(tag) != 32 {
			return nil, errs.Formatf("invalid %s iv or mac size", env.Cipher)
		}
	default:
		return nil, errs.Formatf("unsupported cipher %q", env.Cipher)
	}

	// Derive key from password
	key, err := deriveKey(env.KDF, env.KDFParams, password, salt)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	if env.Cipher == CipherAES256GCM {
		return openGCM(key, iv, ciphertext, tag)
	}
	return openCTR(key, iv, ciphertext, tag)
}

func openGCM(key, nonce, ciphertext, tag []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := aesGCM.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, errs.ErrAuthentication
	}
	return plaintext, nil
}

func openCTR(key, iv, ciphertext, tag []byte) ([]byte, error) {
	if subtle.ConstantTimeCompare(ctrMAC(key, ciphertext), tag) != 1 {
		return nil, errs.ErrAuthentication
	}
	block, err := aes.NewCipher(key[:16])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}
