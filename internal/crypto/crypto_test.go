package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams keeps the KDF cheap; the production cost is exercised only by Validate.
func testParams(kdf, cipherName string) Params {
	return Params{
		KDF:              kdf,
		ScryptN:          1 << 10,
		ScryptR:          8,
		ScryptP:          1,
		PBKDF2Iterations: 1000,
		Cipher:           cipherName,
	}
}

var allParams = map[string]Params{
	"scrypt/gcm": testParams(KDFScrypt, CipherAES256GCM),
	"scrypt/ctr": testParams(KDFScrypt, CipherAES128CTR),
	"pbkdf2/gcm": testParams(KDFPBKDF2, CipherAES256GCM),
	"pbkdf2/ctr": testParams(KDFPBKDF2, CipherAES128CTR),
}

func secretKey() []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}

func TestDefaultParamsValid(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, KDFScrypt, p.KDF)
	assert.Equal(t, CipherAES256GCM, p.Cipher)
	assert.Equal(t, 1<<18, p.ScryptN)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for name, p := range allParams {
		t.Run(name, func(t *testing.T) {
			env, err := Encrypt(secretKey(), []byte("hunter2"), p)
			require.NoError(t, err)
			require.NoError(t, env.Validate())
			assert.Equal(t, p.KDF, env.KDF)
			assert.Equal(t, p.Cipher, env.Cipher)
			assert.NotContains(t, env.CipherText, hex.EncodeToString(secretKey()))

			plain, err := Decrypt(env, []byte("hunter2"))
			require.NoError(t, err)
			assert.Equal(t, secretKey(), plain)
		})
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	for name, p := range allParams {
		t.Run(name, func(t *testing.T) {
			env, err := Encrypt(secretKey(), []byte("hunter2"), p)
			require.NoError(t, err)

			plain, err := Decrypt(env, []byte("hunter3"))
			assert.ErrorIs(t, err, errs.ErrAuthentication)
			assert.Nil(t, plain)
		})
	}
}

func TestEncryptFreshSaltAndNonce(t *testing.T) {
	p := testParams(KDFScrypt, CipherAES256GCM)
	a, err := Encrypt(secretKey(), []byte("hunter2"), p)
	require.NoError(t, err)
	b, err := Encrypt(secretKey(), []byte("hunter2"), p)
	require.NoError(t, err)

	assert.NotEqual(t, a.KDFSalt, b.KDFSalt)
	assert.NotEqual(t, a.CipherIV, b.CipherIV)
	assert.NotEqual(t, a.CipherText, b.CipherText)
	assert.NotEqual(t, a.ID, b.ID)
}

func flipBit(t *testing.T, field string, bit int) string {
	t.Helper()
	raw, err := hex.DecodeString(field)
	require.NoError(t, err)
	raw[bit/8] ^= 1 << (bit % 8)
	return hex.EncodeToString(raw)
}

func TestTamperDetection(t *testing.T) {
	for name, p := range allParams {
		t.Run(name, func(t *testing.T) {
			env, err := Encrypt(secretKey(), []byte("hunter2"), p)
			require.NoError(t, err)

			for bit := 0; bit < 32*8; bit += 37 {
				tampered := *env
				tampered.CipherText = flipBit(t, env.CipherText, bit)
				plain, err := Decrypt(&tampered, []byte("hunter2"))
				assert.ErrorIs(t, err, errs.ErrAuthentication, "ciphertext bit %d", bit)
				assert.Nil(t, plain)
			}
			for bit := 0; bit < len(env.CipherTag)*4; bit += 11 {
				tampered := *env
				tampered.CipherTag = flipBit(t, env.CipherTag, bit)
				_, err := Decrypt(&tampered, []byte("hunter2"))
				assert.ErrorIs(t, err, errs.ErrAuthentication, "tag bit %d", bit)
			}
		})
	}
}

func TestDecryptRejectsMalformedEnvelope(t *testing.T) {
	env, err := Encrypt(secretKey(), []byte("hunter2"), testParams(KDFScrypt, CipherAES256GCM))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(e *model.Envelope)
	}{
		{"unknown kdf", func(e *model.Envelope) { e.KDF = "argon2id" }},
		{"unknown cipher", func(e *model.Envelope) { e.Cipher = "rot13" }},
		{"scrypt N not power of two", func(e *model.Envelope) { e.KDFParams.N = 1000 }},
		{"scrypt N too large", func(e *model.Envelope) { e.KDFParams.N = 1 << 30 }},
		{"scrypt r zero", func(e *model.Envelope) { e.KDFParams.R = 0 }},
		{"scrypt huge r", func(e *model.Envelope) { e.KDFParams.N, e.KDFParams.R = 1<<22, 1<<20 }},
		{"scrypt memory over limit", func(e *model.Envelope) { e.KDFParams.N, e.KDFParams.R = 1<<22, 8 }},
		{"scrypt huge p", func(e *model.Envelope) { e.KDFParams.P = 1 << 20 }},
		{"short dklen", func(e *model.Envelope) { e.KDFParams.DKLen = 16 }},
		{"short nonce", func(e *model.Envelope) { e.CipherIV = "00" }},
		{"short tag", func(e *model.Envelope) { e.CipherTag = "00" }},
		{"version", func(e *model.Envelope) { e.Version = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := *env
			tt.mutate(&tampered)
			_, err := Decrypt(&tampered, []byte("hunter2"))
			assert.ErrorIs(t, err, errs.ErrFormat)
		})
	}
}

func TestCheckScryptBounds(t *testing.T) {
	assert.NoError(t, checkScrypt(DefaultScryptN, DefaultScryptR, DefaultScryptP))
	assert.NoError(t, checkScrypt(1<<22, 2, 1))
	assert.ErrorIs(t, checkScrypt(1<<22, 4, 1), errs.ErrFormat)
	assert.ErrorIs(t, checkScrypt(1<<10, 1<<20, 1), errs.ErrFormat)
	assert.ErrorIs(t, checkScrypt(1<<10, 8, 17), errs.ErrFormat)
}

func TestPBKDF2RejectsUnknownPRF(t *testing.T) {
	env, err := Encrypt(secretKey(), []byte("pw"), testParams(KDFPBKDF2, CipherAES256GCM))
	require.NoError(t, err)
	assert.Equal(t, "hmac-sha256", env.KDFParams.PRF)

	env.KDFParams.PRF = "hmac-md5"
	_, err = Decrypt(env, []byte("pw"))
	assert.ErrorIs(t, err, errs.ErrFormat)
}

func TestEncryptValidatesParams(t *testing.T) {
	p := testParams(KDFScrypt, "des")
	_, err := Encrypt(secretKey(), []byte("pw"), p)
	assert.Error(t, err)

	p = testParams("bcrypt", CipherAES256GCM)
	_, err = Encrypt(secretKey(), []byte("pw"), p)
	assert.Error(t, err)

	_, err = Encrypt(nil, []byte("pw"), testParams(KDFScrypt, CipherAES256GCM))
	assert.Error(t, err)
}

func TestCTRMatchesWeb3SecretStorageMAC(t *testing.T) {
	env, err := Encrypt(secretKey(), []byte("pw"), testParams(KDFScrypt, CipherAES128CTR))
	require.NoError(t, err)

	salt, _ := hex.DecodeString(env.KDFSalt)
	key, err := deriveKey(env.KDF, env.KDFParams, []byte("pw"), salt)
	require.NoError(t, err)
	ct, _ := hex.DecodeString(env.CipherText)
	tag, _ := hex.DecodeString(env.CipherTag)
	assert.True(t, bytes.Equal(ctrMAC(key, ct), tag))
	assert.Len(t, tag, 32)
	assert.Len(t, ct, 32)
}
