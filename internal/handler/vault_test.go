package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlexZinkM/enchanted-vault/internal/crypto"
	"github.com/AlexZinkM/enchanted-vault/internal/model"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTx = `{"to":"0x000000000000000000000000000000000000dEaD","value":1,"nonce":0,"chainId":1,"gas":21000,"gasPrice":1}`

func newTestHandler(t *testing.T, initialize bool, pw string) (*VaultHandler, string) {
	t.Helper()
	m, err := wallet.New(wallet.Options{
		Dir: t.TempDir(),
		Cipher: crypto.Params{
			KDF:     crypto.KDFScrypt,
			ScryptN: 1 << 10,
			ScryptR: 8,
			ScryptP: 1,
			Cipher:  crypto.CipherAES256GCM,
		},
	})
	require.NoError(t, err)

	var address string
	if initialize {
		res, err := m.Initialize(password.Static("hunter2"))
		require.NoError(t, err)
		address = res.Address
	}
	mem, err := password.Capture(password.Static(pw))
	require.NoError(t, err)
	t.Cleanup(mem.Wipe)
	return NewVaultHandler(m, mem), address
}

func TestAddress(t *testing.T) {
	h, address := newTestHandler(t, true, "hunter2")

	rec := httptest.NewRecorder()
	h.Address(rec, httptest.NewRequest(http.MethodGet, "/vault/address", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.AddressResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, address, resp.Address)
}

func TestAddressErrors(t *testing.T) {
	tests := []struct {
		name       string
		initialize bool
		password   string
		method     string
		status     int
		code       string
	}{
		{"missing vault", false, "hunter2", http.MethodGet, http.StatusNotFound, "not_found"},
		{"wrong password", true, "s3cret-guess", http.MethodGet, http.StatusUnauthorized, "authentication"},
		{"wrong method", true, "hunter2", http.MethodPost, http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, tt.initialize, tt.password)
			rec := httptest.NewRecorder()
			h.Address(rec, httptest.NewRequest(tt.method, "/vault/address", nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.code == "" {
				return
			}
			var resp model.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotContains(t, resp.Error, tt.password)
		})
	}
}

func TestAddressQR(t *testing.T) {
	h, _ := newTestHandler(t, true, "hunter2")

	rec := httptest.NewRecorder()
	h.AddressQR(rec, httptest.NewRequest(http.MethodGet, "/vault/address/qr?size=128", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = httptest.NewRecorder()
	h.AddressQR(rec, httptest.NewRequest(http.MethodGet, "/vault/address/qr?size=big", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSign(t *testing.T) {
	h, address := newTestHandler(t, true, "hunter2")

	rec := httptest.NewRecorder()
	h.Sign(rec, httptest.NewRequest(http.MethodPost, "/vault/sign", strings.NewReader(testTx)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.SignResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, strings.HasPrefix(resp.RawTransaction, "0x"))
	assert.Equal(t, address, resp.From)
}

func TestSignErrors(t *testing.T) {
	h, _ := newTestHandler(t, true, "hunter2")

	for body, code := range map[string]string{
		"":                   "input_required",
		`{"to":`:             "format",
		`{"chainId":1}`:      "format",
		`{"unknownField":1}`: "format",
	} {
		rec := httptest.NewRecorder()
		h.Sign(rec, httptest.NewRequest(http.MethodPost, "/vault/sign", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, code, resp.Code, "body %q", body)
	}

	rec := httptest.NewRecorder()
	h.Sign(rec, httptest.NewRequest(http.MethodGet, "/vault/sign", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
