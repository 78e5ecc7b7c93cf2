package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"
	"github.com/AlexZinkM/enchanted-vault/internal/model"
	"github.com/AlexZinkM/enchanted-vault/internal/password"
	"github.com/AlexZinkM/enchanted-vault/wallet"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "api")

const maxBodyBytes = 128 << 10

// VaultHandler serves read and sign operations for one vault.
type VaultHandler struct {
	manager   *wallet.Manager
	passwords password.Source
	signMu    sync.Mutex // one signing operation at a time
}

// NewVaultHandler creates a VaultHandler. passwords is normally a
// password.Memory captured at startup.
func NewVaultHandler(manager *wallet.Manager, passwords password.Source) *VaultHandler {
	return &VaultHandler{manager: manager, passwords: passwords}
}

// Address handles GET /vault/address
// @Summary      Get vault address
// @Description  Decrypts the vault and returns its account address
// @Tags         vault
// @Produce      json
// @Success      200  {object}  model.AddressResponse
// @Failure      401  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /vault/address [get]
func (h *VaultHandler) Address(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address, err := h.manager.Address(h.passwords)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.AddressResponse{Address: address})
}

// AddressQR handles GET /vault/address/qr
// @Summary      Get vault address as QR code
// @Description  Returns a PNG QR code encoding the vault address
// @Tags         vault
// @Produce      png
// @Param        size  query     int  false  "Image size in pixels (default 256)"
// @Success      200   {file}    binary
// @Failure      400   {object}  model.ErrorResponse
// @Failure      404   {object}  model.ErrorResponse
// @Router       /vault/address/qr [get]
func (h *VaultHandler) AddressQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	size := wallet.DefaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 64 || n > 2048 {
			writeError(w, errs.Formatf("size must be an integer between 64 and 2048"))
			return
		}
		size = n
	}

	png, err := h.manager.AddressQR(h.passwords, size)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Sign handles POST /vault/sign
// @Summary      Sign transaction
// @Description  Signs the transaction with the vault key and returns the encoded signed transaction. Nothing is broadcast.
// @Tags         vault
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransactionRequest  true  "Transaction fields"
// @Success      200      {object}  model.SignResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /vault/sign [post]
func (h *VaultHandler) Sign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errs.Formatf("failed to read request body: %v", err))
		return
	}

	h.signMu.Lock()
	defer h.signMu.Unlock()

	resp, err := h.manager.SignTransaction(wallet.SignRequest{TransactionData: string(body)}, h.passwords)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	switch errs.Kind(err) {
	case "not_found":
		return http.StatusNotFound
	case "already_exists", "output_exists":
		return http.StatusConflict
	case "password_required", "authentication":
		return http.StatusUnauthorized
	case "format", "input_required":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Warn("Request rejected")
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: errs.Kind(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
