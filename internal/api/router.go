package api

import (
	"net/http"

	_ "github.com/AlexZinkM/enchanted-vault/docs"
	"github.com/AlexZinkM/enchanted-vault/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(vaultHandler *handler.VaultHandler) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Vault endpoints
	mux.HandleFunc("/vault/address", vaultHandler.Address)
	mux.HandleFunc("/vault/address/qr", vaultHandler.AddressQR)
	mux.HandleFunc("/vault/sign", vaultHandler.Sign)

	return mux
}
