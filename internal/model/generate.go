package model

// AddressResponse represents response for GET /vault/address
type AddressResponse struct {
	Address string `json:"address"`
}

// InitializeResult describes a freshly created vault.
type InitializeResult struct {
	Path    string `json:"path"`
	Address string `json:"address"`
}
