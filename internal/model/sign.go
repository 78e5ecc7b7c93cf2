package model

// SignResponse represents response for POST /vault/sign
type SignResponse struct {
	RawTransaction string `json:"rawTransaction"` // 0x-prefixed EIP-2718 encoding
	Hash           string `json:"hash"`
	From           string `json:"from"`
}
