package model

// ErrorResponse is returned by the vault API on failure.
// Code is the stable error kind, such as "not_found" or "authentication".
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
