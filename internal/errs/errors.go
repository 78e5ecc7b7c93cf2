// Package errs defines the error kinds shared by the vault components and
// maps them to process exit codes.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic handling with errors.Is.
var (
	ErrAlreadyExists    = errors.New("vault file already exists")
	ErrNotFound         = errors.New("vault file not found")
	ErrPasswordRequired = errors.New("password required")
	ErrAuthentication   = errors.New("authentication failed: wrong password or corrupted vault")
	ErrFormat           = errors.New("malformed data")
	ErrInputRequired    = errors.New("transaction data required")
	ErrOutputExists     = errors.New("output file already exists")
)

// Exit codes returned by the wallet command.
const (
	ExitOK               = 0
	ExitVaultFile        = 1 // vault exists on initialize, or vault missing on read
	ExitPasswordRequired = 2
	ExitInputRequired    = 3
	ExitOutputExists     = 4
	ExitAuthentication   = 5
	ExitFormat           = 6
	ExitFailure          = 7
)

// Error adds the failing operation and file path to an underlying error.
type Error struct {
	Op   string // "initialize", "address", "sign-transaction", ...
	Path string // file the operation was working on, if any
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil when err is nil, otherwise an *Error.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// Formatf builds an error matching ErrFormat with a detail message.
func Formatf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

// Kind returns a short stable name for the error's category.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPasswordRequired):
		return "password_required"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrInputRequired):
		return "input_required"
	case errors.Is(err, ErrOutputExists):
		return "output_exists"
	default:
		return "internal"
	}
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch Kind(err) {
	case "":
		return ExitOK
	case "already_exists", "not_found":
		return ExitVaultFile
	case "password_required":
		return ExitPasswordRequired
	case "input_required":
		return ExitInputRequired
	case "output_exists":
		return ExitOutputExists
	case "authentication":
		return ExitAuthentication
	case "format":
		return ExitFormat
	default:
		return ExitFailure
	}
}
