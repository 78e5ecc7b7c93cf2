package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrorsDistinct(t *testing.T) {
	sentinels := []error{
		ErrAlreadyExists,
		ErrNotFound,
		ErrPasswordRequired,
		ErrAuthentication,
		ErrFormat,
		ErrInputRequired,
		ErrOutputExists,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.Falsef(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	err := Wrap("initialize", "/tmp/x/vault.json", ErrAlreadyExists)
	assert.Equal(t, "initialize /tmp/x/vault.json: vault file already exists", err.Error())
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var vaultErr *Error
	require.True(t, errors.As(err, &vaultErr))
	assert.Equal(t, "initialize", vaultErr.Op)

	assert.NoError(t, Wrap("address", "", nil))
	assert.Equal(t, "address: password required", Wrap("address", "", ErrPasswordRequired).Error())
}

func TestFormatf(t *testing.T) {
	err := Formatf("field %q missing", "kdf")
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), `field "kdf" missing`)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{Wrap("initialize", "v.json", ErrAlreadyExists), ExitVaultFile},
		{Wrap("address", "v.json", ErrNotFound), ExitVaultFile},
		{fmt.Errorf("read: %w", ErrPasswordRequired), ExitPasswordRequired},
		{ErrInputRequired, ExitInputRequired},
		{ErrOutputExists, ExitOutputExists},
		{ErrAuthentication, ExitAuthentication},
		{Formatf("bad"), ExitFormat},
		{errors.New("disk on fire"), ExitFailure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "err: %v", tt.err)
	}
}

func TestKindDistinguishesSharedExitCode(t *testing.T) {
	assert.Equal(t, "already_exists", Kind(ErrAlreadyExists))
	assert.Equal(t, "not_found", Kind(ErrNotFound))
	assert.Equal(t, ExitCode(ErrAlreadyExists), ExitCode(ErrNotFound))
}
