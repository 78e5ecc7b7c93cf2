package password

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var calls []string
	src := func(name, value string) Source {
		return SourceFunc(func() ([]byte, error) {
			calls = append(calls, name)
			return []byte(value), nil
		})
	}

	pw, err := Chain{src("flag", ""), src("file", "from-file"), src("prompt", "typed")}.Password()
	require.NoError(t, err)
	assert.Equal(t, "from-file", string(pw))
	assert.Equal(t, []string{"flag", "file"}, calls, "later sources must not run")
}

func TestChainEmpty(t *testing.T) {
	_, err := Chain{Static(""), nil, Env("WALLET_TEST_UNSET_PASSWORD")}.Password()
	assert.ErrorIs(t, err, errs.ErrPasswordRequired)

	_, err = Chain{}.Password()
	assert.ErrorIs(t, err, errs.ErrPasswordRequired)
}

func TestChainStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Chain{
		SourceFunc(func() ([]byte, error) { return nil, boom }),
		Static("never"),
	}.Password()
	assert.ErrorIs(t, err, boom)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.txt")
	require.NoError(t, os.WriteFile(path, []byte("hunter2\r\n"), 0600))

	pw, err := File(path).Password()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", string(pw))

	pw, err = File("").Password()
	require.NoError(t, err)
	assert.Empty(t, pw)

	_, err = File(filepath.Join(t.TempDir(), "missing")).Password()
	assert.Error(t, err)
}

func TestEnvSource(t *testing.T) {
	t.Setenv("WALLET_TEST_PASSWORD", "from-env")
	pw, err := Env("WALLET_TEST_PASSWORD").Password()
	require.NoError(t, err)
	assert.Equal(t, "from-env", string(pw))
}

func TestPromptSkipsWithoutTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	p := &Prompt{In: f, Out: os.Stderr, Label: "Password: "}
	pw, err := p.Password()
	require.NoError(t, err)
	assert.Empty(t, pw)
}

func TestMemory(t *testing.T) {
	m, err := Capture(Static("hunter2"))
	require.NoError(t, err)

	pw, err := m.Password()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", string(pw))
	clear(pw)

	again, err := m.Password()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", string(again), "callers clearing their copy must not affect the store")

	m.Wipe()
	_, err = m.Password()
	assert.Error(t, err)

	_, err = Capture(Static(""))
	assert.ErrorIs(t, err, errs.ErrPasswordRequired)
}

func TestOnce(t *testing.T) {
	calls := 0
	c := Once(SourceFunc(func() ([]byte, error) {
		calls++
		return []byte("hunter2"), nil
	}))
	for i := 0; i < 3; i++ {
		pw, err := c.Password()
		require.NoError(t, err)
		assert.Equal(t, "hunter2", string(pw))
	}
	assert.Equal(t, 1, calls)
	c.Wipe()

	empty := Once(Static(""))
	_, err := empty.Password()
	assert.ErrorIs(t, err, errs.ErrPasswordRequired)
	_, err = empty.Password()
	assert.ErrorIs(t, err, errs.ErrPasswordRequired)
	empty.Wipe()
}
