// Package password acquires vault passwords from a fixed-priority chain of
// sources: an explicit value, a password file, the environment, and finally
// an interactive prompt.
package password

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/AlexZinkM/enchanted-vault/internal/errs"

	"golang.org/x/term"
)

// EnvVar names the environment variable read by Env.
const EnvVar = "WALLET_PASSWORD"

// Source yields a password. An empty result with a nil error means the
// source has nothing to offer and the next one should be tried.
// Callers must clear the returned slice after use.
type Source interface {
	Password() ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]byte, error)

func (f SourceFunc) Password() ([]byte, error) { return f() }

// Chain tries each source in order and returns the first non-empty password.
type Chain []Source

func (c Chain) Password() ([]byte, error) {
	for _, s := range c {
		if s == nil {
			continue
		}
		pw, err := s.Password()
		if err != nil {
			return nil, err
		}
		if len(pw) > 0 {
			return pw, nil
		}
	}
	return nil, errs.ErrPasswordRequired
}

// Static returns a fixed value, such as one passed on the command line.
func Static(value string) Source {
	return SourceFunc(func() ([]byte, error) {
		return []byte(value), nil
	})
}

// File reads the password from path, dropping one trailing newline.
// An empty path offers nothing.
func File(path string) Source {
	return SourceFunc(func() ([]byte, error) {
		if path == "" {
			return nil, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read password file: %w", err)
		}
		pw := bytes.TrimSuffix(data, []byte("\n"))
		pw = bytes.TrimSuffix(pw, []byte("\r"))
		out := append([]byte(nil), pw...)
		clear(data)
		return out, nil
	})
}

// Env reads the password from the named environment variable.
func Env(name string) Source {
	return SourceFunc(func() ([]byte, error) {
		return []byte(os.Getenv(name)), nil
	})
}

// Prompt reads the password from the terminal without echo.
// It offers nothing when In is not a terminal.
type Prompt struct {
	In    *os.File
	Out   io.Writer
	Label string
}

// NewPrompt prompts on stderr and reads from stdin.
func NewPrompt(label string) *Prompt {
	return &Prompt{In: os.Stdin, Out: os.Stderr, Label: label}
}

func (p *Prompt) Password() ([]byte, error) {
	fd := int(p.In.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil
	}
	fmt.Fprint(p.Out, p.Label)
	defer fmt.Fprintln(p.Out)

	raw, err := term.ReadPassword(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return raw, nil
}

// Memory holds a password captured once, for long-running modes that
// cannot prompt per request.
type Memory struct {
	mu sync.Mutex
	b  []byte
}

// Capture reads src once and keeps a private copy.
func Capture(src Source) (*Memory, error) {
	if src == nil {
		return nil, errs.ErrPasswordRequired
	}
	pw, err := src.Password()
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, errs.ErrPasswordRequired
	}
	m := &Memory{b: make([]byte, len(pw))}
	copy(m.b, pw)
	clear(pw)
	return m, nil
}

// Password returns a copy of the stored password.
func (m *Memory) Password() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.b) == 0 {
		return nil, errors.New("password wiped")
	}
	out := make([]byte, len(m.b))
	copy(out, m.b)
	return out, nil
}

// Wipe zeroes the stored password.
func (m *Memory) Wipe() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.b)
	m.b = nil
}

// Cached asks its source at most once and replays the result, so several
// operations in one invocation share a single prompt.
type Cached struct {
	src  Source
	once sync.Once
	mem  *Memory
	err  error
}

// Once wraps src in a Cached.
func Once(src Source) *Cached {
	return &Cached{src: src}
}

func (c *Cached) Password() ([]byte, error) {
	c.once.Do(func() {
		c.mem, c.err = Capture(c.src)
	})
	if c.err != nil {
		return nil, c.err
	}
	return c.mem.Password()
}

// Wipe zeroes the cached password, if any.
func (c *Cached) Wipe() {
	if c.mem != nil {
		c.mem.Wipe()
	}
}
