package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// TokenFS persists the access token between CLI invocations, the session's
// only on-disk state. Files live under the user config dir and are 0600.
type TokenFS struct {
	// Path overrides the default token location when non-empty.
	Path string
}

func (t TokenFS) path() (string, error) {
	if t.Path != "" {
		if err := os.MkdirAll(filepath.Dir(t.Path), 0o700); err != nil {
			return "", err
		}
		return t.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "kunstgalerie")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(p, "auth_token"), nil
}

// Save writes the token.
func (t TokenFS) Save(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	p, err := t.path()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load reads the stored token, trimming trailing whitespace.
func (t TokenFS) Load() (string, error) {
	p, err := t.path()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	s := strings.TrimRight(string(b), " \t\r\n")
	if s == "" {
		return "", errors.New("empty token file")
	}
	return s, nil
}

// Clear removes the stored token. Missing file is not an error.
func (t TokenFS) Clear() error {
	p, err := t.path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
