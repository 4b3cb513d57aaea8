package booking

import (
	"os"
	"path/filepath"
	"strings"
)

// tokenFileName mirrors the fixed storage key the web client uses.
const tokenFileName = "authToken"

// TokenFile persists the bearer token across client runs, the durable
// analogue of the browser's local storage. Dir defaults to a per-user
// config directory.
type TokenFile struct {
	dir string
}

func NewTokenFile(dir string) (*TokenFile, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "classroom_booking")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &TokenFile{dir: dir}, nil
}

// Save writes the token under the fixed key. An empty token clears it.
func (t *TokenFile) Save(token string) error {
	if token == "" {
		return t.Clear()
	}
	return os.WriteFile(t.path(), []byte(token), 0o600)
}

// Load reads the stored token. A missing file is not an error; it returns
// an empty token, leaving the client anonymous.
func (t *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(t.path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (t *TokenFile) Clear() error {
	err := os.Remove(t.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (t *TokenFile) path() string {
	return filepath.Join(t.dir, tokenFileName)
}
