// Package session issues and stores the identifiers that scope a shopper's
// cart, tickets and conversation.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// ID identifies one shopper session. It is passed explicitly to every
// collaborator that reads or writes per-session data.
type ID string

// StorageKey is the file name used by FileStore, mirroring the key used by
// browser clients in local storage.
const StorageKey = "chatbot_session_id"

const (
	randomLen = 13
	maxLen    = 128
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// ErrInvalid is returned for empty or malformed identifiers.
var ErrInvalid = errors.New("invalid session id")

// New generates an identifier of the form session_<unix millis>_<random>.
func New() ID {
	return newAt(time.Now())
}

func newAt(now time.Time) ID {
	var b strings.Builder
	base := big.NewInt(int64(len(alphabet)))
	for i := 0; i < randomLen; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(fmt.Sprintf("session: reading random bytes: %v", err))
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return ID(fmt.Sprintf("session_%d_%s", now.UnixMilli(), b.String()))
}

// Valid reports whether id can be used as a session identifier.
func Valid(id ID) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	return strings.IndexFunc(string(id), unicode.IsSpace) < 0
}

// Parse validates a raw identifier received from a client.
func Parse(raw string) (ID, error) {
	id := ID(strings.TrimSpace(raw))
	if !Valid(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
	return id, nil
}

func (id ID) String() string { return string(id) }

// FileStore persists a single identifier on disk, playing the role local
// storage plays for browser clients.
type FileStore struct {
	Dir string
}

func (s FileStore) path() string {
	return filepath.Join(s.Dir, StorageKey)
}

// Get returns the stored identifier, generating and saving a new one when
// none exists yet.
func (s FileStore) Get() (ID, error) {
	data, err := os.ReadFile(s.path())
	if err == nil {
		if id, perr := Parse(string(data)); perr == nil {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading session file: %w", err)
	}

	id := New()
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.path(), []byte(id), 0o600); err != nil {
		return "", fmt.Errorf("writing session file: %w", err)
	}
	return id, nil
}

// Clear removes the stored identifier. The next Get starts a new session.
func (s FileStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
