// Package filerepo persists session credentials to a JSON file, optionally
// sealed with NaCl secretbox.
package filerepo

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/jrsteele09/go-booking-client/session"
	"golang.org/x/crypto/nacl/secretbox"
)

var _ session.Repo = (*FileRepo)(nil)

const nonceSize = 24

type FileRepo struct {
	path string
	key  *[32]byte
	lock sync.Mutex
}

// New returns a repo backed by path. storageKey is optional; when set it must
// be 32 raw bytes or 64 hex characters and the file is sealed with it.
func New(path, storageKey string) (*FileRepo, error) {
	if path == "" {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidInput, "token file path is empty")
	}
	r := &FileRepo{path: path}
	if storageKey != "" {
		key, err := parseKey(storageKey)
		if err != nil {
			return nil, err
		}
		r.key = key
	}
	return r, nil
}

func parseKey(s string) (*[32]byte, error) {
	var key [32]byte
	if len(s) == 64 {
		b, err := hex.DecodeString(s)
		if err == nil {
			copy(key[:], b)
			return &key, nil
		}
	}
	if len(s) != 32 {
		return nil, bookerrors.ErrStorageKeyInvalid
	}
	copy(key[:], s)
	return &key, nil
}

func (r *FileRepo) Get(key string) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	values, err := r.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", session.ErrNotFound
	}
	return v, nil
}

func (r *FileRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	values, err := r.read()
	if err != nil {
		return err
	}
	values[key] = value
	return r.write(values)
}

func (r *FileRepo) Remove(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	values, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return session.ErrNotFound
	}
	delete(values, key)
	return r.write(values)
}

func (r *FileRepo) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if r.key != nil {
		if data, err = r.open(data); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return values, nil
}

func (r *FileRepo) write(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if r.key != nil {
		if data, err = r.seal(data); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}

func (r *FileRepo) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, r.key), nil
}

func (r *FileRepo) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidToken, "session file too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, r.key)
	if !ok {
		return nil, bookerrors.Wrapf(bookerrors.ErrInvalidToken, "session file cannot be opened with the storage key")
	}
	return plain, nil
}
