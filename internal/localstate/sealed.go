package localstate

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
)

// Sealed wraps a Store and encrypts the values of selected keys at rest with
// a machine-local key. The browser stored the bearer token in plain
// localStorage; on a multi-user filesystem that is not acceptable.
type Sealed struct {
	inner  Store
	key    [32]byte
	sealed map[string]bool
}

// NewSealed loads (or creates, 0600) the sealing key at keyPath and seals the
// listed keys. All other keys pass through untouched.
func NewSealed(inner Store, keyPath string, sealedKeys ...string) (*Sealed, error) {
	key, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, err
	}
	sealed := make(map[string]bool, len(sealedKeys))
	for _, k := range sealedKeys {
		sealed[k] = true
	}
	return &Sealed{inner: inner, key: key, sealed: sealed}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok || !s.sealed[key] {
		return value, ok, err
	}
	plain, err := s.open(value)
	if err != nil {
		// Undecryptable token (key rotated, copied profile): treat as absent,
		// the session layer will demand a fresh login.
		return "", false, nil
	}
	return plain, true, nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	if s.sealed[key] {
		value = s.seal(value)
	}
	return s.inner.Set(ctx, key, value)
}

func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *Sealed) Close() error { return s.inner.Close() }

func (s *Sealed) seal(plain string) string {
	var nonce [24]byte
	_, _ = rand.Read(nonce[:])
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(box)
}

func (s *Sealed) open(encoded string) (string, error) {
	box, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	if len(box) < 24 {
		return "", fmt.Errorf("sealed value too short")
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", fmt.Errorf("sealed value does not open")
	}
	return string(plain), nil
}

func loadOrCreateKey(path string) ([32]byte, error) {
	var key [32]byte
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != 32 {
			return key, fmt.Errorf("sealing key at %s has wrong size", path)
		}
		copy(key[:], data)
		return key, nil
	}
	if !os.IsNotExist(err) {
		return key, fmt.Errorf("read sealing key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return key, fmt.Errorf("create key dir: %w", err)
	}
	if _, err := rand.Read(key[:]); err != nil {
		return key, fmt.Errorf("generate sealing key: %w", err)
	}
	if err := os.WriteFile(path, key[:], 0o600); err != nil {
		return key, fmt.Errorf("write sealing key: %w", err)
	}
	return key, nil
}
