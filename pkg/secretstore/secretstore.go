// Package secretstore keeps API credentials in an encrypted Badger database.
package secretstore

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// Well-known keys for the trading API key pair.
const (
	KeyAPIKeyID     = "apca/key_id"
	KeyAPISecretKey = "apca/secret_key"
)

var ErrNotOpened = errors.New("secretstore: not opened")

// Store is a small KV wrapper. Encryption at rest comes from Badger itself
// (value log and key registry) when an EncryptionKey is given.
type Store struct {
	db *badger.DB
}

type OpenOptions struct {
	Path string
	// EncryptionKey must be 32 bytes. Nil opens the database unencrypted.
	EncryptionKey []byte
	ReadOnly      bool
}

func Open(opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("secretstore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	if len(opts.EncryptionKey) > 0 {
		// Badger refuses encryption without an index cache.
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrapf(err, "secretstore: open %s", opts.Path)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetString returns the value for key and whether it was present.
func (s *Store) GetString(key string) (string, bool, error) {
	k, err := s.key(key)
	if err != nil {
		return "", false, err
	}
	var (
		out   string
		found bool
	)
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, errors.Wrapf(err, "secretstore: get %s", key)
	}
	return out, found, nil
}

func (s *Store) SetString(key, val string) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, []byte(val))
	})
}

func (s *Store) key(key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotOpened
	}
	k := strings.TrimSpace(key)
	if k == "" {
		return nil, errors.New("secretstore: key is empty")
	}
	return []byte(k), nil
}

// Credentials reads the API key pair. ok is false unless both are present
// and non-empty.
func (s *Store) Credentials() (keyID, secretKey string, ok bool, err error) {
	keyID, foundID, err := s.GetString(KeyAPIKeyID)
	if err != nil {
		return "", "", false, err
	}
	secretKey, foundSecret, err := s.GetString(KeyAPISecretKey)
	if err != nil {
		return "", "", false, err
	}
	ok = foundID && foundSecret && keyID != "" && secretKey != ""
	return keyID, secretKey, ok, nil
}

func (s *Store) SetCredentials(keyID, secretKey string) error {
	if err := s.SetString(KeyAPIKeyID, keyID); err != nil {
		return err
	}
	return s.SetString(KeyAPISecretKey, secretKey)
}

// ParseKey decodes a 32-byte key given as hex (optionally 0x-prefixed) or
// standard base64. Empty input returns nil.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x")); err == nil {
		if len(b) != 32 {
			return nil, errors.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, errors.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64(32 bytes) or hex(32 bytes)")
}
