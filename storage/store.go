package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/andeanfly/flightdesk/domain"
)

const sessionBucket = "session"

var (
	keyAccessToken = []byte("access_token")
	keyIDToken     = []byte("id_token")
	keySnapshot    = []byte("snapshot")
)

// Snapshot is the minimal session state that survives a restart. Tokens are
// stored separately so every request can read them fresh.
type Snapshot struct {
	IsAuthenticated bool                `json:"is_authenticated"`
	User            *domain.UserProfile `json:"user,omitempty"`
}

// Store is the durable client-side session store, backed by a bbolt file.
// Every read goes to the database so that a logout performed by one
// in-flight operation is immediately visible to the next request issued by
// any other component.
type Store struct {
	db *bbolt.DB
}

// Open initializes the store at dbPath, creating the directory and the
// session bucket if needed.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state db at %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SetTokens durably persists the access token and the optional ID token.
// It returns only after the write transaction has committed, so callers may
// sequence a dependent request after it.
func (s *Store) SetTokens(accessToken, idToken string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		if err := b.Put(keyAccessToken, []byte(accessToken)); err != nil {
			return err
		}
		if idToken == "" {
			return b.Delete(keyIDToken)
		}
		return b.Put(keyIDToken, []byte(idToken))
	})
}

// AccessToken reads the current access token. An empty string means no
// token is stored, which is not an error: unauthenticated endpoints must
// still work.
func (s *Store) AccessToken() (string, error) {
	return s.get(keyAccessToken)
}

// IDToken reads the current ID token, if any.
func (s *Store) IDToken() (string, error) {
	return s.get(keyIDToken)
}

func (s *Store) get(key []byte) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(sessionBucket)).Get(key); v != nil {
			value = string(v)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read session store: %w", err)
	}
	return value, nil
}

// SaveSnapshot persists the minimal session snapshot.
func (s *Store) SaveSnapshot(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put(keySnapshot, data)
	})
}

// LoadSnapshot returns the persisted snapshot, or a zero Snapshot when none
// has been saved yet.
func (s *Store) LoadSnapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(sessionBucket)).Get(keySnapshot)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read session snapshot: %w", err)
	}
	return snap, nil
}

// Clear removes tokens and the snapshot in one transaction. Logout and
// unrecoverable auth failures must not leave partial state behind.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		for _, key := range [][]byte{keyAccessToken, keyIDToken, keySnapshot} {
			if err := b.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
