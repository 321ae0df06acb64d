// Package journal records submitted transactions so a repeated command does not
// submit the same deposit twice.
package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var bucketSubmissions = []byte("submissions")

var ErrAlreadySubmitted = errors.New("already submitted")

type Entry struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Chain       string    `json:"chain"`
	Operation   string    `json:"operation"`
	Asset       string    `json:"asset"`
	Amount      string    `json:"amount"`
	Memo        string    `json:"memo,omitempty"`
	TxHash      string    `json:"tx_hash"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Key derives the journal key of a submission from the fields that identify it.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

type Journal struct {
	db *bbolt.DB
}

// Open opens or creates the journal at path, creating the parent directory.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSubmissions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create journal bucket: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// Get returns the entry stored under key; ok is false when there is none.
func (j *Journal) Get(key string) (Entry, bool, error) {
	var (
		entry Entry
		ok    bool
	)
	err := j.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSubmissions).Get([]byte(key))
		if data == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read journal entry %s: %w", key, err)
	}
	return entry, ok, nil
}

// Record stores e. It fails with ErrAlreadySubmitted when the key is taken.
func (j *Journal) Record(e Entry) error {
	if e.Key == "" {
		return errors.New("journal entry has no key")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}

	return j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSubmissions)
		if existing := b.Get([]byte(e.Key)); existing != nil {
			var prev Entry
			_ = json.Unmarshal(existing, &prev)
			return fmt.Errorf("%w: %s as %s", ErrAlreadySubmitted, e.Key, prev.TxHash)
		}
		return b.Put([]byte(e.Key), data)
	})
}

// List returns every entry in key order.
func (j *Journal) List() ([]Entry, error) {
	var entries []Entry
	err := j.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSubmissions).ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	return entries, nil
}

// Forget removes key so the submission can be retried.
func (j *Journal) Forget(key string) error {
	return j.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSubmissions).Delete([]byte(key))
	})
}
