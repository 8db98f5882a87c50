// Package ledger keeps a persistent audit trail of verification runs in an
// embedded bbolt database. It is purely additive: ledger writes never change
// a verification outcome.
package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/blake2b"
)

var (
	bucketRecords = []byte("verifications")
	bucketDigests = []byte("digests")
)

// Record is one persisted verification run.
type Record struct {
	ID        string    `json:"id"`
	Digest    string    `json:"digest"`
	Status    string    `json:"status"`
	Reasons   []string  `json:"reasons,omitempty"`
	Strict    bool      `json:"strict"`
	WireSize  int       `json:"wire_size"`
	CreatedAt time.Time `json:"created_at"`
}

// Ledger is a bbolt-backed record store. Concurrent appends are safe; bbolt
// serializes writers.
type Ledger struct {
	db *bolt.DB
}

// Open creates or opens the ledger database at path.
func Open(path string) (*Ledger, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Digest returns the BLAKE2b-256 hex digest keying a wire frame.
func Digest(wire []byte) string {
	sum := blake2b.Sum256(wire)
	return hex.EncodeToString(sum[:])
}

// Append stores a new record for the given wire bytes and outcome, filling
// in ID, digest, and timestamp. The stored record is returned.
func (l *Ledger) Append(wire []byte, status string, reasons []string, strict bool) (Record, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Digest:    Digest(wire),
		Status:    status,
		Reasons:   reasons,
		Strict:    strict,
		WireSize:  len(wire),
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("marshaling record: %w", err)
	}

	err = l.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketRecords)
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		if err := b.Put([]byte(rec.ID), data); err != nil {
			return err
		}
		idx, err := tx.CreateBucketIfNotExists(bucketDigests)
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		return idx.Put([]byte(rec.Digest), []byte(rec.ID))
	})
	if err != nil {
		return Record{}, fmt.Errorf("appending record: %w", err)
	}
	return rec, nil
}

// List returns every record, oldest first.
func (l *Ledger) List() ([]Record, error) {
	var records []Record
	err := l.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshaling record: %w", err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// ByDigest returns the latest record stored for a wire digest, if any.
func (l *Ledger) ByDigest(digest string) (Record, bool, error) {
	var rec Record
	found := false
	err := l.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bucketDigests)
		if idx == nil {
			return nil
		}
		id := idx.Get([]byte(digest))
		if id == nil {
			return nil
		}
		b := tx.Bucket(bucketRecords)
		if b == nil {
			return nil
		}
		v := b.Get(id)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("unmarshaling record: %w", err)
		}
		found = true
		return nil
	})
	return rec, found, err
}

// Close releases the database file.
func (l *Ledger) Close() error {
	return l.db.Close()
}
