// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package media

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/alisoncf/guara/internal/config"
	"github.com/alisoncf/guara/internal/logging"
	"github.com/alisoncf/guara/internal/metrics"
)

var (
	ErrJournalClosed = errors.New("media: journal is closed")
	ErrEntryNotFound = errors.New("media: journal entry not found")
)

// Intent is everything needed to finish a removal after a restart.
type Intent struct {
	ObjectID       string `json:"object_id"`
	File           string `json:"file"`
	ObjectIRI      string `json:"object_iri"`
	MediaIRI       string `json:"media_iri,omitempty"`
	UpdateEndpoint string `json:"update_endpoint"`
	CorrelationID  string `json:"correlation_id,omitempty"`
}

// Entry is one pending removal.
type Entry struct {
	ID            string    `json:"id"`
	Intent        Intent    `json:"intent"`
	CreatedAt     time.Time `json:"created_at"`
	Attempts      int       `json:"attempts"`
	LastAttemptAt time.Time `json:"last_attempt_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}

// Journal records removal intents until they are confirmed.
type Journal interface {
	// Write stores intent under id. Callers that act on the entry claim id
	// before writing it, so recovery never sees it unclaimed.
	Write(ctx context.Context, id string, intent Intent) error
	// Confirm removes a finished entry.
	Confirm(ctx context.Context, id string) error
	// Drop removes an entry whose removal was abandoned.
	Drop(ctx context.Context, id string) error
	RecordAttempt(ctx context.Context, id, lastError string) error
	Pending(ctx context.Context) ([]*Entry, error)
	// TryClaim keeps the recovery service off an entry a request is still
	// working on. Every successful claim must be released.
	TryClaim(id string) bool
	Release(id string)
	Close() error
}

const prefixPending = "removal:pending:"

// BadgerJournal is a Journal on BadgerDB with synchronous writes.
type BadgerJournal struct {
	db *badger.DB

	mu     sync.RWMutex
	closed bool

	claims sync.Map
}

// OpenJournal opens (or creates) the journal at cfg.Path. InMemory keeps it
// in memory, which tests and single-shot tools use.
func OpenJournal(cfg config.JournalConfig) (*BadgerJournal, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("media: journal path is required")
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	logging.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Media journal opened")
	return &BadgerJournal{db: db}, nil
}

func (j *BadgerJournal) checkOpen() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrJournalClosed
	}
	return nil
}

// Write stores intent as a new pending entry under id.
func (j *BadgerJournal) Write(_ context.Context, id string, intent Intent) error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	if id == "" {
		return errors.New("media: journal entry id is required")
	}
	entry := &Entry{ID: id, Intent: intent, CreatedAt: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixPending+entry.ID), data)
	})
	if err != nil {
		return fmt.Errorf("write to BadgerDB: %w", err)
	}
	metrics.JournalPending.Inc()
	return nil
}

// Confirm deletes a finished entry.
func (j *BadgerJournal) Confirm(_ context.Context, id string) error {
	return j.delete(id)
}

// Drop deletes an entry that will not be retried.
func (j *BadgerJournal) Drop(_ context.Context, id string) error {
	return j.delete(id)
}

func (j *BadgerJournal) delete(id string) error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	key := []byte(prefixPending + id)
	err := j.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		} else if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}
		return txn.Delete(key)
	})
	if err != nil {
		return err
	}
	metrics.JournalPending.Dec()
	return nil
}

// RecordAttempt bumps the attempt counter of a pending entry.
func (j *BadgerJournal) RecordAttempt(_ context.Context, id, lastError string) error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	key := []byte(prefixPending + id)
	return j.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}
		var entry Entry
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &entry) }); err != nil {
			return fmt.Errorf("unmarshal entry: %w", err)
		}
		entry.Attempts++
		entry.LastAttemptAt = time.Now().UTC()
		entry.LastError = lastError
		data, err := json.Marshal(&entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		return txn.Set(key, data)
	})
}

// Pending returns every unconfirmed entry from one consistent snapshot.
func (j *BadgerJournal) Pending(ctx context.Context) ([]*Entry, error) {
	if err := j.checkOpen(); err != nil {
		return nil, err
	}
	var entries []*Entry
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry Entry
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &entry) }); err != nil {
				logging.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping unreadable journal entry")
				continue
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate pending entries: %w", err)
	}
	metrics.JournalPending.Set(float64(len(entries)))
	return entries, nil
}

// TryClaim reports whether id was free and is now claimed by the caller.
func (j *BadgerJournal) TryClaim(id string) bool {
	_, taken := j.claims.LoadOrStore(id, time.Now())
	return !taken
}

// Release frees a claim taken with TryClaim.
func (j *BadgerJournal) Release(id string) {
	j.claims.Delete(id)
}

// Close closes the database. Further calls fail with ErrJournalClosed.
func (j *BadgerJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
