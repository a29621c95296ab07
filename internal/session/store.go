// Package session persists login sessions in badger.
// Records expire through badger's native TTL when the session has an expiry.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/store"
)

const sessionPrefix = "session:"

// ErrSessionExpired is returned for a record whose ExpiresAt has passed
// but which badger has not yet dropped.
var ErrSessionExpired = errors.New("session expired")

// Options configures the session store.
type Options struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
}

// Store is a badger-backed session record store.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (or creates) the session database.
func Open(opts Options, logger *slog.Logger) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil
	bopts.SyncWrites = !opts.InMemory
	bopts.CompactL0OnClose = true

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Session store opened", "path", opts.Path, "in_memory", opts.InMemory)

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close flushes and closes the badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create persists a new session. A session with an expiry is written with a
// matching TTL so badger drops it on its own.
func (s *Store) Create(_ context.Context, sess *domain.Session) error {
	if sess.ID == "" || sess.UserID == "" {
		return store.ErrInvalidInput.WithMessage("session id and user id are required")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	entry := badger.NewEntry(key(sess.ID), data)
	if !sess.ExpiresAt.IsZero() {
		ttl := sess.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return ErrSessionExpired
		}
		entry = entry.WithTTL(ttl)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(sess.ID)); err == nil {
			return store.ErrAlreadyExists.WithMessage("session already exists")
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.SetEntry(entry)
	})
}

// Get loads a session by ID. Returns store.ErrSessionNotFound for unknown
// or ended sessions and ErrSessionExpired for expired ones.
func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	var sess domain.Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.IsExpired(s.now()) {
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *Store) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func key(id string) []byte {
	return []byte(sessionPrefix + id)
}

// RunGC reclaims value log space held by expired and deleted sessions.
// It returns nil when badger found nothing worth rewriting.
func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}
