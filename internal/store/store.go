// Package store persists opaque blobs in a Badger database.
//
// The candidate cache keeps its two JSON blobs here. Keys are namespaced under
// CachePrefix so the database can be shared with other data later.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// CachePrefix namespaces every key written through Get/Set.
const CachePrefix = "cache:"

// Options controls how the database is opened.
type Options struct {
	// ReadOnly opens an existing database without taking the write lock.
	ReadOnly bool
	// InMemory keeps everything in memory; path is ignored.
	InMemory bool
}

// Store wraps a Badger database instance.
type Store struct {
	db       *badger.DB
	logger   *slog.Logger
	readOnly bool
}

// New opens (or creates) a read-write store at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	return Open(path, logger, Options{})
}

// Open opens a store with explicit options.
func Open(path string, logger *slog.Logger, o Options) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(path)
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable Badger's internal logging
	opts.ReadOnly = o.ReadOnly
	opts.SyncWrites = !o.InMemory
	opts.CompactL0OnClose = !o.ReadOnly

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	logger.Info("Badger database opened successfully", "path", path, "read_only", o.ReadOnly, "in_memory", o.InMemory)

	return &Store{db: db, logger: logger, readOnly: o.ReadOnly}, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}

// Shutdown implements do.Shutdowner.
func (s *Store) Shutdown() error {
	return s.Close()
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := blobKey(key)

	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get", key, err)
	}
	return out, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.readOnly {
		return ErrReadOnly
	}

	k := blobKey(key)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, value)
	})
	if err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.readOnly {
		return ErrReadOnly
	}

	k := blobKey(key)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
	if err != nil {
		return unavailable("delete", key, err)
	}
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Keys lists every key under CachePrefix, without the prefix, in key order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(CachePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, blobName(it.Item().Key()))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable("list", CachePrefix, err)
	}
	return keys, nil
}
