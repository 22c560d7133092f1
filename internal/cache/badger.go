package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// entryTTL bounds how long stale entries linger after their key stops
// being generated. Freshness is carried by the key itself; the TTL is
// purely space reclamation.
const entryTTL = 12 * time.Hour

// BadgerStore is a disk-backed Store so cached results survive process
// restarts.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a badger-backed store at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Fetch(ctx context.Context, key string, compute func() ([]byte, error)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cached []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		cached, err = item.ValueCopy(nil)
		return err
	})
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), v).WithTTL(entryTTL)
		return txn.SetEntry(e)
	})
	if err != nil {
		return nil, fmt.Errorf("write cache entry: %w", err)
	}
	return v, nil
}

func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

func (s *BadgerStore) DeleteMatching(ctx context.Context, substr string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Collect in a read pass, delete in a write pass. Badger iterators
	// are only valid inside their own transaction.
	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			k := it.Item().KeyCopy(nil)
			if strings.Contains(string(k), substr) {
				stale = append(stale, k)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan cache entries: %w", err)
	}

	removed := 0
	for _, k := range stale {
		err := s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(k)
		})
		if err != nil {
			return removed, fmt.Errorf("delete cache entry: %w", err)
		}
		removed++
	}
	return removed, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
