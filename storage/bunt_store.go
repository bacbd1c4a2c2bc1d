package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/buntdb"
)

// BuntStore is the durable KeyValueStore, backed by a buntdb file.
type BuntStore struct {
	db *buntdb.DB
}

// NewBuntStore opens (or creates) the database at path. Use ":memory:" for
// a throwaway store.
func NewBuntStore(path string) (*BuntStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("bunt: create data dir: %w", err)
		}
	}

	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bunt: open %q: %w", path, err)
	}
	return &BuntStore{db: db}, nil
}

func (b *BuntStore) Get(key string) (string, bool, error) {
	var value string
	err := b.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("bunt: get %q: %w", key, err)
	}
	return value, true, nil
}

func (b *BuntStore) Set(key, value string) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, value, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("bunt: set %q: %w", key, err)
	}
	return nil
}

func (b *BuntStore) Remove(key string) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		return fmt.Errorf("bunt: remove %q: %w", key, err)
	}
	return nil
}

// CompareAndSwap replaces the value inside a single write transaction.
func (b *BuntStore) CompareAndSwap(key, expected, value string) (bool, error) {
	swapped := false
	err := b.db.Update(func(tx *buntdb.Tx) error {
		cur, err := tx.Get(key)
		if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		if cur != expected {
			return nil
		}
		if _, _, err := tx.Set(key, value, nil); err != nil {
			return err
		}
		swapped = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("bunt: swap %q: %w", key, err)
	}
	return swapped, nil
}

// Close flushes and closes the database file.
func (b *BuntStore) Close() error {
	return b.db.Close()
}
