// Package storage is a small namespaced blob store over pebble keyed by ksuid.
package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// ErrNotFound is returned when no blob exists for an id
var ErrNotFound = errors.New("not found")

// Namespace separates kinds of blobs that share one database
type Namespace byte

type DefaultStorage struct {
	db *pebble.DB
}

func NewDefaultStorage(path string) (*DefaultStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &DefaultStorage{db: db}, nil
}

func key(ns Namespace, id ksuid.KSUID) []byte {
	k := make([]byte, 0, 21)
	k = append(k, byte(ns))
	return append(k, id.Bytes()...)
}

// Create stores data under a fresh id
func (s *DefaultStorage) Create(ns Namespace, data []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.db.Set(key(ns, id), data, pebble.Sync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Read returns a copy of the blob stored under id
func (s *DefaultStorage) Read(ns Namespace, id ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(key(ns, id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), data...), nil
}

func (s *DefaultStorage) Update(ns Namespace, id ksuid.KSUID, data []byte) error {
	return s.db.Set(key(ns, id), data, pebble.Sync)
}

func (s *DefaultStorage) Delete(ns Namespace, id ksuid.KSUID) error {
	return s.db.Delete(key(ns, id), pebble.Sync)
}

// Each calls fn for every blob in ns in id order, which follows creation time.
// Returning an error from fn stops the walk.
func (s *DefaultStorage) Each(ns Namespace, fn func(id ksuid.KSUID, data []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{byte(ns)},
		UpperBound: []byte{byte(ns) + 1},
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[1:])
		if err != nil {
			return fmt.Errorf("malformed key %x: %w", iter.Key(), err)
		}
		if err := fn(id, append([]byte(nil), iter.Value()...)); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *DefaultStorage) Close() error {
	return s.db.Close()
}
