// Package kv implements the store.DB translation layer once, against
// a small ordered-byte-store abstraction (Backend), so that the
// Badger and goleveldb engines only need to supply
// Get/Put/Delete/Iterator.
package kv

import (
	"sync"

	"github.com/ironkv/ironkv/pkg/storage/store"
)

// Backend is the minimal ordered key-value contract the generic
// engine needs from whichever embedded store backs it.
type Backend interface {
	Get(key []byte) ([]byte, error) // store.ErrNotFound when absent
	Put(key, val []byte) error
	Delete(key []byte) error
	// Iterator ranges over every key with the given prefix, in byte
	// order.
	Iterator(prefix []byte) Iterator
	Close() error
}

// Iterator ranges over a Backend's keys within one prefix.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
}

// Store wraps one physical Backend (one Badger or goleveldb handle)
// and hands out per-logical-database views over it.
type Store struct {
	backend Backend

	mu  sync.Mutex
	dbs map[string]*DB
}

// NewStore adapts backend into a store.Store. Used by the badgerengine
// and leveldbengine packages, which supply the concrete Backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend, dbs: make(map[string]*DB)}
}

func (s *Store) DB(name string) store.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	if db, ok := s.dbs[name]; ok {
		return db
	}
	db := &DB{backend: s.backend, name: name}
	s.dbs[name] = db
	return db
}

func (s *Store) Close() error {
	return s.backend.Close()
}
