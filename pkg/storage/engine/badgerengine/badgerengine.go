// Package badgerengine wires github.com/dgraph-io/badger, an embedded
// LSM-tree store, into the kv.Backend contract so that
// pkg/storage/engine/kv's generic command translation can run on top
// of it.
package badgerengine

import (
	"github.com/dgraph-io/badger"

	"github.com/ironkv/ironkv/pkg/storage/engine/kv"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

// Open creates (or reopens) a Badger-backed store rooted at dir.
func Open(dir string) (store.Store, error) {
	opts := badger.DefaultOptions(dir)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return kv.NewStore(&backend{db: db}), nil
}

type backend struct {
	db *badger.DB
}

func (b *backend) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

func (b *backend) Put(key, val []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

func (b *backend) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

func (b *backend) Iterator(prefix []byte) kv.Iterator {
	txn := b.db.NewTransaction(false)
	opt := badger.DefaultIteratorOptions
	opt.Prefix = prefix
	it := txn.NewIterator(opt)
	it.Seek(prefix)
	return &badgerIterator{txn: txn, it: it, started: false}
}

func (b *backend) Close() error {
	return b.db.Close()
}

type badgerIterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	started bool
}

func (i *badgerIterator) Next() bool {
	if !i.started {
		i.started = true
	} else {
		i.it.Next()
	}
	return i.it.Valid()
}

func (i *badgerIterator) Key() []byte {
	return i.it.Item().KeyCopy(nil)
}

func (i *badgerIterator) Value() []byte {
	v, _ := i.it.Item().ValueCopy(nil)
	return v
}

func (i *badgerIterator) Release() {
	i.it.Close()
	i.txn.Discard()
}
