// Package leveldbengine wires github.com/syndtr/goleveldb into the
// kv.Backend contract as the alternate storage.engine choice, selected
// the same way badgerengine is at server construction time.
package leveldbengine

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ironkv/ironkv/pkg/storage/engine/kv"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

// Open creates (or reopens) a goleveldb-backed store rooted at dir.
func Open(dir string) (store.Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return kv.NewStore(&backend{db: db}), nil
}

type backend struct {
	db *leveldb.DB
}

func (b *backend) Get(key []byte) ([]byte, error) {
	v, err := b.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, store.ErrNotFound
	}
	return v, err
}

func (b *backend) Put(key, val []byte) error {
	return b.db.Put(key, val, nil)
}

func (b *backend) Delete(key []byte) error {
	return b.db.Delete(key, nil)
}

func (b *backend) Iterator(prefix []byte) kv.Iterator {
	it := b.db.NewIterator(util.BytesPrefix(prefix), nil)
	return &leveldbIterator{it: it}
}

func (b *backend) Close() error {
	return b.db.Close()
}

type leveldbIterator struct {
	it iterator
}

// iterator narrows goleveldb's *leveldb.Iterator to the methods used
// here, so this file alone documents the dependency surface.
type iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
}

func (i *leveldbIterator) Next() bool  { return i.it.Next() }
func (i *leveldbIterator) Key() []byte { return append([]byte{}, i.it.Key()...) }
func (i *leveldbIterator) Value() []byte {
	return append([]byte{}, i.it.Value()...)
}
func (i *leveldbIterator) Release() { i.it.Release() }
