package kv

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironkv/ironkv/pkg/storage/store"
)

// memBackend is an in-memory Backend used to exercise the generic
// engine without a real embedded store.
type memBackend struct {
	data map[string][]byte
}

func newMemBackend() *memBackend { return &memBackend{data: map[string][]byte{}} }

func (m *memBackend) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (m *memBackend) Put(key, val []byte) error {
	m.data[string(key)] = append([]byte{}, val...)
	return nil
}

func (m *memBackend) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memBackend) Iterator(prefix []byte) Iterator {
	var keys []string
	for k := range m.data {
		if strings_hasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{m: m, keys: keys, pos: -1}
}

func (m *memBackend) Close() error { return nil }

func strings_hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

type memIterator struct {
	m    *memBackend
	keys []string
	pos  int
}

func (it *memIterator) Next() bool {
	it.pos++
	return it.pos < len(it.keys)
}
func (it *memIterator) Key() []byte   { return []byte(it.keys[it.pos]) }
func (it *memIterator) Value() []byte { return it.m.data[it.keys[it.pos]] }
func (it *memIterator) Release()      {}

func newTestDB(t *testing.T) store.DB {
	t.Helper()
	s := NewStore(newMemBackend())
	return s.DB("0")
}

func TestSetGet(t *testing.T) {
	db := newTestDB(t)
	ok, err := db.Set([]byte("foo"), []byte("bar"), store.SetOptions{})
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := db.Get([]byte("foo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), v)
}

func TestSetNXAndXX(t *testing.T) {
	db := newTestDB(t)
	ok, err := db.Set([]byte("k"), []byte("v1"), store.SetOptions{Precondition: store.PrecondXX})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = db.Set([]byte("k"), []byte("v1"), store.SetOptions{Precondition: store.PrecondNX})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.Set([]byte("k"), []byte("v2"), store.SetOptions{Precondition: store.PrecondNX})
	require.NoError(t, err)
	assert.False(t, ok)

	v, _ := db.Get([]byte("k"))
	assert.Equal(t, []byte("v1"), v)
}

func TestIncrBy(t *testing.T) {
	db := newTestDB(t)
	n, err := db.IncrBy([]byte("counter"), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = db.IncrBy([]byte("counter"), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	db.Set([]byte("counter"), []byte("notnum"), store.SetOptions{})
	_, err = db.IncrBy([]byte("counter"), 1)
	assert.ErrorIs(t, err, store.ErrNotInteger)
}

func TestHashRoundTrip(t *testing.T) {
	db := newTestDB(t)
	created, err := db.HSet([]byte("h"), []byte("f1"), []byte("v1"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = db.HSet([]byte("h"), []byte("f1"), []byte("v1b"))
	require.NoError(t, err)
	assert.False(t, created)

	db.HSet([]byte("h"), []byte("f2"), []byte("v2"))
	all, err := db.HGetAll([]byte("h"))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSetAlgebra(t *testing.T) {
	db := newTestDB(t)
	db.SAdd([]byte("s"), [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	card, _ := db.SCard([]byte("s"))
	assert.EqualValues(t, 3, card)

	ok, _ := db.SIsMember([]byte("s"), []byte("b"))
	assert.True(t, ok)
	ok, _ = db.SIsMember([]byte("s"), []byte("z"))
	assert.False(t, ok)
}

func TestSInterUnionDiff(t *testing.T) {
	db := newTestDB(t)
	db.SAdd([]byte("s1"), [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	db.SAdd([]byte("s2"), [][]byte{[]byte("b"), []byte("c"), []byte("d")})

	inter, _ := db.SInter([][]byte{[]byte("s1"), []byte("s2")})
	assert.ElementsMatch(t, [][]byte{[]byte("b"), []byte("c")}, inter)

	diff, _ := db.SDiff([][]byte{[]byte("s1"), []byte("s2")})
	assert.ElementsMatch(t, [][]byte{[]byte("a")}, diff)

	union, _ := db.SUnion([][]byte{[]byte("s1"), []byte("s2")})
	assert.Len(t, union, 4)
}

func TestZAddRequiresMultiExecBracket(t *testing.T) {
	db := newTestDB(t)
	db.Multi()
	added, err := db.ZAdd([]byte("z"), []store.ZMember{
		{Member: []byte("a"), Score: 1},
		{Member: []byte("b"), Score: 2},
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec())
	assert.EqualValues(t, 2, added)

	score, err := db.ZScore([]byte("z"), []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)

	rng, err := db.ZRange([]byte("z"), 0, -1)
	require.NoError(t, err)
	require.Len(t, rng, 2)
	assert.True(t, bytes.Equal(rng[0].Member, []byte("a")))
	assert.True(t, bytes.Equal(rng[1].Member, []byte("b")))
}

func TestZAddDiscardLeavesKeyUnchanged(t *testing.T) {
	db := newTestDB(t)
	db.Multi()
	db.ZAdd([]byte("z"), []store.ZMember{{Member: []byte("a"), Score: 1}})
	db.Discard()

	card, _ := db.ZCard([]byte("z"))
	assert.EqualValues(t, 0, card)
}

func TestTypeReportsNoneForMissingKey(t *testing.T) {
	db := newTestDB(t)
	typ, err := db.Type([]byte("nope"))
	require.NoError(t, err)
	assert.Equal(t, store.TypeNone, typ)
}

func TestDelReportsActuallyRemovedCount(t *testing.T) {
	db := newTestDB(t)
	db.Set([]byte("a"), []byte("1"), store.SetOptions{})
	n, err := db.Del([][]byte{[]byte("a"), []byte("missing")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestExpireAndPersist(t *testing.T) {
	db := newTestDB(t)
	db.Set([]byte("k"), []byte("v"), store.SetOptions{})
	ok, err := db.Expire([]byte("k"), 100)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.Persist([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.Persist([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyCountAcrossTypes(t *testing.T) {
	db := newTestDB(t)
	db.Set([]byte("str"), []byte("v"), store.SetOptions{})
	db.HSet([]byte("h"), []byte("f"), []byte("v"))
	db.SAdd([]byte("s"), [][]byte{[]byte("m")})
	db.Multi()
	db.ZAdd([]byte("z"), []store.ZMember{{Member: []byte("a"), Score: 1}})
	require.NoError(t, db.Exec())

	kc, ok := db.(interface{ KeyCount() (int64, error) })
	require.True(t, ok)
	n, err := kc.KeyCount()
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestBitOps(t *testing.T) {
	db := newTestDB(t)
	old, err := db.SetBit([]byte("bk"), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, old)

	bit, err := db.GetBit([]byte("bk"), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, bit)

	count, err := db.BitCount([]byte("bk"), 0, 0, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
