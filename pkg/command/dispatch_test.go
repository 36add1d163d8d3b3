package command

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironkv/ironkv/pkg/resp"
	"github.com/ironkv/ironkv/pkg/storage/engine/kv"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

// memBackend is a tiny in-memory kv.Backend, used here purely to drive
// the dispatcher end to end without a real embedded engine.
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

func (m *memBackend) Iterator(prefix []byte) kv.Iterator {
	var keys []string
	p := string(prefix)
	for k := range m.data {
		if len(k) >= len(p) && k[:len(p)] == p {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{m: m, keys: keys, pos: -1}
}

func (m *memBackend) Close() error { return nil }

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

type fakeConn struct{ written [][]byte }

func (c *fakeConn) Write(b []byte) error { c.written = append(c.written, append([]byte{}, b...)); return nil }
func (c *fakeConn) Close() error         { return nil }

func newTestContext() *Context {
	st := kv.NewStore(newMemBackend())
	return NewContext(st, 16, &fakeConn{}, "127.0.0.1:0")
}

func TestDispatchUnknownCommand(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("bogus")})
	require.True(t, ctx.Reply.IsError())
	assert.Equal(t, "ERR unknown command 'bogus'", ctx.Reply.Str)
}

func TestDispatchWrongArity(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("get")})
	require.True(t, ctx.Reply.IsError())
	assert.Equal(t, "ERR wrong number of arguments for 'get' command", ctx.Reply.Str)
}

func TestDispatchSetGet(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("SET"), []byte("k"), []byte("v")})
	assert.Equal(t, resp.KindSimpleString, ctx.Reply.Kind)

	Dispatch(ctx, [][]byte{[]byte("GET"), []byte("k")})
	assert.Equal(t, resp.KindBulkString, ctx.Reply.Kind)
	assert.Equal(t, []byte("v"), ctx.Reply.Bulk)
}

func TestDispatchSetNXRespectsExisting(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("set"), []byte("k"), []byte("v"), []byte("NX")})
	assert.Equal(t, resp.KindSimpleString, ctx.Reply.Kind)

	Dispatch(ctx, [][]byte{[]byte("set"), []byte("k"), []byte("v2"), []byte("NX")})
	assert.Equal(t, resp.KindNil, ctx.Reply.Kind)
}

func TestDispatchDelCountsActuallyRemoved(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("set"), []byte("a"), []byte("1")})
	Dispatch(ctx, [][]byte{[]byte("del"), []byte("a"), []byte("missing")})
	require.Equal(t, resp.KindInteger, ctx.Reply.Kind)
	assert.EqualValues(t, 1, ctx.Reply.Int)
}

func TestDispatchHSetReportsCreationOnly(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("hset"), []byte("h"), []byte("f"), []byte("v1")})
	assert.EqualValues(t, 1, ctx.Reply.Int)

	Dispatch(ctx, [][]byte{[]byte("hset"), []byte("h"), []byte("f"), []byte("v2")})
	assert.EqualValues(t, 0, ctx.Reply.Int)
}

func TestDispatchZAddThenZRangeWithScores(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("zadd"), []byte("z"), []byte("1"), []byte("a"), []byte("2"), []byte("b")})
	require.Equal(t, resp.KindInteger, ctx.Reply.Kind)
	assert.EqualValues(t, 2, ctx.Reply.Int)

	Dispatch(ctx, [][]byte{[]byte("zrange"), []byte("z"), []byte("0"), []byte("-1"), []byte("WITHSCORES")})
	require.Equal(t, resp.KindArray, ctx.Reply.Kind)
	require.Len(t, ctx.Reply.Array, 4)
	assert.Equal(t, []byte("a"), ctx.Reply.Array[0].Bulk)
	assert.Equal(t, resp.KindDouble, ctx.Reply.Array[1].Kind)
	assert.Equal(t, float64(1), ctx.Reply.Array[1].Double)
}

func TestDispatchZAddRejectsBadScoreBeforeMutating(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("zadd"), []byte("z"), []byte("notanumber"), []byte("a")})
	require.True(t, ctx.Reply.IsError())

	Dispatch(ctx, [][]byte{[]byte("zcard"), []byte("z")})
	assert.EqualValues(t, 0, ctx.Reply.Int)
}

func TestDispatchPingEcho(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("ping")})
	assert.Equal(t, "PONG", ctx.Reply.Str)

	Dispatch(ctx, [][]byte{[]byte("echo"), []byte("hi")})
	assert.Equal(t, []byte("hi"), ctx.Reply.Bulk)
}

func TestDispatchSelectValidatesRange(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("select"), []byte("3")})
	assert.Equal(t, "OK", ctx.Reply.Str)
	assert.Equal(t, "3", ctx.CurrentDB)

	Dispatch(ctx, [][]byte{[]byte("select"), []byte("999")})
	assert.True(t, ctx.Reply.IsError())
}

func TestDispatchSetRejectsNegativeExpire(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("set"), []byte("k"), []byte("v"), []byte("EX"), []byte("-1")})
	require.True(t, ctx.Reply.IsError())
	assert.Equal(t, "ERR value is not an integer or out of range", ctx.Reply.Str)

	Dispatch(ctx, [][]byte{[]byte("set"), []byte("k"), []byte("v"), []byte("PX"), []byte("-1")})
	require.True(t, ctx.Reply.IsError())
	assert.Equal(t, "ERR value is not an integer or out of range", ctx.Reply.Str)
}

func TestDispatchSetRejectsConflictingPreconditions(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("set"), []byte("k"), []byte("v"), []byte("NX"), []byte("XX")})
	require.True(t, ctx.Reply.IsError())
	assert.Equal(t, "ERR syntax error", ctx.Reply.Str)

	Dispatch(ctx, [][]byte{[]byte("set"), []byte("k"), []byte("v"), []byte("NX"), []byte("EX"), []byte("10")})
	require.True(t, ctx.Reply.IsError())
	assert.Equal(t, "ERR syntax error", ctx.Reply.Str)
}

func TestDispatchSetAllowsTrailingPreconditionAfterExpire(t *testing.T) {
	ctx := newTestContext()
	Dispatch(ctx, [][]byte{[]byte("set"), []byte("k"), []byte("v"), []byte("EX"), []byte("10"), []byte("NX")})
	assert.Equal(t, resp.KindSimpleString, ctx.Reply.Kind)

	Dispatch(ctx, [][]byte{[]byte("set"), []byte("k"), []byte("v2"), []byte("EX"), []byte("10"), []byte("NX")})
	assert.Equal(t, resp.KindNil, ctx.Reply.Kind)
}

func TestDispatchQuitSignalsClose(t *testing.T) {
	ctx := newTestContext()
	ret := Dispatch(ctx, [][]byte{[]byte("quit")})
	assert.Equal(t, -1, ret)
	assert.True(t, ctx.Closing)
}
