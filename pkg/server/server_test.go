package server

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ironkv/ironkv/pkg/storage/engine/kv"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

// fakeBackend is a minimal in-memory kv.Backend for exercising the
// connection loop without a real embedded store.
type fakeBackend struct{ data map[string][]byte }

func newFakeBackend() *fakeBackend { return &fakeBackend{data: map[string][]byte{}} }

func (b *fakeBackend) Get(key []byte) ([]byte, error) {
	v, ok := b.data[string(key)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}
func (b *fakeBackend) Put(key, val []byte) error { b.data[string(key)] = val; return nil }
func (b *fakeBackend) Delete(key []byte) error   { delete(b.data, string(key)); return nil }
func (b *fakeBackend) Iterator(prefix []byte) kv.Iterator {
	return &fakeIterator{}
}
func (b *fakeBackend) Close() error { return nil }

type fakeIterator struct{}

func (*fakeIterator) Next() bool    { return false }
func (*fakeIterator) Key() []byte   { return nil }
func (*fakeIterator) Value() []byte { return nil }
func (*fakeIterator) Release()      {}

func TestServeHandlesPingOverPipe(t *testing.T) {
	st := kv.NewStore(newFakeBackend())
	srv := New(Config{Databases: 16, MaxClients: 10}, st, zap.NewNop())

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	go srv.serve(serverConn)

	_, err := clientConn.Write([]byte("PING\r\n"))
	require.NoError(t, err)

	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reply, err := bufio.NewReader(clientConn).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "+PONG\r\n", reply)
}
