package command

import (
	"github.com/ironkv/ironkv/pkg/resp"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

// Conn is the network write side a Context is bound to. The
// dispatcher never reads from it; pkg/server's connection loop is the
// only caller of Write, and calls Close only after the current
// reply's bytes are flushed.
type Conn interface {
	Write(b []byte) error
	Close() error
}

// Context is the per-connection state: the selected database, the
// reply slot, and the write-side handle. It is owned exclusively by
// the goroutine serving one connection.
type Context struct {
	Store      store.Store
	Databases  int // configured database count, for SELECT bounds checking
	CurrentDB  string
	Reply      resp.Reply
	Conn       Conn
	RemoteAddr string

	// OnPanic, if set, is called by Dispatch's recovery handler with
	// the recovered value so pkg/server can log it with connection
	// context. Dispatch always still turns the panic into a plain
	// "ERR internal error" reply regardless of whether this is set.
	OnPanic func(recovered interface{})

	// Closing is set by the QUIT/SHUTDOWN handlers to tell the
	// connection loop to close the socket after this reply is
	// flushed.
	Closing bool
}

// NewContext builds the context a freshly accepted connection starts
// with: database "0", unset reply.
func NewContext(st store.Store, databases int, conn Conn, remoteAddr string) *Context {
	return &Context{
		Store:      st,
		Databases:  databases,
		CurrentDB:  "0",
		Conn:       conn,
		RemoteAddr: remoteAddr,
	}
}

// DB returns the storage handle for the connection's currently
// selected database.
func (c *Context) DB() store.DB {
	return c.Store.DB(c.CurrentDB)
}
