// Package server runs the RESP TCP/unix listener loop: one goroutine
// per accepted connection, admission control at accept time, and a
// signal-driven shutdown that drains in-flight connections before
// returning.
package server

import (
	"bufio"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"github.com/ironkv/ironkv/pkg/command"
	"github.com/ironkv/ironkv/pkg/resp"
	"github.com/ironkv/ironkv/pkg/storage/store"
)

// Config is the subset of the loaded configuration the listener loop
// needs.
type Config struct {
	Bind       string
	Port       int
	UnixSocket string
	MaxClients int
	Databases  int
}

// Server owns the accepted-connection count and admission gate shared
// across every listener it runs.
type Server struct {
	cfg     Config
	store   store.Store
	log     *zap.Logger
	limiter *ipRateLimiter

	clients int64 // atomic

	mu        sync.Mutex
	listeners []net.Listener
	wg        sync.WaitGroup
	closeCh   chan struct{}
}

// New builds a Server bound to st, ready to Run its listeners.
func New(cfg Config, st store.Store, log *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		log:     log,
		limiter: newIPRateLimiter(10, 20),
		closeCh: make(chan struct{}),
	}
}

// ConnectedClients reports the current accepted-connection count, for
// the introspection endpoint.
func (s *Server) ConnectedClients() int64 {
	return atomic.LoadInt64(&s.clients)
}

// Run starts the TCP listener (and the unix listener, if configured)
// and blocks until a shutdown signal arrives and every connection has
// drained.
func (s *Server) Run() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		close(s.closeCh)
	}()

	tcpAddr := s.cfg.Bind + ":" + strconv.Itoa(s.cfg.Port)
	tl, err := net.Listen("tcp", tcpAddr)
	if err != nil {
		return err
	}
	s.addListener(tl)
	s.log.Info("listening", zap.String("addr", tcpAddr))
	s.wg.Add(1)
	go s.acceptLoop(tl)

	if s.cfg.UnixSocket != "" {
		os.Remove(s.cfg.UnixSocket)
		ul, err := net.Listen("unix", s.cfg.UnixSocket)
		if err != nil {
			return err
		}
		s.addListener(ul)
		s.log.Info("listening", zap.String("addr", s.cfg.UnixSocket))
		s.wg.Add(1)
		go s.acceptLoop(ul)
	}

	<-s.closeCh
	s.log.Info("shutting down")
	s.mu.Lock()
	for _, l := range s.listeners {
		l.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return nil
}

func (s *Server) addListener(l net.Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *Server) acceptLoop(l net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		if !s.admit(conn) {
			conn.Close()
			continue
		}
		atomic.AddInt64(&s.clients, 1)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serve(conn)
		}()
	}
}

// admit applies the per-IP rate limiter and the global max-clients
// ceiling before any RESP exchange happens on conn.
func (s *Server) admit(conn net.Conn) bool {
	if s.cfg.MaxClients > 0 && int(atomic.LoadInt64(&s.clients)) >= s.cfg.MaxClients {
		s.log.Warn("connection rejected: max clients reached", zap.String("remote", conn.RemoteAddr().String()))
		return false
	}
	host := remoteHost(conn)
	if !s.limiter.getLimiter(host).Allow() {
		s.log.Warn("connection rejected: rate limited", zap.String("remote", conn.RemoteAddr().String()))
		return false
	}
	return true
}

func (s *Server) serve(conn net.Conn) {
	defer func() {
		atomic.AddInt64(&s.clients, -1)
		conn.Close()
	}()

	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}

	remote := conn.RemoteAddr().String()
	connID := uuid.Must(uuid.NewV4()).String()
	s.log.Debug("connection accepted", zap.String("conn", connID), zap.String("remote", remote))
	defer s.log.Debug("connection closed", zap.String("conn", connID), zap.String("remote", remote))

	wc := &connWriter{conn: conn}
	ctx := command.NewContext(s.store, s.cfg.Databases, wc, remote)
	ctx.OnPanic = func(recovered interface{}) {
		s.log.Warn("handler panic recovered", zap.String("conn", connID), zap.Any("recovered", recovered), zap.String("remote", remote))
	}

	dec := resp.NewDecoder(bufio.NewReader(conn))
	for {
		frame, err := dec.ReadCommand()
		if err != nil {
			return
		}
		if len(frame) == 0 {
			continue
		}

		ret := command.Dispatch(ctx, frame)
		if !ctx.Reply.IsUnset() {
			if werr := wc.Write(resp.Encode(ctx.Reply)); werr != nil {
				return
			}
		}
		if ret < 0 || ctx.Closing {
			return
		}
	}
}

type connWriter struct {
	conn net.Conn
}

func (w *connWriter) Write(b []byte) error {
	_, err := w.conn.Write(b)
	return err
}

func (w *connWriter) Close() error {
	return w.conn.Close()
}

func remoteHost(conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	return host
}
