// Package info serves a read-only introspection endpoint over
// fasthttp + fasthttprouter, separate from the RESP listener.
package info

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/buaazp/fasthttprouter"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/ironkv/ironkv/pkg/storage/store"
)

// Counter reports live server state the handler can't derive from
// the store alone.
type Counter interface {
	ConnectedClients() int64
}

// KeyCounter is implemented by storage engines that can report their
// per-database key count; engines that can't answer cheaply are
// reported as 0 keys rather than forcing a full keyspace scan on
// every /info poll.
type KeyCounter interface {
	KeyCount() (int64, error)
}

type databaseInfo struct {
	Index int   `json:"index"`
	Keys  int64 `json:"keys"`
}

type infoResponse struct {
	UptimeSeconds    int64          `json:"uptime_seconds"`
	ConnectedClients int64          `json:"connected_clients"`
	Databases        []databaseInfo `json:"databases"`
}

// Server runs the /info HTTP endpoint on its own address, separate
// from the RESP listener.
type Server struct {
	addr      string
	store     store.Store
	counter   Counter
	databases int
	started   time.Time
	log       *zap.Logger
	r         *fasthttprouter.Router
}

// New builds an info Server. databases is the configured database
// count, used to report keyspace size per numbered database. The
// uptime clock starts ticking from this call, which cmd/server makes
// once at process startup.
func New(addr string, st store.Store, counter Counter, databases int, log *zap.Logger) *Server {
	s := &Server{
		addr:      addr,
		store:     st,
		counter:   counter,
		databases: databases,
		started:   time.Now(),
		log:       log,
		r:         fasthttprouter.New(),
	}
	s.r.POST("/info", s.handle)
	s.r.GET("/info", s.handle)
	return s
}

// Run blocks serving the info endpoint until the listener fails or is
// closed by the process shutting down.
func (s *Server) Run() error {
	s.log.Info("info endpoint listening", zap.String("addr", s.addr))
	return fasthttp.ListenAndServe(s.addr, s.r.Handler)
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	resp := infoResponse{
		UptimeSeconds:    int64(time.Since(s.started).Seconds()),
		ConnectedClients: s.counter.ConnectedClients(),
	}
	for i := 0; i < s.databases; i++ {
		resp.Databases = append(resp.Databases, databaseInfo{Index: i, Keys: s.keyCount(i)})
	}

	body, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("failed to marshal info response", zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.Write(body)
}

func (s *Server) keyCount(i int) int64 {
	db := s.store.DB(strconv.Itoa(i))
	if c, ok := db.(KeyCounter); ok {
		if n, err := c.KeyCount(); err == nil {
			return n
		}
	}
	return 0
}
