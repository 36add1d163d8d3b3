// Package store defines the abstract storage contract the command
// dispatcher is written against. Two concrete engines satisfy it: a
// Badger-backed LSM engine and a goleveldb-backed engine (see
// pkg/storage/engine).
package store

import "errors"

// ErrNotFound is returned when a key or field the caller asked for is
// absent. Handlers translate it into a RESP Nil reply or a 0 count,
// per command convention.
var ErrNotFound = errors.New("store: not found")

// ErrWrongType reports a key that carries a different logical type
// than the operation requires. Handlers translate it into a RESP
// WRONGTYPE error. The kv engine never returns it: each type lives in
// its own namespace, so HGET on a string key just finds no field.
var ErrWrongType = errors.New("store: wrong type")

// ErrNotInteger / ErrNotFloat are returned by the numeric commands
// (INCR family) when the stored value can't be parsed as the type the
// operation needs.
var ErrNotInteger = errors.New("store: value is not an integer or out of range")
var ErrNotFloat = errors.New("store: value is not a float or out of range")

// KeyType is the taxonomy TYPE reports. The kv engine does not stop
// one key name from holding values of several types in a database at
// once (say a string and a hash); TYPE then reports the first present
// in the order string, hash, set, zset.
type KeyType string

const (
	TypeNone   KeyType = "none"
	TypeString KeyType = "string"
	TypeHash   KeyType = "hash"
	TypeSet    KeyType = "set"
	TypeZSet   KeyType = "zset"
	TypeList   KeyType = "list"
	TypeTable  KeyType = "table"
)

// Precondition is the tri-valued flag SET's NX/XX clauses translate
// into: require the key be absent, allow either, or require it be
// present.
type Precondition int

const (
	PrecondAny Precondition = 0
	PrecondNX  Precondition = -1
	PrecondXX  Precondition = 1
)

// SetOptions carries SET's optional EX/PX/NX/XX clauses through to the
// storage layer.
type SetOptions struct {
	Precondition  Precondition
	ExpireSeconds int64 // valid when HasExpire && !Millis
	ExpireMillis  int64 // valid when HasExpire && Millis
	HasExpire     bool
	Millis        bool
}

// ZMember is one (member, score) pair, used both as ZAdd's input and
// ZRange's output element.
type ZMember struct {
	Member []byte
	Score  float64
}

// Store opens the numbered, named databases the dispatcher addresses
// by the connection's current_database string. Implementations own a
// single physical handle (one Badger or goleveldb instance) and
// namespace every key by the logical database name internally.
type Store interface {
	// DB returns the handle for the named logical database, opening
	// it on first use. Repeated calls with the same name return
	// handles that share state, so that one connection's Multi/Exec
	// bracket excludes another connection's concurrent write to the
	// same database.
	DB(name string) DB
	Close() error
}

// DB is the per-database surface the command handlers call into. All
// key/field/member arguments are taken and returned as raw bytes; the
// string<->number conversions command handlers need are not the
// store's concern.
type DB interface {
	// Strings
	Get(key []byte) ([]byte, error)
	Set(key, val []byte, opts SetOptions) (bool, error)
	SetRange(key []byte, offset int64, val []byte) (int64, error)
	Append(key, val []byte) (int64, error)
	Strlen(key []byte) (int64, error)
	GetRange(key []byte, start, end int64) ([]byte, error)
	GetSet(key, val []byte) ([]byte, error)
	MGet(keys [][]byte) ([][]byte, error)
	MSet(pairs [][2][]byte) error
	MSetNX(pairs [][2][]byte) (bool, error)
	IncrBy(key []byte, delta int64) (int64, error)
	IncrByFloat(key []byte, delta float64) (float64, error)

	// Bits
	GetBit(key []byte, offset int64) (int, error)
	SetBit(key []byte, offset int64, bit int) (int, error)
	BitCount(key []byte, start, end int64, hasRange bool) (int64, error)
	BitOp(op string, dst []byte, srcs [][]byte) (int64, error)

	// Hashes
	HSet(key, field, val []byte) (bool, error)
	HSetNX(key, field, val []byte) (bool, error)
	HGet(key, field []byte) ([]byte, error)
	HMSet(key []byte, pairs [][2][]byte) error
	HMGet(key []byte, fields [][]byte) ([][]byte, error)
	HGetAll(key []byte) ([][2][]byte, error)
	HKeys(key []byte) ([][]byte, error)
	HVals(key []byte) ([][]byte, error)
	HLen(key []byte) (int64, error)
	HExists(key, field []byte) (bool, error)
	HDel(key []byte, fields [][]byte) (int64, error)
	HIncrBy(key, field []byte, delta int64) (int64, error)
	HIncrByFloat(key, field []byte, delta float64) (float64, error)

	// Sets
	SAdd(key []byte, members [][]byte) (int64, error)
	SCard(key []byte) (int64, error)
	SIsMember(key, member []byte) (bool, error)
	SMembers(key []byte) ([][]byte, error)
	SMove(src, dst, member []byte) (bool, error)
	SPop(key []byte, count int64) ([][]byte, error)
	SRandMember(key []byte, count int64) ([][]byte, error)
	SRem(key []byte, members [][]byte) (int64, error)
	SDiff(keys [][]byte) ([][]byte, error)
	SDiffStore(dst []byte, keys [][]byte) (int64, error)
	SInter(keys [][]byte) ([][]byte, error)
	SInterStore(dst []byte, keys [][]byte) (int64, error)
	SUnion(keys [][]byte) ([][]byte, error)
	SUnionStore(dst []byte, keys [][]byte) (int64, error)

	// Sorted sets
	ZAdd(key []byte, members []ZMember) (int64, error)
	ZCard(key []byte) (int64, error)
	ZCount(key []byte, min, max float64) (int64, error)
	ZIncrBy(key, member []byte, delta float64) (float64, error)
	ZRange(key []byte, start, stop int64) ([]ZMember, error)
	ZScore(key, member []byte) (float64, error)

	// Keyspace
	Type(key []byte) (KeyType, error)
	Exists(keys [][]byte) (int64, error)
	Del(keys [][]byte) (int64, error)
	Persist(key []byte) (bool, error)
	Expire(key []byte, seconds int64) (bool, error)
	ExpireAt(key []byte, unixSeconds int64) (bool, error)

	// Batch bracketing. Exec/Discard must always be called after a
	// matching Multi, even on an internal error, or the database's
	// writers stay blocked behind the held bracket.
	Multi()
	Exec() error
	Discard()
}
